package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/memocorner/repair-desk/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTicket(branchID int64, receiptNo string, status model.TicketStatus) *model.Ticket {
	return &model.Ticket{
		BranchID:   branchID,
		CustomerID: 1,
		DeviceID:   1,
		ReceiptNo:  receiptNo,
		IssueDesc:  "screen cracked",
		EstAmount:  decimal.NewFromInt(100),
		PaidAmount: decimal.Zero,
		Status:     status,
		Passcode:   "123456",
	}
}

func TestTicketRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewTicketRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newTestTicket(1, "10001", model.StatusNew))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.NotZero(t, created.CreatedAt)

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "10001", got.ReceiptNo)
		assert.Equal(t, model.StatusNew, got.Status)
		assert.Equal(t, "123456", got.Passcode)
	})

	t.Run("get by receipt number", func(t *testing.T) {
		got, err := repo.GetByReceiptNo(ctx, "10001")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("missing ticket", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 99999)
		assert.ErrorIs(t, err, ErrTicketNotFound)

		_, err = repo.GetByReceiptNo(ctx, "does-not-exist")
		assert.ErrorIs(t, err, ErrTicketNotFound)
	})
}

func TestTicketRepository_Create_DuplicateReceiptNo(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewTicketRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newTestTicket(1, "A0001", model.StatusNew))
	require.NoError(t, err)

	// a concurrent intake that derived the same number must get the
	// sentinel so the caller can regenerate and retry
	_, err = repo.Create(ctx, newTestTicket(1, "A0001", model.StatusNew))
	assert.ErrorIs(t, err, ErrDuplicateReceiptNo)
}

func TestTicketRepository_Update(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewTicketRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newTestTicket(1, "10001", model.StatusNew))
	require.NoError(t, err)

	t.Run("persists full snapshot", func(t *testing.T) {
		appr := decimal.NewFromInt(80)
		created.Status = model.StatusInRepair
		created.ApprovedAmount = &appr
		created.PaidAmount = decimal.NewFromInt(50)

		updated, err := repo.Update(ctx, created)
		require.NoError(t, err)
		assert.Equal(t, model.StatusInRepair, updated.Status)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusInRepair, got.Status)
		require.NotNil(t, got.ApprovedAmount)
		assert.True(t, got.ApprovedAmount.Equal(appr))
		assert.True(t, got.PaidAmount.Equal(decimal.NewFromInt(50)))
	})

	t.Run("clears nullable fields", func(t *testing.T) {
		created.ApprovedAmount = nil
		created.PaidAt = nil

		_, err := repo.Update(ctx, created)
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, got.ApprovedAmount)
		assert.Nil(t, got.PaidAt)
	})

	t.Run("missing row", func(t *testing.T) {
		ghost := newTestTicket(1, "10099", model.StatusNew)
		ghost.ID = 99999
		_, err := repo.Update(ctx, ghost)
		assert.ErrorIs(t, err, ErrTicketNotFound)
	})
}

func TestTicketRepository_LatestReceiptNo(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewTicketRepository(db)
	ctx := context.Background()

	t.Run("empty branch", func(t *testing.T) {
		latest, err := repo.LatestReceiptNo(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "", latest)
	})

	t.Run("returns most recent per branch", func(t *testing.T) {
		for _, no := range []string{"10001", "10002", "10003"} {
			_, err := repo.Create(ctx, newTestTicket(1, no, model.StatusNew))
			require.NoError(t, err)
		}
		_, err := repo.Create(ctx, newTestTicket(2, "20001", model.StatusNew))
		require.NoError(t, err)

		latest, err := repo.LatestReceiptNo(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "10003", latest)

		latest, err = repo.LatestReceiptNo(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "20001", latest)
	})
}

func TestTicketRepository_List(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewTicketRepository(db)
	ctx := context.Background()

	seed := []struct {
		branch  int64
		receipt string
		status  model.TicketStatus
		paid    bool
	}{
		{1, "10001", model.StatusNew, false},
		{1, "10002", model.StatusReady, true},
		{1, "10003", model.StatusDelivered, true},
		{2, "20001", model.StatusNew, false},
	}
	for _, s := range seed {
		tk := newTestTicket(s.branch, s.receipt, s.status)
		tk.Paid = s.paid
		_, err := repo.Create(ctx, tk)
		require.NoError(t, err)
	}

	t.Run("filter by branch", func(t *testing.T) {
		branchID := int64(1)
		tickets, total, err := repo.List(ctx, model.TicketFilter{BranchID: &branchID})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, tickets, 3)
	})

	t.Run("filter by status set", func(t *testing.T) {
		tickets, total, err := repo.List(ctx, model.TicketFilter{
			Statuses: []model.TicketStatus{model.StatusReady, model.StatusDelivered},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, tk := range tickets {
			assert.Contains(t, []model.TicketStatus{model.StatusReady, model.StatusDelivered}, tk.Status)
		}
	})

	t.Run("filter by paid flag", func(t *testing.T) {
		unpaid := false
		_, total, err := repo.List(ctx, model.TicketFilter{Paid: &unpaid})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("search matches receipt number", func(t *testing.T) {
		search := "2000"
		tickets, total, err := repo.List(ctx, model.TicketFilter{Search: &search})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "20001", tickets[0].ReceiptNo)
	})

	t.Run("pagination", func(t *testing.T) {
		tickets, total, err := repo.List(ctx, model.TicketFilter{Limit: 2, Offset: 2, Desc: true})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, tickets, 2)
	})
}

func TestTicketRepository_StatusCounts(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewTicketRepository(db)
	ctx := context.Background()

	for i, s := range []model.TicketStatus{model.StatusNew, model.StatusNew, model.StatusReady} {
		_, err := repo.Create(ctx, newTestTicket(1, fmt.Sprintf("100%02d", i+1), s))
		require.NoError(t, err)
	}

	counts, err := repo.StatusCounts(ctx, nil)
	require.NoError(t, err)

	byStatus := map[model.TicketStatus]int64{}
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}
	assert.Equal(t, int64(2), byStatus[model.StatusNew])
	assert.Equal(t, int64(1), byStatus[model.StatusReady])
}
