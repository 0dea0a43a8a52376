package repository

import (
	"context"
	"testing"

	"github.com/memocorner/repair-desk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerRepository_UpsertByPhone(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	t.Run("creates when phone is unknown", func(t *testing.T) {
		c, err := repo.UpsertByPhone(ctx, &model.Customer{Name: "Ahmed", Phone: "966501234567"})
		require.NoError(t, err)
		assert.NotZero(t, c.ID)
		assert.Equal(t, "Ahmed", c.Name)
	})

	t.Run("reuses the row on repeat phone", func(t *testing.T) {
		first, err := repo.UpsertByPhone(ctx, &model.Customer{Name: "Sara", Phone: "966507654321"})
		require.NoError(t, err)

		second, err := repo.UpsertByPhone(ctx, &model.Customer{Name: "Sara", Phone: "966507654321"})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("refreshes the name when it changed", func(t *testing.T) {
		first, err := repo.UpsertByPhone(ctx, &model.Customer{Name: "Old Name", Phone: "966500000001"})
		require.NoError(t, err)

		second, err := repo.UpsertByPhone(ctx, &model.Customer{Name: "New Name", Phone: "966500000001"})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "New Name", second.Name)

		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "New Name", got.Name)
	})
}

func TestCustomerRepository_GetByPhone(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	_, err := repo.GetByPhone(ctx, "966500000000")
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	created, err := repo.UpsertByPhone(ctx, &model.Customer{Name: "Ahmed", Phone: "966500000000"})
	require.NoError(t, err)

	got, err := repo.GetByPhone(ctx, "966500000000")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}
