package repository

import (
	"context"
	"errors"
	"time"

	"github.com/memocorner/repair-desk/internal/model"
	"github.com/memocorner/repair-desk/pkg/pg"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrTicketNotFound is returned when a receipt does not exist.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrDuplicateReceiptNo is returned when a receipt number collides with an
	// existing row; callers regenerate the number and retry.
	ErrDuplicateReceiptNo = errors.New("duplicate receipt number")
)

type TicketRepository struct {
	*pg.DB
}

func NewTicketRepository(db *pg.DB) *TicketRepository {
	return &TicketRepository{
		db,
	}
}

func (r *TicketRepository) Create(ctx context.Context, t *model.Ticket) (*model.Ticket, error) {
	entity := toTicketEntity(t)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateReceiptNo
		}
		return nil, err
	}

	return toTicketModel(entity), nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*model.Ticket, error) {
	var entity TicketEntity
	err := r.Read(ctx).WithContext(ctx).First(&entity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	return toTicketModel(&entity), nil
}

func (r *TicketRepository) GetByReceiptNo(ctx context.Context, receiptNo string) (*model.Ticket, error) {
	var entity TicketEntity
	err := r.Read(ctx).WithContext(ctx).First(&entity, "receipt_no = ?", receiptNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	return toTicketModel(&entity), nil
}

// Update persists the full ticket snapshot. The row must already exist.
func (r *TicketRepository) Update(ctx context.Context, t *model.Ticket) (*model.Ticket, error) {
	entity := toTicketEntity(t)

	res := r.Write(ctx).WithContext(ctx).
		Model(&TicketEntity{}).
		Where("id = ?", entity.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(entity)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrTicketNotFound
	}
	return toTicketModel(entity), nil
}

// LatestReceiptNo returns the receipt number of the most recently created
// ticket in the branch, or "" when the branch has no tickets yet.
func (r *TicketRepository) LatestReceiptNo(ctx context.Context, branchID int64) (string, error) {
	var entity TicketEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("branch_id = ?", branchID).
		Order("id DESC").
		First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return entity.ReceiptNo, nil
}

func (r *TicketRepository) List(ctx context.Context, f model.TicketFilter) ([]*model.Ticket, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&TicketEntity{})

	if f.BranchID != nil {
		q = q.Where("branch_id = ?", *f.BranchID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.Paid != nil {
		q = q.Where("paid_flag = ?", *f.Paid)
	}
	if f.Phone != nil && *f.Phone != "" {
		q = q.Joins("JOIN customers ON customers.id = receipts.customer_id").
			Where("customers.phone = ?", *f.Phone)
	}
	if f.Search != nil && *f.Search != "" {
		like := "%" + *f.Search + "%"
		q = q.Where("receipt_no LIKE ? OR issue_desc LIKE ?", like, like)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	// Count before pagination
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at"
	if f.Desc {
		order += " DESC"
	} else {
		order += " ASC"
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var entities []*TicketEntity
	if err := q.Order(order).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toTicketModels(entities), total, nil
}

// Revenue sums the paid amounts of paid receipts, optionally scoped to one
// branch and a creation time range.
func (r *TicketRepository) Revenue(ctx context.Context, branchID *int64, from, to *time.Time) (decimal.Decimal, error) {
	q := r.Read(ctx).WithContext(ctx).
		Model(&TicketEntity{}).
		Where("paid_flag = ?", true)
	if branchID != nil {
		q = q.Where("branch_id = ?", *branchID)
	}
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at < ?", *to)
	}

	var total decimal.Decimal
	if err := q.Select("COALESCE(SUM(paid_amount), 0)").Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// StatusCounts returns the number of tickets per status for the dashboard.
// Statuses with no tickets are omitted.
func (r *TicketRepository) StatusCounts(ctx context.Context, branchID *int64) ([]model.StatusCount, error) {
	q := r.Read(ctx).WithContext(ctx).
		Model(&TicketEntity{}).
		Select("status, COUNT(*) AS count").
		Group("status")
	if branchID != nil {
		q = q.Where("branch_id = ?", *branchID)
	}

	var counts []model.StatusCount
	if err := q.Order("status").Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}
