package repository

import (
	"context"

	"github.com/memocorner/repair-desk/internal/model"
	"github.com/memocorner/repair-desk/pkg/pg"
)

type HistoryRepository struct {
	*pg.DB
}

func NewHistoryRepository(db *pg.DB) *HistoryRepository {
	return &HistoryRepository{
		db,
	}
}

func (r *HistoryRepository) Append(ctx context.Context, h *model.StatusHistoryEntry) (*model.StatusHistoryEntry, error) {
	entity := toHistoryEntity(h)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toHistoryModel(entity), nil
}

func (r *HistoryRepository) ListByTicket(ctx context.Context, ticketID int64) ([]*model.StatusHistoryEntry, error) {
	var entities []*StatusHistoryEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("id").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toHistoryModels(entities), nil
}
