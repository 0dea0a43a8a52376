package repository

import (
	"context"

	"github.com/memocorner/repair-desk/internal/model"
	"github.com/memocorner/repair-desk/pkg/pg"
)

type ActivityRepository struct {
	*pg.DB
}

func NewActivityRepository(db *pg.DB) *ActivityRepository {
	return &ActivityRepository{
		db,
	}
}

func (r *ActivityRepository) Append(ctx context.Context, a *model.ActivityLogEntry) (*model.ActivityLogEntry, error) {
	entity := toActivityEntity(a)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toActivityModel(entity), nil
}

func (r *ActivityRepository) ListByTicket(ctx context.Context, ticketID int64) ([]*model.ActivityLogEntry, error) {
	var entities []*ActivityLogEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("id").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toActivityModels(entities), nil
}
