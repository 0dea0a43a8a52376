package repository

import (
	"time"

	"github.com/memocorner/repair-desk/internal/model"
)

type StatusHistoryEntity struct {
	ID         int64     `db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	TicketID   int64     `db:"ticket_id"   gorm:"column:ticket_id;not null;index"`
	FromStatus string    `db:"from_status" gorm:"column:from_status;not null"`
	ToStatus   string    `db:"to_status"   gorm:"column:to_status;not null"`
	At         time.Time `db:"at"          gorm:"column:at;autoCreateTime"`
	ByUsername string    `db:"by_username" gorm:"column:by_username"`
}

func (StatusHistoryEntity) TableName() string { return "status_history" }

func toHistoryEntity(h *model.StatusHistoryEntry) *StatusHistoryEntity {
	if h == nil {
		return nil
	}
	return &StatusHistoryEntity{
		ID:         h.ID,
		TicketID:   h.TicketID,
		FromStatus: string(h.FromStatus),
		ToStatus:   string(h.ToStatus),
		At:         h.At,
		ByUsername: h.ByUsername,
	}
}

func toHistoryModel(e *StatusHistoryEntity) *model.StatusHistoryEntry {
	if e == nil {
		return nil
	}
	return &model.StatusHistoryEntry{
		ID:         e.ID,
		TicketID:   e.TicketID,
		FromStatus: model.TicketStatus(e.FromStatus),
		ToStatus:   model.TicketStatus(e.ToStatus),
		At:         e.At,
		ByUsername: e.ByUsername,
	}
}

func toHistoryModels(entities []*StatusHistoryEntity) []*model.StatusHistoryEntry {
	if entities == nil {
		return nil
	}
	models := make([]*model.StatusHistoryEntry, len(entities))
	for i, e := range entities {
		models[i] = toHistoryModel(e)
	}
	return models
}
