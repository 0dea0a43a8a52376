package repository

import (
	"time"

	"github.com/memocorner/repair-desk/internal/model"
)

type ActivityLogEntity struct {
	ID         int64     `db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	TicketID   int64     `db:"ticket_id"   gorm:"column:ticket_id;not null;index"`
	Kind       string    `db:"kind"        gorm:"column:kind;not null"`
	Info       string    `db:"info"        gorm:"column:info"`
	At         time.Time `db:"at"          gorm:"column:at;autoCreateTime"`
	ByUsername string    `db:"by_username" gorm:"column:by_username"`
}

func (ActivityLogEntity) TableName() string { return "activity_log" }

func toActivityEntity(a *model.ActivityLogEntry) *ActivityLogEntity {
	if a == nil {
		return nil
	}
	return &ActivityLogEntity{
		ID:         a.ID,
		TicketID:   a.TicketID,
		Kind:       a.Kind,
		Info:       a.Info,
		At:         a.At,
		ByUsername: a.ByUsername,
	}
}

func toActivityModel(e *ActivityLogEntity) *model.ActivityLogEntry {
	if e == nil {
		return nil
	}
	return &model.ActivityLogEntry{
		ID:         e.ID,
		TicketID:   e.TicketID,
		Kind:       e.Kind,
		Info:       e.Info,
		At:         e.At,
		ByUsername: e.ByUsername,
	}
}

func toActivityModels(entities []*ActivityLogEntity) []*model.ActivityLogEntry {
	if entities == nil {
		return nil
	}
	models := make([]*model.ActivityLogEntry, len(entities))
	for i, e := range entities {
		models[i] = toActivityModel(e)
	}
	return models
}
