package repository

import (
	"time"

	"github.com/memocorner/repair-desk/internal/model"
)

type CustomerEntity struct {
	ID        int64     `db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	Name      string    `db:"name"       gorm:"column:name;not null"`
	Phone     string    `db:"phone"      gorm:"column:phone;not null;uniqueIndex"`
	Notes     string    `db:"notes"      gorm:"column:notes"`
	CreatedAt time.Time `db:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (CustomerEntity) TableName() string { return "customers" }

func toCustomerEntity(c *model.Customer) *CustomerEntity {
	if c == nil {
		return nil
	}
	return &CustomerEntity{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
	}
}

func toCustomerModel(e *CustomerEntity) *model.Customer {
	if e == nil {
		return nil
	}
	return &model.Customer{
		ID:        e.ID,
		Name:      e.Name,
		Phone:     e.Phone,
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
	}
}
