package repository

import (
	"time"

	"github.com/memocorner/repair-desk/internal/model"
	"github.com/shopspring/decimal"
)

type TicketEntity struct {
	ID             int64            `db:"id"              gorm:"primaryKey;autoIncrement;column:id"`
	BranchID       int64            `db:"branch_id"       gorm:"column:branch_id;not null;index"`
	CustomerID     int64            `db:"customer_id"     gorm:"column:customer_id;not null;index"`
	DeviceID       int64            `db:"device_id"       gorm:"column:device_id;not null"`
	ReceiptNo      string           `db:"receipt_no"      gorm:"column:receipt_no;not null;uniqueIndex"`
	IssueDesc      string           `db:"issue_desc"      gorm:"column:issue_desc;not null"`
	WorkRequest    string           `db:"work_request"    gorm:"column:work_request"`
	EstAmount      decimal.Decimal  `db:"est_amount"      gorm:"column:est_amount;type:numeric;not null"`
	ApprovedAmount *decimal.Decimal `db:"approved_amount" gorm:"column:approved_amount;type:numeric"`
	DeviceState    string           `db:"device_state"    gorm:"column:device_state"`
	Status         string           `db:"status"          gorm:"column:status;not null;index"`
	Passcode       string           `db:"otp_code"        gorm:"column:otp_code;not null"`
	WhatsAppLink   string           `db:"whatsapp_link"   gorm:"column:whatsapp_link"`
	PaidAmount     decimal.Decimal  `db:"paid_amount"     gorm:"column:paid_amount;type:numeric;not null;default:0"`
	PaidFlag       bool             `db:"paid_flag"       gorm:"column:paid_flag;not null;default:false"`
	PaymentMethod  string           `db:"payment_method"  gorm:"column:payment_method"`
	CreatedAt      time.Time        `db:"created_at"      gorm:"column:created_at;autoCreateTime"`
	PaidAt         *time.Time       `db:"paid_at"         gorm:"column:paid_at"`
	DeliveredAt    *time.Time       `db:"delivered_at"    gorm:"column:delivered_at"`
}

func (TicketEntity) TableName() string { return "receipts" }

func toTicketEntity(t *model.Ticket) *TicketEntity {
	if t == nil {
		return nil
	}
	return &TicketEntity{
		ID:             t.ID,
		BranchID:       t.BranchID,
		CustomerID:     t.CustomerID,
		DeviceID:       t.DeviceID,
		ReceiptNo:      t.ReceiptNo,
		IssueDesc:      t.IssueDesc,
		WorkRequest:    t.WorkRequest,
		EstAmount:      t.EstAmount,
		ApprovedAmount: t.ApprovedAmount,
		DeviceState:    t.DeviceState,
		Status:         string(t.Status),
		Passcode:       t.Passcode,
		WhatsAppLink:   t.WhatsAppLink,
		PaidAmount:     t.PaidAmount,
		PaidFlag:       t.Paid,
		PaymentMethod:  t.PaymentMethod,
		CreatedAt:      t.CreatedAt,
		PaidAt:         t.PaidAt,
		DeliveredAt:    t.DeliveredAt,
	}
}

func toTicketModel(e *TicketEntity) *model.Ticket {
	if e == nil {
		return nil
	}
	return &model.Ticket{
		ID:             e.ID,
		BranchID:       e.BranchID,
		CustomerID:     e.CustomerID,
		DeviceID:       e.DeviceID,
		ReceiptNo:      e.ReceiptNo,
		IssueDesc:      e.IssueDesc,
		WorkRequest:    e.WorkRequest,
		EstAmount:      e.EstAmount,
		ApprovedAmount: e.ApprovedAmount,
		DeviceState:    e.DeviceState,
		Status:         model.TicketStatus(e.Status),
		Passcode:       e.Passcode,
		WhatsAppLink:   e.WhatsAppLink,
		PaidAmount:     e.PaidAmount,
		Paid:           e.PaidFlag,
		PaymentMethod:  e.PaymentMethod,
		CreatedAt:      e.CreatedAt,
		PaidAt:         e.PaidAt,
		DeliveredAt:    e.DeliveredAt,
	}
}

func toTicketModels(entities []*TicketEntity) []*model.Ticket {
	if entities == nil {
		return nil
	}
	models := make([]*model.Ticket, len(entities))
	for i, e := range entities {
		models[i] = toTicketModel(e)
	}
	return models
}
