package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Ticket is one repair job record spanning intake to delivery. Amount fields
// are mutated only by the payment ledger; status and the delivered timestamp
// only by the state machine. Rows are never hard-deleted; cancellation is a
// status value.
type Ticket struct {
	ID             int64            `json:"id"`
	BranchID       int64            `json:"branch_id"`
	CustomerID     int64            `json:"customer_id"`
	DeviceID       int64            `json:"device_id"`
	ReceiptNo      string           `json:"receipt_no"`
	IssueDesc      string           `json:"issue_desc"`
	WorkRequest    string           `json:"work_request"`
	EstAmount      decimal.Decimal  `json:"est_amount"`
	ApprovedAmount *decimal.Decimal `json:"approved_amount,omitempty"`
	DeviceState    string           `json:"device_state,omitempty"` // condition note captured at intake
	Status         TicketStatus     `json:"status"`
	Passcode       string           `json:"-"` // 6 digits, assigned once at creation
	WhatsAppLink   string           `json:"whatsapp_link,omitempty"`
	PaidAmount     decimal.Decimal  `json:"paid_amount"`
	Paid           bool             `json:"paid"`
	PaymentMethod  string           `json:"payment_method,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	PaidAt         *time.Time       `json:"paid_at,omitempty"`
	DeliveredAt    *time.Time       `json:"delivered_at,omitempty"`
}

// WarrantyUntil derives the warranty window end from the creation timestamp.
// It is never stored.
func (t *Ticket) WarrantyUntil(days int) time.Time {
	return t.CreatedAt.Add(time.Duration(days) * 24 * time.Hour)
}

func (t *Ticket) WarrantyValid(days int, now time.Time) bool {
	return !now.After(t.WarrantyUntil(days))
}

// IntakeRequest is the input for creating a customer+device+ticket unit.
type IntakeRequest struct {
	BranchID     int64
	CustomerName string
	Phone        string
	DeviceType   string
	Brand        string
	Model        string
	SerialIMEI   string
	Color        string
	Accessories  string
	DeviceState  string
	IssueDesc    string
	WorkRequest  string
	EstAmount    decimal.Decimal
}

func (p IntakeRequest) Validate() error {
	if p.BranchID == 0 {
		return errors.New("branch_id is required")
	}
	if p.CustomerName == "" {
		return errors.New("customer name is required")
	}
	if p.Phone == "" {
		return errors.New("phone is required")
	}
	if p.DeviceType == "" || p.Brand == "" || p.Model == "" {
		return errors.New("device type, brand and model are required")
	}
	if p.IssueDesc == "" {
		return errors.New("issue description is required")
	}
	if p.EstAmount.IsNegative() {
		return errors.New("estimated amount must not be negative")
	}
	return nil
}

// PaymentRequest updates a ticket's approved/paid amounts.
type PaymentRequest struct {
	Approved decimal.Decimal
	Paid     decimal.Decimal
	Method   string
}

func (p PaymentRequest) Validate() error {
	if p.Approved.IsNegative() || p.Paid.IsNegative() {
		return errors.New("amounts must not be negative")
	}
	return nil
}

// TicketFilter controls List queries.
type TicketFilter struct {
	BranchID *int64
	Statuses []TicketStatus // IN (...)
	Paid     *bool
	Phone    *string // normalized digits, equals
	Search   *string // receipt_no prefix match
	From     *time.Time
	To       *time.Time
	Limit    int  // default 50
	Offset   int  // for pagination
	Desc     bool // order by created_at
}

// StatusCount is a dashboard aggregate per status.
type StatusCount struct {
	Status TicketStatus `json:"status"`
	Count  int64        `json:"count"`
}
