package model

import "time"

// NotificationKind identifies which lifecycle event a message describes.
type NotificationKind string

const (
	NotifyIntake    NotificationKind = "intake"
	NotifyReady     NotificationKind = "ready"
	NotifyDelivered NotificationKind = "delivered"
)

// Notification is a composed, channel-agnostic message queued for the
// dispatcher. Text is final; the dispatcher only normalizes the phone and
// hands the message to the messaging channel.
type Notification struct {
	ID        string           `json:"id"` // uuid, assigned at publish
	TicketID  int64            `json:"ticket_id"`
	ReceiptNo string           `json:"receipt_no"`
	Kind      NotificationKind `json:"kind"`
	Phone     string           `json:"phone"`
	Text      string           `json:"text"`
	CreatedAt time.Time        `json:"created_at"`
}
