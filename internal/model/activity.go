package model

import "time"

// Activity log kinds. Free-form kinds are allowed; these are the ones the
// services write.
const (
	ActivityCreate         = "CREATE"
	ActivityPayment        = "PAYMENT"
	ActivityStatusChange   = "STATUS"
	ActivityDelivery       = "DELIVERY"
	ActivityDispatch       = "DISPATCH"
	ActivityDispatchFailed = "DISPATCH_FAILED"
)

// ActivityLogEntry is an append-only record of a notable action on a ticket.
type ActivityLogEntry struct {
	ID         int64     `json:"id"`
	TicketID   int64     `json:"ticket_id"`
	Kind       string    `json:"kind"`
	Info       string    `json:"info"`
	At         time.Time `json:"at"`
	ByUsername string    `json:"by_username"`
}
