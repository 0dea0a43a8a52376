package model

import "time"

// StatusHistoryEntry records one accepted status transition. Entries are
// append-only and never mutated. FromStatus is empty only for the entry
// written at ticket creation.
type StatusHistoryEntry struct {
	ID         int64        `json:"id"`
	TicketID   int64        `json:"ticket_id"`
	FromStatus TicketStatus `json:"from_status,omitempty"`
	ToStatus   TicketStatus `json:"to_status"`
	At         time.Time    `json:"at"`
	ByUsername string       `json:"by_username"`
}
