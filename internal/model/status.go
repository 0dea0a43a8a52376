package model

// TicketStatus is the lifecycle state of a repair ticket.
type TicketStatus string

const (
	StatusNew             TicketStatus = "new"
	StatusInspecting      TicketStatus = "inspecting"
	StatusPendingApproval TicketStatus = "pending-approval"
	StatusInRepair        TicketStatus = "in-repair"
	StatusReady           TicketStatus = "ready"
	StatusDelivered       TicketStatus = "delivered"
	StatusCanceled        TicketStatus = "canceled"
)

// StatusOrder is the display/reporting order of the fixed status set.
var StatusOrder = []TicketStatus{
	StatusNew,
	StatusInspecting,
	StatusPendingApproval,
	StatusInRepair,
	StatusReady,
	StatusDelivered,
	StatusCanceled,
}

func (s TicketStatus) Valid() bool {
	for _, st := range StatusOrder {
		if s == st {
			return true
		}
	}
	return false
}
