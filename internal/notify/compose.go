package notify

import (
	"fmt"
	"strings"

	"github.com/memocorner/repair-desk/internal/model"
)

// Composer renders the three customer-facing message kinds from ticket
// fields. Rendering is pure; field order is fixed so downstream channels
// display messages predictably. Destination phone handling belongs to the
// dispatcher, not here.
type Composer struct {
	Company string
}

func NewComposer(company string) *Composer {
	return &Composer{Company: company}
}

// Intake is the message sent when a ticket is opened. It carries everything
// the customer needs to track and later collect the device.
func (c *Composer) Intake(t *model.Ticket, deviceLabel string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Welcome to %s!\n\n", c.Company)
	b.WriteString("A new repair ticket has been opened.\n")
	fmt.Fprintf(&b, "Receipt no: %s\n", t.ReceiptNo)
	fmt.Fprintf(&b, "Device: %s\n", deviceLabel)
	fmt.Fprintf(&b, "Issue: %s", t.IssueDesc)
	if t.DeviceState != "" {
		fmt.Fprintf(&b, "\nDevice condition: %s", t.DeviceState)
	}
	fmt.Fprintf(&b, "\nPickup code: %s\n\n", t.Passcode)
	fmt.Fprintf(&b, "%s — please bring the receipt number and pickup code.\n", c.Company)
	b.WriteString("Thank you for trusting us.")
	return b.String()
}

// Ready is the message sent when the repair is finished.
func (c *Composer) Ready(t *model.Ticket, deviceLabel string) string {
	return fmt.Sprintf(
		"Hello,\n"+
			"Your device (%s) has been repaired and is ready for pickup.\n"+
			"Receipt no: %s\n"+
			"Pickup code: %s\n"+
			"You can collect it during working hours. — %s",
		deviceLabel, t.ReceiptNo, t.Passcode, c.Company)
}

// Delivered is the confirmation sent after handover.
func (c *Composer) Delivered(t *model.Ticket, deviceLabel string) string {
	return fmt.Sprintf(
		"Hello,\n"+
			"Your device (%s) has been handed over successfully.\n"+
			"Receipt no: %s\n"+
			"Thank you for your visit — %s",
		deviceLabel, t.ReceiptNo, c.Company)
}

// Compose renders the text for a ticket event by kind.
func (c *Composer) Compose(kind model.NotificationKind, t *model.Ticket, deviceLabel string) (string, error) {
	switch kind {
	case model.NotifyIntake:
		return c.Intake(t, deviceLabel), nil
	case model.NotifyReady:
		return c.Ready(t, deviceLabel), nil
	case model.NotifyDelivered:
		return c.Delivered(t, deviceLabel), nil
	default:
		return "", fmt.Errorf("unknown notification kind %q", kind)
	}
}
