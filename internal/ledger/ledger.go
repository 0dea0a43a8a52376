package ledger

import (
	"time"

	"github.com/memocorner/repair-desk/internal/model"
	"github.com/shopspring/decimal"
)

// PayTolerance is the rounding allowance for treating a near-zero balance as
// fully paid (0.01 currency unit).
var PayTolerance = decimal.New(1, -2)

// EffectiveApproved is the approved amount when set, otherwise the estimate.
func EffectiveApproved(t *model.Ticket) decimal.Decimal {
	if t.ApprovedAmount != nil {
		return *t.ApprovedAmount
	}
	return t.EstAmount
}

// Balance is the outstanding amount: effective approved minus paid.
func Balance(t *model.Ticket) decimal.Decimal {
	return EffectiveApproved(t).Sub(t.PaidAmount)
}

// IsPaid reports whether the outstanding balance is within tolerance of zero.
func IsPaid(t *model.Ticket) bool {
	return Balance(t).LessThanOrEqual(PayTolerance)
}

// ApplyPayment returns an updated snapshot with the approved/paid amounts and
// method set and the paid flag recomputed. The paid timestamp is stamped when
// the ticket becomes paid, kept when it already was, and cleared when the
// update drops it back below full payment. The input ticket is not mutated;
// callers persist the returned snapshot through the store.
func ApplyPayment(t *model.Ticket, approved, paid decimal.Decimal, method string, now time.Time) model.Ticket {
	updated := *t
	updated.ApprovedAmount = &approved
	updated.PaidAmount = paid
	updated.PaymentMethod = method
	updated.Paid = IsPaid(&updated)

	switch {
	case !updated.Paid:
		updated.PaidAt = nil
	case updated.PaidAt == nil:
		at := now.UTC()
		updated.PaidAt = &at
	}
	return updated
}
