package lifecycle

import "errors"

var (
	// ErrInvalidInput wraps intake/payment validation failures. Nothing is
	// mutated when it is returned.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned for lookups by id or receipt number with no match.
	ErrNotFound = errors.New("ticket not found")
	// ErrUnknownStatus is returned for a transition to a status outside the fixed set.
	ErrUnknownStatus = errors.New("unknown status")
	// ErrSameStatus is returned when the requested status equals the current one.
	// No history entry is written for a rejected change.
	ErrSameStatus = errors.New("ticket already in requested status")
	// ErrUnpaidBalance rejects delivery while the outstanding balance exceeds
	// the ledger tolerance, regardless of the presented code.
	ErrUnpaidBalance = errors.New("cannot deliver with outstanding balance")
	// ErrPasscodeMismatch rejects delivery when the presented code does not
	// match the stored one. Callers may retry without bound.
	ErrPasscodeMismatch = errors.New("pickup code mismatch")
	// ErrDeliverySeparate rejects plain status changes into delivered; the
	// handover path carries the paid and passcode guards.
	ErrDeliverySeparate = errors.New("delivery requires the pickup code")
)
