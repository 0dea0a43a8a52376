package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/memocorner/repair-desk/internal/ledger"
	"github.com/memocorner/repair-desk/internal/model"
	"github.com/memocorner/repair-desk/internal/notify"
	"github.com/memocorner/repair-desk/internal/repository"
	"github.com/memocorner/repair-desk/pkg/logger"
	"github.com/memocorner/repair-desk/pkg/prom"
	"github.com/shopspring/decimal"
)

const minPhoneDigits = 8

type TicketRepository interface {
	Create(ctx context.Context, t *model.Ticket) (*model.Ticket, error)
	GetByID(ctx context.Context, id int64) (*model.Ticket, error)
	GetByReceiptNo(ctx context.Context, receiptNo string) (*model.Ticket, error)
	Update(ctx context.Context, t *model.Ticket) (*model.Ticket, error)
	List(ctx context.Context, f model.TicketFilter) ([]*model.Ticket, int64, error)
	LatestReceiptNo(ctx context.Context, branchID int64) (string, error)
	StatusCounts(ctx context.Context, branchID *int64) ([]model.StatusCount, error)
	Revenue(ctx context.Context, branchID *int64, from, to *time.Time) (decimal.Decimal, error)
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type CustomerRepository interface {
	UpsertByPhone(ctx context.Context, c *model.Customer) (*model.Customer, error)
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
}

type DeviceRepository interface {
	Create(ctx context.Context, d *model.Device) (*model.Device, error)
	GetByID(ctx context.Context, id int64) (*model.Device, error)
}

type BranchRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Branch, error)
}

type HistoryRepository interface {
	Append(ctx context.Context, h *model.StatusHistoryEntry) (*model.StatusHistoryEntry, error)
	ListByTicket(ctx context.Context, ticketID int64) ([]*model.StatusHistoryEntry, error)
}

type ActivityRepository interface {
	Append(ctx context.Context, a *model.ActivityLogEntry) (*model.ActivityLogEntry, error)
	ListByTicket(ctx context.Context, ticketID int64) ([]*model.ActivityLogEntry, error)
}

// NotificationPublisher hands a composed message to the dispatch queue.
// Publishing is best-effort from the service's point of view: a failure is
// logged, never surfaced to the foreground command.
type NotificationPublisher interface {
	Publish(ctx context.Context, n *model.Notification) error
}

// TicketService owns the ticket lifecycle: intake, payment, status
// transitions and guarded delivery. Writes to a single ticket are serialized
// through a per-ticket lock since rows carry no version column.
type TicketService struct {
	tickets      TicketRepository
	customers    CustomerRepository
	devices      DeviceRepository
	branches     BranchRepository
	history      HistoryRepository
	activity     ActivityRepository
	publisher    NotificationPublisher
	composer     *notify.Composer
	warrantyDays int

	locks sync.Map // ticket id -> *sync.Mutex
}

func NewTicketService(
	tickets TicketRepository,
	customers CustomerRepository,
	devices DeviceRepository,
	branches BranchRepository,
	history HistoryRepository,
	activity ActivityRepository,
	publisher NotificationPublisher,
	composer *notify.Composer,
	warrantyDays int,
) *TicketService {
	return &TicketService{
		tickets:      tickets,
		customers:    customers,
		devices:      devices,
		branches:     branches,
		history:      history,
		activity:     activity,
		publisher:    publisher,
		composer:     composer,
		warrantyDays: warrantyDays,
	}
}

func (s *TicketService) lock(id int64) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Intake creates the customer, device, receipt and initial history entry as
// one transactional unit, then queues the intake notification. The receipt
// number is derived from the branch's latest one inside the same
// transaction, keeping sequential numbers strictly increasing.
func (s *TicketService) Intake(ctx context.Context, p model.IntakeRequest, actor string) (*model.Ticket, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	phone := notify.NormalizePhone(p.Phone)
	if len(phone) < minPhoneDigits {
		return nil, fmt.Errorf("%w: malformed phone number %q", ErrInvalidInput, p.Phone)
	}

	branch, err := s.branches.GetByID(ctx, p.BranchID)
	if err != nil {
		if errors.Is(err, repository.ErrBranchNotFound) {
			return nil, fmt.Errorf("branch %d: %w", p.BranchID, ErrNotFound)
		}
		return nil, err
	}

	var created *model.Ticket
	err = s.tickets.WithinTransaction(ctx, func(ctx context.Context) error {
		customer, err := s.customers.UpsertByPhone(ctx, &model.Customer{
			Name:  p.CustomerName,
			Phone: phone,
		})
		if err != nil {
			return fmt.Errorf("upsert customer: %w", err)
		}

		device, err := s.devices.Create(ctx, &model.Device{
			CustomerID:  customer.ID,
			Type:        p.DeviceType,
			Brand:       p.Brand,
			Model:       p.Model,
			SerialIMEI:  p.SerialIMEI,
			Color:       p.Color,
			Accessories: p.Accessories,
		})
		if err != nil {
			return fmt.Errorf("create device: %w", err)
		}

		latest, err := s.tickets.LatestReceiptNo(ctx, branch.ID)
		if err != nil {
			return fmt.Errorf("latest receipt number: %w", err)
		}
		receiptNo := NextReceiptNo(branch.Code, latest)
		passcode := NewPasscode()

		ticket := &model.Ticket{
			BranchID:    branch.ID,
			CustomerID:  customer.ID,
			DeviceID:    device.ID,
			ReceiptNo:   receiptNo,
			IssueDesc:   p.IssueDesc,
			WorkRequest: p.WorkRequest,
			EstAmount:   p.EstAmount,
			DeviceState: p.DeviceState,
			Status:      model.StatusNew,
			Passcode:    passcode,
		}
		ticket.WhatsAppLink = notify.DeepLink(phone, s.composer.Intake(ticket, device.Label()))

		created, err = s.tickets.Create(ctx, ticket)
		if err != nil {
			return fmt.Errorf("create ticket: %w", err)
		}

		if _, err := s.history.Append(ctx, &model.StatusHistoryEntry{
			TicketID:   created.ID,
			FromStatus: "",
			ToStatus:   model.StatusNew,
			ByUsername: actor,
		}); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		_, err = s.activity.Append(ctx, &model.ActivityLogEntry{
			TicketID:   created.ID,
			Kind:       model.ActivityCreate,
			Info:       fmt.Sprintf("receipt created with no %s", receiptNo),
			ByUsername: actor,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	prom.IncTicketTransition(string(model.StatusNew))
	s.notifyAsync(ctx, created, model.NotifyIntake)
	return created, nil
}

// ApplyPayment records approved/paid amounts and recomputes the paid state
// through the ledger. Payments never trigger notifications.
func (s *TicketService) ApplyPayment(ctx context.Context, id int64, p model.PaymentRequest, actor string) (*model.Ticket, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	unlock := s.lock(id)
	defer unlock()

	ticket, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := ledger.ApplyPayment(ticket, p.Approved, p.Paid, p.Method, time.Now())

	err = s.tickets.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.tickets.Update(ctx, &updated); err != nil {
			return fmt.Errorf("update ticket: %w", err)
		}
		_, err := s.activity.Append(ctx, &model.ActivityLogEntry{
			TicketID:   id,
			Kind:       model.ActivityPayment,
			Info:       fmt.Sprintf("approved=%s paid=%s method=%s", p.Approved, p.Paid, p.Method),
			ByUsername: actor,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ChangeStatus moves a ticket to any non-delivered status. The graph is
// deliberately unrestricted; the only structural rules are that the target
// must be known, must differ from the current status, and that delivered is
// reachable only through Deliver. Moving away from delivered clears the
// delivered timestamp.
func (s *TicketService) ChangeStatus(ctx context.Context, id int64, to model.TicketStatus, actor string) (*model.Ticket, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if to == model.StatusDelivered {
		return nil, ErrDeliverySeparate
	}

	unlock := s.lock(id)
	defer unlock()

	ticket, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.Status == to {
		return nil, ErrSameStatus
	}

	updated := *ticket
	updated.Status = to
	updated.DeliveredAt = nil

	if err := s.applyTransition(ctx, ticket, &updated, actor, model.ActivityStatusChange,
		fmt.Sprintf("status %s -> %s", ticket.Status, to)); err != nil {
		return nil, err
	}

	if to == model.StatusReady {
		s.notifyAsync(ctx, &updated, model.NotifyReady)
	}
	return &updated, nil
}

// Deliver is the guarded transition into delivered: the balance must be
// settled within the ledger tolerance and the presented code must match the
// stored passcode. The paid guard is checked first, so an unpaid ticket is
// rejected the same way for any code.
func (s *TicketService) Deliver(ctx context.Context, id int64, code, actor string) (*model.Ticket, error) {
	unlock := s.lock(id)
	defer unlock()

	ticket, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ledger.IsPaid(ticket) {
		return nil, ErrUnpaidBalance
	}
	if !VerifyPasscode(ticket.Passcode, code) {
		return nil, ErrPasscodeMismatch
	}
	if ticket.Status == model.StatusDelivered {
		return nil, ErrSameStatus
	}

	now := time.Now().UTC()
	updated := *ticket
	updated.Status = model.StatusDelivered
	updated.DeliveredAt = &now

	if err := s.applyTransition(ctx, ticket, &updated, actor, model.ActivityDelivery,
		fmt.Sprintf("delivered receipt %s", ticket.ReceiptNo)); err != nil {
		return nil, err
	}

	s.notifyAsync(ctx, &updated, model.NotifyDelivered)
	return &updated, nil
}

// applyTransition persists a status update and its history entry as one
// transactional unit. Exactly one history row per accepted transition.
func (s *TicketService) applyTransition(ctx context.Context, from, to *model.Ticket, actor, activityKind, activityInfo string) error {
	err := s.tickets.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.tickets.Update(ctx, to); err != nil {
			return fmt.Errorf("update ticket: %w", err)
		}
		if _, err := s.history.Append(ctx, &model.StatusHistoryEntry{
			TicketID:   to.ID,
			FromStatus: from.Status,
			ToStatus:   to.Status,
			ByUsername: actor,
		}); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		_, err := s.activity.Append(ctx, &model.ActivityLogEntry{
			TicketID:   to.ID,
			Kind:       activityKind,
			Info:       activityInfo,
			ByUsername: actor,
		})
		return err
	})
	if err != nil {
		return err
	}

	prom.IncTicketTransition(string(to.Status))
	return nil
}

func (s *TicketService) Get(ctx context.Context, id int64) (*model.Ticket, error) {
	return s.get(ctx, id)
}

func (s *TicketService) GetByReceiptNo(ctx context.Context, receiptNo string) (*model.Ticket, error) {
	ticket, err := s.tickets.GetByReceiptNo(ctx, receiptNo)
	if errors.Is(err, repository.ErrTicketNotFound) {
		return nil, ErrNotFound
	}
	return ticket, err
}

func (s *TicketService) List(ctx context.Context, f model.TicketFilter) ([]*model.Ticket, int64, error) {
	if f.Phone != nil {
		normalized := notify.NormalizePhone(*f.Phone)
		f.Phone = &normalized
	}
	return s.tickets.List(ctx, f)
}

func (s *TicketService) History(ctx context.Context, id int64) ([]*model.StatusHistoryEntry, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}
	return s.history.ListByTicket(ctx, id)
}

func (s *TicketService) Activity(ctx context.Context, id int64) ([]*model.ActivityLogEntry, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}
	return s.activity.ListByTicket(ctx, id)
}

func (s *TicketService) StatusCounts(ctx context.Context, branchID *int64) ([]model.StatusCount, error) {
	return s.tickets.StatusCounts(ctx, branchID)
}

// Revenue sums paid amounts of paid receipts for the dashboard.
func (s *TicketService) Revenue(ctx context.Context, branchID *int64, from, to *time.Time) (decimal.Decimal, error) {
	return s.tickets.Revenue(ctx, branchID, from, to)
}

// Warranty derives the warranty window from the creation timestamp; nothing
// is stored.
func (s *TicketService) Warranty(t *model.Ticket, now time.Time) (time.Time, bool) {
	return t.WarrantyUntil(s.warrantyDays), t.WarrantyValid(s.warrantyDays, now)
}

func (s *TicketService) get(ctx context.Context, id int64) (*model.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if errors.Is(err, repository.ErrTicketNotFound) {
		return nil, ErrNotFound
	}
	return ticket, err
}

// notifyAsync composes and queues the message for a ticket event. Dispatch
// is fire-and-forget: failures are logged and recorded nowhere else, the
// triggering command has already succeeded.
func (s *TicketService) notifyAsync(ctx context.Context, t *model.Ticket, kind model.NotificationKind) {
	if s.publisher == nil {
		return
	}

	customer, err := s.customers.GetByID(ctx, t.CustomerID)
	if err != nil {
		logger.Warn("notification skipped, customer lookup failed", "ticket_id", t.ID, "error", err)
		return
	}
	device, err := s.devices.GetByID(ctx, t.DeviceID)
	if err != nil {
		logger.Warn("notification skipped, device lookup failed", "ticket_id", t.ID, "error", err)
		return
	}

	text, err := s.composer.Compose(kind, t, device.Label())
	if err != nil {
		logger.Warn("notification skipped, compose failed", "ticket_id", t.ID, "error", err)
		return
	}

	n := &model.Notification{
		ID:        uuid.NewString(),
		TicketID:  t.ID,
		ReceiptNo: t.ReceiptNo,
		Kind:      kind,
		Phone:     customer.Phone,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, n); err != nil {
		logger.Warn("failed to queue notification", "ticket_id", t.ID, "kind", kind, "error", err)
	}
}
