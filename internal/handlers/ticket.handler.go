package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/fasthttp/router"
	"github.com/memocorner/repair-desk/internal/auth"
	"github.com/memocorner/repair-desk/internal/model"
	xhttp "github.com/memocorner/repair-desk/pkg/http"
	"github.com/shopspring/decimal"
)

type TicketService interface {
	Intake(ctx context.Context, p model.IntakeRequest, actor string) (*model.Ticket, error)
	ApplyPayment(ctx context.Context, id int64, p model.PaymentRequest, actor string) (*model.Ticket, error)
	ChangeStatus(ctx context.Context, id int64, to model.TicketStatus, actor string) (*model.Ticket, error)
	Deliver(ctx context.Context, id int64, code, actor string) (*model.Ticket, error)
	Get(ctx context.Context, id int64) (*model.Ticket, error)
	GetByReceiptNo(ctx context.Context, receiptNo string) (*model.Ticket, error)
	List(ctx context.Context, f model.TicketFilter) ([]*model.Ticket, int64, error)
	History(ctx context.Context, id int64) ([]*model.StatusHistoryEntry, error)
	Activity(ctx context.Context, id int64) ([]*model.ActivityLogEntry, error)
	StatusCounts(ctx context.Context, branchID *int64) ([]model.StatusCount, error)
	Revenue(ctx context.Context, branchID *int64, from, to *time.Time) (decimal.Decimal, error)
	Warranty(t *model.Ticket, now time.Time) (time.Time, bool)
}

type TicketHandler struct {
	svc TicketService
}

func NewTicketHandler(svc TicketService) *TicketHandler {
	return &TicketHandler{svc: svc}
}

func RegisterTicketRoutes(e *router.Group, h *TicketHandler) {
	e.POST("/tickets", h.CreateTicket)
	e.GET("/tickets", h.ListTickets)
	e.GET("/tickets/{id}", h.GetTicket)
	e.GET("/tickets/by-receipt/{no}", h.GetTicketByReceiptNo)
	e.PUT("/tickets/{id}/payment", h.ApplyPayment)
	e.PUT("/tickets/{id}/status", h.ChangeStatus)
	e.POST("/tickets/{id}/deliver", h.Deliver)
	e.GET("/tickets/{id}/history", h.GetHistory)
	e.GET("/tickets/{id}/activity", h.GetActivity)
	e.GET("/tickets/{id}/warranty", h.GetWarranty)
	e.GET("/dashboard/status-counts", h.GetStatusCounts)
	e.GET("/dashboard/revenue", h.GetRevenue)
}

type createTicketRequest struct {
	BranchID     int64  `json:"branch_id"`
	CustomerName string `json:"customer_name" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	DeviceType   string `json:"device_type" validate:"required"`
	Brand        string `json:"brand" validate:"required"`
	Model        string `json:"model" validate:"required"`
	SerialIMEI   string `json:"serial_imei"`
	Color        string `json:"color"`
	Accessories  string `json:"accessories"`
	DeviceState  string `json:"device_state"`
	IssueDesc    string `json:"issue_desc" validate:"required"`
	WorkRequest  string `json:"work_request"`
	EstAmount    string `json:"est_amount" validate:"required"`
}

type paymentRequest struct {
	Approved string `json:"approved" validate:"required"`
	Paid     string `json:"paid" validate:"required"`
	Method   string `json:"method"`
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type deliverRequest struct {
	Code string `json:"code" validate:"required"`
}

type listTicketsResponse struct {
	Items []*model.Ticket `json:"items"`
	Total int64           `json:"total"`
}

type revenueResponse struct {
	Total string     `json:"total"`
	From  *time.Time `json:"from,omitempty"`
	To    *time.Time `json:"to,omitempty"`
}

type warrantyResponse struct {
	TicketID int64     `json:"ticket_id"`
	Until    time.Time `json:"until"`
	Valid    bool      `json:"valid"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *TicketHandler) CreateTicket(ctx *xhttp.RequestCtx) {
	var req createTicketRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	est, err := decimal.NewFromString(req.EstAmount)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "est_amount must be a decimal number")
		return
	}

	branchID := req.BranchID
	if branchID == 0 {
		if claims := auth.ClaimsFrom(ctx); claims != nil {
			branchID = claims.BranchID
		}
	}

	ticket, err := h.svc.Intake(ctx, model.IntakeRequest{
		BranchID:     branchID,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		DeviceType:   req.DeviceType,
		Brand:        req.Brand,
		Model:        req.Model,
		SerialIMEI:   req.SerialIMEI,
		Color:        req.Color,
		Accessories:  req.Accessories,
		DeviceState:  req.DeviceState,
		IssueDesc:    req.IssueDesc,
		WorkRequest:  req.WorkRequest,
		EstAmount:    est,
	}, actor(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, ticket)
}

func (h *TicketHandler) ListTickets(ctx *xhttp.RequestCtx) {
	var f model.TicketFilter

	if v := query(ctx, "branch_id"); v != "" {
		if id, e := strconv.ParseInt(v, 10, 64); e == nil {
			f.BranchID = &id
		}
	}
	if v := query(ctx, "status"); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
			if parts[i] != "" {
				f.Statuses = append(f.Statuses, model.TicketStatus(parts[i]))
			}
		}
	}
	if v := query(ctx, "paid"); v != "" {
		paid := v == "true" || v == "1"
		f.Paid = &paid
	}
	if v := query(ctx, "phone"); v != "" {
		f.Phone = &v
	}
	if v := query(ctx, "search"); v != "" {
		f.Search = &v
	}
	if v := query(ctx, "from"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.From = &t
		}
	}
	if v := query(ctx, "to"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.To = &t
		}
	}
	if v := query(ctx, "limit"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Limit = n
		}
	}
	if v := query(ctx, "offset"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Offset = n
		}
	}
	if strings.EqualFold(query(ctx, "order"), "desc") {
		f.Desc = true
	}

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listTicketsResponse{Items: items, Total: total})
}

func (h *TicketHandler) GetTicket(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid ticket id")
		return
	}
	ticket, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, ticket)
}

func (h *TicketHandler) GetTicketByReceiptNo(ctx *xhttp.RequestCtx) {
	no, _ := ctx.UserValue("no").(string)
	ticket, err := h.svc.GetByReceiptNo(ctx, strings.TrimSpace(no))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, ticket)
}

func (h *TicketHandler) ApplyPayment(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid ticket id")
		return
	}

	var req paymentRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	approved, err := decimal.NewFromString(req.Approved)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "approved must be a decimal number")
		return
	}
	paid, err := decimal.NewFromString(req.Paid)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "paid must be a decimal number")
		return
	}

	ticket, err := h.svc.ApplyPayment(ctx, id, model.PaymentRequest{
		Approved: approved,
		Paid:     paid,
		Method:   req.Method,
	}, actor(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, ticket)
}

func (h *TicketHandler) ChangeStatus(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid ticket id")
		return
	}

	var req changeStatusRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	ticket, err := h.svc.ChangeStatus(ctx, id, model.TicketStatus(req.Status), actor(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, ticket)
}

func (h *TicketHandler) Deliver(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid ticket id")
		return
	}

	var req deliverRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	ticket, err := h.svc.Deliver(ctx, id, req.Code, actor(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, ticket)
}

func (h *TicketHandler) GetHistory(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid ticket id")
		return
	}
	entries, err := h.svc.History(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, entries)
}

func (h *TicketHandler) GetActivity(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid ticket id")
		return
	}
	entries, err := h.svc.Activity(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, entries)
}

func (h *TicketHandler) GetWarranty(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid ticket id")
		return
	}
	ticket, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	until, valid := h.svc.Warranty(ticket, time.Now())
	writeJSON(ctx, xhttp.StatusOK, warrantyResponse{TicketID: ticket.ID, Until: until, Valid: valid})
}

func (h *TicketHandler) GetStatusCounts(ctx *xhttp.RequestCtx) {
	var branchID *int64
	if v := query(ctx, "branch_id"); v != "" {
		if id, e := strconv.ParseInt(v, 10, 64); e == nil {
			branchID = &id
		}
	}
	counts, err := h.svc.StatusCounts(ctx, branchID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, counts)
}

func (h *TicketHandler) GetRevenue(ctx *xhttp.RequestCtx) {
	var branchID *int64
	if v := query(ctx, "branch_id"); v != "" {
		if id, e := strconv.ParseInt(v, 10, 64); e == nil {
			branchID = &id
		}
	}
	var from, to *time.Time
	if v := query(ctx, "from"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid from time")
			return
		}
		from = &t
	}
	if v := query(ctx, "to"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid to time")
			return
		}
		to = &t
	}

	total, err := h.svc.Revenue(ctx, branchID, from, to)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, revenueResponse{Total: total.StringFixed(2), From: from, To: to})
}
