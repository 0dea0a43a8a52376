package handlers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/memocorner/repair-desk/internal/lifecycle"
	"github.com/memocorner/repair-desk/internal/model"
	xhttp "github.com/memocorner/repair-desk/pkg/http"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type MockTicketService struct {
	mock.Mock
}

func (m *MockTicketService) Intake(ctx context.Context, p model.IntakeRequest, actor string) (*model.Ticket, error) {
	args := m.Called(ctx, p, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketService) ApplyPayment(ctx context.Context, id int64, p model.PaymentRequest, actor string) (*model.Ticket, error) {
	args := m.Called(ctx, id, p, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketService) ChangeStatus(ctx context.Context, id int64, to model.TicketStatus, actor string) (*model.Ticket, error) {
	args := m.Called(ctx, id, to, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketService) Deliver(ctx context.Context, id int64, code, actor string) (*model.Ticket, error) {
	args := m.Called(ctx, id, code, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketService) Get(ctx context.Context, id int64) (*model.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketService) GetByReceiptNo(ctx context.Context, receiptNo string) (*model.Ticket, error) {
	args := m.Called(ctx, receiptNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketService) List(ctx context.Context, f model.TicketFilter) ([]*model.Ticket, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Ticket), args.Get(1).(int64), args.Error(2)
}

func (m *MockTicketService) History(ctx context.Context, id int64) ([]*model.StatusHistoryEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.StatusHistoryEntry), args.Error(1)
}

func (m *MockTicketService) Activity(ctx context.Context, id int64) ([]*model.ActivityLogEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ActivityLogEntry), args.Error(1)
}

func (m *MockTicketService) StatusCounts(ctx context.Context, branchID *int64) ([]model.StatusCount, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StatusCount), args.Error(1)
}

func (m *MockTicketService) Revenue(ctx context.Context, branchID *int64, from, to *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, branchID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTicketService) Warranty(t *model.Ticket, now time.Time) (time.Time, bool) {
	args := m.Called(t, now)
	return args.Get(0).(time.Time), args.Bool(1)
}

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

func TestTicketHandler_CreateTicket(t *testing.T) {
	t.Run("successful intake", func(t *testing.T) {
		svc := new(MockTicketService)
		handler := NewTicketHandler(svc)

		reqBody := createTicketRequest{
			BranchID:     1,
			CustomerName: "Sara",
			Phone:        "0501234567",
			DeviceType:   "phone",
			Brand:        "Apple",
			Model:        "iPhone 13",
			IssueDesc:    "broken screen",
			EstAmount:    "350.00",
		}
		bodyBytes, _ := json.Marshal(reqBody)

		expected := &model.Ticket{
			ID:        42,
			BranchID:  1,
			ReceiptNo: "A0001",
			Status:    model.StatusNew,
			EstAmount: decimal.RequireFromString("350.00"),
		}

		svc.On("Intake", mock.Anything, mock.MatchedBy(func(p model.IntakeRequest) bool {
			return p.BranchID == 1 && p.CustomerName == "Sara" && p.EstAmount.Equal(decimal.RequireFromString("350.00"))
		}), "").Return(expected, nil)

		ctx := setupTestContext("POST", "/tickets", bodyBytes)
		handler.CreateTicket(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())

		var response model.Ticket
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Equal(t, int64(42), response.ID)
		assert.Equal(t, "A0001", response.ReceiptNo)

		svc.AssertExpectations(t)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		svc := new(MockTicketService)
		handler := NewTicketHandler(svc)

		ctx := setupTestContext("POST", "/tickets", []byte("invalid json"))
		handler.CreateTicket(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("non-decimal estimate", func(t *testing.T) {
		svc := new(MockTicketService)
		handler := NewTicketHandler(svc)

		reqBody := createTicketRequest{
			BranchID:     1,
			CustomerName: "Sara",
			Phone:        "0501234567",
			DeviceType:   "phone",
			Brand:        "Apple",
			Model:        "iPhone 13",
			IssueDesc:    "broken screen",
			EstAmount:    "a lot",
		}
		bodyBytes, _ := json.Marshal(reqBody)

		ctx := setupTestContext("POST", "/tickets", bodyBytes)
		handler.CreateTicket(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("unknown branch maps to 404", func(t *testing.T) {
		svc := new(MockTicketService)
		handler := NewTicketHandler(svc)

		reqBody := createTicketRequest{
			BranchID:     99,
			CustomerName: "Sara",
			Phone:        "0501234567",
			DeviceType:   "phone",
			Brand:        "Apple",
			Model:        "iPhone 13",
			IssueDesc:    "broken screen",
			EstAmount:    "350.00",
		}
		bodyBytes, _ := json.Marshal(reqBody)

		svc.On("Intake", mock.Anything, mock.Anything, "").Return(nil, lifecycle.ErrNotFound)

		ctx := setupTestContext("POST", "/tickets", bodyBytes)
		handler.CreateTicket(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})
}

func TestTicketHandler_ListTickets(t *testing.T) {
	t.Run("successful list", func(t *testing.T) {
		svc := new(MockTicketService)
		handler := NewTicketHandler(svc)

		expected := []*model.Ticket{
			{ID: 1, ReceiptNo: "A0001"},
			{ID: 2, ReceiptNo: "A0002"},
		}

		svc.On("List", mock.Anything, mock.AnythingOfType("model.TicketFilter")).
			Return(expected, int64(2), nil)

		ctx := setupTestContext("GET", "/tickets?limit=10&offset=0", nil)
		handler.ListTickets(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response listTicketsResponse
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Equal(t, int64(2), response.Total)
		assert.Len(t, response.Items, 2)

		svc.AssertExpectations(t)
	})

	t.Run("status filter splits on comma", func(t *testing.T) {
		svc := new(MockTicketService)
		handler := NewTicketHandler(svc)

		svc.On("List", mock.Anything, mock.MatchedBy(func(f model.TicketFilter) bool {
			return len(f.Statuses) == 2 &&
				f.Statuses[0] == model.StatusReady &&
				f.Statuses[1] == model.StatusDelivered
		})).Return([]*model.Ticket{}, int64(0), nil)

		ctx := setupTestContext("GET", "/tickets?status=ready,delivered", nil)
		handler.ListTickets(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("paid and pagination filters", func(t *testing.T) {
		svc := new(MockTicketService)
		handler := NewTicketHandler(svc)

		svc.On("List", mock.Anything, mock.MatchedBy(func(f model.TicketFilter) bool {
			return f.Paid != nil && *f.Paid && f.Limit == 5 && f.Offset == 10 && f.Desc
		})).Return([]*model.Ticket{}, int64(0), nil)

		ctx := setupTestContext("GET", "/tickets?paid=true&limit=5&offset=10&order=desc", nil)
		handler.ListTickets(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})
}

func TestTicketHandler_GetTicket(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(MockTicketService)
		handler := NewTicketHandler(svc)

		svc.On("Get", mock.Anything, int64(7)).Return(&model.Ticket{ID: 7, ReceiptNo: "A0007"}, nil)

		ctx := setupTestContext("GET", "/tickets/7", nil)
		ctx.SetUserValue("id", "7")
		handler.GetTicket(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		svc := new(MockTicketService)
		handler := NewTicketHandler(svc)

		svc.On("Get", mock.Anything, int64(8)).Return(nil, lifecycle.ErrNotFound)

		ctx := setupTestContext("GET", "/tickets/8", nil)
		ctx.SetUserValue("id", "8")
		handler.GetTicket(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("bad id", func(t *testing.T) {
		svc := new(MockTicketService)
		handler := NewTicketHandler(svc)

		ctx := setupTestContext("GET", "/tickets/abc", nil)
		ctx.SetUserValue("id", "abc")
		handler.GetTicket(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})
}

func TestTicketHandler_ApplyPayment(t *testing.T) {
	t.Run("successful payment", func(t *testing.T) {
		svc := new(MockTicketService)
		handler := NewTicketHandler(svc)

		reqBody := paymentRequest{Approved: "300", Paid: "300", Method: "cash"}
		bodyBytes, _ := json.Marshal(reqBody)

		svc.On("ApplyPayment", mock.Anything, int64(7), mock.MatchedBy(func(p model.PaymentRequest) bool {
			return p.Approved.Equal(decimal.NewFromInt(300)) && p.Paid.Equal(decimal.NewFromInt(300)) && p.Method == "cash"
		}), "").Return(&model.Ticket{ID: 7, Paid: true}, nil)

		ctx := setupTestContext("PUT", "/tickets/7/payment", bodyBytes)
		ctx.SetUserValue("id", "7")
		handler.ApplyPayment(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("negative payment maps to 400", func(t *testing.T) {
		svc := new(MockTicketService)
		handler := NewTicketHandler(svc)

		reqBody := paymentRequest{Approved: "300", Paid: "-1"}
		bodyBytes, _ := json.Marshal(reqBody)

		svc.On("ApplyPayment", mock.Anything, int64(7), mock.Anything, "").
			Return(nil, lifecycle.ErrInvalidInput)

		ctx := setupTestContext("PUT", "/tickets/7/payment", bodyBytes)
		ctx.SetUserValue("id", "7")
		handler.ApplyPayment(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})
}

func TestTicketHandler_ChangeStatus(t *testing.T) {
	t.Run("same status maps to 422", func(t *testing.T) {
		svc := new(MockTicketService)
		handler := NewTicketHandler(svc)

		reqBody := changeStatusRequest{Status: "ready"}
		bodyBytes, _ := json.Marshal(reqBody)

		svc.On("ChangeStatus", mock.Anything, int64(7), model.StatusReady, "").
			Return(nil, lifecycle.ErrSameStatus)

		ctx := setupTestContext("PUT", "/tickets/7/status", bodyBytes)
		ctx.SetUserValue("id", "7")
		handler.ChangeStatus(ctx)

		assert.Equal(t, 422, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("delivered target maps to 422", func(t *testing.T) {
		svc := new(MockTicketService)
		handler := NewTicketHandler(svc)

		reqBody := changeStatusRequest{Status: "delivered"}
		bodyBytes, _ := json.Marshal(reqBody)

		svc.On("ChangeStatus", mock.Anything, int64(7), model.StatusDelivered, "").
			Return(nil, lifecycle.ErrDeliverySeparate)

		ctx := setupTestContext("PUT", "/tickets/7/status", bodyBytes)
		ctx.SetUserValue("id", "7")
		handler.ChangeStatus(ctx)

		assert.Equal(t, 422, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})
}

func TestTicketHandler_Deliver(t *testing.T) {
	t.Run("unpaid maps to 409", func(t *testing.T) {
		svc := new(MockTicketService)
		handler := NewTicketHandler(svc)

		reqBody := deliverRequest{Code: "123456"}
		bodyBytes, _ := json.Marshal(reqBody)

		svc.On("Deliver", mock.Anything, int64(7), "123456", "").
			Return(nil, lifecycle.ErrUnpaidBalance)

		ctx := setupTestContext("POST", "/tickets/7/deliver", bodyBytes)
		ctx.SetUserValue("id", "7")
		handler.Deliver(ctx)

		assert.Equal(t, 409, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("wrong passcode maps to 401", func(t *testing.T) {
		svc := new(MockTicketService)
		handler := NewTicketHandler(svc)

		reqBody := deliverRequest{Code: "000000"}
		bodyBytes, _ := json.Marshal(reqBody)

		svc.On("Deliver", mock.Anything, int64(7), "000000", "").
			Return(nil, lifecycle.ErrPasscodeMismatch)

		ctx := setupTestContext("POST", "/tickets/7/deliver", bodyBytes)
		ctx.SetUserValue("id", "7")
		handler.Deliver(ctx)

		assert.Equal(t, 401, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("successful delivery", func(t *testing.T) {
		svc := new(MockTicketService)
		handler := NewTicketHandler(svc)

		reqBody := deliverRequest{Code: "123456"}
		bodyBytes, _ := json.Marshal(reqBody)

		now := time.Now()
		svc.On("Deliver", mock.Anything, int64(7), "123456", "").
			Return(&model.Ticket{ID: 7, Status: model.StatusDelivered, DeliveredAt: &now}, nil)

		ctx := setupTestContext("POST", "/tickets/7/deliver", bodyBytes)
		ctx.SetUserValue("id", "7")
		handler.Deliver(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response model.Ticket
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Equal(t, model.StatusDelivered, response.Status)
		assert.NotNil(t, response.DeliveredAt)

		svc.AssertExpectations(t)
	})
}

func TestTicketHandler_GetStatusCounts(t *testing.T) {
	svc := new(MockTicketService)
	handler := NewTicketHandler(svc)

	expected := []model.StatusCount{
		{Status: model.StatusNew, Count: 3},
		{Status: model.StatusReady, Count: 1},
	}
	svc.On("StatusCounts", mock.Anything, mock.MatchedBy(func(id *int64) bool {
		return id != nil && *id == 2
	})).Return(expected, nil)

	ctx := setupTestContext("GET", "/dashboard/status-counts?branch_id=2", nil)
	handler.GetStatusCounts(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())

	var response []model.StatusCount
	err := json.Unmarshal(ctx.Response.Body(), &response)
	require.NoError(t, err)
	assert.Len(t, response, 2)

	svc.AssertExpectations(t)
}

func TestTicketHandler_GetRevenue(t *testing.T) {
	t.Run("success with branch filter", func(t *testing.T) {
		svc := new(MockTicketService)
		handler := NewTicketHandler(svc)

		svc.On("Revenue", mock.Anything, mock.MatchedBy(func(id *int64) bool {
			return id != nil && *id == 2
		}), (*time.Time)(nil), (*time.Time)(nil)).Return(decimal.RequireFromString("1250.50"), nil)

		ctx := setupTestContext("GET", "/dashboard/revenue?branch_id=2", nil)
		handler.GetRevenue(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response map[string]interface{}
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Equal(t, "1250.50", response["total"])

		svc.AssertExpectations(t)
	})

	t.Run("invalid from time returns 400", func(t *testing.T) {
		svc := new(MockTicketService)
		handler := NewTicketHandler(svc)

		ctx := setupTestContext("GET", "/dashboard/revenue?from=not-a-time", nil)
		handler.GetRevenue(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Revenue")
	})

	t.Run("date range forwarded", func(t *testing.T) {
		svc := new(MockTicketService)
		handler := NewTicketHandler(svc)

		svc.On("Revenue", mock.Anything, (*int64)(nil),
			mock.MatchedBy(func(from *time.Time) bool {
				return from != nil && from.Format("2006-01-02") == "2026-01-01"
			}),
			mock.MatchedBy(func(to *time.Time) bool {
				return to != nil && to.Format("2006-01-02") == "2026-02-01"
			})).Return(decimal.Zero, nil)

		ctx := setupTestContext("GET", "/dashboard/revenue?from=2026-01-01&to=2026-02-01", nil)
		handler.GetRevenue(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})
}

func TestHelperFunctions(t *testing.T) {
	t.Run("readJSON validates required fields", func(t *testing.T) {
		ctx := setupTestContext("POST", "/", []byte(`{"username":"a"}`))

		var req loginRequest
		err := readJSON(ctx, &req)
		assert.Error(t, err)
	})

	t.Run("writeJSON", func(t *testing.T) {
		ctx := setupTestContext("GET", "/", nil)
		data := map[string]string{"message": "test"}

		writeJSON(ctx, 200, data)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		assert.Contains(t, string(ctx.Response.Header.Peek("Content-Type")), "application/json")

		var result map[string]string
		err := json.Unmarshal(ctx.Response.Body(), &result)
		require.NoError(t, err)
		assert.Equal(t, "test", result["message"])
	})

	t.Run("writeError", func(t *testing.T) {
		ctx := setupTestContext("GET", "/", nil)
		writeError(ctx, 404, "not found")

		assert.Equal(t, 404, ctx.Response.StatusCode())

		var result map[string]string
		err := json.Unmarshal(ctx.Response.Body(), &result)
		require.NoError(t, err)
		assert.Equal(t, "not found", result["error"])
	})

	t.Run("parseTime RFC3339", func(t *testing.T) {
		parsed, err := parseTime("2025-06-01T12:00:00Z")
		require.NoError(t, err)
		assert.Equal(t, 2025, parsed.Year())
	})

	t.Run("parseTime date only", func(t *testing.T) {
		parsed, err := parseTime("2025-06-01")
		require.NoError(t, err)
		assert.Equal(t, time.Month(6), parsed.Month())
		assert.Equal(t, 1, parsed.Day())
	})

	t.Run("parseTime invalid", func(t *testing.T) {
		_, err := parseTime("invalid")
		assert.Error(t, err)
	})
}
