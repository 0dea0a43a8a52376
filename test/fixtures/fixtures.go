package fixtures

import (
	"github.com/memocorner/repair-desk/internal/model"
	"github.com/shopspring/decimal"
)

var (
	TestBranchMain = model.Branch{
		ID:   1,
		Name: "Main Branch",
		Code: "A",
	}

	TestBranchEast = model.Branch{
		ID:   2,
		Name: "East Branch",
		Code: "B",
	}
)

func NewTestIntakeRequest(branchID int64, name, phone, issue string) model.IntakeRequest {
	return model.IntakeRequest{
		BranchID:     branchID,
		CustomerName: name,
		Phone:        phone,
		DeviceType:   "phone",
		Brand:        "Apple",
		Model:        "iPhone 13",
		IssueDesc:    issue,
		EstAmount:    decimal.RequireFromString("350.00"),
	}
}

func NewTestPaymentRequest(approved, paid string) model.PaymentRequest {
	return model.PaymentRequest{
		Approved: decimal.RequireFromString(approved),
		Paid:     decimal.RequireFromString(paid),
		Method:   "cash",
	}
}

var (
	ValidPhoneNumbers = []string{
		"0501234567",
		"00966501234567",
		"+966 50 123 4567",
		"966-50-123-4567",
	}

	InvalidPhoneNumbers = []string{
		"",
		"123",
		"no digits here",
	}
)

func IntakeRequestInvalidPhone(branchID int64) model.IntakeRequest {
	return NewTestIntakeRequest(branchID, "Sara", "123", "broken screen")
}

func IntakeRequestEmptyIssue(branchID int64) model.IntakeRequest {
	return NewTestIntakeRequest(branchID, "Sara", "0501234567", "")
}

func TicketFilterByBranch(branchID int64) model.TicketFilter {
	return model.TicketFilter{
		BranchID: &branchID,
		Limit:    50,
		Offset:   0,
		Desc:     false,
	}
}

func TicketFilterByStatus(statuses ...model.TicketStatus) model.TicketFilter {
	return model.TicketFilter{
		Statuses: statuses,
		Limit:    50,
		Offset:   0,
	}
}
