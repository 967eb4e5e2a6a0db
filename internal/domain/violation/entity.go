package violation

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending      Status = "pending"
	StatusAcknowledged Status = "acknowledged"
	StatusResolved     Status = "resolved"
)

type Violation struct {
	ID             string
	EmployeeID     string
	BranchID       string
	ShiftID        *string
	Title          string
	Description    string
	ViolationDate  time.Time
	PenaltyAmount  decimal.Decimal
	Status         Status
	CreatedBy      string
	Notes          *string
	AcknowledgedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined
	EmployeeName string
}
