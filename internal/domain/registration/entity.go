package registration

import (
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/clock"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// IsActive reports whether the registration still occupies the employee's time.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

// Registration is an employee's request to work a shift on a calendar day.
// Date is the canonical local-midnight instant of that day.
type Registration struct {
	ID             string
	EmployeeID     string
	ShiftID        string
	Date           time.Time
	Status         Status
	Note           *string
	ReviewedBy     *string
	ReviewedAt     *time.Time
	ReminderSentAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined
	EmployeeName     string
	EmployeeBranchID string
	ShiftName        string
	ShiftBranchID    string
	ShiftStartTime   string
	ShiftEndTime     string
}

// ShiftRange returns the minutes-of-day range of the registered shift.
func (r Registration) ShiftRange() (clock.MinuteRange, error) {
	return clock.ParseMinuteRange(r.ShiftStartTime, r.ShiftEndTime)
}

func (r Registration) ShiftHours() string {
	return r.ShiftStartTime + " - " + r.ShiftEndTime
}
