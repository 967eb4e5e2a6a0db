package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusPaid     Status = "paid"
)

var statusOrder = []Status{StatusDraft, StatusPending, StatusApproved, StatusPaid}

func (s Status) IsValid() bool {
	for _, st := range statusOrder {
		if st == s {
			return true
		}
	}
	return false
}

// Next returns the only status a payroll may move to from s.
func (s Status) Next() (Status, bool) {
	for i, st := range statusOrder {
		if st == s && i+1 < len(statusOrder) {
			return statusOrder[i+1], true
		}
	}
	return "", false
}

// CanTransitionTo reports whether to is the single forward step after s.
func (s Status) CanTransitionTo(to Status) bool {
	next, ok := s.Next()
	return ok && next == to
}

// Deductions are the amounts subtracted from gross salary.
type Deductions struct {
	Violations     decimal.Decimal `json:"violations"`
	LateDeductions decimal.Decimal `json:"late_deductions"`
	Absences       decimal.Decimal `json:"absences"`
	Other          decimal.Decimal `json:"other"`
}

func (d Deductions) Total() decimal.Decimal {
	return d.Violations.Add(d.LateDeductions).Add(d.Absences).Add(d.Other)
}

// Payroll is one employee's salary record for a calendar month.
type Payroll struct {
	ID             string
	EmployeeID     string
	BranchID       string
	Month          int
	Year           int
	BaseSalary     decimal.Decimal
	TotalWorkHours decimal.Decimal
	OvertimeHours  decimal.Decimal
	OvertimeRate   decimal.Decimal
	OvertimePay    decimal.Decimal
	Bonuses        decimal.Decimal
	Deductions     Deductions
	GrossSalary    decimal.Decimal
	NetSalary      decimal.Decimal
	Status         Status
	PaidAt         *time.Time
	PaidBy         *string
	Notes          *string
	RecalculatedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined
	EmployeeName string
}

// Policy holds the organisation's payroll constants.
type Policy struct {
	StandardHours       decimal.Decimal
	ExpectedWorkDays    int
	HoursPerAbsentDay   decimal.Decimal
	DefaultOvertimeRate decimal.Decimal
	Late                LatePolicy

	// DefaultBaseSalary prices earnings estimates for employees with no payroll yet.
	DefaultBaseSalary decimal.Decimal
}

// LatePolicy charges a flat penalty for every check-in later than shift
// start plus GraceMinutes. A zero penalty disables the deduction.
type LatePolicy struct {
	PenaltyPerLateCheckIn decimal.Decimal
	GraceMinutes          int
}

func DefaultPolicy() Policy {
	return Policy{
		StandardHours:       decimal.NewFromInt(160),
		ExpectedWorkDays:    22,
		HoursPerAbsentDay:   decimal.NewFromInt(8),
		DefaultOvertimeRate: decimal.NewFromFloat(1.5),
		Late: LatePolicy{
			PenaltyPerLateCheckIn: decimal.Zero,
			GraceMinutes:          0,
		},
		DefaultBaseSalary: decimal.NewFromInt(5000000),
	}
}
