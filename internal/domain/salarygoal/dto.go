package salarygoal

import (
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const (
	DefaultHistoryLimit = 6
	MaxHistoryLimit     = 24
)

// CreateGoalRequest targets the current local month unless Month and Year are given.
type CreateGoalRequest struct {
	TargetShifts int  `json:"target_shifts" validate:"required,min=1,max=31"`
	Month        *int `json:"month,omitempty" validate:"omitempty,min=1,max=12"`
	Year         *int `json:"year,omitempty" validate:"omitempty,min=2020,max=2100"`
}

func (r *CreateGoalRequest) Validate() error {
	return validator.Struct(r)
}

type UpdateGoalRequest struct {
	TargetShifts *int    `json:"target_shifts,omitempty" validate:"omitempty,min=1,max=31"`
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=active completed cancelled"`
}

func (r *UpdateGoalRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.TargetShifts == nil && r.Status == nil {
		errs = append(errs, validator.ValidationError{Field: "target_shifts", Message: "at least one of target_shifts or status is required"})
	}
	return validator.Merge(validator.Struct(r), errs)
}

type HistoryQuery struct {
	Limit int `json:"limit"`
}

// Normalize clamps Limit into [1, MaxHistoryLimit], defaulting to DefaultHistoryLimit.
func (q *HistoryQuery) Normalize() {
	switch {
	case q.Limit <= 0:
		q.Limit = DefaultHistoryLimit
	case q.Limit > MaxHistoryLimit:
		q.Limit = MaxHistoryLimit
	}
}

type GoalResponse struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	TargetShifts int       `json:"target_shifts"`
	Month        int       `json:"month"`
	Year         int       `json:"year"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ========== PROGRESS DTOs ==========

type GoalProgress struct {
	ID                string          `json:"id"`
	TargetShifts      int             `json:"target_shifts"`
	CurrentShifts     int             `json:"current_shifts"`
	Progress          int             `json:"progress"`
	CurrentEarnings   decimal.Decimal `json:"current_earnings"`
	ProjectedEarnings decimal.Decimal `json:"projected_earnings"`
	Status            Status          `json:"status"`
}

// MonthComparison sets month-to-date figures against the same span of the
// previous month, clamped to that month's last day.
type MonthComparison struct {
	CurrentDate           string          `json:"current_date"`
	ComparisonDate        string          `json:"comparison_date"`
	CurrentShifts         int             `json:"current_shifts"`
	PreviousShifts        int             `json:"previous_shifts"`
	CurrentEarnings       decimal.Decimal `json:"current_earnings"`
	PreviousEarnings      decimal.Decimal `json:"previous_earnings"`
	ShiftsChange          int             `json:"shifts_change"`
	EarningsChange        decimal.Decimal `json:"earnings_change"`
	EarningsChangePercent int             `json:"earnings_change_percent"`
	Message               string          `json:"message"`
}

type ProgressDetails struct {
	TotalWorkHours      decimal.Decimal `json:"total_work_hours"`
	EstimatedHourlyRate decimal.Decimal `json:"estimated_hourly_rate"`
	ShiftsRemaining     int             `json:"shifts_remaining"`
	DaysLeftInMonth     int             `json:"days_left_in_month"`
}

type CurrentGoalResponse struct {
	Goal       GoalProgress    `json:"goal"`
	Comparison MonthComparison `json:"comparison"`
	Details    ProgressDetails `json:"details"`
}

type GoalHistoryItem struct {
	ID           string          `json:"id"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	TargetShifts int             `json:"target_shifts"`
	ActualShifts int             `json:"actual_shifts"`
	Earnings     decimal.Decimal `json:"earnings"`
	Completed    bool            `json:"completed"`
	Status       Status          `json:"status"`
}
