package violation

import (
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateViolationRequest struct {
	EmployeeID    string          `json:"employee_id" validate:"required,uuid"`
	ShiftID       *string         `json:"shift_id,omitempty" validate:"omitempty,uuid"`
	Title         string          `json:"title" validate:"required,max=255"`
	Description   string          `json:"description" validate:"required,max=2000"`
	ViolationDate string          `json:"violation_date" validate:"required,datetime=2006-01-02"`
	PenaltyAmount decimal.Decimal `json:"penalty_amount"`
	Notes         *string         `json:"notes,omitempty" validate:"omitempty,max=500"`
}

func (r *CreateViolationRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.PenaltyAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "penalty_amount", Message: "penalty_amount must not be negative"})
	}
	return validator.Merge(validator.Struct(r), errs)
}

// UpdateViolationRequest patches the fields that are set.
type UpdateViolationRequest struct {
	Title         *string          `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description   *string          `json:"description,omitempty" validate:"omitempty,min=1,max=2000"`
	ViolationDate *string          `json:"violation_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PenaltyAmount *decimal.Decimal `json:"penalty_amount,omitempty"`
	Status        *string          `json:"status,omitempty" validate:"omitempty,oneof=pending acknowledged resolved"`
	Notes         *string          `json:"notes,omitempty" validate:"omitempty,max=500"`
}

func (r *UpdateViolationRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.PenaltyAmount != nil && r.PenaltyAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "penalty_amount", Message: "penalty_amount must not be negative"})
	}
	return validator.Merge(validator.Struct(r), errs)
}

type ViolationFilter struct {
	EmployeeID *string `json:"employee_id,omitempty" validate:"omitempty,uuid"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=pending acknowledged resolved"`
	StartDate  *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate    *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

func (f *ViolationFilter) Validate() error {
	if err := validator.Struct(f); err != nil {
		return err
	}
	f.Page, f.Limit = pagination.Normalize(f.Page, f.Limit)
	return nil
}

// ListQuery is the resolved, scope-applied form of ViolationFilter. DateTo is exclusive.
type ListQuery struct {
	EmployeeID string
	BranchID   string
	Status     Status
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	Limit      int
}

type ViolationResponse struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	EmployeeName   string          `json:"employee_name"`
	BranchID       string          `json:"branch_id"`
	ShiftID        *string         `json:"shift_id,omitempty"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	ViolationDate  string          `json:"violation_date"`
	PenaltyAmount  decimal.Decimal `json:"penalty_amount"`
	Status         Status          `json:"status"`
	CreatedBy      string          `json:"created_by"`
	Notes          *string         `json:"notes,omitempty"`
	AcknowledgedAt *time.Time      `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type ListViolationResponse struct {
	Violations []ViolationResponse   `json:"violations"`
	Pagination pagination.Pagination `json:"pagination"`
}
