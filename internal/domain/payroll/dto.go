package payroll

import (
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== CALCULATION DTOs ==========

type CalculatePayrollRequest struct {
	EmployeeID      string           `json:"employee_id" validate:"required,uuid"`
	Month           int              `json:"month" validate:"required,min=1,max=12"`
	Year            int              `json:"year" validate:"required,min=2020,max=2100"`
	BaseSalary      decimal.Decimal  `json:"base_salary"`
	OvertimeRate    *decimal.Decimal `json:"overtime_rate,omitempty"`
	Bonuses         *decimal.Decimal `json:"bonuses,omitempty"`
	OtherDeductions *decimal.Decimal `json:"other_deductions,omitempty"`
	Notes           *string          `json:"notes,omitempty" validate:"omitempty,max=500"`
}

func (r *CalculatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "base_salary must be a positive number"})
	}
	if r.OvertimeRate != nil && r.OvertimeRate.LessThan(decimal.NewFromInt(1)) {
		errs = append(errs, validator.ValidationError{Field: "overtime_rate", Message: "overtime_rate must be at least 1.0"})
	}
	if r.Bonuses != nil && r.Bonuses.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "bonuses", Message: "bonuses must be a positive number"})
	}
	if r.OtherDeductions != nil && r.OtherDeductions.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "other_deductions", Message: "other_deductions must be a positive number"})
	}

	return validator.Merge(validator.Struct(r), errs)
}

type UpdatePayrollStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=draft pending approved paid"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

func (r *UpdatePayrollStatusRequest) Validate() error {
	return validator.Struct(r)
}

// ========== QUERY DTOs ==========

type PayrollFilter struct {
	EmployeeID *string `json:"employee_id,omitempty" validate:"omitempty,uuid"`
	BranchID   *string `json:"branch_id,omitempty" validate:"omitempty,uuid"`
	Month      *int    `json:"month,omitempty" validate:"omitempty,min=1,max=12"`
	Year       *int    `json:"year,omitempty" validate:"omitempty,min=2020,max=2100"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=draft pending approved paid"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

func (f *PayrollFilter) Validate() error {
	if err := validator.Struct(f); err != nil {
		return err
	}
	f.Page, f.Limit = pagination.Normalize(f.Page, f.Limit)
	return nil
}

// ListQuery is the resolved, scope-applied form of PayrollFilter.
type ListQuery struct {
	EmployeeID string
	BranchID   string
	Month      int
	Year       int
	Status     Status
	Page       int
	Limit      int
}

// ========== RESPONSE DTOs ==========

type PayrollResponse struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	EmployeeName   string          `json:"employee_name"`
	BranchID       string          `json:"branch_id"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	BaseSalary     decimal.Decimal `json:"base_salary"`
	TotalWorkHours decimal.Decimal `json:"total_work_hours"`
	OvertimeHours  decimal.Decimal `json:"overtime_hours"`
	OvertimeRate   decimal.Decimal `json:"overtime_rate"`
	OvertimePay    decimal.Decimal `json:"overtime_pay"`
	Bonuses        decimal.Decimal `json:"bonuses"`
	Deductions     Deductions      `json:"deductions"`
	GrossSalary    decimal.Decimal `json:"gross_salary"`
	NetSalary      decimal.Decimal `json:"net_salary"`
	Status         Status          `json:"status"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	PaidBy         *string         `json:"paid_by,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	RecalculatedAt *time.Time      `json:"recalculated_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type ListPayrollResponse struct {
	Payrolls   []PayrollResponse     `json:"payrolls"`
	Pagination pagination.Pagination `json:"pagination"`
}
