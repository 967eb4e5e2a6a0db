package registration

import (
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
)

type CreateRegistrationRequest struct {
	ShiftID string  `json:"shift_id" validate:"required,uuid"`
	Date    string  `json:"date" validate:"required,datetime=2006-01-02"`
	Note    *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

func (r *CreateRegistrationRequest) Validate() error {
	return validator.Struct(r)
}

// ReviewRegistrationRequest is the body of both approve and reject.
type ReviewRegistrationRequest struct {
	Note *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

func (r *ReviewRegistrationRequest) Validate() error {
	return validator.Struct(r)
}

type RegistrationFilter struct {
	EmployeeID *string `json:"employee_id,omitempty" validate:"omitempty,uuid"`
	ShiftID    *string `json:"shift_id,omitempty" validate:"omitempty,uuid"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected"`
	Date       *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by" validate:"omitempty,oneof=date status created_at updated_at"`
	SortOrder string `json:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// Validate checks the filter and fills in defaults.
func (f *RegistrationFilter) Validate() error {
	if err := validator.Struct(f); err != nil {
		return err
	}
	f.Page, f.Limit = pagination.Normalize(f.Page, f.Limit)
	if f.SortBy == "" {
		f.SortBy = "date"
	}
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}
	return nil
}

// ListQuery is the resolved, scope-applied form of RegistrationFilter.
type ListQuery struct {
	EmployeeID string
	BranchID   string
	ShiftID    string
	Status     Status
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

type RegistrationResponse struct {
	ID             string     `json:"id"`
	EmployeeID     string     `json:"employee_id"`
	EmployeeName   string     `json:"employee_name"`
	ShiftID        string     `json:"shift_id"`
	ShiftName      string     `json:"shift_name"`
	ShiftStartTime string     `json:"shift_start_time"`
	ShiftEndTime   string     `json:"shift_end_time"`
	Date           string     `json:"date"`
	Status         Status     `json:"status"`
	Note           *string    `json:"note,omitempty"`
	ReviewedBy     *string    `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type ListRegistrationResponse struct {
	Registrations []RegistrationResponse `json:"registrations"`
	Pagination    pagination.Pagination  `json:"pagination"`
}
