package attendance

import (
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	RegistrationID string   `json:"registration_id" validate:"required,uuid"`
	Latitude       *float64 `json:"latitude" validate:"required,latitude"`
	Longitude      *float64 `json:"longitude" validate:"required,longitude"`
	Notes          *string  `json:"notes,omitempty" validate:"omitempty,max=500"`
}

func (r *CheckInRequest) Validate() error {
	return validator.Struct(r)
}

func (r *CheckInRequest) Point() GeoPoint {
	return GeoPoint{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

type CheckOutRequest struct {
	AttendanceID string   `json:"attendance_id" validate:"required,uuid"`
	Latitude     *float64 `json:"latitude" validate:"required,latitude"`
	Longitude    *float64 `json:"longitude" validate:"required,longitude"`
	Notes        *string  `json:"notes,omitempty" validate:"omitempty,max=500"`
}

func (r *CheckOutRequest) Validate() error {
	return validator.Struct(r)
}

func (r *CheckOutRequest) Point() GeoPoint {
	return GeoPoint{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty" validate:"omitempty,uuid"`
	ShiftID    *string `json:"shift_id,omitempty" validate:"omitempty,uuid"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=checked-in checked-out absent"`
	StartDate  *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate    *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by" validate:"omitempty,oneof=date check_in_time check_out_time work_hours created_at"`
	SortOrder string `json:"sort_order" validate:"omitempty,oneof=asc desc"`
}

func (f *AttendanceFilter) Validate() error {
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

// ListQuery is the resolved, scope-applied form of AttendanceFilter.
// DateTo is exclusive.
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

type MonthlyReportRequest struct {
	Month      int     `json:"month" validate:"required,min=1,max=12"`
	Year       int     `json:"year" validate:"required,min=2020,max=2100"`
	EmployeeID *string `json:"employee_id,omitempty" validate:"omitempty,uuid"`
}

func (r *MonthlyReportRequest) Validate() error {
	return validator.Struct(r)
}

type AttendanceResponse struct {
	ID               string     `json:"id"`
	EmployeeID       string     `json:"employee_id"`
	EmployeeName     string     `json:"employee_name"`
	ShiftID          string     `json:"shift_id"`
	ShiftName        string     `json:"shift_name"`
	ShiftStartTime   string     `json:"shift_start_time"`
	ShiftEndTime     string     `json:"shift_end_time"`
	RegistrationID   string     `json:"registration_id"`
	Date             string     `json:"date"`
	CheckInTime      *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime     *time.Time `json:"check_out_time,omitempty"`
	CheckInLocation  *GeoPoint  `json:"check_in_location,omitempty"`
	CheckOutLocation *GeoPoint  `json:"check_out_location,omitempty"`
	Status           Status     `json:"status"`
	Notes            *string    `json:"notes,omitempty"`
	WorkHours        *float64   `json:"work_hours,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type ListAttendanceResponse struct {
	Attendances []AttendanceResponse  `json:"attendances"`
	Pagination  pagination.Pagination `json:"pagination"`
}

type MonthlySummary struct {
	TotalDays      int     `json:"total_days"`
	CheckedInDays  int     `json:"checked_in_days"`
	CheckedOutDays int     `json:"checked_out_days"`
	AbsentDays     int     `json:"absent_days"`
	TotalWorkHours float64 `json:"total_work_hours"`
}

type MonthlyReportResponse struct {
	Month       int                  `json:"month"`
	Year        int                  `json:"year"`
	Summary     MonthlySummary       `json:"summary"`
	Attendances []AttendanceResponse `json:"attendances"`
}
