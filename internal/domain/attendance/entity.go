package attendance

import (
	"math"
	"time"
)

type Status string

const (
	StatusCheckedIn  Status = "checked-in"
	StatusCheckedOut Status = "checked-out"
	StatusAbsent     Status = "absent"
)

func (s Status) IsValid() bool {
	return s == StatusCheckedIn || s == StatusCheckedOut || s == StatusAbsent
}

// GeoPoint is a GPS fix supplied with a check-in or check-out.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Attendance is the single presence record of a registration. Date is the
// local-midnight instant of the registration's day.
type Attendance struct {
	ID               string
	EmployeeID       string
	ShiftID          string
	RegistrationID   string
	Date             time.Time
	CheckInTime      *time.Time
	CheckOutTime     *time.Time
	CheckInLocation  *GeoPoint
	CheckOutLocation *GeoPoint
	Status           Status
	Notes            *string
	WorkHours        *float64
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined
	EmployeeName     string
	EmployeeBranchID string
	ShiftName        string
	ShiftStartTime   string
	ShiftEndTime     string
}

// HasCheckedIn reports whether a check-in instant is recorded.
func (a Attendance) HasCheckedIn() bool {
	return a.CheckInTime != nil
}

// HasCheckedOut reports whether a check-out instant is recorded.
func (a Attendance) HasCheckedOut() bool {
	return a.CheckOutTime != nil
}

// ComputeWorkHours returns the hours between in and out rounded to 2 decimals.
func ComputeWorkHours(in, out time.Time) float64 {
	return RoundHours(out.Sub(in).Hours())
}

// RoundHours rounds h to 2 decimals.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
