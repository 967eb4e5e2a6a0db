package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create inserts a check-in. A second record for the same
	// (registration, date) is reported as ErrAlreadyCheckedIn.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// ExistsForRegistration guards against double check-in within [dayStart, dayEnd).
	ExistsForRegistration(ctx context.Context, registrationID string, dayStart, dayEnd time.Time) (bool, error)

	// RecordCheckOut closes an open attendance. It reports ErrAlreadyCheckedOut
	// when the record has been closed concurrently.
	RecordCheckOut(ctx context.Context, id string, at time.Time, location GeoPoint, notes *string, workHours float64) error

	List(ctx context.Context, query ListQuery) ([]Attendance, int64, error)

	// ListForPeriod returns every record in [from, to) matching the scope,
	// oldest first. Empty statuses means all.
	ListForPeriod(ctx context.Context, employeeID, branchID string, from, to time.Time, statuses ...Status) ([]Attendance, error)

	// CreateAbsent records an absence for a registration that was never
	// checked into. It returns false when a record already exists.
	CreateAbsent(ctx context.Context, attendance Attendance) (Attendance, bool, error)
}
