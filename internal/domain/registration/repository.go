package registration

import (
	"context"
	"time"
)

type RegistrationRepository interface {
	// Create persists a pending registration. A clash on
	// (employee, shift, date) is reported as ErrDuplicateRegistration.
	Create(ctx context.Context, reg Registration) (Registration, error)

	GetByID(ctx context.Context, id string) (Registration, error)

	ExistsForEmployeeShiftDate(ctx context.Context, employeeID, shiftID string, date time.Time) (bool, error)

	// ListActiveByEmployeeAndDate returns the employee's pending and approved
	// registrations on date, with shift times joined.
	ListActiveByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]Registration, error)

	CountApproved(ctx context.Context, shiftID string, date time.Time) (int, error)

	// UpdateStatus moves a registration from one status to another. It reports
	// ErrNotPending when the row is no longer in the expected status.
	UpdateStatus(ctx context.Context, id string, from, to Status, reviewerID string, note *string, reviewedAt time.Time) error

	Delete(ctx context.Context, id string) error

	List(ctx context.Context, query ListQuery) ([]Registration, int64, error)

	// ListApprovedWithoutAttendance returns approved registrations dated before
	// the given day that have no attendance record.
	ListApprovedWithoutAttendance(ctx context.Context, before time.Time, limit int) ([]Registration, error)

	ListApprovedUnreminded(ctx context.Context, date time.Time) ([]Registration, error)
	MarkReminded(ctx context.Context, id string, at time.Time) error
}
