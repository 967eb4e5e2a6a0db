package payroll

import (
	"context"
	"time"
)

type PayrollRepository interface {
	// Create inserts a draft. A second payroll for the same
	// (employee, month, year) is reported as ErrPayrollAlreadyExists.
	Create(ctx context.Context, p Payroll) (Payroll, error)

	ExistsForPeriod(ctx context.Context, employeeID string, month, year int) (bool, error)
	GetByID(ctx context.Context, id string) (Payroll, error)

	// Latest returns the employee's most recent payroll by period, or
	// ErrPayrollNotFound when there is none.
	Latest(ctx context.Context, employeeID string) (Payroll, error)

	List(ctx context.Context, query ListQuery) ([]Payroll, int64, error)

	// UpdateCalculation overwrites the computed figures of a draft and stamps
	// recalculatedAt. It reports ErrNotDraft when the record left draft.
	UpdateCalculation(ctx context.Context, p Payroll, recalculatedAt time.Time) error

	// UpdateStatus moves the payroll from one status to another, optionally
	// stamping payment. It reports ErrInvalidStatusTransition when the row is no
	// longer in the expected status.
	UpdateStatus(ctx context.Context, id string, from, to Status, notes *string, paidAt *time.Time, paidBy *string) error

	// Delete removes a draft. It reports ErrNotDraft otherwise.
	Delete(ctx context.Context, id string) error
}
