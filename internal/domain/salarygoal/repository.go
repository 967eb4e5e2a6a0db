package salarygoal

import "context"

type SalaryGoalRepository interface {
	// Upsert creates the goal for (employee, month, year) or, when one exists,
	// overwrites its target and reactivates it. created reports which happened.
	Upsert(ctx context.Context, g SalaryGoal) (goal SalaryGoal, created bool, err error)

	// GetByID returns the goal only when it belongs to employeeID.
	GetByID(ctx context.Context, employeeID, id string) (SalaryGoal, error)
	GetForPeriod(ctx context.Context, employeeID string, month, year int) (SalaryGoal, error)

	// ListRecent returns up to limit goals, newest period first.
	ListRecent(ctx context.Context, employeeID string, limit int) ([]SalaryGoal, error)

	Update(ctx context.Context, g SalaryGoal) error
	Delete(ctx context.Context, employeeID, id string) error
}
