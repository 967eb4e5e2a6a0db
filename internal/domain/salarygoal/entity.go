package salarygoal

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// SalaryGoal is an employee's target number of worked shifts for one month.
type SalaryGoal struct {
	ID           string
	EmployeeID   string
	TargetShifts int
	Month        int
	Year         int
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined
	EmployeeName string
}
