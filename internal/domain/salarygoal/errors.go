package salarygoal

import "errors"

var (
	ErrGoalNotFound  = errors.New("salary goal not found")
	ErrNoCurrentGoal = errors.New("no goal set for current month, please create a goal first")
)
