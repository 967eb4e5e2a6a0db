package salarygoal

import (
	"context"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
)

// SalaryGoalService manages the caller's own monthly shift goals.
type SalaryGoalService interface {
	// CreateOrUpdate reports created=false when an existing goal for the
	// period was overwritten.
	CreateOrUpdate(ctx context.Context, actor user.RequestingUser, req CreateGoalRequest) (resp GoalResponse, created bool, err error)
	Current(ctx context.Context, actor user.RequestingUser) (CurrentGoalResponse, error)
	History(ctx context.Context, actor user.RequestingUser, query HistoryQuery) ([]GoalHistoryItem, error)
	Update(ctx context.Context, actor user.RequestingUser, id string, req UpdateGoalRequest) (GoalResponse, error)
	Delete(ctx context.Context, actor user.RequestingUser, id string) error
}
