package violation

import (
	"context"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

type ViolationService interface {
	Create(ctx context.Context, actor user.RequestingUser, req CreateViolationRequest) (ViolationResponse, error)
	List(ctx context.Context, actor user.RequestingUser, filter ViolationFilter) (ListViolationResponse, error)
	GetByID(ctx context.Context, actor user.RequestingUser, id string) (ViolationResponse, error)
	Update(ctx context.Context, actor user.RequestingUser, id string, req UpdateViolationRequest) (ViolationResponse, error)
	Acknowledge(ctx context.Context, actor user.RequestingUser, id string) (ViolationResponse, error)
	Delete(ctx context.Context, actor user.RequestingUser, id string) error

	// SumPenaltiesForPeriod totals the employee's penalties in a local calendar month.
	SumPenaltiesForPeriod(ctx context.Context, employeeID string, month, year int) (decimal.Decimal, error)
}
