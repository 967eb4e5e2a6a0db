package payroll

import (
	"context"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

// PenaltyLedger supplies violation penalties consumed as a deduction.
type PenaltyLedger interface {
	SumPenaltiesForPeriod(ctx context.Context, employeeID string, month, year int) (decimal.Decimal, error)
}

type PayrollService interface {
	Calculate(ctx context.Context, actor user.RequestingUser, req CalculatePayrollRequest) (PayrollResponse, error)
	List(ctx context.Context, actor user.RequestingUser, filter PayrollFilter) (ListPayrollResponse, error)
	GetByID(ctx context.Context, actor user.RequestingUser, id string) (PayrollResponse, error)
	UpdateStatus(ctx context.Context, actor user.RequestingUser, id string, req UpdatePayrollStatusRequest) (PayrollResponse, error)
	Recalculate(ctx context.Context, actor user.RequestingUser, id string) (PayrollResponse, error)
	Delete(ctx context.Context, actor user.RequestingUser, id string) error
	ProcessPayment(ctx context.Context, actor user.RequestingUser, id string) (PayrollResponse, error)
}
