package violation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type ViolationRepository interface {
	Create(ctx context.Context, v Violation) (Violation, error)
	GetByID(ctx context.Context, id string) (Violation, error)
	List(ctx context.Context, query ListQuery) ([]Violation, int64, error)
	Update(ctx context.Context, v Violation) error
	Delete(ctx context.Context, id string) error

	// SumPenalties totals penalty amounts dated within [from, to).
	SumPenalties(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error)
}
