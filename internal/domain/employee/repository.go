package employee

import (
	"context"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// LockForUpdate locks the employee row for the surrounding transaction.
	LockForUpdate(ctx context.Context, id string) error
	ListByBranchAndRole(ctx context.Context, branchID string, role user.Role) ([]Employee, error)
}
