package employee

import (
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
)

type Employee struct {
	ID        string
	BranchID  string
	Name      string
	Email     string
	Role      user.Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
