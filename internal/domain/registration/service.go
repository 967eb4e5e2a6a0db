package registration

import (
	"context"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
)

type RegistrationService interface {
	List(ctx context.Context, actor user.RequestingUser, filter RegistrationFilter) (ListRegistrationResponse, error)
	Create(ctx context.Context, actor user.RequestingUser, req CreateRegistrationRequest) (RegistrationResponse, error)
	Approve(ctx context.Context, actor user.RequestingUser, id string, req ReviewRegistrationRequest) (RegistrationResponse, error)
	Reject(ctx context.Context, actor user.RequestingUser, id string, req ReviewRegistrationRequest) (RegistrationResponse, error)
	Delete(ctx context.Context, actor user.RequestingUser, id string) error
}
