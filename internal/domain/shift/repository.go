package shift

import "context"

type ShiftRepository interface {
	GetByID(ctx context.Context, id string) (Shift, error)
	// GetByIDForUpdate locks the shift row for the surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id string) (Shift, error)
}
