package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

const shiftSelect = `
	SELECT id, branch_id, name, start_time, end_time, max_employees, description, created_at, updated_at
	FROM shifts
	WHERE id = $1
`

func (r *shiftRepositoryImpl) get(ctx context.Context, query, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	var s shift.Shift
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.BranchID,
		&s.Name,
		&s.StartTime,
		&s.EndTime,
		&s.MaxEmployees,
		&s.Description,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return s, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	return r.get(ctx, shiftSelect, id)
}

// GetByIDForUpdate implements shift.ShiftRepository. Outside a transaction the
// row lock is released immediately.
func (r *shiftRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (shift.Shift, error) {
	return r.get(ctx, shiftSelect+" FOR UPDATE", id)
}
