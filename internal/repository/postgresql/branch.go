package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
)

type branchRepositoryImpl struct {
	db *database.DB
}

func NewBranchRepository(db *database.DB) branch.BranchRepository {
	return &branchRepositoryImpl{db: db}
}

// GetByID implements branch.BranchRepository.
func (r *branchRepositoryImpl) GetByID(ctx context.Context, id string) (branch.Branch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, address, latitude, longitude, radius_meters, created_at, updated_at
		FROM branches
		WHERE id = $1
	`

	var (
		result    branch.Branch
		latitude  *float64
		longitude *float64
		radius    int
	)
	err := q.QueryRow(ctx, query, id).Scan(
		&result.ID,
		&result.Name,
		&result.Address,
		&latitude,
		&longitude,
		&radius,
		&result.CreatedAt,
		&result.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return branch.Branch{}, branch.ErrBranchNotFound
		}
		return branch.Branch{}, fmt.Errorf("failed to get branch: %w", err)
	}

	// A branch without coordinates has no geofence.
	if latitude != nil && longitude != nil {
		result.Location = &branch.Location{
			Latitude:     *latitude,
			Longitude:    *longitude,
			RadiusMeters: radius,
		}
	}

	return result, nil
}
