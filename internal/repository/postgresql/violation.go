package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/violation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type violationRepository struct {
	db *database.DB
}

func NewViolationRepository(db *database.DB) violation.ViolationRepository {
	return &violationRepository{db: db}
}

const violationSelect = `
	SELECT
		v.id, v.employee_id, v.branch_id, v.shift_id, v.title, v.description,
		v.violation_date, v.penalty_amount, v.status, v.created_by, v.notes,
		v.acknowledged_at, v.created_at, v.updated_at,
		e.name
	FROM violations v
	INNER JOIN employees e ON e.id = v.employee_id
`

func scanViolation(row pgx.Row) (violation.Violation, error) {
	var (
		v        violation.Violation
		branchID *string
		status   string
	)
	err := row.Scan(
		&v.ID, &v.EmployeeID, &branchID, &v.ShiftID, &v.Title, &v.Description,
		&v.ViolationDate, &v.PenaltyAmount, &status, &v.CreatedBy, &v.Notes,
		&v.AcknowledgedAt, &v.CreatedAt, &v.UpdatedAt,
		&v.EmployeeName,
	)
	if err != nil {
		return violation.Violation{}, err
	}
	v.BranchID = valueOf(branchID)
	v.Status = violation.Status(status)
	return v, nil
}

// Create implements violation.ViolationRepository.
func (r *violationRepository) Create(ctx context.Context, v violation.Violation) (violation.Violation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO violations (
			employee_id, branch_id, shift_id, title, description,
			violation_date, penalty_amount, status, created_by, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		v.EmployeeID, nullIfEmpty(v.BranchID), v.ShiftID, v.Title, v.Description,
		v.ViolationDate, v.PenaltyAmount, string(v.Status), v.CreatedBy, v.Notes,
	).Scan(&id)
	if err != nil {
		return violation.Violation{}, fmt.Errorf("failed to create violation: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements violation.ViolationRepository.
func (r *violationRepository) GetByID(ctx context.Context, id string) (violation.Violation, error) {
	q := GetQuerier(ctx, r.db)

	v, err := scanViolation(q.QueryRow(ctx, violationSelect+" WHERE v.id = $1", id))
	if err != nil {
		if isNoRows(err) {
			return violation.Violation{}, violation.ErrViolationNotFound
		}
		return violation.Violation{}, fmt.Errorf("failed to get violation: %w", err)
	}
	return v, nil
}

// List implements violation.ViolationRepository.
func (r *violationRepository) List(ctx context.Context, query violation.ListQuery) ([]violation.Violation, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := newWhere("TRUE")
	if query.EmployeeID != "" {
		where.add("v.employee_id = $%d", query.EmployeeID)
	}
	if query.BranchID != "" {
		where.add("v.branch_id = $%d", query.BranchID)
	}
	if query.Status != "" {
		where.add("v.status = $%d", string(query.Status))
	}
	if query.DateFrom != nil {
		where.add("v.violation_date >= $%d", *query.DateFrom)
	}
	if query.DateTo != nil {
		where.add("v.violation_date < $%d", *query.DateTo)
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM violations v WHERE "+where.clause, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count violations: %w", err)
	}

	limitIdx := where.next()
	selectQuery := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY v.violation_date DESC, v.created_at DESC
		LIMIT $%d OFFSET $%d
	`, violationSelect, where.clause, limitIdx, limitIdx+1)

	args := append(where.args, query.Limit, pagination.Offset(query.Page, query.Limit))
	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query violations: %w", err)
	}
	defer rows.Close()

	var violations []violation.Violation
	for rows.Next() {
		v, err := scanViolation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan violation: %w", err)
		}
		violations = append(violations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate violations: %w", err)
	}

	return violations, total, nil
}

// Update implements violation.ViolationRepository.
func (r *violationRepository) Update(ctx context.Context, v violation.Violation) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE violations
		SET title = $2,
			description = $3,
			penalty_amount = $4,
			status = $5,
			notes = $6,
			acknowledged_at = $7,
			updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		v.ID, v.Title, v.Description, v.PenaltyAmount, string(v.Status), v.Notes, v.AcknowledgedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update violation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return violation.ErrViolationNotFound
	}
	return nil
}

// Delete implements violation.ViolationRepository.
func (r *violationRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM violations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete violation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return violation.ErrViolationNotFound
	}
	return nil
}

// SumPenalties implements violation.ViolationRepository.
func (r *violationRepository) SumPenalties(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(penalty_amount), 0)
		FROM violations
		WHERE employee_id = $1 AND violation_date >= $2 AND violation_date < $3
	`
	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, from, to).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum violation penalties: %w", err)
	}
	return total, nil
}
