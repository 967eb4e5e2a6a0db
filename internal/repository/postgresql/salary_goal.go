package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salarygoal"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type salaryGoalRepository struct {
	db *database.DB
}

func NewSalaryGoalRepository(db *database.DB) salarygoal.SalaryGoalRepository {
	return &salaryGoalRepository{db: db}
}

const salaryGoalSelect = `
	SELECT g.id, g.employee_id, g.target_shifts, g.month, g.year, g.status, g.created_at, g.updated_at, e.name
	FROM salary_goals g
	INNER JOIN employees e ON e.id = g.employee_id
`

func scanSalaryGoal(row pgx.Row) (salarygoal.SalaryGoal, error) {
	var (
		g      salarygoal.SalaryGoal
		status string
	)
	if err := row.Scan(&g.ID, &g.EmployeeID, &g.TargetShifts, &g.Month, &g.Year, &status, &g.CreatedAt, &g.UpdatedAt, &g.EmployeeName); err != nil {
		return salarygoal.SalaryGoal{}, err
	}
	g.Status = salarygoal.Status(status)
	return g, nil
}

// Upsert implements salarygoal.SalaryGoalRepository. xmax is zero only on a
// freshly inserted row version.
func (r *salaryGoalRepository) Upsert(ctx context.Context, g salarygoal.SalaryGoal) (salarygoal.SalaryGoal, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_goals (employee_id, target_shifts, month, year, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT uq_salary_goal_employee_period DO UPDATE
		SET target_shifts = EXCLUDED.target_shifts,
			status = EXCLUDED.status,
			updated_at = NOW()
		RETURNING id, (xmax = 0)
	`

	var (
		id      string
		created bool
	)
	if err := q.QueryRow(ctx, query, g.EmployeeID, g.TargetShifts, g.Month, g.Year, string(g.Status)).Scan(&id, &created); err != nil {
		return salarygoal.SalaryGoal{}, false, fmt.Errorf("failed to upsert salary goal: %w", err)
	}

	saved, err := r.GetByID(ctx, g.EmployeeID, id)
	if err != nil {
		return salarygoal.SalaryGoal{}, false, err
	}
	return saved, created, nil
}

// GetByID implements salarygoal.SalaryGoalRepository.
func (r *salaryGoalRepository) GetByID(ctx context.Context, employeeID, id string) (salarygoal.SalaryGoal, error) {
	return r.get(ctx, " WHERE g.id = $1 AND g.employee_id = $2", id, employeeID)
}

// GetForPeriod implements salarygoal.SalaryGoalRepository.
func (r *salaryGoalRepository) GetForPeriod(ctx context.Context, employeeID string, month, year int) (salarygoal.SalaryGoal, error) {
	return r.get(ctx, " WHERE g.employee_id = $1 AND g.month = $2 AND g.year = $3", employeeID, month, year)
}

func (r *salaryGoalRepository) get(ctx context.Context, where string, args ...interface{}) (salarygoal.SalaryGoal, error) {
	g, err := scanSalaryGoal(GetQuerier(ctx, r.db).QueryRow(ctx, salaryGoalSelect+where, args...))
	if err != nil {
		if isNoRows(err) {
			return salarygoal.SalaryGoal{}, salarygoal.ErrGoalNotFound
		}
		return salarygoal.SalaryGoal{}, fmt.Errorf("failed to get salary goal: %w", err)
	}
	return g, nil
}

// ListRecent implements salarygoal.SalaryGoalRepository.
func (r *salaryGoalRepository) ListRecent(ctx context.Context, employeeID string, limit int) ([]salarygoal.SalaryGoal, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, salaryGoalSelect+` WHERE g.employee_id = $1 ORDER BY g.year DESC, g.month DESC LIMIT $2`, employeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query salary goals: %w", err)
	}
	defer rows.Close()

	var goals []salarygoal.SalaryGoal
	for rows.Next() {
		g, err := scanSalaryGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary goals: %w", err)
	}
	return goals, nil
}

// Update implements salarygoal.SalaryGoalRepository.
func (r *salaryGoalRepository) Update(ctx context.Context, g salarygoal.SalaryGoal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_goals
		SET target_shifts = $3,
			status = $4,
			updated_at = NOW()
		WHERE id = $1 AND employee_id = $2
	`
	tag, err := q.Exec(ctx, query, g.ID, g.EmployeeID, g.TargetShifts, string(g.Status))
	if err != nil {
		return fmt.Errorf("failed to update salary goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salarygoal.ErrGoalNotFound
	}
	return nil
}

// Delete implements salarygoal.SalaryGoalRepository.
func (r *salaryGoalRepository) Delete(ctx context.Context, employeeID, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM salary_goals WHERE id = $1 AND employee_id = $2`, id, employeeID)
	if err != nil {
		return fmt.Errorf("failed to delete salary goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salarygoal.ErrGoalNotFound
	}
	return nil
}
