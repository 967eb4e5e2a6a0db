package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const uqPayrollEmployeePeriod = "uq_payroll_employee_period"

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollSelect = `
	SELECT
		p.id, p.employee_id, p.branch_id, p.month, p.year,
		p.base_salary, p.total_work_hours, p.overtime_hours, p.overtime_rate, p.overtime_pay, p.bonuses,
		p.deduction_violations, p.deduction_late, p.deduction_absences, p.deduction_other,
		p.gross_salary, p.net_salary, p.status, p.paid_at, p.paid_by, p.notes, p.recalculated_at,
		p.created_at, p.updated_at,
		e.name
	FROM payrolls p
	INNER JOIN employees e ON e.id = p.employee_id
`

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var (
		p        payroll.Payroll
		branchID *string
		status   string
	)
	err := row.Scan(
		&p.ID, &p.EmployeeID, &branchID, &p.Month, &p.Year,
		&p.BaseSalary, &p.TotalWorkHours, &p.OvertimeHours, &p.OvertimeRate, &p.OvertimePay, &p.Bonuses,
		&p.Deductions.Violations, &p.Deductions.LateDeductions, &p.Deductions.Absences, &p.Deductions.Other,
		&p.GrossSalary, &p.NetSalary, &status, &p.PaidAt, &p.PaidBy, &p.Notes, &p.RecalculatedAt,
		&p.CreatedAt, &p.UpdatedAt,
		&p.EmployeeName,
	)
	if err != nil {
		return payroll.Payroll{}, err
	}
	p.BranchID = valueOf(branchID)
	p.Status = payroll.Status(status)
	return p, nil
}

// Create implements payroll.PayrollRepository.
func (r *payrollRepository) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payrolls (
			employee_id, branch_id, month, year,
			base_salary, total_work_hours, overtime_hours, overtime_rate, overtime_pay, bonuses,
			deduction_violations, deduction_late, deduction_absences, deduction_other,
			gross_salary, net_salary, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		p.EmployeeID, nullIfEmpty(p.BranchID), p.Month, p.Year,
		p.BaseSalary, p.TotalWorkHours, p.OvertimeHours, p.OvertimeRate, p.OvertimePay, p.Bonuses,
		p.Deductions.Violations, p.Deductions.LateDeductions, p.Deductions.Absences, p.Deductions.Other,
		p.GrossSalary, p.NetSalary, string(p.Status), p.Notes,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err, uqPayrollEmployeePeriod) {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyExists
		}
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll: %w", err)
	}

	return r.GetByID(ctx, id)
}

// ExistsForPeriod implements payroll.PayrollRepository.
func (r *payrollRepository) ExistsForPeriod(ctx context.Context, employeeID string, month, year int) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS (SELECT 1 FROM payrolls WHERE employee_id = $1 AND month = $2 AND year = $3)`
	exists, err := rowExists(ctx, q, query, employeeID, month, year)
	if err != nil {
		return false, fmt.Errorf("failed to check payroll period: %w", err)
	}
	return exists, nil
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayroll(q.QueryRow(ctx, payrollSelect+" WHERE p.id = $1", id))
	if err != nil {
		if isNoRows(err) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll: %w", err)
	}
	return p, nil
}

// Latest implements payroll.PayrollRepository.
func (r *payrollRepository) Latest(ctx context.Context, employeeID string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := payrollSelect + ` WHERE p.employee_id = $1 ORDER BY p.year DESC, p.month DESC LIMIT 1`
	p, err := scanPayroll(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if isNoRows(err) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get latest payroll: %w", err)
	}
	return p, nil
}

// List implements payroll.PayrollRepository.
func (r *payrollRepository) List(ctx context.Context, query payroll.ListQuery) ([]payroll.Payroll, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := newWhere("TRUE")
	if query.EmployeeID != "" {
		where.add("p.employee_id = $%d", query.EmployeeID)
	}
	if query.BranchID != "" {
		where.add("p.branch_id = $%d", query.BranchID)
	}
	if query.Month != 0 {
		where.add("p.month = $%d", query.Month)
	}
	if query.Year != 0 {
		where.add("p.year = $%d", query.Year)
	}
	if query.Status != "" {
		where.add("p.status = $%d", string(query.Status))
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM payrolls p WHERE "+where.clause, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payrolls: %w", err)
	}

	limitIdx := where.next()
	selectQuery := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY p.year DESC, p.month DESC, e.name
		LIMIT $%d OFFSET $%d
	`, payrollSelect, where.clause, limitIdx, limitIdx+1)

	args := append(where.args, query.Limit, pagination.Offset(query.Page, query.Limit))
	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payrolls: %w", err)
	}

	return payrolls, total, nil
}

// statusAfterMiss resolves why a conditional update touched no row.
func (r *payrollRepository) statusAfterMiss(ctx context.Context, id string) (payroll.Status, error) {
	q := GetQuerier(ctx, r.db)

	var status string
	if err := q.QueryRow(ctx, `SELECT status FROM payrolls WHERE id = $1`, id).Scan(&status); err != nil {
		if isNoRows(err) {
			return "", payroll.ErrPayrollNotFound
		}
		return "", fmt.Errorf("failed to get payroll status: %w", err)
	}
	return payroll.Status(status), nil
}

// UpdateCalculation implements payroll.PayrollRepository.
func (r *payrollRepository) UpdateCalculation(ctx context.Context, p payroll.Payroll, recalculatedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls
		SET base_salary = $2,
			total_work_hours = $3,
			overtime_hours = $4,
			overtime_rate = $5,
			overtime_pay = $6,
			bonuses = $7,
			deduction_violations = $8,
			deduction_late = $9,
			deduction_absences = $10,
			deduction_other = $11,
			gross_salary = $12,
			net_salary = $13,
			recalculated_at = $14,
			updated_at = $14
		WHERE id = $1 AND status = 'draft'
	`
	tag, err := q.Exec(ctx, query,
		p.ID,
		p.BaseSalary, p.TotalWorkHours, p.OvertimeHours, p.OvertimeRate, p.OvertimePay, p.Bonuses,
		p.Deductions.Violations, p.Deductions.LateDeductions, p.Deductions.Absences, p.Deductions.Other,
		p.GrossSalary, p.NetSalary,
		recalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll calculation: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	if _, err := r.statusAfterMiss(ctx, p.ID); err != nil {
		return err
	}
	return payroll.ErrNotDraft
}

// UpdateStatus implements payroll.PayrollRepository.
func (r *payrollRepository) UpdateStatus(ctx context.Context, id string, from, to payroll.Status, notes *string, paidAt *time.Time, paidBy *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls
		SET status = $3,
			notes = COALESCE($4, notes),
			paid_at = COALESCE($5, paid_at),
			paid_by = COALESCE($6, paid_by),
			updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	tag, err := q.Exec(ctx, query, id, string(from), string(to), notes, paidAt, paidBy)
	if err != nil {
		return fmt.Errorf("failed to update payroll status: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	current, err := r.statusAfterMiss(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: payroll is %s", payroll.ErrInvalidStatusTransition, current)
}

// Delete implements payroll.PayrollRepository.
func (r *payrollRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payrolls WHERE id = $1 AND status = 'draft'`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payroll: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	if _, err := r.statusAfterMiss(ctx, id); err != nil {
		return err
	}
	return payroll.ErrNotDraft
}
