package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, branch_id, name, email, role, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		e        employee.Employee
		branchID *string
		role     string
	)
	if err := row.Scan(&e.ID, &branchID, &e.Name, &e.Email, &role, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return employee.Employee{}, err
	}
	e.BranchID = valueOf(branchID)
	e.Role = user.Role(role)
	return e, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	result, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return result, nil
}

// LockForUpdate implements employee.EmployeeRepository. Writers that check
// an employee's own rows before inserting take this lock first.
func (e *employeeRepositoryImpl) LockForUpdate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, e.db)

	var locked string
	if err := q.QueryRow(ctx, `SELECT id FROM employees WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
		if isNoRows(err) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to lock employee: %w", err)
	}
	return nil
}

// ListByBranchAndRole implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListByBranchAndRole(ctx context.Context, branchID string, role user.Role) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE branch_id = $1 AND role = $2
		ORDER BY name
	`

	rows, err := q.Query(ctx, query, branchID, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}
