package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/registration"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const (
	uqRegistrationEmployeeShiftDate = "uq_registration_employee_shift_date"
	fkAttendanceRegistration        = "fk_attendance_registration"
)

type registrationRepositoryImpl struct {
	db *database.DB
}

func NewRegistrationRepository(db *database.DB) registration.RegistrationRepository {
	return &registrationRepositoryImpl{db: db}
}

const registrationSelect = `
	SELECT
		r.id, r.employee_id, r.shift_id, r.date, r.status, r.note,
		r.reviewed_by, r.reviewed_at, r.reminder_sent_at, r.created_at, r.updated_at,
		e.name, e.branch_id, s.name, s.branch_id, s.start_time, s.end_time
	FROM shift_registrations r
	INNER JOIN employees e ON e.id = r.employee_id
	INNER JOIN shifts s ON s.id = r.shift_id
`

var registrationSortColumns = map[string]string{
	"date":       "r.date",
	"status":     "r.status",
	"created_at": "r.created_at",
	"updated_at": "r.updated_at",
}

func scanRegistration(row pgx.Row) (registration.Registration, error) {
	var (
		reg              registration.Registration
		status           string
		employeeBranchID *string
	)
	err := row.Scan(
		&reg.ID,
		&reg.EmployeeID,
		&reg.ShiftID,
		&reg.Date,
		&status,
		&reg.Note,
		&reg.ReviewedBy,
		&reg.ReviewedAt,
		&reg.ReminderSentAt,
		&reg.CreatedAt,
		&reg.UpdatedAt,
		&reg.EmployeeName,
		&employeeBranchID,
		&reg.ShiftName,
		&reg.ShiftBranchID,
		&reg.ShiftStartTime,
		&reg.ShiftEndTime,
	)
	if err != nil {
		return registration.Registration{}, err
	}
	reg.Status = registration.Status(status)
	reg.EmployeeBranchID = valueOf(employeeBranchID)
	return reg, nil
}

func collectRegistrations(rows pgx.Rows) ([]registration.Registration, error) {
	defer rows.Close()

	var regs []registration.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate registrations: %w", err)
	}
	return regs, nil
}

// Create implements registration.RegistrationRepository.
func (r *registrationRepositoryImpl) Create(ctx context.Context, reg registration.Registration) (registration.Registration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_registrations (employee_id, shift_id, date, status, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query, reg.EmployeeID, reg.ShiftID, reg.Date, string(reg.Status), reg.Note).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err, uqRegistrationEmployeeShiftDate) {
			return registration.Registration{}, registration.ErrDuplicateRegistration
		}
		return registration.Registration{}, fmt.Errorf("failed to create registration: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements registration.RegistrationRepository.
func (r *registrationRepositoryImpl) GetByID(ctx context.Context, id string) (registration.Registration, error) {
	q := GetQuerier(ctx, r.db)

	reg, err := scanRegistration(q.QueryRow(ctx, registrationSelect+" WHERE r.id = $1", id))
	if err != nil {
		if isNoRows(err) {
			return registration.Registration{}, registration.ErrRegistrationNotFound
		}
		return registration.Registration{}, fmt.Errorf("failed to get registration: %w", err)
	}
	return reg, nil
}

// ExistsForEmployeeShiftDate implements registration.RegistrationRepository.
func (r *registrationRepositoryImpl) ExistsForEmployeeShiftDate(ctx context.Context, employeeID, shiftID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM shift_registrations
			WHERE employee_id = $1 AND shift_id = $2 AND date = $3
		)
	`
	exists, err := rowExists(ctx, q, query, employeeID, shiftID, date)
	if err != nil {
		return false, fmt.Errorf("failed to check registration: %w", err)
	}
	return exists, nil
}

// ListActiveByEmployeeAndDate implements registration.RegistrationRepository.
func (r *registrationRepositoryImpl) ListActiveByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]registration.Registration, error) {
	q := GetQuerier(ctx, r.db)

	query := registrationSelect + `
		WHERE r.employee_id = $1 AND r.date = $2 AND r.status IN ('pending', 'approved')
		ORDER BY s.start_time
	`
	rows, err := q.Query(ctx, query, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list active registrations: %w", err)
	}
	return collectRegistrations(rows)
}

// CountApproved implements registration.RegistrationRepository.
func (r *registrationRepositoryImpl) CountApproved(ctx context.Context, shiftID string, date time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*) FROM shift_registrations
		WHERE shift_id = $1 AND date = $2 AND status = 'approved'
	`
	var count int
	if err := q.QueryRow(ctx, query, shiftID, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count approved registrations: %w", err)
	}
	return count, nil
}

// UpdateStatus implements registration.RegistrationRepository.
func (r *registrationRepositoryImpl) UpdateStatus(ctx context.Context, id string, from, to registration.Status, reviewerID string, note *string, reviewedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_registrations
		SET status = $3, reviewed_by = $4, reviewed_at = $5, note = COALESCE($6, note), updated_at = $5
		WHERE id = $1 AND status = $2
	`
	tag, err := q.Exec(ctx, query, id, string(from), string(to), reviewerID, reviewedAt, note)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	exists, err := rowExists(ctx, q, `SELECT EXISTS (SELECT 1 FROM shift_registrations WHERE id = $1)`, id)
	if err != nil {
		return fmt.Errorf("failed to check registration: %w", err)
	}
	if !exists {
		return registration.ErrRegistrationNotFound
	}
	return registration.ErrNotPending
}

// Delete implements registration.RegistrationRepository.
func (r *registrationRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shift_registrations WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err, fkAttendanceRegistration) {
			return registration.ErrHasAttendance
		}
		return fmt.Errorf("failed to delete registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return registration.ErrRegistrationNotFound
	}
	return nil
}

// List implements registration.RegistrationRepository.
func (r *registrationRepositoryImpl) List(ctx context.Context, query registration.ListQuery) ([]registration.Registration, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := newWhere("TRUE")
	if query.EmployeeID != "" {
		where.add("r.employee_id = $%d", query.EmployeeID)
	}
	if query.BranchID != "" {
		where.add("e.branch_id = $%d", query.BranchID)
	}
	if query.ShiftID != "" {
		where.add("r.shift_id = $%d", query.ShiftID)
	}
	if query.Status != "" {
		where.add("r.status = $%d", string(query.Status))
	}
	if query.DateFrom != nil {
		where.add("r.date >= $%d", *query.DateFrom)
	}
	if query.DateTo != nil {
		where.add("r.date < $%d", *query.DateTo)
	}

	countQuery := `
		SELECT COUNT(*)
		FROM shift_registrations r
		INNER JOIN employees e ON e.id = r.employee_id
		WHERE ` + where.clause
	var total int64
	if err := q.QueryRow(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count registrations: %w", err)
	}

	orderBy, ok := registrationSortColumns[query.SortBy]
	if !ok {
		orderBy = "r.date"
	}
	sortOrder := "DESC"
	if query.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	limitIdx := where.next()
	selectQuery := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY %s %s, r.created_at DESC
		LIMIT $%d OFFSET $%d
	`, registrationSelect, where.clause, orderBy, sortOrder, limitIdx, limitIdx+1)

	args := append(where.args, query.Limit, pagination.Offset(query.Page, query.Limit))
	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query registrations: %w", err)
	}
	regs, err := collectRegistrations(rows)
	if err != nil {
		return nil, 0, err
	}
	return regs, total, nil
}

// ListApprovedWithoutAttendance implements registration.RegistrationRepository.
// A non-positive limit returns every match.
func (r *registrationRepositoryImpl) ListApprovedWithoutAttendance(ctx context.Context, before time.Time, limit int) ([]registration.Registration, error) {
	q := GetQuerier(ctx, r.db)

	query := registrationSelect + `
		WHERE r.status = 'approved'
			AND r.date < $1
			AND NOT EXISTS (SELECT 1 FROM attendances a WHERE a.registration_id = r.id)
		ORDER BY r.date
		LIMIT NULLIF($2::int, 0)
	`
	if limit < 0 {
		limit = 0
	}
	rows, err := q.Query(ctx, query, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unattended registrations: %w", err)
	}
	return collectRegistrations(rows)
}

// ListApprovedUnreminded implements registration.RegistrationRepository.
func (r *registrationRepositoryImpl) ListApprovedUnreminded(ctx context.Context, date time.Time) ([]registration.Registration, error) {
	q := GetQuerier(ctx, r.db)

	query := registrationSelect + `
		WHERE r.status = 'approved' AND r.date = $1 AND r.reminder_sent_at IS NULL
		ORDER BY s.start_time
	`
	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list unreminded registrations: %w", err)
	}
	return collectRegistrations(rows)
}

// MarkReminded implements registration.RegistrationRepository.
func (r *registrationRepositoryImpl) MarkReminded(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE shift_registrations SET reminder_sent_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark registration reminded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return registration.ErrRegistrationNotFound
	}
	return nil
}
