package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const uqAttendanceRegistrationDate = "uq_attendance_registration_date"

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceSelect = `
	SELECT
		a.id, a.employee_id, a.shift_id, a.registration_id, a.date,
		a.check_in_time, a.check_out_time,
		a.check_in_latitude, a.check_in_longitude,
		a.check_out_latitude, a.check_out_longitude,
		a.status, a.notes, a.work_hours, a.created_at, a.updated_at,
		e.name, e.branch_id, s.name, s.start_time, s.end_time
	FROM attendances a
	INNER JOIN employees e ON e.id = a.employee_id
	INNER JOIN shifts s ON s.id = a.shift_id
`

var attendanceSortColumns = map[string]string{
	"date":           "a.date",
	"check_in_time":  "a.check_in_time",
	"check_out_time": "a.check_out_time",
	"status":         "a.status",
	"work_hours":     "a.work_hours",
	"created_at":     "a.created_at",
}

func geoPoint(lat, lon *float64) *attendance.GeoPoint {
	if lat == nil || lon == nil {
		return nil
	}
	return &attendance.GeoPoint{Latitude: *lat, Longitude: *lon}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		att              attendance.Attendance
		status           string
		inLat, inLon     *float64
		outLat, outLon   *float64
		employeeBranchID *string
	)
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.ShiftID, &att.RegistrationID, &att.Date,
		&att.CheckInTime, &att.CheckOutTime,
		&inLat, &inLon,
		&outLat, &outLon,
		&status, &att.Notes, &att.WorkHours, &att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeName, &employeeBranchID, &att.ShiftName, &att.ShiftStartTime, &att.ShiftEndTime,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	att.Status = attendance.Status(status)
	att.CheckInLocation = geoPoint(inLat, inLon)
	att.CheckOutLocation = geoPoint(outLat, outLon)
	att.EmployeeBranchID = valueOf(employeeBranchID)
	return att, nil
}

func collectAttendances(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}
	return attendances, nil
}

func splitPoint(p *attendance.GeoPoint) (*float64, *float64) {
	if p == nil {
		return nil, nil
	}
	return &p.Latitude, &p.Longitude
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	lat, lon := splitPoint(newAttendance.CheckInLocation)
	query := `
		INSERT INTO attendances (
			employee_id, shift_id, registration_id, date,
			check_in_time, check_in_latitude, check_in_longitude,
			status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		newAttendance.EmployeeID,
		newAttendance.ShiftID,
		newAttendance.RegistrationID,
		newAttendance.Date,
		newAttendance.CheckInTime,
		lat,
		lon,
		string(newAttendance.Status),
		newAttendance.Notes,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err, uqAttendanceRegistrationDate) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return a.GetByID(ctx, id)
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	att, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+" WHERE a.id = $1", id))
	if err != nil {
		if isNoRows(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

// ExistsForRegistration implements attendance.AttendanceRepository.
func (a *attendanceRepository) ExistsForRegistration(ctx context.Context, registrationID string, dayStart, dayEnd time.Time) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM attendances
			WHERE registration_id = $1 AND date >= $2 AND date < $3
		)
	`
	exists, err := rowExists(ctx, q, query, registrationID, dayStart, dayEnd)
	if err != nil {
		return false, fmt.Errorf("failed to check attendance: %w", err)
	}
	return exists, nil
}

// RecordCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) RecordCheckOut(ctx context.Context, id string, at time.Time, location attendance.GeoPoint, notes *string, workHours float64) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_out_time = $2,
			check_out_latitude = $3,
			check_out_longitude = $4,
			notes = COALESCE($5, notes),
			work_hours = $6,
			status = 'checked-out',
			updated_at = $2
		WHERE id = $1 AND check_in_time IS NOT NULL AND check_out_time IS NULL
	`
	tag, err := q.Exec(ctx, query, id, at, location.Latitude, location.Longitude, notes, workHours)
	if err != nil {
		return fmt.Errorf("failed to record check-out: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	current, err := a.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !current.HasCheckedIn() {
		return attendance.ErrNotCheckedIn
	}
	return attendance.ErrAlreadyCheckedOut
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, query attendance.ListQuery) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	where := newWhere("TRUE")
	if query.EmployeeID != "" {
		where.add("a.employee_id = $%d", query.EmployeeID)
	}
	if query.BranchID != "" {
		where.add("e.branch_id = $%d", query.BranchID)
	}
	if query.ShiftID != "" {
		where.add("a.shift_id = $%d", query.ShiftID)
	}
	if query.Status != "" {
		where.add("a.status = $%d", string(query.Status))
	}
	if query.DateFrom != nil {
		where.add("a.date >= $%d", *query.DateFrom)
	}
	if query.DateTo != nil {
		where.add("a.date < $%d", *query.DateTo)
	}

	countQuery := `
		SELECT COUNT(*)
		FROM attendances a
		INNER JOIN employees e ON e.id = a.employee_id
		WHERE ` + where.clause
	var total int64
	if err := q.QueryRow(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	orderBy, ok := attendanceSortColumns[query.SortBy]
	if !ok {
		orderBy = "a.date"
	}
	sortOrder := "DESC"
	if query.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	limitIdx := where.next()
	selectQuery := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY %s %s NULLS LAST, a.created_at DESC
		LIMIT $%d OFFSET $%d
	`, attendanceSelect, where.clause, orderBy, sortOrder, limitIdx, limitIdx+1)

	args := append(where.args, query.Limit, pagination.Offset(query.Page, query.Limit))
	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	attendances, err := collectAttendances(rows)
	if err != nil {
		return nil, 0, err
	}
	return attendances, total, nil
}

// ListForPeriod implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListForPeriod(ctx context.Context, employeeID, branchID string, from, to time.Time, statuses ...attendance.Status) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	where := newWhere("a.date >= $1 AND a.date < $2", from, to)
	if employeeID != "" {
		where.add("a.employee_id = $%d", employeeID)
	}
	if branchID != "" {
		where.add("e.branch_id = $%d", branchID)
	}
	if len(statuses) > 0 {
		names := make([]string, len(statuses))
		for i, s := range statuses {
			names[i] = string(s)
		}
		where.add("a.status = ANY($%d)", names)
	}

	rows, err := q.Query(ctx, attendanceSelect+" WHERE "+where.clause+" ORDER BY a.date, a.check_in_time", where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances for period: %w", err)
	}
	return collectAttendances(rows)
}

// CreateAbsent implements attendance.AttendanceRepository.
func (a *attendanceRepository) CreateAbsent(ctx context.Context, absent attendance.Attendance) (attendance.Attendance, bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (employee_id, shift_id, registration_id, date, status, notes)
		VALUES ($1, $2, $3, $4, 'absent', $5)
		ON CONFLICT ON CONSTRAINT ` + uqAttendanceRegistrationDate + ` DO NOTHING
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		absent.EmployeeID,
		absent.ShiftID,
		absent.RegistrationID,
		absent.Date,
		absent.Notes,
	).Scan(&id)
	if err != nil {
		if isNoRows(err) {
			return attendance.Attendance{}, false, nil
		}
		return attendance.Attendance{}, false, fmt.Errorf("failed to create absent attendance: %w", err)
	}

	created, err := a.GetByID(ctx, id)
	if err != nil {
		return attendance.Attendance{}, false, err
	}
	return created, true, nil
}
