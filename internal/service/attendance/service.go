package attendance

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/registration"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/pagination"
)

// EarlyCheckInMinutes is how long before shift start a check-in is accepted.
const EarlyCheckInMinutes = 30

type AttendanceServiceImpl struct {
	tx               database.Transactor
	attendanceRepo   attendance.AttendanceRepository
	registrationRepo registration.RegistrationRepository
	shiftRepo        shift.ShiftRepository
	branchRepo       branch.BranchRepository
	employeeRepo     employee.EmployeeRepository
	clock            *clock.Clock
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	registrationRepo registration.RegistrationRepository,
	shiftRepo shift.ShiftRepository,
	branchRepo branch.BranchRepository,
	employeeRepo employee.EmployeeRepository,
	clk *clock.Clock,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:               tx,
		attendanceRepo:   attendanceRepo,
		registrationRepo: registrationRepo,
		shiftRepo:        shiftRepo,
		branchRepo:       branchRepo,
		employeeRepo:     employeeRepo,
		clock:            clk,
	}
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, actor user.RequestingUser, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	now := s.clock.Now()

	reg, err := s.registrationRepo.GetByID(ctx, req.RegistrationID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if reg.Status != registration.StatusApproved {
		return attendance.AttendanceResponse{}, attendance.ErrRegistrationNotApproved
	}
	if reg.EmployeeID != actor.ID {
		return attendance.AttendanceResponse{}, attendance.ErrNotRegistrationOwner
	}
	if !s.clock.IsToday(reg.Date) {
		return attendance.AttendanceResponse{}, fmt.Errorf("%w: registration date %s, today %s",
			attendance.ErrNotToday, s.clock.FormatDate(reg.Date), s.clock.FormatDate(now))
	}

	dayStart, dayEnd := s.clock.LocalDayBounds(now)
	exists, err := s.attendanceRepo.ExistsForRegistration(ctx, reg.ID, dayStart, dayEnd)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	if exists {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	sh, err := s.shiftRepo.GetByID(ctx, reg.ShiftID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	point := req.Point()
	if err := s.checkGeofence(ctx, sh.BranchID, point, "check-in"); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	shiftRange, err := sh.TimeRange()
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	window := shiftRange.ExtendStart(EarlyCheckInMinutes)
	minute := s.clock.MinuteOfDay(now)
	if !window.Contains(minute) {
		return attendance.AttendanceResponse{}, &attendance.WindowError{Window: window, At: minute}
	}

	var created attendance.Attendance
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		created, err = s.attendanceRepo.Create(ctx, attendance.Attendance{
			EmployeeID:      actor.ID,
			ShiftID:         sh.ID,
			RegistrationID:  reg.ID,
			Date:            dayStart,
			CheckInTime:     &now,
			CheckInLocation: &point,
			Status:          attendance.StatusCheckedIn,
			Notes:           req.Notes,
		})
		if err != nil {
			if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
				return err
			}
			return fmt.Errorf("failed to create attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return s.toResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, actor user.RequestingUser, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	now := s.clock.Now()

	att, err := s.attendanceRepo.GetByID(ctx, req.AttendanceID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if att.EmployeeID != actor.ID {
		return attendance.AttendanceResponse{}, attendance.ErrNotAttendanceOwner
	}
	if !att.HasCheckedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if att.HasCheckedOut() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	sh, err := s.shiftRepo.GetByID(ctx, att.ShiftID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	point := req.Point()
	if err := s.checkGeofence(ctx, sh.BranchID, point, "check-out"); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	workHours := attendance.ComputeWorkHours(*att.CheckInTime, now)
	if err := s.attendanceRepo.RecordCheckOut(ctx, att.ID, now, point, req.Notes, workHours); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	updated, err := s.attendanceRepo.GetByID(ctx, att.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to reload attendance: %w", err)
	}
	return s.toResponse(updated), nil
}

// checkGeofence rejects points beyond the branch radius. Branches without a
// configured centre accept any point.
func (s *AttendanceServiceImpl) checkGeofence(ctx context.Context, branchID string, p attendance.GeoPoint, action string) error {
	b, err := s.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return fmt.Errorf("failed to get branch: %w", err)
	}
	fence := b.CheckGeofence(p.Latitude, p.Longitude)
	if !fence.Within {
		return &attendance.GeofenceError{
			Action:         action,
			RadiusMeters:   fence.RadiusMeters,
			DistanceMeters: fence.DistanceMeters,
		}
	}
	return nil
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, actor user.RequestingUser, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	q := attendance.ListQuery{
		Page:      filter.Page,
		Limit:     filter.Limit,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}
	switch {
	case actor.IsEmployee():
		q.EmployeeID = actor.ID
	case actor.IsManager():
		if !actor.HasBranch() {
			return attendance.ListAttendanceResponse{
				Attendances: []attendance.AttendanceResponse{},
				Pagination:  pagination.New(q.Page, q.Limit, 0),
			}, nil
		}
		q.BranchID = actor.BranchID
	}
	if filter.EmployeeID != nil && !actor.IsEmployee() {
		q.EmployeeID = *filter.EmployeeID
	}
	if filter.ShiftID != nil {
		q.ShiftID = *filter.ShiftID
	}
	if filter.Status != nil {
		q.Status = attendance.Status(*filter.Status)
	}
	if filter.StartDate != nil {
		from, err := s.clock.ParseDate(*filter.StartDate)
		if err != nil {
			return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to parse start_date: %w", err)
		}
		q.DateFrom = &from
	}
	if filter.EndDate != nil {
		end, err := s.clock.ParseDate(*filter.EndDate)
		if err != nil {
			return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to parse end_date: %w", err)
		}
		_, to := s.clock.LocalDayBounds(end)
		q.DateTo = &to
	}

	records, total, err := s.attendanceRepo.List(ctx, q)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	resp := attendance.ListAttendanceResponse{
		Attendances: make([]attendance.AttendanceResponse, 0, len(records)),
		Pagination:  pagination.New(q.Page, q.Limit, total),
	}
	for _, a := range records {
		resp.Attendances = append(resp.Attendances, s.toResponse(a))
	}
	return resp, nil
}

// GetByID implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetByID(ctx context.Context, actor user.RequestingUser, id string) (attendance.AttendanceResponse, error) {
	att, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	switch {
	case actor.IsEmployee():
		if att.EmployeeID != actor.ID {
			return attendance.AttendanceResponse{}, attendance.ErrForbiddenView
		}
	case actor.IsManager():
		if !actor.InBranch(att.EmployeeBranchID) {
			return attendance.AttendanceResponse{}, attendance.ErrForbiddenBranch
		}
	}
	return s.toResponse(att), nil
}

// MonthlyReport implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MonthlyReport(ctx context.Context, actor user.RequestingUser, req attendance.MonthlyReportRequest) (attendance.MonthlyReportResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.MonthlyReportResponse{}, err
	}

	resp := attendance.MonthlyReportResponse{
		Month:       req.Month,
		Year:        req.Year,
		Attendances: []attendance.AttendanceResponse{},
	}

	var employeeID, branchID string
	switch {
	case actor.IsEmployee():
		employeeID = actor.ID
	case actor.IsManager():
		if req.EmployeeID != nil {
			target, err := s.employeeRepo.GetByID(ctx, *req.EmployeeID)
			if err != nil {
				return attendance.MonthlyReportResponse{}, err
			}
			if !actor.InBranch(target.BranchID) {
				return attendance.MonthlyReportResponse{}, attendance.ErrForbiddenBranch
			}
			employeeID = target.ID
		} else {
			if !actor.HasBranch() {
				return resp, nil
			}
			branchID = actor.BranchID
		}
	default:
		if req.EmployeeID != nil {
			employeeID = *req.EmployeeID
		}
	}

	from, to := s.clock.MonthBounds(req.Year, req.Month)
	records, err := s.attendanceRepo.ListForPeriod(ctx, employeeID, branchID, from, to)
	if err != nil {
		return attendance.MonthlyReportResponse{}, fmt.Errorf("failed to list attendances for month: %w", err)
	}

	resp.Summary = Summarize(records)
	for _, a := range records {
		resp.Attendances = append(resp.Attendances, s.toResponse(a))
	}
	return resp, nil
}

// Summarize aggregates a set of records. Checked-out records also count as
// checked in; absentDays is everything that never saw a check-in.
func Summarize(records []attendance.Attendance) attendance.MonthlySummary {
	var sum attendance.MonthlySummary
	var hours float64
	sum.TotalDays = len(records)
	for _, a := range records {
		switch a.Status {
		case attendance.StatusCheckedIn:
			sum.CheckedInDays++
		case attendance.StatusCheckedOut:
			sum.CheckedInDays++
			sum.CheckedOutDays++
		}
		if a.WorkHours != nil {
			hours += *a.WorkHours
		}
	}
	sum.AbsentDays = sum.TotalDays - sum.CheckedInDays
	sum.TotalWorkHours = attendance.RoundHours(hours)
	return sum
}

func (s *AttendanceServiceImpl) toResponse(a attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:               a.ID,
		EmployeeID:       a.EmployeeID,
		EmployeeName:     a.EmployeeName,
		ShiftID:          a.ShiftID,
		ShiftName:        a.ShiftName,
		ShiftStartTime:   a.ShiftStartTime,
		ShiftEndTime:     a.ShiftEndTime,
		RegistrationID:   a.RegistrationID,
		Date:             s.clock.FormatDate(a.Date),
		CheckInTime:      a.CheckInTime,
		CheckOutTime:     a.CheckOutTime,
		CheckInLocation:  a.CheckInLocation,
		CheckOutLocation: a.CheckOutLocation,
		Status:           a.Status,
		Notes:            a.Notes,
		WorkHours:        a.WorkHours,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}
