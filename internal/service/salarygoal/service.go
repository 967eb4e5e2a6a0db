package salarygoal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salarygoal"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/clock"
	payrollService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type SalaryGoalServiceImpl struct {
	goalRepo       salarygoal.SalaryGoalRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	payrollRepo    payroll.PayrollRepository
	calculator     payrollService.Calculator
	defaultBase    decimal.Decimal
	clock          *clock.Clock
}

func NewSalaryGoalService(
	goalRepo salarygoal.SalaryGoalRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	payrollRepo payroll.PayrollRepository,
	clk *clock.Clock,
	policy payroll.Policy,
) salarygoal.SalaryGoalService {
	return &SalaryGoalServiceImpl{
		goalRepo:       goalRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		payrollRepo:    payrollRepo,
		calculator:     payrollService.NewCalculator(policy, clk),
		defaultBase:    policy.DefaultBaseSalary,
		clock:          clk,
	}
}

// CreateOrUpdate implements salarygoal.SalaryGoalService.
func (s *SalaryGoalServiceImpl) CreateOrUpdate(ctx context.Context, actor user.RequestingUser, req salarygoal.CreateGoalRequest) (salarygoal.GoalResponse, bool, error) {
	if err := req.Validate(); err != nil {
		return salarygoal.GoalResponse{}, false, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, actor.ID); err != nil {
		return salarygoal.GoalResponse{}, false, err
	}

	year, month, _ := s.clock.Now().In(s.clock.Location()).Date()
	goal := salarygoal.SalaryGoal{
		EmployeeID:   actor.ID,
		TargetShifts: req.TargetShifts,
		Month:        int(month),
		Year:         year,
		Status:       salarygoal.StatusActive,
	}
	if req.Month != nil {
		goal.Month = *req.Month
	}
	if req.Year != nil {
		goal.Year = *req.Year
	}

	saved, created, err := s.goalRepo.Upsert(ctx, goal)
	if err != nil {
		return salarygoal.GoalResponse{}, false, fmt.Errorf("failed to save salary goal: %w", err)
	}
	return toResponse(saved), created, nil
}

// Current implements salarygoal.SalaryGoalService.
func (s *SalaryGoalServiceImpl) Current(ctx context.Context, actor user.RequestingUser) (salarygoal.CurrentGoalResponse, error) {
	now := s.clock.Now()
	year, month, day := now.In(s.clock.Location()).Date()

	goal, err := s.goalRepo.GetForPeriod(ctx, actor.ID, int(month), year)
	if err != nil {
		if errors.Is(err, salarygoal.ErrGoalNotFound) {
			return salarygoal.CurrentGoalResponse{}, salarygoal.ErrNoCurrentGoal
		}
		return salarygoal.CurrentGoalResponse{}, err
	}

	base, err := s.baseSalary(ctx, actor.ID)
	if err != nil {
		return salarygoal.CurrentGoalResponse{}, err
	}

	monthStart, _ := s.clock.MonthBounds(year, int(month))
	_, todayEnd := s.clock.LocalDayBounds(now)
	current, err := s.workedShifts(ctx, actor.ID, monthStart, todayEnd)
	if err != nil {
		return salarygoal.CurrentGoalResponse{}, err
	}
	hours, earnings := s.calculator.EstimateEarnings(base, current)

	prevYear, prevMonth := year, month-1
	if prevMonth == 0 {
		prevYear, prevMonth = year-1, time.December
	}
	sameDay := time.Date(prevYear, prevMonth, min(day, daysIn(prevYear, prevMonth)), 0, 0, 0, 0, s.clock.Location())
	prevStart, _ := s.clock.MonthBounds(prevYear, int(prevMonth))
	_, prevEnd := s.clock.LocalDayBounds(sameDay)
	previous, err := s.workedShifts(ctx, actor.ID, prevStart, prevEnd)
	if err != nil {
		return salarygoal.CurrentGoalResponse{}, err
	}
	_, prevEarnings := s.calculator.EstimateEarnings(base, previous)

	shifts := len(current)

	progress := 0
	if goal.TargetShifts > 0 {
		progress = int(decimal.NewFromInt(int64(shifts)).Mul(hundred).Div(decimal.NewFromInt(int64(goal.TargetShifts))).Round(0).IntPart())
	}
	projected := decimal.Zero
	if shifts > 0 {
		projected = earnings.Div(decimal.NewFromInt(int64(shifts))).Mul(decimal.NewFromInt(int64(goal.TargetShifts))).Round(0)
	}
	hourlyRate := decimal.Zero
	if hours.IsPositive() {
		hourlyRate = earnings.Div(hours).Round(0)
	}

	change := earnings.Sub(prevEarnings)
	changePercent := 0
	if prevEarnings.IsPositive() {
		changePercent = int(change.Mul(hundred).Div(prevEarnings).Round(0).IntPart())
	}

	return salarygoal.CurrentGoalResponse{
		Goal: salarygoal.GoalProgress{
			ID:                goal.ID,
			TargetShifts:      goal.TargetShifts,
			CurrentShifts:     shifts,
			Progress:          progress,
			CurrentEarnings:   earnings,
			ProjectedEarnings: projected,
			Status:            goal.Status,
		},
		Comparison: salarygoal.MonthComparison{
			CurrentDate:           s.clock.FormatDate(now),
			ComparisonDate:        s.clock.FormatDate(sameDay),
			CurrentShifts:         shifts,
			PreviousShifts:        len(previous),
			CurrentEarnings:       earnings,
			PreviousEarnings:      prevEarnings,
			ShiftsChange:          shifts - len(previous),
			EarningsChange:        change,
			EarningsChangePercent: changePercent,
			Message:               changeMessage(change),
		},
		Details: salarygoal.ProgressDetails{
			TotalWorkHours:      hours,
			EstimatedHourlyRate: hourlyRate,
			ShiftsRemaining:     max(0, goal.TargetShifts-shifts),
			DaysLeftInMonth:     daysIn(year, month) - day,
		},
	}, nil
}

// History implements salarygoal.SalaryGoalService.
func (s *SalaryGoalServiceImpl) History(ctx context.Context, actor user.RequestingUser, query salarygoal.HistoryQuery) ([]salarygoal.GoalHistoryItem, error) {
	query.Normalize()

	goals, err := s.goalRepo.ListRecent(ctx, actor.ID, query.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary goals: %w", err)
	}
	if len(goals) == 0 {
		return []salarygoal.GoalHistoryItem{}, nil
	}

	base, err := s.baseSalary(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	items := make([]salarygoal.GoalHistoryItem, 0, len(goals))
	for _, g := range goals {
		from, to := s.clock.MonthBounds(g.Year, g.Month)
		worked, err := s.workedShifts(ctx, actor.ID, from, to)
		if err != nil {
			return nil, err
		}
		_, earnings := s.calculator.EstimateEarnings(base, worked)
		items = append(items, salarygoal.GoalHistoryItem{
			ID:           g.ID,
			Month:        g.Month,
			Year:         g.Year,
			TargetShifts: g.TargetShifts,
			ActualShifts: len(worked),
			Earnings:     earnings,
			Completed:    len(worked) >= g.TargetShifts,
			Status:       g.Status,
		})
	}
	return items, nil
}

// Update implements salarygoal.SalaryGoalService.
func (s *SalaryGoalServiceImpl) Update(ctx context.Context, actor user.RequestingUser, id string, req salarygoal.UpdateGoalRequest) (salarygoal.GoalResponse, error) {
	if err := req.Validate(); err != nil {
		return salarygoal.GoalResponse{}, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return salarygoal.GoalResponse{}, salarygoal.ErrGoalNotFound
	}

	goal, err := s.goalRepo.GetByID(ctx, actor.ID, id)
	if err != nil {
		return salarygoal.GoalResponse{}, err
	}
	if req.TargetShifts != nil {
		goal.TargetShifts = *req.TargetShifts
	}
	if req.Status != nil {
		goal.Status = salarygoal.Status(*req.Status)
	}

	if err := s.goalRepo.Update(ctx, goal); err != nil {
		return salarygoal.GoalResponse{}, err
	}

	updated, err := s.goalRepo.GetByID(ctx, actor.ID, id)
	if err != nil {
		return salarygoal.GoalResponse{}, fmt.Errorf("failed to reload salary goal: %w", err)
	}
	return toResponse(updated), nil
}

// Delete implements salarygoal.SalaryGoalService.
func (s *SalaryGoalServiceImpl) Delete(ctx context.Context, actor user.RequestingUser, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return salarygoal.ErrGoalNotFound
	}
	return s.goalRepo.Delete(ctx, actor.ID, id)
}

// baseSalary prices estimates from the employee's latest payroll, falling
// back to the policy default.
func (s *SalaryGoalServiceImpl) baseSalary(ctx context.Context, employeeID string) (decimal.Decimal, error) {
	latest, err := s.payrollRepo.Latest(ctx, employeeID)
	switch {
	case errors.Is(err, payroll.ErrPayrollNotFound):
		return s.defaultBase, nil
	case err != nil:
		return decimal.Zero, fmt.Errorf("failed to get latest payroll: %w", err)
	case !latest.BaseSalary.IsPositive():
		return s.defaultBase, nil
	}
	return latest.BaseSalary, nil
}

// workedShifts returns the employee's checked-out attendance dated in [from, to).
func (s *SalaryGoalServiceImpl) workedShifts(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	records, err := s.attendanceRepo.ListForPeriod(ctx, employeeID, "", from, to, attendance.StatusCheckedOut)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

func changeMessage(change decimal.Decimal) string {
	switch {
	case change.IsPositive():
		return fmt.Sprintf("Up %s from last month", change.StringFixed(0))
	case change.IsNegative():
		return fmt.Sprintf("Down %s from last month", change.Abs().StringFixed(0))
	default:
		return "No change from last month"
	}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func toResponse(g salarygoal.SalaryGoal) salarygoal.GoalResponse {
	return salarygoal.GoalResponse{
		ID:           g.ID,
		EmployeeID:   g.EmployeeID,
		EmployeeName: g.EmployeeName,
		TargetShifts: g.TargetShifts,
		Month:        g.Month,
		Year:         g.Year,
		Status:       g.Status,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}
