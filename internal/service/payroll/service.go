package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/pagination"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	tx             database.Transactor
	payrollRepo    payroll.PayrollRepository
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	ledger         payroll.PenaltyLedger
	notifier       notification.Publisher
	clock          *clock.Clock
	calculator     Calculator
}

func NewPayrollService(
	tx database.Transactor,
	payrollRepo payroll.PayrollRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	ledger payroll.PenaltyLedger,
	notifier notification.Publisher,
	clk *clock.Clock,
	policy payroll.Policy,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		tx:             tx,
		payrollRepo:    payrollRepo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		ledger:         ledger,
		notifier:       notifier,
		clock:          clk,
		calculator:     NewCalculator(policy, clk),
	}
}

// ========== CALCULATION ==========

// Calculate implements payroll.PayrollService.
func (s *PayrollServiceImpl) Calculate(ctx context.Context, actor user.RequestingUser, req payroll.CalculatePayrollRequest) (payroll.PayrollResponse, error) {
	if !actor.CanApprove() {
		return payroll.PayrollResponse{}, user.ErrManagerAccessRequired
	}
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if actor.IsManager() && !actor.InBranch(emp.BranchID) {
		return payroll.PayrollResponse{}, payroll.ErrForbiddenBranch
	}

	var created payroll.Payroll
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.payrollRepo.ExistsForPeriod(ctx, emp.ID, req.Month, req.Year)
		if err != nil {
			return fmt.Errorf("failed to check existing payroll: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: %02d/%d", payroll.ErrPayrollAlreadyExists, req.Month, req.Year)
		}

		figures, err := s.compute(ctx, emp.ID, req.Month, req.Year, CalculationInput{
			BaseSalary:      req.BaseSalary,
			OvertimeRate:    valueOr(req.OvertimeRate, decimal.Zero),
			Bonuses:         valueOr(req.Bonuses, decimal.Zero),
			OtherDeductions: valueOr(req.OtherDeductions, decimal.Zero),
		})
		if err != nil {
			return err
		}
		figures.EmployeeID = emp.ID
		figures.BranchID = emp.BranchID
		figures.Month = req.Month
		figures.Year = req.Year
		figures.Status = payroll.StatusDraft
		figures.Notes = req.Notes

		created, err = s.payrollRepo.Create(ctx, figures)
		if err != nil {
			if errors.Is(err, payroll.ErrPayrollAlreadyExists) {
				return err
			}
			return fmt.Errorf("failed to create payroll: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	return toResponse(created), nil
}

// compute gathers the month's attendance and violations and runs the calculator.
func (s *PayrollServiceImpl) compute(ctx context.Context, employeeID string, month, year int, in CalculationInput) (payroll.Payroll, error) {
	if month < 1 || month > 12 {
		return payroll.Payroll{}, payroll.ErrInvalidMonth
	}
	from, to := s.clock.MonthBounds(year, month)

	records, err := s.attendanceRepo.ListForPeriod(ctx, employeeID, "", from, to, attendance.StatusCheckedIn, attendance.StatusCheckedOut)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to list attendance for payroll: %w", err)
	}
	in.Attendances = records

	if s.ledger != nil {
		in.Violations, err = s.ledger.SumPenaltiesForPeriod(ctx, employeeID, month, year)
		if err != nil {
			return payroll.Payroll{}, fmt.Errorf("failed to sum violation penalties: %w", err)
		}
	}

	return s.calculator.Compute(in), nil
}

// Recalculate implements payroll.PayrollService. The record keeps its id,
// base salary, rates, bonuses and manual deductions; everything derived from
// attendance and violations is refreshed.
func (s *PayrollServiceImpl) Recalculate(ctx context.Context, actor user.RequestingUser, id string) (payroll.PayrollResponse, error) {
	current, err := s.loadForManagement(ctx, actor, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if current.Status != payroll.StatusDraft {
		return payroll.PayrollResponse{}, payroll.ErrNotDraft
	}

	figures, err := s.compute(ctx, current.EmployeeID, current.Month, current.Year, CalculationInput{
		BaseSalary:      current.BaseSalary,
		OvertimeRate:    current.OvertimeRate,
		Bonuses:         current.Bonuses,
		OtherDeductions: current.Deductions.Other,
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	figures.ID = current.ID
	figures.EmployeeID = current.EmployeeID
	figures.BranchID = current.BranchID
	figures.Month = current.Month
	figures.Year = current.Year
	figures.Notes = current.Notes

	if err := s.payrollRepo.UpdateCalculation(ctx, figures, s.clock.Now()); err != nil {
		return payroll.PayrollResponse{}, err
	}
	return s.reload(ctx, current.ID)
}

// ========== QUERIES ==========

// List implements payroll.PayrollService.
func (s *PayrollServiceImpl) List(ctx context.Context, actor user.RequestingUser, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	q := payroll.ListQuery{Page: filter.Page, Limit: filter.Limit}
	if filter.Month != nil {
		q.Month = *filter.Month
	}
	if filter.Year != nil {
		q.Year = *filter.Year
	}
	if filter.Status != nil {
		q.Status = payroll.Status(*filter.Status)
	}
	if filter.EmployeeID != nil {
		q.EmployeeID = *filter.EmployeeID
	}

	switch {
	case actor.IsEmployee():
		q.EmployeeID = actor.ID
	case actor.IsManager():
		if !actor.HasBranch() {
			return payroll.ListPayrollResponse{
				Payrolls:   []payroll.PayrollResponse{},
				Pagination: pagination.New(q.Page, q.Limit, 0),
			}, nil
		}
		q.BranchID = actor.BranchID
	default:
		if filter.BranchID != nil {
			q.BranchID = *filter.BranchID
		}
	}

	records, total, err := s.payrollRepo.List(ctx, q)
	if err != nil {
		return payroll.ListPayrollResponse{}, fmt.Errorf("failed to list payrolls: %w", err)
	}

	resp := payroll.ListPayrollResponse{
		Payrolls:   make([]payroll.PayrollResponse, 0, len(records)),
		Pagination: pagination.New(q.Page, q.Limit, total),
	}
	for _, p := range records {
		resp.Payrolls = append(resp.Payrolls, toResponse(p))
	}
	return resp, nil
}

// GetByID implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetByID(ctx context.Context, actor user.RequestingUser, id string) (payroll.PayrollResponse, error) {
	p, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	switch {
	case actor.IsEmployee():
		if p.EmployeeID != actor.ID {
			return payroll.PayrollResponse{}, payroll.ErrForbiddenView
		}
	case actor.IsManager():
		if !actor.InBranch(p.BranchID) {
			return payroll.PayrollResponse{}, payroll.ErrForbiddenBranch
		}
	}
	return toResponse(p), nil
}

// ========== LIFECYCLE ==========

// UpdateStatus implements payroll.PayrollService. Payrolls only move one step
// forward along draft, pending, approved, paid. Managers may mark their
// branch's approved payrolls paid; the paidAt/paidBy stamp is the same as
// ProcessPayment's.
func (s *PayrollServiceImpl) UpdateStatus(ctx context.Context, actor user.RequestingUser, id string, req payroll.UpdatePayrollStatusRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}
	current, err := s.loadForManagement(ctx, actor, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	target := payroll.Status(req.Status)
	if target == payroll.StatusPaid {
		return s.markPaid(ctx, actor, current, req.Notes)
	}
	if current.Status == payroll.StatusPaid {
		return payroll.PayrollResponse{}, payroll.ErrAlreadyPaid
	}
	if !current.Status.CanTransitionTo(target) {
		return payroll.PayrollResponse{}, fmt.Errorf("%w: from %s to %s", payroll.ErrInvalidStatusTransition, current.Status, target)
	}

	if err := s.payrollRepo.UpdateStatus(ctx, current.ID, current.Status, target, req.Notes, nil, nil); err != nil {
		return payroll.PayrollResponse{}, err
	}
	return s.reload(ctx, current.ID)
}

// ProcessPayment implements payroll.PayrollService. Unlike UpdateStatus it is
// reserved for admins.
func (s *PayrollServiceImpl) ProcessPayment(ctx context.Context, actor user.RequestingUser, id string) (payroll.PayrollResponse, error) {
	if !actor.IsAdmin() {
		return payroll.PayrollResponse{}, user.ErrAdminAccessRequired
	}
	current, err := s.loadForManagement(ctx, actor, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return s.markPaid(ctx, actor, current, nil)
}

// markPaid moves an approved, unpaid payroll to paid. The caller has already
// been checked by loadForManagement.
func (s *PayrollServiceImpl) markPaid(ctx context.Context, actor user.RequestingUser, current payroll.Payroll, notes *string) (payroll.PayrollResponse, error) {
	if current.Status == payroll.StatusPaid || current.PaidAt != nil {
		return payroll.PayrollResponse{}, payroll.ErrAlreadyPaid
	}
	if current.Status != payroll.StatusApproved {
		return payroll.PayrollResponse{}, payroll.ErrNotApproved
	}

	now := s.clock.Now()
	paidBy := actor.ID
	if err := s.payrollRepo.UpdateStatus(ctx, current.ID, payroll.StatusApproved, payroll.StatusPaid, notes, &now, &paidBy); err != nil {
		if errors.Is(err, payroll.ErrInvalidStatusTransition) {
			return payroll.PayrollResponse{}, payroll.ErrAlreadyPaid
		}
		return payroll.PayrollResponse{}, err
	}

	resp, err := s.reload(ctx, current.ID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	notification.Notify(ctx, s.notifier, notification.PayrollPaid(resp.EmployeeID, resp.Month, resp.Year, resp.NetSalary.StringFixed(2), resp.ID))
	return resp, nil
}

// Delete implements payroll.PayrollService.
func (s *PayrollServiceImpl) Delete(ctx context.Context, actor user.RequestingUser, id string) error {
	if !actor.IsAdmin() {
		return user.ErrAdminAccessRequired
	}
	p, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.Status != payroll.StatusDraft {
		return payroll.ErrNotDraft
	}
	return s.payrollRepo.Delete(ctx, p.ID)
}

// loadForManagement fetches a payroll the actor may operate on.
func (s *PayrollServiceImpl) loadForManagement(ctx context.Context, actor user.RequestingUser, id string) (payroll.Payroll, error) {
	if !actor.CanApprove() {
		return payroll.Payroll{}, user.ErrManagerAccessRequired
	}
	p, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.Payroll{}, err
	}
	if actor.IsManager() && !actor.InBranch(p.BranchID) {
		return payroll.Payroll{}, payroll.ErrForbiddenBranch
	}
	return p, nil
}

func (s *PayrollServiceImpl) reload(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	p, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to reload payroll: %w", err)
	}
	return toResponse(p), nil
}

func valueOr(v *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if v == nil {
		return fallback
	}
	return *v
}

func toResponse(p payroll.Payroll) payroll.PayrollResponse {
	return payroll.PayrollResponse{
		ID:             p.ID,
		EmployeeID:     p.EmployeeID,
		EmployeeName:   p.EmployeeName,
		BranchID:       p.BranchID,
		Month:          p.Month,
		Year:           p.Year,
		BaseSalary:     p.BaseSalary,
		TotalWorkHours: p.TotalWorkHours,
		OvertimeHours:  p.OvertimeHours,
		OvertimeRate:   p.OvertimeRate,
		OvertimePay:    p.OvertimePay,
		Bonuses:        p.Bonuses,
		Deductions:     p.Deductions,
		GrossSalary:    p.GrossSalary,
		NetSalary:      p.NetSalary,
		Status:         p.Status,
		PaidAt:         p.PaidAt,
		PaidBy:         p.PaidBy,
		Notes:          p.Notes,
		RecalculatedAt: p.RecalculatedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
