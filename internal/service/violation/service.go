package violation

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/violation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/pagination"
	"github.com/shopspring/decimal"
)

type ViolationServiceImpl struct {
	violationRepo violation.ViolationRepository
	employeeRepo  employee.EmployeeRepository
	shiftRepo     shift.ShiftRepository
	notifier      notification.Publisher
	clock         *clock.Clock
}

func NewViolationService(
	violationRepo violation.ViolationRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo shift.ShiftRepository,
	notifier notification.Publisher,
	clk *clock.Clock,
) violation.ViolationService {
	return &ViolationServiceImpl{
		violationRepo: violationRepo,
		employeeRepo:  employeeRepo,
		shiftRepo:     shiftRepo,
		notifier:      notifier,
		clock:         clk,
	}
}

// Create implements violation.ViolationService.
func (s *ViolationServiceImpl) Create(ctx context.Context, actor user.RequestingUser, req violation.CreateViolationRequest) (violation.ViolationResponse, error) {
	if !actor.CanApprove() {
		return violation.ViolationResponse{}, user.ErrManagerAccessRequired
	}
	if err := req.Validate(); err != nil {
		return violation.ViolationResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return violation.ViolationResponse{}, err
	}
	if actor.IsManager() && !actor.InBranch(emp.BranchID) {
		return violation.ViolationResponse{}, violation.ErrForbiddenBranch
	}
	if req.ShiftID != nil {
		sh, err := s.shiftRepo.GetByID(ctx, *req.ShiftID)
		if err != nil {
			return violation.ViolationResponse{}, err
		}
		if sh.BranchID != emp.BranchID {
			return violation.ViolationResponse{}, violation.ErrShiftOutsideBranch
		}
	}

	date, err := s.clock.ParseDate(req.ViolationDate)
	if err != nil {
		return violation.ViolationResponse{}, fmt.Errorf("failed to parse violation_date: %w", err)
	}

	created, err := s.violationRepo.Create(ctx, violation.Violation{
		EmployeeID:    emp.ID,
		BranchID:      emp.BranchID,
		ShiftID:       req.ShiftID,
		Title:         req.Title,
		Description:   req.Description,
		ViolationDate: date,
		PenaltyAmount: req.PenaltyAmount,
		Status:        violation.StatusPending,
		CreatedBy:     actor.ID,
		Notes:         req.Notes,
	})
	if err != nil {
		return violation.ViolationResponse{}, fmt.Errorf("failed to create violation: %w", err)
	}

	notification.Notify(ctx, s.notifier, notification.ViolationRecorded(emp.ID, created.Title, created.PenaltyAmount.StringFixed(2), created.ID))

	return s.toResponse(created), nil
}

// List implements violation.ViolationService.
func (s *ViolationServiceImpl) List(ctx context.Context, actor user.RequestingUser, filter violation.ViolationFilter) (violation.ListViolationResponse, error) {
	if err := filter.Validate(); err != nil {
		return violation.ListViolationResponse{}, err
	}

	q := violation.ListQuery{Page: filter.Page, Limit: filter.Limit}
	if filter.EmployeeID != nil {
		q.EmployeeID = *filter.EmployeeID
	}
	switch {
	case actor.IsEmployee():
		q.EmployeeID = actor.ID
	case actor.IsManager():
		if !actor.HasBranch() {
			return violation.ListViolationResponse{
				Violations: []violation.ViolationResponse{},
				Pagination: pagination.New(q.Page, q.Limit, 0),
			}, nil
		}
		q.BranchID = actor.BranchID
	}
	if filter.Status != nil {
		q.Status = violation.Status(*filter.Status)
	}
	if filter.StartDate != nil {
		from, err := s.clock.ParseDate(*filter.StartDate)
		if err != nil {
			return violation.ListViolationResponse{}, fmt.Errorf("failed to parse start_date: %w", err)
		}
		q.DateFrom = &from
	}
	if filter.EndDate != nil {
		end, err := s.clock.ParseDate(*filter.EndDate)
		if err != nil {
			return violation.ListViolationResponse{}, fmt.Errorf("failed to parse end_date: %w", err)
		}
		_, to := s.clock.LocalDayBounds(end)
		q.DateTo = &to
	}

	records, total, err := s.violationRepo.List(ctx, q)
	if err != nil {
		return violation.ListViolationResponse{}, fmt.Errorf("failed to list violations: %w", err)
	}

	resp := violation.ListViolationResponse{
		Violations: make([]violation.ViolationResponse, 0, len(records)),
		Pagination: pagination.New(q.Page, q.Limit, total),
	}
	for _, v := range records {
		resp.Violations = append(resp.Violations, s.toResponse(v))
	}
	return resp, nil
}

// GetByID implements violation.ViolationService.
func (s *ViolationServiceImpl) GetByID(ctx context.Context, actor user.RequestingUser, id string) (violation.ViolationResponse, error) {
	v, err := s.violationRepo.GetByID(ctx, id)
	if err != nil {
		return violation.ViolationResponse{}, err
	}
	switch {
	case actor.IsEmployee():
		if v.EmployeeID != actor.ID {
			return violation.ViolationResponse{}, violation.ErrForbiddenView
		}
	case actor.IsManager():
		if !actor.InBranch(v.BranchID) {
			return violation.ViolationResponse{}, violation.ErrForbiddenBranch
		}
	}
	return s.toResponse(v), nil
}

// Update implements violation.ViolationService.
func (s *ViolationServiceImpl) Update(ctx context.Context, actor user.RequestingUser, id string, req violation.UpdateViolationRequest) (violation.ViolationResponse, error) {
	if !actor.CanApprove() {
		return violation.ViolationResponse{}, user.ErrManagerAccessRequired
	}
	if err := req.Validate(); err != nil {
		return violation.ViolationResponse{}, err
	}

	v, err := s.violationRepo.GetByID(ctx, id)
	if err != nil {
		return violation.ViolationResponse{}, err
	}
	if actor.IsManager() && !actor.InBranch(v.BranchID) {
		return violation.ViolationResponse{}, violation.ErrForbiddenBranch
	}

	if req.Title != nil {
		v.Title = *req.Title
	}
	if req.Description != nil {
		v.Description = *req.Description
	}
	if req.ViolationDate != nil {
		date, err := s.clock.ParseDate(*req.ViolationDate)
		if err != nil {
			return violation.ViolationResponse{}, fmt.Errorf("failed to parse violation_date: %w", err)
		}
		v.ViolationDate = date
	}
	if req.PenaltyAmount != nil {
		v.PenaltyAmount = *req.PenaltyAmount
	}
	if req.Notes != nil {
		v.Notes = req.Notes
	}
	if req.Status != nil {
		v.Status = violation.Status(*req.Status)
		if v.Status != violation.StatusPending && v.AcknowledgedAt == nil {
			now := s.clock.Now()
			v.AcknowledgedAt = &now
		}
	}

	if err := s.violationRepo.Update(ctx, v); err != nil {
		return violation.ViolationResponse{}, err
	}
	return s.reload(ctx, v.ID)
}

// Acknowledge implements violation.ViolationService.
func (s *ViolationServiceImpl) Acknowledge(ctx context.Context, actor user.RequestingUser, id string) (violation.ViolationResponse, error) {
	v, err := s.violationRepo.GetByID(ctx, id)
	if err != nil {
		return violation.ViolationResponse{}, err
	}
	if v.EmployeeID != actor.ID {
		return violation.ViolationResponse{}, violation.ErrNotViolationOwner
	}
	if v.Status != violation.StatusPending {
		return violation.ViolationResponse{}, violation.ErrAlreadyAcknowledged
	}

	now := s.clock.Now()
	v.Status = violation.StatusAcknowledged
	v.AcknowledgedAt = &now
	if err := s.violationRepo.Update(ctx, v); err != nil {
		return violation.ViolationResponse{}, err
	}
	return s.reload(ctx, v.ID)
}

// Delete implements violation.ViolationService.
func (s *ViolationServiceImpl) Delete(ctx context.Context, actor user.RequestingUser, id string) error {
	if !actor.IsAdmin() {
		return user.ErrAdminAccessRequired
	}
	return s.violationRepo.Delete(ctx, id)
}

// SumPenaltiesForPeriod implements violation.ViolationService and payroll.PenaltyLedger.
func (s *ViolationServiceImpl) SumPenaltiesForPeriod(ctx context.Context, employeeID string, month, year int) (decimal.Decimal, error) {
	from, to := s.clock.MonthBounds(year, month)
	total, err := s.violationRepo.SumPenalties(ctx, employeeID, from, to)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum penalties: %w", err)
	}
	return total, nil
}

func (s *ViolationServiceImpl) reload(ctx context.Context, id string) (violation.ViolationResponse, error) {
	v, err := s.violationRepo.GetByID(ctx, id)
	if err != nil {
		return violation.ViolationResponse{}, fmt.Errorf("failed to reload violation: %w", err)
	}
	return s.toResponse(v), nil
}

func (s *ViolationServiceImpl) toResponse(v violation.Violation) violation.ViolationResponse {
	return violation.ViolationResponse{
		ID:             v.ID,
		EmployeeID:     v.EmployeeID,
		EmployeeName:   v.EmployeeName,
		BranchID:       v.BranchID,
		ShiftID:        v.ShiftID,
		Title:          v.Title,
		Description:    v.Description,
		ViolationDate:  s.clock.FormatDate(v.ViolationDate),
		PenaltyAmount:  v.PenaltyAmount,
		Status:         v.Status,
		CreatedBy:      v.CreatedBy,
		Notes:          v.Notes,
		AcknowledgedAt: v.AcknowledgedAt,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}
