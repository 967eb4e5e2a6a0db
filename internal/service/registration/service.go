package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/registration"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/pagination"
)

type RegistrationServiceImpl struct {
	tx               database.Transactor
	registrationRepo registration.RegistrationRepository
	shiftRepo        shift.ShiftRepository
	employeeRepo     employee.EmployeeRepository
	notifier         notification.Publisher
	clock            *clock.Clock
}

func NewRegistrationService(
	tx database.Transactor,
	registrationRepo registration.RegistrationRepository,
	shiftRepo shift.ShiftRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Publisher,
	clk *clock.Clock,
) registration.RegistrationService {
	return &RegistrationServiceImpl{
		tx:               tx,
		registrationRepo: registrationRepo,
		shiftRepo:        shiftRepo,
		employeeRepo:     employeeRepo,
		notifier:         notifier,
		clock:            clk,
	}
}

// List implements registration.RegistrationService.
func (s *RegistrationServiceImpl) List(ctx context.Context, actor user.RequestingUser, filter registration.RegistrationFilter) (registration.ListRegistrationResponse, error) {
	if err := filter.Validate(); err != nil {
		return registration.ListRegistrationResponse{}, err
	}

	q := registration.ListQuery{
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
			return emptyList(q), nil
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
		q.Status = registration.Status(*filter.Status)
	}
	if filter.Date != nil {
		day, err := s.clock.ParseDate(*filter.Date)
		if err != nil {
			return registration.ListRegistrationResponse{}, fmt.Errorf("failed to parse date: %w", err)
		}
		start, end := s.clock.LocalDayBounds(day)
		q.DateFrom, q.DateTo = &start, &end
	}

	regs, total, err := s.registrationRepo.List(ctx, q)
	if err != nil {
		return registration.ListRegistrationResponse{}, fmt.Errorf("failed to list registrations: %w", err)
	}

	resp := registration.ListRegistrationResponse{
		Registrations: make([]registration.RegistrationResponse, 0, len(regs)),
		Pagination:    pagination.New(q.Page, q.Limit, total),
	}
	for _, r := range regs {
		resp.Registrations = append(resp.Registrations, s.toResponse(r))
	}
	return resp, nil
}

func emptyList(q registration.ListQuery) registration.ListRegistrationResponse {
	return registration.ListRegistrationResponse{
		Registrations: []registration.RegistrationResponse{},
		Pagination:    pagination.New(q.Page, q.Limit, 0),
	}
}

// Create implements registration.RegistrationService.
func (s *RegistrationServiceImpl) Create(ctx context.Context, actor user.RequestingUser, req registration.CreateRegistrationRequest) (registration.RegistrationResponse, error) {
	if err := req.Validate(); err != nil {
		return registration.RegistrationResponse{}, err
	}

	sh, err := s.shiftRepo.GetByID(ctx, req.ShiftID)
	if err != nil {
		return registration.RegistrationResponse{}, err
	}
	if !actor.HasBranch() {
		return registration.RegistrationResponse{}, registration.ErrNoBranchAssigned
	}
	if sh.BranchID != actor.BranchID {
		return registration.RegistrationResponse{}, registration.ErrShiftOutsideBranch
	}

	date, err := s.clock.ParseDate(req.Date)
	if err != nil {
		return registration.RegistrationResponse{}, fmt.Errorf("failed to parse date: %w", err)
	}
	if date.Before(s.clock.Today()) {
		return registration.RegistrationResponse{}, registration.ErrPastDate
	}

	newRange, err := sh.TimeRange()
	if err != nil {
		return registration.RegistrationResponse{}, err
	}

	var created registration.Registration
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// Serializes concurrent creates for one employee so the overlap
		// check below sees every committed registration.
		if err := s.employeeRepo.LockForUpdate(ctx, actor.ID); err != nil {
			return fmt.Errorf("failed to lock employee: %w", err)
		}

		exists, err := s.registrationRepo.ExistsForEmployeeShiftDate(ctx, actor.ID, sh.ID, date)
		if err != nil {
			return fmt.Errorf("failed to check existing registration: %w", err)
		}
		if exists {
			return registration.ErrDuplicateRegistration
		}

		active, err := s.registrationRepo.ListActiveByEmployeeAndDate(ctx, actor.ID, date)
		if err != nil {
			return fmt.Errorf("failed to list registrations for date: %w", err)
		}
		for _, other := range active {
			otherRange, err := other.ShiftRange()
			if err != nil {
				slog.Warn("skipping registration with invalid shift times", "registration_id", other.ID, "error", err)
				continue
			}
			if newRange.Overlaps(otherRange) {
				return fmt.Errorf("%w: %s (%s)", registration.ErrShiftTimeConflict, other.ShiftName, other.ShiftHours())
			}
		}

		// Early check only; approval re-validates under a row lock.
		if sh.HasCapacityLimit() {
			approved, err := s.registrationRepo.CountApproved(ctx, sh.ID, date)
			if err != nil {
				return fmt.Errorf("failed to count approved registrations: %w", err)
			}
			if approved >= *sh.MaxEmployees {
				return fmt.Errorf("%w (%d)", registration.ErrShiftFull, *sh.MaxEmployees)
			}
		}

		created, err = s.registrationRepo.Create(ctx, registration.Registration{
			EmployeeID: actor.ID,
			ShiftID:    sh.ID,
			Date:       date,
			Status:     registration.StatusPending,
			Note:       req.Note,
		})
		if err != nil {
			if errors.Is(err, registration.ErrDuplicateRegistration) {
				return err
			}
			return fmt.Errorf("failed to create registration: %w", err)
		}
		return nil
	})
	if err != nil {
		return registration.RegistrationResponse{}, err
	}

	s.notifyManagers(ctx, sh, created)

	return s.toResponse(created), nil
}

func (s *RegistrationServiceImpl) notifyManagers(ctx context.Context, sh shift.Shift, reg registration.Registration) {
	if s.notifier == nil {
		return
	}
	employeeName := reg.EmployeeName
	if employeeName == "" {
		employeeName = "An employee"
	}
	date := s.clock.FormatDate(reg.Date)

	notification.Dispatch(ctx, string(notification.TypeRegistrationSubmitted), func(ctx context.Context) error {
		managers, err := s.employeeRepo.ListByBranchAndRole(ctx, sh.BranchID, user.RoleManager)
		if err != nil {
			return fmt.Errorf("failed to list branch managers: %w", err)
		}
		for _, m := range managers {
			req := notification.NewShiftRegistration(m.ID, employeeName, date, sh.Hours(), reg.ID)
			if err := s.notifier.QueueNotification(ctx, req); err != nil {
				slog.Error("failed to notify manager", "manager_id", m.ID, "registration_id", reg.ID, "error", err)
			}
		}
		return nil
	})
}

// Approve implements registration.RegistrationService.
func (s *RegistrationServiceImpl) Approve(ctx context.Context, actor user.RequestingUser, id string, req registration.ReviewRegistrationRequest) (registration.RegistrationResponse, error) {
	reg, err := s.loadForReview(ctx, actor, id, req)
	if err != nil {
		return registration.RegistrationResponse{}, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sh, err := s.shiftRepo.GetByIDForUpdate(ctx, reg.ShiftID)
		if err != nil {
			return err
		}
		if sh.HasCapacityLimit() {
			approved, err := s.registrationRepo.CountApproved(ctx, sh.ID, reg.Date)
			if err != nil {
				return fmt.Errorf("failed to count approved registrations: %w", err)
			}
			if approved >= *sh.MaxEmployees {
				return fmt.Errorf("%w (%d)", registration.ErrShiftFull, *sh.MaxEmployees)
			}
		}
		return s.registrationRepo.UpdateStatus(ctx, reg.ID, registration.StatusPending, registration.StatusApproved, actor.ID, req.Note, s.clock.Now())
	})
	if err != nil {
		return registration.RegistrationResponse{}, err
	}

	updated, err := s.registrationRepo.GetByID(ctx, reg.ID)
	if err != nil {
		return registration.RegistrationResponse{}, fmt.Errorf("failed to reload registration: %w", err)
	}

	notification.Notify(ctx, s.notifier, notification.ShiftApproved(updated.EmployeeID, s.clock.FormatDate(updated.Date), updated.ShiftHours(), updated.ID))

	return s.toResponse(updated), nil
}

// Reject implements registration.RegistrationService.
func (s *RegistrationServiceImpl) Reject(ctx context.Context, actor user.RequestingUser, id string, req registration.ReviewRegistrationRequest) (registration.RegistrationResponse, error) {
	reg, err := s.loadForReview(ctx, actor, id, req)
	if err != nil {
		return registration.RegistrationResponse{}, err
	}

	if err := s.registrationRepo.UpdateStatus(ctx, reg.ID, registration.StatusPending, registration.StatusRejected, actor.ID, req.Note, s.clock.Now()); err != nil {
		return registration.RegistrationResponse{}, err
	}

	updated, err := s.registrationRepo.GetByID(ctx, reg.ID)
	if err != nil {
		return registration.RegistrationResponse{}, fmt.Errorf("failed to reload registration: %w", err)
	}

	notification.Notify(ctx, s.notifier, notification.ShiftRejected(updated.EmployeeID, s.clock.FormatDate(updated.Date), updated.ShiftHours(), updated.ID, req.Note))

	return s.toResponse(updated), nil
}

// loadForReview resolves a pending registration the actor may review.
func (s *RegistrationServiceImpl) loadForReview(ctx context.Context, actor user.RequestingUser, id string, req registration.ReviewRegistrationRequest) (registration.Registration, error) {
	if err := req.Validate(); err != nil {
		return registration.Registration{}, err
	}
	if !actor.CanApprove() {
		return registration.Registration{}, user.ErrManagerAccessRequired
	}

	reg, err := s.registrationRepo.GetByID(ctx, id)
	if err != nil {
		return registration.Registration{}, err
	}
	if actor.IsManager() && !actor.InBranch(reg.EmployeeBranchID) {
		return registration.Registration{}, registration.ErrForbiddenBranch
	}
	if reg.Status != registration.StatusPending {
		return registration.Registration{}, fmt.Errorf("%w: current status is %s", registration.ErrNotPending, reg.Status)
	}
	return reg, nil
}

// Delete implements registration.RegistrationService.
func (s *RegistrationServiceImpl) Delete(ctx context.Context, actor user.RequestingUser, id string) error {
	reg, err := s.registrationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch {
	case actor.IsEmployee():
		if reg.EmployeeID != actor.ID {
			return registration.ErrNotOwner
		}
		if reg.Status != registration.StatusPending {
			return registration.ErrOnlyPendingDeletion
		}
	case actor.IsManager():
		if !actor.InBranch(reg.EmployeeBranchID) {
			return registration.ErrForbiddenBranch
		}
	}

	return s.registrationRepo.Delete(ctx, reg.ID)
}

func (s *RegistrationServiceImpl) toResponse(r registration.Registration) registration.RegistrationResponse {
	return registration.RegistrationResponse{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		EmployeeName:   r.EmployeeName,
		ShiftID:        r.ShiftID,
		ShiftName:      r.ShiftName,
		ShiftStartTime: r.ShiftStartTime,
		ShiftEndTime:   r.ShiftEndTime,
		Date:           s.clock.FormatDate(r.Date),
		Status:         r.Status,
		Note:           r.Note,
		ReviewedBy:     r.ReviewedBy,
		ReviewedAt:     r.ReviewedAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
