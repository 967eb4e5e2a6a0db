package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/registration"
	"github.com/google/uuid"
)

type RegistrationRepo struct{ s *Store }

func (s *Store) RegistrationRepo() *RegistrationRepo { return &RegistrationRepo{s: s} }

func (r *RegistrationRepo) Create(_ context.Context, reg registration.Registration) (registration.Registration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.registrations {
		if existing.EmployeeID == reg.EmployeeID && existing.ShiftID == reg.ShiftID && existing.Date.Equal(reg.Date) {
			return registration.Registration{}, registration.ErrDuplicateRegistration
		}
	}
	reg.ID = uuid.NewString()
	reg.CreatedAt = time.Now()
	reg.UpdatedAt = reg.CreatedAt
	r.s.registrations[reg.ID] = reg
	return r.s.joinRegistration(reg), nil
}

func (r *RegistrationRepo) GetByID(_ context.Context, id string) (registration.Registration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reg, ok := r.s.registrations[id]
	if !ok {
		return registration.Registration{}, registration.ErrRegistrationNotFound
	}
	return r.s.joinRegistration(reg), nil
}

func (r *RegistrationRepo) ExistsForEmployeeShiftDate(_ context.Context, employeeID, shiftID string, date time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, reg := range r.s.registrations {
		if reg.EmployeeID == employeeID && reg.ShiftID == shiftID && reg.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (r *RegistrationRepo) ListActiveByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) ([]registration.Registration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []registration.Registration
	for _, reg := range r.s.registrations {
		if reg.EmployeeID == employeeID && reg.Date.Equal(date) && reg.Status.IsActive() {
			out = append(out, r.s.joinRegistration(reg))
		}
	}
	return out, nil
}

func (r *RegistrationRepo) CountApproved(_ context.Context, shiftID string, date time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, reg := range r.s.registrations {
		if reg.ShiftID == shiftID && reg.Date.Equal(date) && reg.Status == registration.StatusApproved {
			n++
		}
	}
	return n, nil
}

func (r *RegistrationRepo) UpdateStatus(_ context.Context, id string, from, to registration.Status, reviewerID string, note *string, reviewedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reg, ok := r.s.registrations[id]
	if !ok {
		return registration.ErrRegistrationNotFound
	}
	if reg.Status != from {
		return registration.ErrNotPending
	}
	reg.Status = to
	reg.ReviewedBy = &reviewerID
	reg.ReviewedAt = &reviewedAt
	if note != nil {
		reg.Note = note
	}
	reg.UpdatedAt = reviewedAt
	r.s.registrations[id] = reg
	return nil
}

func (r *RegistrationRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.registrations[id]; !ok {
		return registration.ErrRegistrationNotFound
	}
	for _, a := range r.s.attendances {
		if a.RegistrationID == id {
			return registration.ErrHasAttendance
		}
	}
	delete(r.s.registrations, id)
	return nil
}

func (r *RegistrationRepo) List(_ context.Context, q registration.ListQuery) ([]registration.Registration, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []registration.Registration
	for _, reg := range r.s.registrations {
		if q.EmployeeID != "" && reg.EmployeeID != q.EmployeeID {
			continue
		}
		if q.BranchID != "" && r.s.employeeBranch(reg.EmployeeID) != q.BranchID {
			continue
		}
		if q.ShiftID != "" && reg.ShiftID != q.ShiftID {
			continue
		}
		if q.Status != "" && reg.Status != q.Status {
			continue
		}
		if !inRange(reg.Date, q.DateFrom, q.DateTo) {
			continue
		}
		out = append(out, r.s.joinRegistration(reg))
	}
	sort.Slice(out, func(i, j int) bool {
		if q.SortOrder == "asc" {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Date.After(out[j].Date)
	})
	return page(out, q.Page, q.Limit), int64(len(out)), nil
}

func (r *RegistrationRepo) ListApprovedWithoutAttendance(_ context.Context, before time.Time, limit int) ([]registration.Registration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	attended := make(map[string]bool)
	for _, a := range r.s.attendances {
		attended[a.RegistrationID] = true
	}
	var out []registration.Registration
	for _, reg := range r.s.registrations {
		if reg.Status == registration.StatusApproved && reg.Date.Before(before) && !attended[reg.ID] {
			out = append(out, r.s.joinRegistration(reg))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *RegistrationRepo) ListApprovedUnreminded(_ context.Context, date time.Time) ([]registration.Registration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []registration.Registration
	for _, reg := range r.s.registrations {
		if reg.Status == registration.StatusApproved && reg.Date.Equal(date) && reg.ReminderSentAt == nil {
			out = append(out, r.s.joinRegistration(reg))
		}
	}
	return out, nil
}

func (r *RegistrationRepo) MarkReminded(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reg, ok := r.s.registrations[id]
	if !ok {
		return registration.ErrRegistrationNotFound
	}
	reg.ReminderSentAt = &at
	r.s.registrations[id] = reg
	return nil
}
