package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
)

type AttendanceRepo struct{ s *Store }

func (s *Store) AttendanceRepo() *AttendanceRepo { return &AttendanceRepo{s: s} }

func (r *AttendanceRepo) exists(registrationID string, date time.Time) bool {
	for _, a := range r.s.attendances {
		if a.RegistrationID == registrationID && a.Date.Equal(date) {
			return true
		}
	}
	return false
}

func (r *AttendanceRepo) Create(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.exists(a.RegistrationID, a.Date) {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.s.attendances[a.ID] = a
	return r.s.joinAttendance(a), nil
}

func (r *AttendanceRepo) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.attendances[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r.s.joinAttendance(a), nil
}

func (r *AttendanceRepo) ExistsForRegistration(_ context.Context, registrationID string, dayStart, dayEnd time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.attendances {
		if a.RegistrationID == registrationID && inRange(a.Date, &dayStart, &dayEnd) {
			return true, nil
		}
	}
	return false, nil
}

func (r *AttendanceRepo) RecordCheckOut(_ context.Context, id string, at time.Time, location attendance.GeoPoint, notes *string, workHours float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.attendances[id]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	if a.CheckInTime == nil {
		return attendance.ErrNotCheckedIn
	}
	if a.CheckOutTime != nil {
		return attendance.ErrAlreadyCheckedOut
	}
	a.CheckOutTime = &at
	a.CheckOutLocation = &location
	a.Status = attendance.StatusCheckedOut
	if notes != nil {
		a.Notes = notes
	}
	a.WorkHours = &workHours
	a.UpdatedAt = at
	r.s.attendances[id] = a
	return nil
}

func (r *AttendanceRepo) matches(a attendance.Attendance, employeeID, branchID string) bool {
	if employeeID != "" && a.EmployeeID != employeeID {
		return false
	}
	if branchID != "" && r.s.employeeBranch(a.EmployeeID) != branchID {
		return false
	}
	return true
}

func (r *AttendanceRepo) List(_ context.Context, q attendance.ListQuery) ([]attendance.Attendance, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []attendance.Attendance
	for _, a := range r.s.attendances {
		if !r.matches(a, q.EmployeeID, q.BranchID) {
			continue
		}
		if q.ShiftID != "" && a.ShiftID != q.ShiftID {
			continue
		}
		if q.Status != "" && a.Status != q.Status {
			continue
		}
		if !inRange(a.Date, q.DateFrom, q.DateTo) {
			continue
		}
		out = append(out, r.s.joinAttendance(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if q.SortOrder == "asc" {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Date.After(out[j].Date)
	})
	return page(out, q.Page, q.Limit), int64(len(out)), nil
}

func (r *AttendanceRepo) ListForPeriod(_ context.Context, employeeID, branchID string, from, to time.Time, statuses ...attendance.Status) ([]attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	allowed := make(map[attendance.Status]bool, len(statuses))
	for _, st := range statuses {
		allowed[st] = true
	}
	var out []attendance.Attendance
	for _, a := range r.s.attendances {
		if !r.matches(a, employeeID, branchID) || !inRange(a.Date, &from, &to) {
			continue
		}
		if len(allowed) > 0 && !allowed[a.Status] {
			continue
		}
		out = append(out, r.s.joinAttendance(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *AttendanceRepo) CreateAbsent(_ context.Context, a attendance.Attendance) (attendance.Attendance, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.exists(a.RegistrationID, a.Date) {
		return attendance.Attendance{}, false, nil
	}
	a.ID = uuid.NewString()
	a.Status = attendance.StatusAbsent
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.s.attendances[a.ID] = a
	return r.s.joinAttendance(a), true, nil
}
