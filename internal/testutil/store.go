// Package testutil provides in-memory implementations of the repository
// interfaces for service and handler tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/registration"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salarygoal"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/violation"
	"github.com/google/uuid"
)

// Store is a single in-memory dataset shared by all fake repositories so
// that joined fields (employee names, shift times) resolve like SQL joins.
type Store struct {
	mu sync.Mutex

	branches      map[string]branch.Branch
	employees     map[string]employee.Employee
	shifts        map[string]shift.Shift
	registrations map[string]registration.Registration
	attendances   map[string]attendance.Attendance
	payrolls      map[string]payroll.Payroll
	violations    map[string]violation.Violation
	salaryGoals   map[string]salarygoal.SalaryGoal

	employeeLocks []string
}

func NewStore() *Store {
	return &Store{
		branches:      make(map[string]branch.Branch),
		employees:     make(map[string]employee.Employee),
		shifts:        make(map[string]shift.Shift),
		registrations: make(map[string]registration.Registration),
		attendances:   make(map[string]attendance.Attendance),
		payrolls:      make(map[string]payroll.Payroll),
		violations:    make(map[string]violation.Violation),
		salaryGoals:   make(map[string]salarygoal.SalaryGoal),
	}
}

// EmployeeLocks lists the employee ids locked through EmployeeRepo, in order.
func (s *Store) EmployeeLocks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.employeeLocks...)
}

// ========== Seeding ==========

func (s *Store) AddBranch(b branch.Branch) branch.Branch {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	s.branches[b.ID] = b
	return b
}

func (s *Store) AddEmployee(e employee.Employee) employee.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Role == "" {
		e.Role = user.RoleEmployee
	}
	s.employees[e.ID] = e
	return e
}

func (s *Store) AddShift(sh shift.Shift) shift.Shift {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sh.ID == "" {
		sh.ID = uuid.NewString()
	}
	s.shifts[sh.ID] = sh
	return sh
}

// AddRegistration stores r as is, bypassing every business rule.
func (s *Store) AddRegistration(r registration.Registration) registration.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = registration.StatusPending
	}
	s.registrations[r.ID] = r
	return s.joinRegistration(r)
}

// AddAttendance stores a as is, bypassing every business rule.
func (s *Store) AddAttendance(a attendance.Attendance) attendance.Attendance {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	s.attendances[a.ID] = a
	return s.joinAttendance(a)
}

func (s *Store) AddViolation(v violation.Violation) violation.Violation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Status == "" {
		v.Status = violation.StatusPending
	}
	s.violations[v.ID] = v
	return v
}

func (s *Store) AddPayroll(p payroll.Payroll) payroll.Payroll {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = payroll.StatusDraft
	}
	s.payrolls[p.ID] = p
	return p
}

// ========== Inspection ==========

func (s *Store) Registration(id string) (registration.Registration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.registrations[id]
	return r, ok
}

func (s *Store) Attendances() []attendance.Attendance {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]attendance.Attendance, 0, len(s.attendances))
	for _, a := range s.attendances {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (s *Store) Payrolls() []payroll.Payroll {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]payroll.Payroll, 0, len(s.payrolls))
	for _, p := range s.payrolls {
		out = append(out, p)
	}
	return out
}

// ========== Joins ==========

func (s *Store) joinRegistration(r registration.Registration) registration.Registration {
	if e, ok := s.employees[r.EmployeeID]; ok {
		r.EmployeeName = e.Name
		r.EmployeeBranchID = e.BranchID
	}
	if sh, ok := s.shifts[r.ShiftID]; ok {
		r.ShiftName = sh.Name
		r.ShiftBranchID = sh.BranchID
		r.ShiftStartTime = sh.StartTime
		r.ShiftEndTime = sh.EndTime
	}
	return r
}

func (s *Store) joinAttendance(a attendance.Attendance) attendance.Attendance {
	if e, ok := s.employees[a.EmployeeID]; ok {
		a.EmployeeName = e.Name
		a.EmployeeBranchID = e.BranchID
	}
	if sh, ok := s.shifts[a.ShiftID]; ok {
		a.ShiftName = sh.Name
		a.ShiftStartTime = sh.StartTime
		a.ShiftEndTime = sh.EndTime
	}
	return a
}

func (s *Store) employeeBranch(id string) string {
	return s.employees[id].BranchID
}

// ========== Transactions ==========

// PassThroughTx runs fn directly. The fakes serialise through the store mutex.
type PassThroughTx struct{}

func (PassThroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ========== Helpers ==========

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

func page[T any](items []T, pageNum, limit int) []T {
	if limit <= 0 {
		return items
	}
	start := (pageNum - 1) * limit
	if start < 0 {
		start = 0
	}
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
