package testutil

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
)

type BranchRepo struct{ s *Store }

func (s *Store) BranchRepo() *BranchRepo { return &BranchRepo{s: s} }

func (r *BranchRepo) GetByID(_ context.Context, id string) (branch.Branch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.branches[id]
	if !ok {
		return branch.Branch{}, branch.ErrBranchNotFound
	}
	return b, nil
}

type EmployeeRepo struct{ s *Store }

func (s *Store) EmployeeRepo() *EmployeeRepo { return &EmployeeRepo{s: s} }

func (r *EmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *EmployeeRepo) LockForUpdate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.employees[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	r.s.employeeLocks = append(r.s.employeeLocks, id)
	return nil
}

func (r *EmployeeRepo) ListByBranchAndRole(_ context.Context, branchID string, role user.Role) ([]employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []employee.Employee
	for _, e := range r.s.employees {
		if e.BranchID == branchID && e.Role == role {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type ShiftRepo struct{ s *Store }

func (s *Store) ShiftRepo() *ShiftRepo { return &ShiftRepo{s: s} }

func (r *ShiftRepo) GetByID(_ context.Context, id string) (shift.Shift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sh, ok := r.s.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return sh, nil
}

func (r *ShiftRepo) GetByIDForUpdate(ctx context.Context, id string) (shift.Shift, error) {
	return r.GetByID(ctx, id)
}
