package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/google/uuid"
)

type PayrollRepo struct{ s *Store }

func (s *Store) PayrollRepo() *PayrollRepo { return &PayrollRepo{s: s} }

func (r *PayrollRepo) join(p payroll.Payroll) payroll.Payroll {
	p.EmployeeName = r.s.employees[p.EmployeeID].Name
	return p
}

func (r *PayrollRepo) Create(_ context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.payrolls {
		if existing.EmployeeID == p.EmployeeID && existing.Month == p.Month && existing.Year == p.Year {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyExists
		}
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.s.payrolls[p.ID] = p
	return r.join(p), nil
}

func (r *PayrollRepo) ExistsForPeriod(_ context.Context, employeeID string, month, year int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payrolls {
		if p.EmployeeID == employeeID && p.Month == month && p.Year == year {
			return true, nil
		}
	}
	return false, nil
}

func (r *PayrollRepo) GetByID(_ context.Context, id string) (payroll.Payroll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payrolls[id]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return r.join(p), nil
}

func (r *PayrollRepo) Latest(_ context.Context, employeeID string) (payroll.Payroll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var (
		latest payroll.Payroll
		found  bool
	)
	for _, p := range r.s.payrolls {
		if p.EmployeeID != employeeID {
			continue
		}
		if !found || p.Year > latest.Year || (p.Year == latest.Year && p.Month > latest.Month) {
			latest, found = p, true
		}
	}
	if !found {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return r.join(latest), nil
}

func (r *PayrollRepo) List(_ context.Context, q payroll.ListQuery) ([]payroll.Payroll, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []payroll.Payroll
	for _, p := range r.s.payrolls {
		if q.EmployeeID != "" && p.EmployeeID != q.EmployeeID {
			continue
		}
		if q.BranchID != "" && p.BranchID != q.BranchID {
			continue
		}
		if q.Month != 0 && p.Month != q.Month {
			continue
		}
		if q.Year != 0 && p.Year != q.Year {
			continue
		}
		if q.Status != "" && p.Status != q.Status {
			continue
		}
		out = append(out, r.join(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return page(out, q.Page, q.Limit), int64(len(out)), nil
}

func (r *PayrollRepo) UpdateCalculation(_ context.Context, p payroll.Payroll, recalculatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.payrolls[p.ID]
	if !ok {
		return payroll.ErrPayrollNotFound
	}
	if existing.Status != payroll.StatusDraft {
		return payroll.ErrNotDraft
	}
	p.Status = existing.Status
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = recalculatedAt
	p.RecalculatedAt = &recalculatedAt
	r.s.payrolls[p.ID] = p
	return nil
}

func (r *PayrollRepo) UpdateStatus(_ context.Context, id string, from, to payroll.Status, notes *string, paidAt *time.Time, paidBy *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payrolls[id]
	if !ok {
		return payroll.ErrPayrollNotFound
	}
	if p.Status != from {
		return payroll.ErrInvalidStatusTransition
	}
	p.Status = to
	if notes != nil {
		p.Notes = notes
	}
	if paidAt != nil {
		p.PaidAt = paidAt
		p.PaidBy = paidBy
	}
	p.UpdatedAt = time.Now()
	r.s.payrolls[id] = p
	return nil
}

func (r *PayrollRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payrolls[id]
	if !ok {
		return payroll.ErrPayrollNotFound
	}
	if p.Status != payroll.StatusDraft {
		return payroll.ErrNotDraft
	}
	delete(r.s.payrolls, id)
	return nil
}
