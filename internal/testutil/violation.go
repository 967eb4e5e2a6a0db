package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/violation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ViolationRepo struct{ s *Store }

func (s *Store) ViolationRepo() *ViolationRepo { return &ViolationRepo{s: s} }

func (r *ViolationRepo) join(v violation.Violation) violation.Violation {
	v.EmployeeName = r.s.employees[v.EmployeeID].Name
	return v
}

func (r *ViolationRepo) Create(_ context.Context, v violation.Violation) (violation.Violation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v.ID = uuid.NewString()
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	r.s.violations[v.ID] = v
	return r.join(v), nil
}

func (r *ViolationRepo) GetByID(_ context.Context, id string) (violation.Violation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.violations[id]
	if !ok {
		return violation.Violation{}, violation.ErrViolationNotFound
	}
	return r.join(v), nil
}

func (r *ViolationRepo) List(_ context.Context, q violation.ListQuery) ([]violation.Violation, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []violation.Violation
	for _, v := range r.s.violations {
		if q.EmployeeID != "" && v.EmployeeID != q.EmployeeID {
			continue
		}
		if q.BranchID != "" && v.BranchID != q.BranchID {
			continue
		}
		if q.Status != "" && v.Status != q.Status {
			continue
		}
		if !inRange(v.ViolationDate, q.DateFrom, q.DateTo) {
			continue
		}
		out = append(out, r.join(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ViolationDate.After(out[j].ViolationDate) })
	return page(out, q.Page, q.Limit), int64(len(out)), nil
}

func (r *ViolationRepo) Update(_ context.Context, v violation.Violation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.violations[v.ID]; !ok {
		return violation.ErrViolationNotFound
	}
	v.UpdatedAt = time.Now()
	r.s.violations[v.ID] = v
	return nil
}

func (r *ViolationRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.violations[id]; !ok {
		return violation.ErrViolationNotFound
	}
	delete(r.s.violations, id)
	return nil
}

func (r *ViolationRepo) SumPenalties(_ context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for _, v := range r.s.violations {
		if v.EmployeeID == employeeID && inRange(v.ViolationDate, &from, &to) {
			total = total.Add(v.PenaltyAmount)
		}
	}
	return total, nil
}
