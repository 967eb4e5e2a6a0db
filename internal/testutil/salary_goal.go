package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salarygoal"
	"github.com/google/uuid"
)

type SalaryGoalRepo struct{ s *Store }

func (s *Store) SalaryGoalRepo() *SalaryGoalRepo { return &SalaryGoalRepo{s: s} }

func (r *SalaryGoalRepo) join(g salarygoal.SalaryGoal) salarygoal.SalaryGoal {
	g.EmployeeName = r.s.employees[g.EmployeeID].Name
	return g
}

func (r *SalaryGoalRepo) Upsert(_ context.Context, g salarygoal.SalaryGoal) (salarygoal.SalaryGoal, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	for id, existing := range r.s.salaryGoals {
		if existing.EmployeeID == g.EmployeeID && existing.Month == g.Month && existing.Year == g.Year {
			existing.TargetShifts = g.TargetShifts
			existing.Status = g.Status
			existing.UpdatedAt = now
			r.s.salaryGoals[id] = existing
			return r.join(existing), false, nil
		}
	}
	g.ID = uuid.NewString()
	g.CreatedAt = now
	g.UpdatedAt = now
	r.s.salaryGoals[g.ID] = g
	return r.join(g), true, nil
}

func (r *SalaryGoalRepo) GetByID(_ context.Context, employeeID, id string) (salarygoal.SalaryGoal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.salaryGoals[id]
	if !ok || g.EmployeeID != employeeID {
		return salarygoal.SalaryGoal{}, salarygoal.ErrGoalNotFound
	}
	return r.join(g), nil
}

func (r *SalaryGoalRepo) GetForPeriod(_ context.Context, employeeID string, month, year int) (salarygoal.SalaryGoal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, g := range r.s.salaryGoals {
		if g.EmployeeID == employeeID && g.Month == month && g.Year == year {
			return r.join(g), nil
		}
	}
	return salarygoal.SalaryGoal{}, salarygoal.ErrGoalNotFound
}

func (r *SalaryGoalRepo) ListRecent(_ context.Context, employeeID string, limit int) ([]salarygoal.SalaryGoal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []salarygoal.SalaryGoal
	for _, g := range r.s.salaryGoals {
		if g.EmployeeID == employeeID {
			out = append(out, r.join(g))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *SalaryGoalRepo) Update(_ context.Context, g salarygoal.SalaryGoal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.salaryGoals[g.ID]
	if !ok || existing.EmployeeID != g.EmployeeID {
		return salarygoal.ErrGoalNotFound
	}
	existing.TargetShifts = g.TargetShifts
	existing.Status = g.Status
	existing.UpdatedAt = time.Now()
	r.s.salaryGoals[g.ID] = existing
	return nil
}

func (r *SalaryGoalRepo) Delete(_ context.Context, employeeID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.salaryGoals[id]
	if !ok || g.EmployeeID != employeeID {
		return salarygoal.ErrGoalNotFound
	}
	delete(r.s.salaryGoals, id)
	return nil
}
