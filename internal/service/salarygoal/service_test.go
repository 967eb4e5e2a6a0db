package salarygoal

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salarygoal"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const offset = 7 * time.Hour

type fixture struct {
	store *testutil.Store
	clk   *clock.Clock
	svc   salarygoal.SalaryGoalService

	alice employee.Employee
	bob   employee.Employee
}

// newFixture pins the clock to 10:00 local on the given day.
func newFixture(t *testing.T, year int, month time.Month, day int) *fixture {
	t.Helper()
	now := time.Date(year, month, day, 10, 0, 0, 0, time.UTC).Add(-offset)
	f := &fixture{
		store: testutil.NewStore(),
		clk:   clock.NewWithNow(offset, func() time.Time { return now }),
	}
	f.alice = f.store.AddEmployee(employee.Employee{Name: "Alice"})
	f.bob = f.store.AddEmployee(employee.Employee{Name: "Bob"})

	f.svc = NewSalaryGoalService(
		f.store.SalaryGoalRepo(),
		f.store.EmployeeRepo(),
		f.store.AttendanceRepo(),
		f.store.PayrollRepo(),
		f.clk,
		payroll.DefaultPolicy(),
	)
	return f
}

func actor(e employee.Employee) user.RequestingUser {
	return user.RequestingUser{ID: e.ID, Role: e.Role, BranchID: e.BranchID}
}

func (f *fixture) worked(e employee.Employee, year int, month time.Month, day int, status attendance.Status, hours float64) {
	a := attendance.Attendance{
		EmployeeID: e.ID,
		Date:       f.clk.DayStart(time.Date(year, month, day, 12, 0, 0, 0, f.clk.Location())),
		Status:     status,
	}
	if hours > 0 {
		a.WorkHours = &hours
	}
	f.store.AddAttendance(a)
}

func (f *fixture) goal(t *testing.T, e employee.Employee, target, month, year int) salarygoal.GoalResponse {
	t.Helper()
	g, _, err := f.svc.CreateOrUpdate(context.Background(), actor(e), salarygoal.CreateGoalRequest{
		TargetShifts: target,
		Month:        &month,
		Year:         &year,
	})
	require.NoError(t, err)
	return g
}

func assertDecimal(t *testing.T, want int64, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, decimal.NewFromInt(want).Equal(got), "%s: want %d, got %s", msg, want, got)
}

func TestCreateOrUpdate_UpsertsPerMonth(t *testing.T) {
	f := newFixture(t, 2025, time.March, 31)
	ctx := context.Background()

	created, isNew, err := f.svc.CreateOrUpdate(ctx, actor(f.alice), salarygoal.CreateGoalRequest{TargetShifts: 10})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, 3, created.Month)
	assert.Equal(t, 2025, created.Year)
	assert.Equal(t, "Alice", created.EmployeeName)
	assert.Equal(t, salarygoal.StatusActive, created.Status)

	cancelled := string(salarygoal.StatusCancelled)
	_, err = f.svc.Update(ctx, actor(f.alice), created.ID, salarygoal.UpdateGoalRequest{Status: &cancelled})
	require.NoError(t, err)

	// Setting a target again for the same month reactivates the existing goal.
	updated, isNew, err := f.svc.CreateOrUpdate(ctx, actor(f.alice), salarygoal.CreateGoalRequest{TargetShifts: 12})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 12, updated.TargetShifts)
	assert.Equal(t, salarygoal.StatusActive, updated.Status)

	april := f.goal(t, f.alice, 15, 4, 2025)
	assert.NotEqual(t, created.ID, april.ID)
	assert.Equal(t, 4, april.Month)

	// Goals are per employee.
	_, isNew, err = f.svc.CreateOrUpdate(ctx, actor(f.bob), salarygoal.CreateGoalRequest{TargetShifts: 10})
	require.NoError(t, err)
	assert.True(t, isNew)
}

func TestCreateOrUpdate_Validation(t *testing.T) {
	f := newFixture(t, 2025, time.March, 31)
	ctx := context.Background()

	month := 13
	_, _, err := f.svc.CreateOrUpdate(ctx, actor(f.alice), salarygoal.CreateGoalRequest{TargetShifts: 0, Month: &month})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "target_shifts")
	assert.Contains(t, verrs.ToMap(), "month")

	ghost := user.RequestingUser{ID: "8a6e0804-2bd0-4672-b79d-d97027f9071a", Role: user.RoleEmployee}
	_, _, err = f.svc.CreateOrUpdate(ctx, ghost, salarygoal.CreateGoalRequest{TargetShifts: 5})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestCurrent_NoGoalThisMonth(t *testing.T) {
	f := newFixture(t, 2025, time.March, 31)
	f.goal(t, f.alice, 10, 2, 2025)

	_, err := f.svc.Current(context.Background(), actor(f.alice))
	assert.ErrorIs(t, err, salarygoal.ErrNoCurrentGoal)
}

func TestCurrent_ComparesWithClampedDayOfPreviousMonth(t *testing.T) {
	f := newFixture(t, 2025, time.March, 31)

	// Latest payroll prices the estimate: 3,200,000 over 160h is 20,000/h.
	f.store.AddPayroll(payroll.Payroll{EmployeeID: f.alice.ID, Month: 12, Year: 2024, BaseSalary: decimal.NewFromInt(9_999_999)})
	f.store.AddPayroll(payroll.Payroll{EmployeeID: f.alice.ID, Month: 1, Year: 2025, BaseSalary: decimal.NewFromInt(3_200_000)})

	f.goal(t, f.alice, 4, 3, 2025)
	f.worked(f.alice, 2025, time.March, 31, attendance.StatusCheckedOut, 8)
	f.worked(f.alice, 2025, time.March, 5, attendance.StatusCheckedIn, 0)
	f.worked(f.alice, 2025, time.February, 10, attendance.StatusCheckedOut, 4)
	f.worked(f.alice, 2025, time.February, 28, attendance.StatusCheckedOut, 8)
	f.worked(f.bob, 2025, time.March, 20, attendance.StatusCheckedOut, 8)

	res, err := f.svc.Current(context.Background(), actor(f.alice))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Goal.CurrentShifts)
	assert.Equal(t, 25, res.Goal.Progress)
	assertDecimal(t, 160_000, res.Goal.CurrentEarnings, "current earnings")
	assertDecimal(t, 640_000, res.Goal.ProjectedEarnings, "projected earnings")

	assert.Equal(t, "2025-03-31", res.Comparison.CurrentDate)
	assert.Equal(t, "2025-02-28", res.Comparison.ComparisonDate)
	assert.Equal(t, 2, res.Comparison.PreviousShifts)
	assert.Equal(t, -1, res.Comparison.ShiftsChange)
	assertDecimal(t, 240_000, res.Comparison.PreviousEarnings, "previous earnings")
	assertDecimal(t, -80_000, res.Comparison.EarningsChange, "earnings change")
	assert.Equal(t, -33, res.Comparison.EarningsChangePercent)
	assert.Equal(t, "Down 80000 from last month", res.Comparison.Message)

	assertDecimal(t, 8, res.Details.TotalWorkHours, "work hours")
	assertDecimal(t, 20_000, res.Details.EstimatedHourlyRate, "hourly rate")
	assert.Equal(t, 3, res.Details.ShiftsRemaining)
	assert.Equal(t, 0, res.Details.DaysLeftInMonth)
}

func TestCurrent_JanuaryComparesWithDecember(t *testing.T) {
	f := newFixture(t, 2026, time.January, 10)

	f.goal(t, f.alice, 5, 1, 2026)
	f.worked(f.alice, 2025, time.December, 5, attendance.StatusCheckedOut, 8)
	f.worked(f.alice, 2025, time.December, 11, attendance.StatusCheckedOut, 8)

	res, err := f.svc.Current(context.Background(), actor(f.alice))
	require.NoError(t, err)

	assert.Equal(t, 0, res.Goal.CurrentShifts)
	assert.Equal(t, 0, res.Goal.Progress)
	assert.True(t, res.Goal.ProjectedEarnings.IsZero())
	assert.True(t, res.Details.EstimatedHourlyRate.IsZero())

	// No payroll yet, so the policy default of 5,000,000 applies.
	assert.Equal(t, "2025-12-10", res.Comparison.ComparisonDate)
	assert.Equal(t, 1, res.Comparison.PreviousShifts)
	assertDecimal(t, 250_000, res.Comparison.PreviousEarnings, "previous earnings")
	assert.Equal(t, -100, res.Comparison.EarningsChangePercent)
	assert.Equal(t, "Down 250000 from last month", res.Comparison.Message)
	assert.Equal(t, 5, res.Details.ShiftsRemaining)
	assert.Equal(t, 21, res.Details.DaysLeftInMonth)
}

func TestCurrent_NoChange(t *testing.T) {
	f := newFixture(t, 2025, time.March, 15)
	f.goal(t, f.alice, 2, 3, 2025)
	f.worked(f.alice, 2025, time.March, 3, attendance.StatusCheckedOut, 8)
	f.worked(f.alice, 2025, time.February, 3, attendance.StatusCheckedOut, 8)

	res, err := f.svc.Current(context.Background(), actor(f.alice))
	require.NoError(t, err)
	assert.Equal(t, "No change from last month", res.Comparison.Message)
	assert.Equal(t, 0, res.Comparison.EarningsChangePercent)
	assert.Equal(t, 50, res.Goal.Progress)
}

func TestHistory_NewestFirstWithCompletion(t *testing.T) {
	f := newFixture(t, 2025, time.March, 31)
	ctx := context.Background()

	f.goal(t, f.alice, 5, 1, 2025)
	f.goal(t, f.alice, 2, 2, 2025)
	f.goal(t, f.alice, 10, 3, 2025)
	f.goal(t, f.bob, 1, 3, 2025)
	f.worked(f.alice, 2025, time.February, 3, attendance.StatusCheckedOut, 8)
	f.worked(f.alice, 2025, time.February, 4, attendance.StatusCheckedOut, 8)

	items, err := f.svc.History(ctx, actor(f.alice), salarygoal.HistoryQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, 3, items[0].Month)
	assert.Equal(t, 0, items[0].ActualShifts)
	assert.False(t, items[0].Completed)

	assert.Equal(t, 2, items[1].Month)
	assert.Equal(t, 2, items[1].ActualShifts)
	assert.True(t, items[1].Completed)
	assertDecimal(t, 500_000, items[1].Earnings, "february earnings")

	items, err = f.svc.History(ctx, actor(f.alice), salarygoal.HistoryQuery{})
	require.NoError(t, err)
	assert.Len(t, items, 3)

	items, err = f.svc.History(ctx, user.RequestingUser{ID: "8a6e0804-2bd0-4672-b79d-d97027f9071a"}, salarygoal.HistoryQuery{})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestHistoryQuery_Normalize(t *testing.T) {
	for _, tc := range []struct {
		in, want int
	}{
		{0, salarygoal.DefaultHistoryLimit},
		{-3, salarygoal.DefaultHistoryLimit},
		{12, 12},
		{100, salarygoal.MaxHistoryLimit},
	} {
		q := salarygoal.HistoryQuery{Limit: tc.in}
		q.Normalize()
		assert.Equal(t, tc.want, q.Limit, "limit %d", tc.in)
	}
}

func TestUpdateAndDelete_OwnGoalOnly(t *testing.T) {
	f := newFixture(t, 2025, time.March, 31)
	ctx := context.Background()
	g := f.goal(t, f.alice, 10, 3, 2025)

	target := 20
	_, err := f.svc.Update(ctx, actor(f.bob), g.ID, salarygoal.UpdateGoalRequest{TargetShifts: &target})
	assert.ErrorIs(t, err, salarygoal.ErrGoalNotFound)
	_, err = f.svc.Update(ctx, actor(f.alice), "not-a-uuid", salarygoal.UpdateGoalRequest{TargetShifts: &target})
	assert.ErrorIs(t, err, salarygoal.ErrGoalNotFound)

	_, err = f.svc.Update(ctx, actor(f.alice), g.ID, salarygoal.UpdateGoalRequest{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "target_shifts")

	bogus := "paused"
	_, err = f.svc.Update(ctx, actor(f.alice), g.ID, salarygoal.UpdateGoalRequest{Status: &bogus})
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "status")

	updated, err := f.svc.Update(ctx, actor(f.alice), g.ID, salarygoal.UpdateGoalRequest{TargetShifts: &target})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.TargetShifts)
	assert.Equal(t, salarygoal.StatusActive, updated.Status)

	assert.ErrorIs(t, f.svc.Delete(ctx, actor(f.bob), g.ID), salarygoal.ErrGoalNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, actor(f.alice), "not-a-uuid"), salarygoal.ErrGoalNotFound)
	require.NoError(t, f.svc.Delete(ctx, actor(f.alice), g.ID))

	_, err = f.svc.Current(ctx, actor(f.alice))
	assert.ErrorIs(t, err, salarygoal.ErrNoCurrentGoal)
}
