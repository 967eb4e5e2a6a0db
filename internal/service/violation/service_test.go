package violation

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/violation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store *testutil.Store
	pub   *testutil.Publisher
	clk   *clock.Clock
	svc   violation.ViolationService

	home     branch.Branch
	alice    employee.Employee
	bob      employee.Employee
	manager  employee.Employee
	outsider employee.Employee
	admin    employee.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: testutil.NewStore(),
		pub:   &testutil.Publisher{},
		clk:   clock.NewWithNow(7*time.Hour, func() time.Time { return time.Date(2025, 10, 20, 3, 0, 0, 0, time.UTC) }),
	}
	f.home = f.store.AddBranch(branch.Branch{Name: "Hanoi"})
	away := f.store.AddBranch(branch.Branch{Name: "Saigon"})
	f.alice = f.store.AddEmployee(employee.Employee{Name: "Alice", BranchID: f.home.ID})
	f.bob = f.store.AddEmployee(employee.Employee{Name: "Bob", BranchID: away.ID})
	f.manager = f.store.AddEmployee(employee.Employee{Name: "Mona", BranchID: f.home.ID, Role: user.RoleManager})
	f.outsider = f.store.AddEmployee(employee.Employee{Name: "Otto", BranchID: away.ID, Role: user.RoleManager})
	f.admin = f.store.AddEmployee(employee.Employee{Name: "Ada", Role: user.RoleAdmin})

	f.svc = NewViolationService(f.store.ViolationRepo(), f.store.EmployeeRepo(), f.store.ShiftRepo(), f.pub, f.clk)
	return f
}

func actor(e employee.Employee) user.RequestingUser {
	return user.RequestingUser{ID: e.ID, Role: e.Role, BranchID: e.BranchID}
}

func lateness(e employee.Employee, date string, penalty int64) violation.CreateViolationRequest {
	return violation.CreateViolationRequest{
		EmployeeID:    e.ID,
		Title:         "Late arrival",
		Description:   "Arrived 40 minutes after shift start",
		ViolationDate: date,
		PenaltyAmount: decimal.NewFromInt(penalty),
	}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	sh := f.store.AddShift(shift.Shift{Name: "Day", BranchID: f.home.ID, StartTime: "08:00", EndTime: "17:00"})
	req := lateness(f.alice, "2025-10-18", 50_000)
	req.ShiftID = &sh.ID

	resp, err := f.svc.Create(context.Background(), actor(f.manager), req)
	require.NoError(t, err)

	assert.Equal(t, violation.StatusPending, resp.Status)
	assert.Equal(t, f.home.ID, resp.BranchID)
	assert.Equal(t, f.manager.ID, resp.CreatedBy)
	assert.Equal(t, "2025-10-18", resp.ViolationDate)
	assert.Equal(t, "Alice", resp.EmployeeName)

	assert.Eventually(t, func() bool { return len(f.pub.SentTo(f.alice.ID)) == 1 }, time.Second, 10*time.Millisecond)
	sent := f.pub.SentTo(f.alice.ID)[0]
	assert.Equal(t, notification.TypeViolationRecorded, sent.Type)
	assert.Contains(t, sent.Message, "Late arrival")
	assert.Contains(t, sent.Message, "50000.00")
}

func TestCreate_Rules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	foreign := f.store.AddShift(shift.Shift{Name: "Far", BranchID: "elsewhere", StartTime: "08:00", EndTime: "17:00"})

	_, err := f.svc.Create(ctx, actor(f.alice), lateness(f.alice, "2025-10-18", 1))
	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)

	_, err = f.svc.Create(ctx, actor(f.manager), lateness(f.bob, "2025-10-18", 1))
	assert.ErrorIs(t, err, violation.ErrForbiddenBranch)

	req := lateness(f.alice, "2025-10-18", 1)
	req.ShiftID = &foreign.ID
	_, err = f.svc.Create(ctx, actor(f.admin), req)
	assert.ErrorIs(t, err, violation.ErrShiftOutsideBranch)

	_, err = f.svc.Create(ctx, actor(f.admin), lateness(f.alice, "2025-10-18", -5))
	assert.Error(t, err)
}

func TestAcknowledge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v, err := f.svc.Create(ctx, actor(f.manager), lateness(f.alice, "2025-10-18", 10_000))
	require.NoError(t, err)

	_, err = f.svc.Acknowledge(ctx, actor(f.manager), v.ID)
	assert.ErrorIs(t, err, violation.ErrNotViolationOwner)

	resp, err := f.svc.Acknowledge(ctx, actor(f.alice), v.ID)
	require.NoError(t, err)
	assert.Equal(t, violation.StatusAcknowledged, resp.Status)
	require.NotNil(t, resp.AcknowledgedAt)
	assert.True(t, resp.AcknowledgedAt.Equal(f.clk.Now()))

	_, err = f.svc.Acknowledge(ctx, actor(f.alice), v.ID)
	assert.ErrorIs(t, err, violation.ErrAlreadyAcknowledged)
}

func TestUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v, err := f.svc.Create(ctx, actor(f.admin), lateness(f.alice, "2025-10-18", 10_000))
	require.NoError(t, err)

	penalty := decimal.NewFromInt(20_000)
	resolved := "resolved"
	_, err = f.svc.Update(ctx, actor(f.outsider), v.ID, violation.UpdateViolationRequest{PenaltyAmount: &penalty})
	assert.ErrorIs(t, err, violation.ErrForbiddenBranch)

	resp, err := f.svc.Update(ctx, actor(f.manager), v.ID, violation.UpdateViolationRequest{PenaltyAmount: &penalty, Status: &resolved})
	require.NoError(t, err)
	assert.True(t, penalty.Equal(resp.PenaltyAmount))
	assert.Equal(t, violation.StatusResolved, resp.Status)
	assert.NotNil(t, resp.AcknowledgedAt)
	assert.Equal(t, "Late arrival", resp.Title)

	assert.ErrorIs(t, f.svc.Delete(ctx, actor(f.manager), v.ID), user.ErrAdminAccessRequired)
	require.NoError(t, f.svc.Delete(ctx, actor(f.admin), v.ID))
	_, err = f.svc.GetByID(ctx, actor(f.admin), v.ID)
	assert.ErrorIs(t, err, violation.ErrViolationNotFound)
}

func TestListAndGet_Scoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mine, err := f.svc.Create(ctx, actor(f.admin), lateness(f.alice, "2025-10-01", 1))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, actor(f.admin), lateness(f.alice, "2025-09-15", 1))
	require.NoError(t, err)
	theirs, err := f.svc.Create(ctx, actor(f.admin), lateness(f.bob, "2025-10-02", 1))
	require.NoError(t, err)

	resp, err := f.svc.List(ctx, actor(f.alice), violation.ViolationFilter{EmployeeID: &f.bob.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Pagination.Total)

	start, end := "2025-10-01", "2025-10-31"
	resp, err = f.svc.List(ctx, actor(f.manager), violation.ViolationFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, mine.ID, resp.Violations[0].ID)

	resp, err = f.svc.List(ctx, actor(f.admin), violation.ViolationFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Pagination.Total)

	_, err = f.svc.GetByID(ctx, actor(f.alice), theirs.ID)
	assert.ErrorIs(t, err, violation.ErrForbiddenView)
	_, err = f.svc.GetByID(ctx, actor(f.manager), theirs.ID)
	assert.ErrorIs(t, err, violation.ErrForbiddenBranch)
}

func TestSumPenaltiesForPeriod_UsesLocalMonth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, c := range []struct {
		date    string
		penalty int64
	}{
		{"2025-10-01", 50_000},
		{"2025-10-31", 25_000},
		{"2025-09-30", 99_000},
		{"2025-11-01", 99_000},
	} {
		_, err := f.svc.Create(ctx, actor(f.admin), lateness(f.alice, c.date, c.penalty))
		require.NoError(t, err)
	}

	total, err := f.svc.SumPenaltiesForPeriod(ctx, f.alice.ID, 10, 2025)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(75_000).Equal(total), total.String())

	total, err = f.svc.SumPenaltiesForPeriod(ctx, f.bob.ID, 10, 2025)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}
