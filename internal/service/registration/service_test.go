package registration

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/registration"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-10-15 10:00 at UTC+07:00
var fixedNow = time.Date(2025, 10, 15, 3, 0, 0, 0, time.UTC)

type fixture struct {
	store *testutil.Store
	pub   *testutil.Publisher
	clk   *clock.Clock
	svc   registration.RegistrationService

	branch       branch.Branch
	otherBranch  branch.Branch
	alice        employee.Employee
	bob          employee.Employee
	manager      employee.Employee
	otherManager employee.Employee
	admin        employee.Employee

	morning shift.Shift // 09:00-17:00
	late    shift.Shift // 16:00-20:00
	evening shift.Shift // 17:00-22:00
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := testutil.NewStore()
	pub := &testutil.Publisher{}
	clk := clock.NewWithNow(7*time.Hour, func() time.Time { return fixedNow })

	f := &fixture{store: store, pub: pub, clk: clk}
	f.branch = store.AddBranch(branch.Branch{Name: "Hanoi"})
	f.otherBranch = store.AddBranch(branch.Branch{Name: "Saigon"})
	f.alice = store.AddEmployee(employee.Employee{Name: "Alice", BranchID: f.branch.ID, Role: user.RoleEmployee})
	f.bob = store.AddEmployee(employee.Employee{Name: "Bob", BranchID: f.branch.ID, Role: user.RoleEmployee})
	f.manager = store.AddEmployee(employee.Employee{Name: "Mona", BranchID: f.branch.ID, Role: user.RoleManager})
	f.otherManager = store.AddEmployee(employee.Employee{Name: "Otto", BranchID: f.otherBranch.ID, Role: user.RoleManager})
	f.admin = store.AddEmployee(employee.Employee{Name: "Ada", Role: user.RoleAdmin})

	f.morning = store.AddShift(shift.Shift{Name: "Morning", BranchID: f.branch.ID, StartTime: "09:00", EndTime: "17:00"})
	f.late = store.AddShift(shift.Shift{Name: "Late", BranchID: f.branch.ID, StartTime: "16:00", EndTime: "20:00"})
	f.evening = store.AddShift(shift.Shift{Name: "Evening", BranchID: f.branch.ID, StartTime: "17:00", EndTime: "22:00"})

	f.svc = NewRegistrationService(testutil.PassThroughTx{}, store.RegistrationRepo(), store.ShiftRepo(), store.EmployeeRepo(), pub, clk)
	return f
}

func actor(e employee.Employee) user.RequestingUser {
	return user.RequestingUser{ID: e.ID, Role: e.Role, BranchID: e.BranchID}
}

func (f *fixture) register(t *testing.T, e employee.Employee, sh shift.Shift, date string) registration.RegistrationResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), actor(e), registration.CreateRegistrationRequest{ShiftID: sh.ID, Date: date})
	require.NoError(t, err)
	return resp
}

func (f *fixture) seed(e employee.Employee, sh shift.Shift, date string, status registration.Status) registration.Registration {
	day, _ := f.clk.ParseDate(date)
	return f.store.AddRegistration(registration.Registration{EmployeeID: e.ID, ShiftID: sh.ID, Date: day, Status: status})
}

func TestCreate_PersistsPendingAndNotifiesManagers(t *testing.T) {
	f := newFixture(t)
	note := "can cover"

	resp, err := f.svc.Create(context.Background(), actor(f.alice), registration.CreateRegistrationRequest{
		ShiftID: f.morning.ID,
		Date:    "2025-10-16",
		Note:    &note,
	})
	require.NoError(t, err)

	assert.Equal(t, registration.StatusPending, resp.Status)
	assert.Equal(t, "2025-10-16", resp.Date)
	assert.Equal(t, "Alice", resp.EmployeeName)
	assert.Equal(t, "Morning", resp.ShiftName)
	assert.Equal(t, &note, resp.Note)

	assert.Eventually(t, func() bool { return len(f.pub.SentTo(f.manager.ID)) == 1 }, time.Second, 10*time.Millisecond)
	sent := f.pub.SentTo(f.manager.ID)[0]
	assert.Equal(t, notification.TypeRegistrationSubmitted, sent.Type)
	assert.Contains(t, sent.Message, "Alice has registered for shift on 2025-10-16 (09:00 - 17:00)")
	assert.Empty(t, f.pub.SentTo(f.otherManager.ID))
}

func TestCreate_NotificationFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t)
	f.pub.Err = assert.AnError

	_, err := f.svc.Create(context.Background(), actor(f.alice), registration.CreateRegistrationRequest{ShiftID: f.morning.ID, Date: "2025-10-16"})
	assert.NoError(t, err)
}

func TestCreate_RejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	f.register(t, f.alice, f.morning, "2025-10-16")

	_, err := f.svc.Create(context.Background(), actor(f.alice), registration.CreateRegistrationRequest{ShiftID: f.morning.ID, Date: "2025-10-16"})
	assert.ErrorIs(t, err, registration.ErrDuplicateRegistration)
}

func TestCreate_OverlapDetection(t *testing.T) {
	tests := []struct {
		name    string
		first   func(f *fixture) shift.Shift
		second  func(f *fixture) shift.Shift
		wantErr bool
	}{
		{
			name:    "overlapping afternoon shift is rejected",
			first:   func(f *fixture) shift.Shift { return f.morning },
			second:  func(f *fixture) shift.Shift { return f.late },
			wantErr: true,
		},
		{
			name:   "back to back shift is accepted",
			first:  func(f *fixture) shift.Shift { return f.morning },
			second: func(f *fixture) shift.Shift { return f.evening },
		},
		{
			name: "overnight shift overlaps early morning shift",
			first: func(f *fixture) shift.Shift {
				return f.store.AddShift(shift.Shift{Name: "Night", BranchID: f.branch.ID, StartTime: "22:00", EndTime: "06:00"})
			},
			second: func(f *fixture) shift.Shift {
				return f.store.AddShift(shift.Shift{Name: "Dawn", BranchID: f.branch.ID, StartTime: "05:00", EndTime: "08:00"})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			first := tt.first(f)
			f.register(t, f.alice, first, "2025-10-16")

			_, err := f.svc.Create(context.Background(), actor(f.alice), registration.CreateRegistrationRequest{ShiftID: tt.second(f).ID, Date: "2025-10-16"})
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, registration.ErrShiftTimeConflict)
			assert.Contains(t, err.Error(), first.Name+" ("+first.Hours()+")")
		})
	}
}

func TestCreate_RejectedRegistrationDoesNotConflict(t *testing.T) {
	f := newFixture(t)
	f.seed(f.alice, f.morning, "2025-10-16", registration.StatusRejected)

	_, err := f.svc.Create(context.Background(), actor(f.alice), registration.CreateRegistrationRequest{ShiftID: f.late.ID, Date: "2025-10-16"})
	assert.NoError(t, err)
}

func TestCreate_DateAndBranchRules(t *testing.T) {
	f := newFixture(t)
	foreignShift := f.store.AddShift(shift.Shift{Name: "Foreign", BranchID: f.otherBranch.ID, StartTime: "09:00", EndTime: "17:00"})
	drifter := f.store.AddEmployee(employee.Employee{Name: "Dana", Role: user.RoleEmployee})

	tests := []struct {
		name    string
		who     employee.Employee
		shiftID string
		date    string
		wantErr error
	}{
		{"yesterday is in the past", f.alice, f.morning.ID, "2025-10-14", registration.ErrPastDate},
		{"today is allowed", f.alice, f.morning.ID, "2025-10-15", nil},
		{"shift of another branch", f.alice, foreignShift.ID, "2025-10-16", registration.ErrShiftOutsideBranch},
		{"employee without branch", drifter, f.morning.ID, "2025-10-16", registration.ErrNoBranchAssigned},
		{"unknown shift", f.alice, uuid.NewString(), "2025-10-16", shift.ErrShiftNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), actor(tt.who), registration.CreateRegistrationRequest{ShiftID: tt.shiftID, Date: tt.date})
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreate_ValidatesRequest(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), actor(f.alice), registration.CreateRegistrationRequest{ShiftID: "nope", Date: "16/10/2025"})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "shift_id")
	assert.Contains(t, fields, "date")
}

func TestCreate_EarlyCapacityCheck(t *testing.T) {
	f := newFixture(t)
	one := 1
	small := f.store.AddShift(shift.Shift{Name: "Small", BranchID: f.branch.ID, StartTime: "09:00", EndTime: "12:00", MaxEmployees: &one})
	f.seed(f.bob, small, "2025-10-16", registration.StatusApproved)

	_, err := f.svc.Create(context.Background(), actor(f.alice), registration.CreateRegistrationRequest{ShiftID: small.ID, Date: "2025-10-16"})
	require.ErrorIs(t, err, registration.ErrShiftFull)
	assert.True(t, strings.HasSuffix(err.Error(), "(1)"))
}

func TestApprove(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, f.alice, f.morning, "2025-10-16")
	note := "see you there"

	resp, err := f.svc.Approve(context.Background(), actor(f.manager), reg.ID, registration.ReviewRegistrationRequest{Note: &note})
	require.NoError(t, err)

	assert.Equal(t, registration.StatusApproved, resp.Status)
	require.NotNil(t, resp.ReviewedBy)
	assert.Equal(t, f.manager.ID, *resp.ReviewedBy)
	assert.Equal(t, &note, resp.Note)

	assert.Eventually(t, func() bool { return len(f.pub.SentTo(f.alice.ID)) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, notification.TypeRegistrationApproved, f.pub.SentTo(f.alice.ID)[0].Type)

	_, err = f.svc.Approve(context.Background(), actor(f.manager), reg.ID, registration.ReviewRegistrationRequest{})
	assert.ErrorIs(t, err, registration.ErrNotPending)
}

func TestApprove_Scope(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, f.alice, f.morning, "2025-10-16")

	_, err := f.svc.Approve(context.Background(), actor(f.otherManager), reg.ID, registration.ReviewRegistrationRequest{})
	assert.ErrorIs(t, err, registration.ErrForbiddenBranch)

	_, err = f.svc.Approve(context.Background(), actor(f.bob), reg.ID, registration.ReviewRegistrationRequest{})
	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)

	_, err = f.svc.Approve(context.Background(), actor(f.admin), uuid.NewString(), registration.ReviewRegistrationRequest{})
	assert.ErrorIs(t, err, registration.ErrRegistrationNotFound)

	_, err = f.svc.Approve(context.Background(), actor(f.admin), reg.ID, registration.ReviewRegistrationRequest{})
	assert.NoError(t, err)
}

func TestApprove_RevalidatesCapacity(t *testing.T) {
	f := newFixture(t)
	one := 1
	small := f.store.AddShift(shift.Shift{Name: "Small", BranchID: f.branch.ID, StartTime: "09:00", EndTime: "12:00", MaxEmployees: &one})

	first := f.register(t, f.alice, small, "2025-10-16")
	second := f.register(t, f.bob, small, "2025-10-16")

	_, err := f.svc.Approve(context.Background(), actor(f.manager), first.ID, registration.ReviewRegistrationRequest{})
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), actor(f.manager), second.ID, registration.ReviewRegistrationRequest{})
	assert.ErrorIs(t, err, registration.ErrShiftFull)

	stored, ok := f.store.Registration(second.ID)
	require.True(t, ok)
	assert.Equal(t, registration.StatusPending, stored.Status)
}

func TestReject_NotifiesWithReason(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, f.alice, f.morning, "2025-10-16")
	reason := "fully staffed"

	resp, err := f.svc.Reject(context.Background(), actor(f.manager), reg.ID, registration.ReviewRegistrationRequest{Note: &reason})
	require.NoError(t, err)
	assert.Equal(t, registration.StatusRejected, resp.Status)

	assert.Eventually(t, func() bool { return len(f.pub.SentTo(f.alice.ID)) == 1 }, time.Second, 10*time.Millisecond)
	sent := f.pub.SentTo(f.alice.ID)[0]
	assert.Equal(t, notification.TypeRegistrationRejected, sent.Type)
	assert.Contains(t, sent.Message, "Reason: fully staffed")

	_, err = f.svc.Reject(context.Background(), actor(f.manager), reg.ID, registration.ReviewRegistrationRequest{})
	assert.ErrorIs(t, err, registration.ErrNotPending)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := f.seed(f.alice, f.morning, "2025-10-16", registration.StatusPending)
	approved := f.seed(f.alice, f.evening, "2025-10-16", registration.StatusApproved)
	bobs := f.seed(f.bob, f.morning, "2025-10-16", registration.StatusPending)

	assert.ErrorIs(t, f.svc.Delete(ctx, actor(f.alice), bobs.ID), registration.ErrNotOwner)
	assert.ErrorIs(t, f.svc.Delete(ctx, actor(f.alice), approved.ID), registration.ErrOnlyPendingDeletion)
	assert.ErrorIs(t, f.svc.Delete(ctx, actor(f.otherManager), bobs.ID), registration.ErrForbiddenBranch)
	assert.ErrorIs(t, f.svc.Delete(ctx, actor(f.alice), uuid.NewString()), registration.ErrRegistrationNotFound)

	require.NoError(t, f.svc.Delete(ctx, actor(f.alice), pending.ID))
	require.NoError(t, f.svc.Delete(ctx, actor(f.manager), bobs.ID))
	require.NoError(t, f.svc.Delete(ctx, actor(f.admin), approved.ID))

	for _, id := range []string{pending.ID, bobs.ID, approved.ID} {
		_, ok := f.store.Registration(id)
		assert.False(t, ok)
	}
}

func TestList_RoleScoping(t *testing.T) {
	f := newFixture(t)
	stranger := f.store.AddEmployee(employee.Employee{Name: "Sam", BranchID: f.otherBranch.ID, Role: user.RoleEmployee})
	foreignShift := f.store.AddShift(shift.Shift{Name: "Foreign", BranchID: f.otherBranch.ID, StartTime: "09:00", EndTime: "17:00"})

	f.seed(f.alice, f.morning, "2025-10-16", registration.StatusPending)
	f.seed(f.alice, f.evening, "2025-10-17", registration.StatusApproved)
	f.seed(f.bob, f.morning, "2025-10-16", registration.StatusPending)
	f.seed(stranger, foreignShift, "2025-10-16", registration.StatusPending)

	ctx := context.Background()

	t.Run("employee sees own", func(t *testing.T) {
		resp, err := f.svc.List(ctx, actor(f.alice), registration.RegistrationFilter{EmployeeID: &f.bob.ID})
		require.NoError(t, err)
		assert.Len(t, resp.Registrations, 2)
		for _, r := range resp.Registrations {
			assert.Equal(t, f.alice.ID, r.EmployeeID)
		}
	})

	t.Run("manager sees branch", func(t *testing.T) {
		resp, err := f.svc.List(ctx, actor(f.manager), registration.RegistrationFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.Pagination.Total)
		for _, r := range resp.Registrations {
			assert.NotEqual(t, stranger.ID, r.EmployeeID)
		}
	})

	t.Run("admin sees all and filters", func(t *testing.T) {
		resp, err := f.svc.List(ctx, actor(f.admin), registration.RegistrationFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), resp.Pagination.Total)

		date := "2025-10-16"
		status := "pending"
		resp, err = f.svc.List(ctx, actor(f.admin), registration.RegistrationFilter{Date: &date, Status: &status, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.Pagination.Total)
		assert.Len(t, resp.Registrations, 2)
		assert.Equal(t, 2, resp.Pagination.TotalPages)
	})

	t.Run("invalid filter", func(t *testing.T) {
		status := "cancelled"
		_, err := f.svc.List(ctx, actor(f.admin), registration.RegistrationFilter{Status: &status})
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})
}

func TestDelete_RefusesRegistrationWithAttendance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reg := f.seed(f.alice, f.morning, "2025-10-14", registration.StatusApproved)
	f.store.AddAttendance(attendance.Attendance{
		EmployeeID:     f.alice.ID,
		ShiftID:        f.morning.ID,
		RegistrationID: reg.ID,
		Date:           reg.Date,
		Status:         attendance.StatusAbsent,
	})

	assert.ErrorIs(t, f.svc.Delete(ctx, actor(f.admin), reg.ID), registration.ErrHasAttendance)
	assert.ErrorIs(t, f.svc.Delete(ctx, actor(f.manager), reg.ID), registration.ErrHasAttendance)

	_, ok := f.store.Registration(reg.ID)
	assert.True(t, ok)
	assert.Len(t, f.store.Attendances(), 1)
}

func TestCreate_LocksEmployeeBeforeOverlapCheck(t *testing.T) {
	f := newFixture(t)

	f.register(t, f.alice, f.morning, "2025-10-16")
	_, err := f.svc.Create(context.Background(), actor(f.alice), registration.CreateRegistrationRequest{ShiftID: f.late.ID, Date: "2025-10-16"})
	assert.ErrorIs(t, err, registration.ErrShiftTimeConflict)

	assert.Equal(t, []string{f.alice.ID, f.alice.ID}, f.store.EmployeeLocks())
}
