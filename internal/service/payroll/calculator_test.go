package payroll

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var local = time.FixedZone("UTC+07:00", 7*60*60)

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "%s: want %s, got %s", field, want, got.String())
}

func worked(hours float64) attendance.Attendance {
	return attendance.Attendance{Status: attendance.StatusCheckedOut, WorkHours: &hours}
}

func month(days int, hours float64) []attendance.Attendance {
	out := make([]attendance.Attendance, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, worked(hours))
	}
	return out
}

func testClock() *clock.Clock {
	return clock.NewWithNow(7*time.Hour, time.Now)
}

func TestCompute_OvertimeAndViolations(t *testing.T) {
	calc := NewCalculator(payroll.DefaultPolicy(), testClock())

	records := append(month(21, 8), worked(2))
	got := calc.Compute(CalculationInput{
		BaseSalary:  decimal.NewFromInt(4_000_000),
		Violations:  decimal.NewFromInt(50_000),
		Attendances: records,
	})

	assertDecimal(t, "170", got.TotalWorkHours, "total hours")
	assertDecimal(t, "10", got.OvertimeHours, "overtime hours")
	assertDecimal(t, "1.5", got.OvertimeRate, "overtime rate")
	assertDecimal(t, "375000", got.OvertimePay, "overtime pay")
	assertDecimal(t, "4375000", got.GrossSalary, "gross")
	assertDecimal(t, "50000", got.Deductions.Violations, "violations")
	assertDecimal(t, "0", got.Deductions.Absences, "absences")
	assertDecimal(t, "0", got.Deductions.LateDeductions, "late")
	assertDecimal(t, "4325000", got.NetSalary, "net")
}

func TestCompute_AbsencesAndBonuses(t *testing.T) {
	calc := NewCalculator(payroll.DefaultPolicy(), testClock())

	records := month(20, 8)
	// An open check-in counts toward neither hours nor checked-out days.
	records = append(records, attendance.Attendance{Status: attendance.StatusCheckedIn})

	got := calc.Compute(CalculationInput{
		BaseSalary:      decimal.NewFromInt(4_000_000),
		OvertimeRate:    decimal.NewFromInt(2),
		Bonuses:         decimal.NewFromInt(100_000),
		OtherDeductions: decimal.NewFromInt(25_000),
		Attendances:     records,
	})

	assertDecimal(t, "160", got.TotalWorkHours, "total hours")
	assertDecimal(t, "0", got.OvertimePay, "overtime pay")
	assertDecimal(t, "2", got.OvertimeRate, "overtime rate")
	assertDecimal(t, "4100000", got.GrossSalary, "gross")
	// 2 missed days x 25,000/h x 8h
	assertDecimal(t, "400000", got.Deductions.Absences, "absences")
	assertDecimal(t, "25000", got.Deductions.Other, "other")
	assertDecimal(t, "3675000", got.NetSalary, "net")
}

func TestCompute_NetNeverNegative(t *testing.T) {
	calc := NewCalculator(payroll.DefaultPolicy(), testClock())

	got := calc.Compute(CalculationInput{BaseSalary: decimal.NewFromInt(1_000_000)})

	assertDecimal(t, "1100000", got.Deductions.Absences, "absences")
	assertDecimal(t, "0", got.NetSalary, "net")
}

func TestCompute_FractionalHoursRounded(t *testing.T) {
	calc := NewCalculator(payroll.DefaultPolicy(), testClock())

	got := calc.Compute(CalculationInput{
		BaseSalary:  decimal.NewFromInt(3_000_000),
		Attendances: []attendance.Attendance{worked(0.1), worked(0.2)},
	})
	assertDecimal(t, "0.3", got.TotalWorkHours, "total hours")
}

func checkedInAt(start, end string, hour, minute int) attendance.Attendance {
	at := time.Date(2025, 10, 15, hour, minute, 0, 0, local)
	return attendance.Attendance{
		Status:         attendance.StatusCheckedIn,
		CheckInTime:    &at,
		ShiftStartTime: start,
		ShiftEndTime:   end,
	}
}

func TestCountLateCheckIns(t *testing.T) {
	policy := payroll.DefaultPolicy()
	policy.Late = payroll.LatePolicy{PenaltyPerLateCheckIn: decimal.NewFromInt(10_000), GraceMinutes: 5}
	calc := NewCalculator(policy, testClock())

	records := []attendance.Attendance{
		checkedInAt("08:00", "17:00", 7, 45),  // early
		checkedInAt("08:00", "17:00", 8, 3),   // inside grace
		checkedInAt("08:00", "17:00", 8, 20),  // late
		checkedInAt("08:00", "17:00", 16, 59), // late
		checkedInAt("22:00", "06:00", 23, 0),  // late, overnight
		checkedInAt("22:00", "06:00", 21, 40), // early, overnight
		{Status: attendance.StatusCheckedIn},  // no check-in instant
	}
	assert.Equal(t, 3, calc.CountLateCheckIns(records))

	got := calc.Compute(CalculationInput{BaseSalary: decimal.NewFromInt(1_600_000), Attendances: records})
	assertDecimal(t, "30000", got.Deductions.LateDeductions, "late")
}

func TestCountLateCheckIns_DisabledByZeroPenalty(t *testing.T) {
	calc := NewCalculator(payroll.DefaultPolicy(), testClock())
	records := []attendance.Attendance{checkedInAt("08:00", "17:00", 10, 0)}
	assert.Equal(t, 0, calc.CountLateCheckIns(records))
}

func TestEstimateEarnings(t *testing.T) {
	calc := NewCalculator(payroll.DefaultPolicy(), testClock())
	base := decimal.NewFromInt(4_000_000)

	hours, earnings := calc.EstimateEarnings(base, month(5, 8))
	assertDecimal(t, "40", hours, "hours")
	assertDecimal(t, "1000000", earnings, "part month")

	hours, earnings = calc.EstimateEarnings(base, append(month(21, 8), worked(2)))
	assertDecimal(t, "170", hours, "hours")
	assertDecimal(t, "4375000", earnings, "with overtime")

	hours, earnings = calc.EstimateEarnings(base, nil)
	assertDecimal(t, "0", hours, "hours")
	assertDecimal(t, "0", earnings, "no records")

	// 7.83h at 25000/h
	_, earnings = calc.EstimateEarnings(base, []attendance.Attendance{worked(7.5), worked(0.33)})
	assertDecimal(t, "195750", earnings, "rounded")
}
