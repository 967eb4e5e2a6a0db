package payroll

import (
	"log/slog"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/clock"
	"github.com/shopspring/decimal"
)

// CalculationInput is everything a month's salary depends on.
type CalculationInput struct {
	BaseSalary      decimal.Decimal
	OvertimeRate    decimal.Decimal
	Bonuses         decimal.Decimal
	OtherDeductions decimal.Decimal
	Violations      decimal.Decimal

	// Attendances holds the month's checked-in and checked-out records.
	Attendances []attendance.Attendance
}

// Calculator turns a month of attendance into salary figures.
type Calculator struct {
	policy payroll.Policy
	clock  *clock.Clock
}

func NewCalculator(policy payroll.Policy, clk *clock.Clock) Calculator {
	return Calculator{policy: policy, clock: clk}
}

// Compute fills the monetary fields of a payroll. Amounts are rounded to two
// decimals; net salary never goes below zero.
func (c Calculator) Compute(in CalculationInput) payroll.Payroll {
	p := c.policy

	overtimeRate := in.OvertimeRate
	if overtimeRate.IsZero() {
		overtimeRate = p.DefaultOvertimeRate
	}

	totalHours := decimal.Zero
	checkedOutDays := 0
	for _, a := range in.Attendances {
		if a.WorkHours != nil {
			totalHours = totalHours.Add(decimal.NewFromFloat(*a.WorkHours))
		}
		if a.Status == attendance.StatusCheckedOut {
			checkedOutDays++
		}
	}
	totalHours = totalHours.Round(2)

	hourlyRate := in.BaseSalary.Div(p.StandardHours)

	overtimeHours := decimal.Max(decimal.Zero, totalHours.Sub(p.StandardHours))
	overtimePay := overtimeHours.Mul(hourlyRate).Mul(overtimeRate).Round(2)

	gross := in.BaseSalary.Add(overtimePay).Add(in.Bonuses).Round(2)

	missedDays := p.ExpectedWorkDays - checkedOutDays
	if missedDays < 0 {
		missedDays = 0
	}

	deductions := payroll.Deductions{
		Violations:     in.Violations.Round(2),
		LateDeductions: p.Late.PenaltyPerLateCheckIn.Mul(decimal.NewFromInt(int64(c.CountLateCheckIns(in.Attendances)))).Round(2),
		Absences:       decimal.NewFromInt(int64(missedDays)).Mul(hourlyRate).Mul(p.HoursPerAbsentDay).Round(2),
		Other:          in.OtherDeductions.Round(2),
	}

	net := decimal.Max(decimal.Zero, gross.Sub(deductions.Total())).Round(2)

	return payroll.Payroll{
		BaseSalary:     in.BaseSalary,
		TotalWorkHours: totalHours,
		OvertimeHours:  overtimeHours,
		OvertimeRate:   overtimeRate,
		OvertimePay:    overtimePay,
		Bonuses:        in.Bonuses,
		Deductions:     deductions,
		GrossSalary:    gross,
		NetSalary:      net,
	}
}

// EstimateEarnings prices worked hours alone: hours up to the standard month
// at the hourly rate and the rest at the default overtime rate. Deductions and
// bonuses are ignored. Earnings are rounded to whole units.
func (c Calculator) EstimateEarnings(baseSalary decimal.Decimal, records []attendance.Attendance) (hours, earnings decimal.Decimal) {
	p := c.policy

	hours = decimal.Zero
	for _, a := range records {
		if a.WorkHours != nil {
			hours = hours.Add(decimal.NewFromFloat(*a.WorkHours))
		}
	}
	hours = hours.Round(2)
	if hours.IsZero() {
		return hours, decimal.Zero
	}

	hourlyRate := baseSalary.Div(p.StandardHours)
	regular := decimal.Min(hours, p.StandardHours).Mul(hourlyRate)
	overtime := decimal.Max(decimal.Zero, hours.Sub(p.StandardHours)).Mul(hourlyRate).Mul(p.DefaultOvertimeRate)

	return hours, regular.Add(overtime).Round(0)
}

// CountLateCheckIns counts check-ins that happened more than GraceMinutes
// after shift start but still inside the shift. Early check-ins, which fall
// before the start on the minute circle, are never late.
func (c Calculator) CountLateCheckIns(records []attendance.Attendance) int {
	if c.policy.Late.PenaltyPerLateCheckIn.IsZero() {
		return 0
	}
	late := 0
	for _, a := range records {
		if a.CheckInTime == nil || a.ShiftStartTime == "" {
			continue
		}
		r, err := clock.ParseMinuteRange(a.ShiftStartTime, a.ShiftEndTime)
		if err != nil {
			slog.Warn("skipping attendance with invalid shift times", "attendance_id", a.ID, "error", err)
			continue
		}
		diff := r.OffsetFromStart(c.clock.MinuteOfDay(*a.CheckInTime))
		if diff > c.policy.Late.GraceMinutes && diff < r.Length {
			late++
		}
	}
	return late
}
