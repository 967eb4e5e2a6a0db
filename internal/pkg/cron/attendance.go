package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/registration"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/clock"
)

const (
	JobMarkAbsentAttendances = "mark_absent_attendances"
	JobRemindUpcomingShifts  = "remind_upcoming_shifts"

	// absentBatchSize caps one run; the next run picks up the rest.
	absentBatchSize = 500
)

type AttendanceJobs struct {
	registrationRepo registration.RegistrationRepository
	attendanceRepo   attendance.AttendanceRepository
	notifier         notification.Publisher
	clock            *clock.Clock
}

func NewAttendanceJobs(
	registrationRepo registration.RegistrationRepository,
	attendanceRepo attendance.AttendanceRepository,
	notifier notification.Publisher,
	clk *clock.Clock,
) *AttendanceJobs {
	return &AttendanceJobs{
		registrationRepo: registrationRepo,
		attendanceRepo:   attendanceRepo,
		notifier:         notifier,
		clock:            clk,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(JobMarkAbsentAttendances, 1*time.Hour, j.MarkAbsentAttendances)
	scheduler.AddJob(JobRemindUpcomingShifts, 1*time.Hour, j.RemindUpcomingShifts)
}

// MarkAbsentAttendances records an absence for every approved registration of
// a past local day that was never checked into. Reruns are harmless: an
// existing attendance makes the insert a no-op.
func (j *AttendanceJobs) MarkAbsentAttendances(ctx context.Context) error {
	today := j.clock.Today()

	regs, err := j.registrationRepo.ListApprovedWithoutAttendance(ctx, today, absentBatchSize)
	if err != nil {
		return fmt.Errorf("failed to list unattended registrations: %w", err)
	}
	if len(regs) == 0 {
		slog.Debug("Cron: No unattended registrations found")
		return nil
	}

	marked := 0
	for _, reg := range regs {
		if err := ctx.Err(); err != nil {
			return err
		}

		created, ok, err := j.attendanceRepo.CreateAbsent(ctx, attendance.Attendance{
			EmployeeID:     reg.EmployeeID,
			ShiftID:        reg.ShiftID,
			RegistrationID: reg.ID,
			Date:           reg.Date,
			Status:         attendance.StatusAbsent,
		})
		if err != nil {
			slog.Error("Cron: Failed to mark absence",
				"registration_id", reg.ID,
				"employee_id", reg.EmployeeID,
				"error", err)
			continue
		}
		if !ok {
			continue
		}

		marked++
		if j.notifier != nil {
			req := notification.MarkedAbsent(reg.EmployeeID, j.clock.FormatDate(reg.Date), reg.ShiftHours(), created.ID)
			if err := j.notifier.QueueNotification(ctx, req); err != nil {
				slog.Error("Cron: Failed to queue absence notification", "attendance_id", created.ID, "error", err)
			}
		}
	}

	slog.Info("Cron: Marked absent attendances", "count", marked, "candidates", len(regs))
	return nil
}

// RemindUpcomingShifts notifies employees of approved shifts on the next
// local day. Each registration is reminded at most once.
func (j *AttendanceJobs) RemindUpcomingShifts(ctx context.Context) error {
	tomorrow := j.clock.Today().AddDate(0, 0, 1)

	regs, err := j.registrationRepo.ListApprovedUnreminded(ctx, tomorrow)
	if err != nil {
		return fmt.Errorf("failed to list upcoming registrations: %w", err)
	}

	sent := 0
	for _, reg := range regs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if j.notifier != nil {
			req := notification.ShiftReminder(reg.EmployeeID, j.clock.FormatDate(reg.Date), reg.ShiftHours(), reg.ID)
			if err := j.notifier.QueueNotification(ctx, req); err != nil {
				slog.Error("Cron: Failed to queue shift reminder", "registration_id", reg.ID, "error", err)
				continue
			}
		}

		if err := j.registrationRepo.MarkReminded(ctx, reg.ID, j.clock.Now()); err != nil {
			slog.Error("Cron: Failed to mark registration reminded", "registration_id", reg.ID, "error", err)
			continue
		}
		sent++
	}

	if sent > 0 {
		slog.Info("Cron: Sent shift reminders", "count", sent, "date", j.clock.FormatDate(tomorrow))
	}
	return nil
}
