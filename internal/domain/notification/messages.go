package notification

import "fmt"

// The builders below produce the user-facing texts for every event the core emits.

func NewShiftRegistration(managerID, employeeName, date, shiftHours, registrationID string) CreateNotificationRequest {
	return CreateNotificationRequest{
		RecipientID: managerID,
		Type:        TypeRegistrationSubmitted,
		Title:       "New Shift Registration",
		Message:     fmt.Sprintf("%s has registered for shift on %s (%s). Please review and approve.", employeeName, date, shiftHours),
		Data:        map[string]string{"registration_id": registrationID},
	}
}

func ShiftApproved(employeeID, date, shiftHours, registrationID string) CreateNotificationRequest {
	return CreateNotificationRequest{
		RecipientID: employeeID,
		Type:        TypeRegistrationApproved,
		Title:       "Shift Registration Approved",
		Message:     fmt.Sprintf("Your shift registration for %s (%s) has been approved.", date, shiftHours),
		Data:        map[string]string{"registration_id": registrationID},
	}
}

func ShiftRejected(employeeID, date, shiftHours, registrationID string, reason *string) CreateNotificationRequest {
	msg := fmt.Sprintf("Your shift registration for %s (%s) has been rejected.", date, shiftHours)
	if reason != nil && *reason != "" {
		msg += " Reason: " + *reason
	}
	return CreateNotificationRequest{
		RecipientID: employeeID,
		Type:        TypeRegistrationRejected,
		Title:       "Shift Registration Rejected",
		Message:     msg,
		Data:        map[string]string{"registration_id": registrationID},
	}
}

func ShiftReminder(employeeID, date, shiftHours, registrationID string) CreateNotificationRequest {
	return CreateNotificationRequest{
		RecipientID: employeeID,
		Type:        TypeShiftReminder,
		Title:       "Upcoming Shift Reminder",
		Message:     fmt.Sprintf("You have a shift scheduled for %s (%s).", date, shiftHours),
		Data:        map[string]string{"registration_id": registrationID},
	}
}

func MarkedAbsent(employeeID, date, shiftHours, attendanceID string) CreateNotificationRequest {
	return CreateNotificationRequest{
		RecipientID: employeeID,
		Type:        TypeAttendanceAbsent,
		Title:       "Marked Absent",
		Message:     fmt.Sprintf("No check-in was recorded for your approved shift on %s (%s). You have been marked absent.", date, shiftHours),
		Data:        map[string]string{"attendance_id": attendanceID},
	}
}

func ViolationRecorded(employeeID, title, penalty, violationID string) CreateNotificationRequest {
	return CreateNotificationRequest{
		RecipientID: employeeID,
		Type:        TypeViolationRecorded,
		Title:       "Violation Recorded",
		Message:     fmt.Sprintf("You have received a violation: %s. Penalty: %s. Please review the details.", title, penalty),
		Data:        map[string]string{"violation_id": violationID},
	}
}

func PayrollPaid(employeeID string, month, year int, netSalary, payrollID string) CreateNotificationRequest {
	return CreateNotificationRequest{
		RecipientID: employeeID,
		Type:        TypePayrollPaid,
		Title:       "Payroll Paid",
		Message:     fmt.Sprintf("Your payroll for %02d/%d has been paid. Net salary: %s.", month, year, netSalary),
		Data:        map[string]string{"payroll_id": payrollID},
	}
}
