package notification

import "time"

// NotificationType identifies which core event produced a notification.
type NotificationType string

const (
	TypeRegistrationSubmitted NotificationType = "registration_submitted"
	TypeRegistrationApproved  NotificationType = "registration_approved"
	TypeRegistrationRejected  NotificationType = "registration_rejected"
	TypeShiftReminder         NotificationType = "shift_reminder"
	TypeAttendanceAbsent      NotificationType = "attendance_absent"
	TypeViolationRecorded     NotificationType = "violation_recorded"
	TypePayrollPaid           NotificationType = "payroll_paid"
)

// EventNotification is the SSE event name a stored notification is pushed under.
const EventNotification = "notification"

// Notification is an in-app message addressed to one employee. Data holds the
// ids of the records it refers to, e.g. {"registration_id": "..."}.
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]string
	ReadAt      *time.Time
	CreatedAt   time.Time
}

func (n Notification) IsRead() bool {
	return n.ReadAt != nil
}
