package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/registration"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salarygoal"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/violation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses. Domain messages are
// returned as is; anything unrecognised is logged and hidden behind a 500.
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Authentication
	case errors.Is(err, user.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, user.ErrInvalidToken),
		errors.Is(err, user.ErrInvalidClaims),
		errors.Is(err, user.ErrUnauthenticated),
		errors.Is(err, user.ErrInvalidRole):
		Unauthorized(w, err.Error())

	// Not found
	case errors.Is(err, registration.ErrRegistrationNotFound),
		errors.Is(err, attendance.ErrAttendanceNotFound),
		errors.Is(err, payroll.ErrPayrollNotFound),
		errors.Is(err, violation.ErrViolationNotFound),
		errors.Is(err, notification.ErrNotificationNotFound),
		errors.Is(err, salarygoal.ErrGoalNotFound),
		errors.Is(err, salarygoal.ErrNoCurrentGoal),
		errors.Is(err, branch.ErrBranchNotFound),
		errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, err.Error())

	// Forbidden
	case errors.Is(err, user.ErrAdminAccessRequired),
		errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, registration.ErrForbiddenBranch),
		errors.Is(err, registration.ErrNotOwner),
		errors.Is(err, registration.ErrShiftOutsideBranch),
		errors.Is(err, attendance.ErrNotRegistrationOwner),
		errors.Is(err, attendance.ErrNotAttendanceOwner),
		errors.Is(err, attendance.ErrForbiddenView),
		errors.Is(err, attendance.ErrForbiddenBranch),
		errors.Is(err, payroll.ErrForbiddenView),
		errors.Is(err, payroll.ErrForbiddenBranch),
		errors.Is(err, violation.ErrForbiddenView),
		errors.Is(err, violation.ErrForbiddenBranch),
		errors.Is(err, violation.ErrNotViolationOwner):
		Forbidden(w, err.Error())

	// Conflict
	case errors.Is(err, registration.ErrDuplicateRegistration),
		errors.Is(err, registration.ErrHasAttendance),
		errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, payroll.ErrPayrollAlreadyExists):
		Conflict(w, err.Error())

	// Business rule violations
	case errors.Is(err, registration.ErrNoBranchAssigned),
		errors.Is(err, registration.ErrPastDate),
		errors.Is(err, registration.ErrShiftTimeConflict),
		errors.Is(err, registration.ErrShiftFull),
		errors.Is(err, registration.ErrNotPending),
		errors.Is(err, registration.ErrOnlyPendingDeletion),
		errors.Is(err, attendance.ErrRegistrationNotApproved),
		errors.Is(err, attendance.ErrNotToday),
		errors.Is(err, attendance.ErrOutsideGeofence),
		errors.Is(err, attendance.ErrOutsideCheckInWindow),
		errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, attendance.ErrInvalidPeriod),
		errors.Is(err, payroll.ErrInvalidMonth),
		errors.Is(err, payroll.ErrNotDraft),
		errors.Is(err, payroll.ErrNotApproved),
		errors.Is(err, payroll.ErrAlreadyPaid),
		errors.Is(err, payroll.ErrInvalidStatusTransition),
		errors.Is(err, violation.ErrAlreadyAcknowledged),
		errors.Is(err, violation.ErrShiftOutsideBranch),
		errors.Is(err, branch.ErrInvalidCoordinates),
		errors.Is(err, branch.ErrInvalidRadius):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
