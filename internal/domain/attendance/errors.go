package attendance

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/clock"
)

// Attendance domain errors
var (
	ErrAttendanceNotFound = errors.New("attendance record not found")

	// Check-in errors
	ErrRegistrationNotApproved = errors.New("only approved shift registrations can be used for check-in")
	ErrNotRegistrationOwner    = errors.New("you can only check-in for your own shift registrations")
	ErrNotToday                = errors.New("this shift registration is not for today")
	ErrAlreadyCheckedIn        = errors.New("you have already checked in for this shift today")
	ErrOutsideGeofence         = errors.New("you are outside the allowed radius")
	ErrOutsideCheckInWindow    = errors.New("check-in is outside the allowed time window")

	// Check-out errors
	ErrNotAttendanceOwner = errors.New("you can only check-out your own attendance")
	ErrNotCheckedIn       = errors.New("you must check-in before checking out")
	ErrAlreadyCheckedOut  = errors.New("you have already checked out")

	// Read errors
	ErrForbiddenView   = errors.New("you can only view your own attendance")
	ErrForbiddenBranch = errors.New("you can only view attendance in your branch")
	ErrInvalidPeriod   = errors.New("month must be between 1 and 12 and year between 2020 and 2100")
)

// GeofenceError reports a GPS fix beyond the branch radius.
type GeofenceError struct {
	Action         string
	RadiusMeters   int
	DistanceMeters int
}

func (e *GeofenceError) Error() string {
	return fmt.Sprintf("You must be within %dm of the branch to %s. Current distance: %dm", e.RadiusMeters, e.Action, e.DistanceMeters)
}

func (e *GeofenceError) Is(target error) bool {
	return target == ErrOutsideGeofence
}

// WindowError reports a check-in attempted outside the allowed window.
type WindowError struct {
	Window clock.MinuteRange
	At     int
}

func (e *WindowError) Error() string {
	window := e.Window.String()
	if e.Window.Wraps() {
		window += " next day"
	}
	return fmt.Sprintf("Check-in is only allowed between %s (current time %s)", window, clock.FormatMinutes(e.At))
}

func (e *WindowError) Is(target error) bool {
	return target == ErrOutsideCheckInWindow
}
