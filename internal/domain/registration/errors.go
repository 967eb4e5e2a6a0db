package registration

import "errors"

var (
	ErrRegistrationNotFound = errors.New("shift registration not found")

	// Create
	ErrNoBranchAssigned      = errors.New("employee must be assigned to a branch to register for shifts")
	ErrShiftOutsideBranch    = errors.New("you can only register for shifts in your branch")
	ErrPastDate              = errors.New("cannot register for shifts in the past")
	ErrDuplicateRegistration = errors.New("you have already registered for this shift on this date")
	ErrShiftTimeConflict     = errors.New("shift time conflicts with another registered shift")
	ErrShiftFull             = errors.New("this shift has reached the maximum number of employees")

	// Review & delete
	ErrNotPending          = errors.New("only pending registrations can be approved or rejected")
	ErrForbiddenBranch     = errors.New("you can only manage registrations in your branch")
	ErrNotOwner            = errors.New("you can only delete your own registrations")
	ErrOnlyPendingDeletion = errors.New("you can only delete pending registrations")
	ErrHasAttendance       = errors.New("registration has attendance records and cannot be deleted")
)
