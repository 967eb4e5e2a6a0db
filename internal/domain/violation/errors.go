package violation

import "errors"

var (
	ErrViolationNotFound   = errors.New("violation not found")
	ErrForbiddenView       = errors.New("you can only view your own violations")
	ErrForbiddenBranch     = errors.New("you can only manage violations in your branch")
	ErrNotViolationOwner   = errors.New("you can only acknowledge your own violations")
	ErrAlreadyAcknowledged = errors.New("violation has already been acknowledged")
	ErrShiftOutsideBranch  = errors.New("shift does not belong to the employee's branch")
)
