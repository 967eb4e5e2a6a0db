package payroll

import "errors"

var (
	ErrPayrollNotFound      = errors.New("payroll not found")
	ErrPayrollAlreadyExists = errors.New("payroll already exists for this period")
	ErrInvalidMonth         = errors.New("month must be between 1 and 12")

	// Lifecycle
	ErrNotDraft                = errors.New("only draft payrolls can be recalculated or deleted")
	ErrNotApproved             = errors.New("can only pay approved payrolls")
	ErrAlreadyPaid             = errors.New("this payroll has already been paid")
	ErrInvalidStatusTransition = errors.New("invalid payroll status transition")

	// Access
	ErrForbiddenView   = errors.New("you can only view your own payroll")
	ErrForbiddenBranch = errors.New("you can only manage payrolls in your branch")
)
