package branch

import "errors"

var (
	ErrBranchNotFound     = errors.New("branch not found")
	ErrInvalidCoordinates = errors.New("latitude must be between -90 and 90 and longitude between -180 and 180")
	ErrInvalidRadius      = errors.New("radius must be between 10 and 10000 meters")
)
