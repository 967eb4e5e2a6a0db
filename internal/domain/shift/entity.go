package shift

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/clock"
)

// Shift is a named, branch-scoped time window. EndTime before StartTime
// denotes an overnight shift.
type Shift struct {
	ID           string
	BranchID     string
	Name         string
	StartTime    string
	EndTime      string
	MaxEmployees *int
	Description  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TimeRange returns the shift's minutes-of-day range (wrapping past midnight when overnight).
func (s Shift) TimeRange() (clock.MinuteRange, error) {
	r, err := clock.ParseMinuteRange(s.StartTime, s.EndTime)
	if err != nil {
		return clock.MinuteRange{}, fmt.Errorf("shift %s has invalid times: %w", s.ID, err)
	}
	return r, nil
}

// Hours renders "HH:mm - HH:mm".
func (s Shift) Hours() string {
	return s.StartTime + " - " + s.EndTime
}

// HasCapacityLimit reports whether approvals are capped.
func (s Shift) HasCapacityLimit() bool {
	return s.MaxEmployees != nil && *s.MaxEmployees > 0
}
