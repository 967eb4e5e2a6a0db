package attendance

import (
	"context"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn validates the registration, geofence and shift window, then opens an attendance.
	CheckIn(ctx context.Context, actor user.RequestingUser, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes an open attendance and computes its work hours.
	CheckOut(ctx context.Context, actor user.RequestingUser, req CheckOutRequest) (AttendanceResponse, error)

	List(ctx context.Context, actor user.RequestingUser, filter AttendanceFilter) (ListAttendanceResponse, error)
	GetByID(ctx context.Context, actor user.RequestingUser, id string) (AttendanceResponse, error)

	// MonthlyReport aggregates a calendar month of attendance within the caller's scope.
	MonthlyReport(ctx context.Context, actor user.RequestingUser, req MonthlyReportRequest) (MonthlyReportResponse, error)
}
