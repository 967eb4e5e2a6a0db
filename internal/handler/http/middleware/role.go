package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
)

// RequirePermission lets a request through only when the caller's role grants
// p. It must run after AuthRequired.
func RequirePermission(p user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := RequestingUserFromContext(r.Context())
			switch {
			case !ok:
				response.HandleError(w, user.ErrUnauthenticated)
			case !user.HasPermission(caller.Role, p):
				slog.DebugContext(r.Context(), "permission denied",
					"employee_id", caller.ID, "role", caller.Role, "permission", p)
				response.HandleError(w, fmt.Errorf("%w: role %s lacks %s", user.ErrInsufficientPermissions, caller.Role, p))
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
