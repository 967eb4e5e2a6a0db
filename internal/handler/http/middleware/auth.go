package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type requestingUserKey struct{}

// WithRequestingUser stores the authenticated caller on ctx.
func WithRequestingUser(ctx context.Context, u user.RequestingUser) context.Context {
	return context.WithValue(ctx, requestingUserKey{}, u)
}

// RequestingUserFromContext returns the caller stored by AuthRequired.
func RequestingUserFromContext(ctx context.Context) (user.RequestingUser, bool) {
	u, ok := ctx.Value(requestingUserKey{}).(user.RequestingUser)
	return u, ok
}

// AuthRequired rejects requests without a valid access token and puts the
// caller on the request context. It must run after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			if errors.Is(err, jwtauth.ErrExpired) {
				response.HandleError(w, user.ErrTokenExpired)
				return
			}
			response.HandleError(w, user.ErrInvalidToken)
			return
		}

		if token == nil {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}

		caller, err := jwt.RequestingUserFromClaims(claims)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithRequestingUser(r.Context(), caller)))
	})
}
