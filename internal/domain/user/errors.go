package user

import "errors"

var (
	ErrInvalidRole             = errors.New("invalid role")
	ErrUnauthenticated         = errors.New("authentication required")
	ErrAdminAccessRequired     = errors.New("admin access required")
	ErrManagerAccessRequired   = errors.New("manager or admin access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")

	// Token errors, raised while turning a bearer or SSE token into a RequestingUser.
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrTokenExpired  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("token is missing required claims")
)
