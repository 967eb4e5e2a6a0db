package jwt

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"

	sseTokenTTL = 5 * time.Minute
)

type Service interface {
	GenerateAccessToken(u user.RequestingUser) (token string, expiresAt int64, err error)
	GenerateSSEToken(employeeID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (employeeID string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (*JWTService, error) {
	expDuration, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration %q: %w", accessTokenExpirationTime, err)
	}
	return &JWTService{
		accessTokenExpirationTime: expDuration,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}, nil
}

// GenerateAccessToken mints a token carrying the caller identity consumed by
// the auth middleware.
func (j *JWTService) GenerateAccessToken(u user.RequestingUser) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpirationTime).Unix()

	claims := map[string]interface{}{
		"employee_id": u.ID,
		"role":        string(u.Role),
		"branch_id":   u.BranchID,
		"type":        TokenTypeAccess,
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(employeeID string) (token string, expiresIn int, err error) {
	expiresAt := j.now().Add(sseTokenTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"type":        TokenTypeSSE,
		"exp":         expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, int(sseTokenTTL.Seconds()), nil
}

// ValidateSSEToken validates an SSE token and returns the employee ID
func (j *JWTService) ValidateSSEToken(tokenString string) (employeeID string, err error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", user.ErrInvalidToken
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeSSE {
		return "", user.ErrInvalidToken
	}

	idVal, ok := token.Get("employee_id")
	if !ok {
		return "", user.ErrInvalidClaims
	}
	employeeID, ok = idVal.(string)
	if !ok || employeeID == "" {
		return "", user.ErrInvalidClaims
	}

	return employeeID, nil
}

// RequestingUserFromClaims rebuilds the caller identity from access token
// claims. branch_id may be empty for callers without a branch.
func RequestingUserFromClaims(claims map[string]interface{}) (user.RequestingUser, error) {
	if tokenType, _ := claims["type"].(string); tokenType != TokenTypeAccess {
		return user.RequestingUser{}, user.ErrInvalidToken
	}

	id, _ := claims["employee_id"].(string)
	roleStr, _ := claims["role"].(string)
	if id == "" || roleStr == "" {
		return user.RequestingUser{}, user.ErrInvalidClaims
	}

	role := user.Role(roleStr)
	if !role.IsValid() {
		return user.RequestingUser{}, user.ErrInvalidRole
	}

	branchID, _ := claims["branch_id"].(string)
	return user.RequestingUser{ID: id, Role: role, BranchID: branchID}, nil
}
