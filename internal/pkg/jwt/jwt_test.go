package jwt

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func newTestService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(testSecret, "1h")
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_InvalidExpiration(t *testing.T) {
	_, err := NewJWTService(testSecret, "forever")
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService(t)
	caller := user.RequestingUser{ID: "emp-1", Role: user.RoleManager, BranchID: "branch-1"}

	token, expiresAt, err := svc.GenerateAccessToken(caller)
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(t.Context())
	require.NoError(t, err)

	got, err := RequestingUserFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, caller, got)
}

func TestRequestingUserFromClaims(t *testing.T) {
	tests := []struct {
		name    string
		claims  map[string]interface{}
		want    user.RequestingUser
		wantErr error
	}{
		{
			name:   "employee without branch",
			claims: map[string]interface{}{"type": "access", "employee_id": "e1", "role": "employee"},
			want:   user.RequestingUser{ID: "e1", Role: user.RoleEmployee},
		},
		{
			name:    "sse token is not an access token",
			claims:  map[string]interface{}{"type": "sse", "employee_id": "e1", "role": "employee"},
			wantErr: user.ErrInvalidToken,
		},
		{
			name:    "missing employee id",
			claims:  map[string]interface{}{"type": "access", "role": "admin"},
			wantErr: user.ErrInvalidClaims,
		},
		{
			name:    "unknown role",
			claims:  map[string]interface{}{"type": "access", "employee_id": "e1", "role": "owner"},
			wantErr: user.ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequestingUserFromClaims(tt.claims)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSSEToken(t *testing.T) {
	svc := newTestService(t)

	token, expiresIn, err := svc.GenerateSSEToken("emp-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	id, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", id)

	access, _, err := svc.GenerateAccessToken(user.RequestingUser{ID: "emp-1", Role: user.RoleEmployee})
	require.NoError(t, err)
	_, err = svc.ValidateSSEToken(access)
	assert.ErrorIs(t, err, user.ErrInvalidToken)

	_, err = svc.ValidateSSEToken("garbage")
	assert.ErrorIs(t, err, user.ErrInvalidToken)
}

func TestSSEToken_Expired(t *testing.T) {
	svc := newTestService(t)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := svc.GenerateSSEToken("emp-1")
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(token)
	assert.ErrorIs(t, err, user.ErrInvalidToken)
}
