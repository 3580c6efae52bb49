package auth

import (
	"testing"
	"time"

	jwtsvc "evcharge/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewService(jwtsvc.New("test-secret", time.Hour), "admin@demo.dev", hash)
}

func TestLoginUser(t *testing.T) {
	service := newTestService(t)

	token, email, err := service.LoginUser("  driver@example.com ", "anything")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "driver@example.com", email)

	_, _, err = service.LoginUser("", "pw")
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = service.LoginUser("driver@example.com", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginAdmin(t *testing.T) {
	service := newTestService(t)

	token, err := service.LoginAdmin("admin@demo.dev", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = service.LoginAdmin("admin@demo.dev", "wrong")
	assert.ErrorIs(t, err, ErrCredentials)

	_, err = service.LoginAdmin("someone@else.dev", "admin123")
	assert.ErrorIs(t, err, ErrCredentials)
}

func TestLoginTokenCarriesRole(t *testing.T) {
	jwt := jwtsvc.New("test-secret", time.Hour)
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	service := NewService(jwt, "admin@demo.dev", hash)

	userToken, _, err := service.LoginUser("driver@example.com", "pw")
	require.NoError(t, err)
	claims, err := jwt.ValidateToken(userToken)
	require.NoError(t, err)
	assert.Equal(t, RoleUser, claims.Role)
	assert.Equal(t, "driver@example.com", claims.Email)

	adminToken, err := service.LoginAdmin("admin@demo.dev", "admin123")
	require.NoError(t, err)
	claims, err = jwt.ValidateToken(adminToken)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestVerifyPlate(t *testing.T) {
	service := newTestService(t)

	cases := []struct {
		plate string
		want  bool
	}{
		{"서울123가4568", true},
		{"서울123가4567", false},
		{"12가 3450", true},
		{"no digits here", false},
		{"", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, service.VerifyPlate(tc.plate), tc.plate)
	}
}
