package directory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/application"
)

func newDirectory(t *testing.T) *Directory {
	t.Helper()
	next := 0
	ids := func() string {
		next++
		return fmt.Sprintf("user-%d", next)
	}
	d, err := New(LightArgon2idParams, ids, slog.New(slog.NewTextHandler(io.Discard, nil))).WithDemoAccounts()
	require.NoError(t, err)
	return d
}

func TestAuthenticateDemoAccounts(t *testing.T) {
	ctx := context.Background()
	d := newDirectory(t)

	tests := []struct {
		email string
		role  access.Role
		id    string
	}{
		{email: "admin@company.com", role: access.RoleAdmin, id: "admin"},
		{email: "JANE@company.com", role: access.RoleHR, id: "2"},
		{email: " john@company.com ", role: access.RoleEmployee, id: "1"},
	}
	for _, tt := range tests {
		user, err := d.Authenticate(ctx, tt.email, DemoPassword)
		require.NoError(t, err, tt.email)
		assert.Equal(t, tt.role, user.Role)
		assert.Equal(t, tt.id, user.ID)
	}
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	d := newDirectory(t)

	_, err := d.Authenticate(ctx, "admin@company.com", "wrong")
	assert.ErrorIs(t, err, application.ErrInvalidCredentials)

	_, err = d.Authenticate(ctx, "nobody@company.com", DemoPassword)
	assert.ErrorIs(t, err, application.ErrInvalidCredentials)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	d := newDirectory(t)

	user, err := d.Register(ctx, application.RegisterParams{Name: "Alice", Email: "Alice@Company.com", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "alice@company.com", user.Email)
	assert.Equal(t, access.RoleEmployee, user.Role)

	again, err := d.Authenticate(ctx, "alice@company.com", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, user, again)

	_, err = d.Register(ctx, application.RegisterParams{Name: "Jane 2", Email: "jane@company.com", Password: "whatever"})
	assert.ErrorIs(t, err, application.ErrAlreadyExists)

	assert.Len(t, d.Users(), 4)
}

func TestSessionWithDirectory(t *testing.T) {
	ctx := context.Background()
	session := application.NewSessionService(newDirectory(t), nil)

	user, err := session.Login(ctx, application.Credentials{Email: "jane@company.com", Password: DemoPassword})
	require.NoError(t, err)
	assert.Equal(t, access.RoleHR, user.Role)
	assert.Equal(t, application.SessionAuthenticated, session.State())
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse", LightArgon2idParams)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$"))

	assert.NoError(t, VerifyPassword(hash, "correct horse"))
	assert.ErrorIs(t, VerifyPassword(hash, "battery staple"), errPasswordMismatch)
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	for _, encoded := range []string{"", "plain", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA", "$argon2id$v=19$m=x$c2FsdA$aGFzaA"} {
		err := VerifyPassword(encoded, "pw")
		assert.True(t, errors.Is(err, ErrInvalidPasswordHash), "hash %q: %v", encoded, err)
	}
	assert.ErrorIs(t, VerifyPassword("$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA", "pw"), ErrIncompatiblePasswordVersion)
}
