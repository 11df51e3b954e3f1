package service_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karyasoft/backoffice/internal/admin/domain"
	"github.com/karyasoft/backoffice/internal/admin/service"
	"github.com/karyasoft/backoffice/pkg/cryptox"
	"github.com/karyasoft/backoffice/pkg/jwtx"
)

func newTokenService(t *testing.T) (*service.TokenService, *jwtx.Verifier) {
	t.Helper()

	pem, err := cryptox.GenerateEd25519PEM()
	require.NoError(t, err)
	signer, err := jwtx.NewSigner(pem)
	require.NoError(t, err)

	svc := &service.TokenService{
		Signer: signer,
		Store:  newTestStore(t),
		Issuer: "backoffice-test",
	}
	return svc, jwtx.NewVerifier(signer.PublicKey(), "backoffice-test")
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, verifier := newTokenService(t)

	user := seedUser(t, svc.Store, "alice", domain.RoleManager)

	res, err := svc.Login(ctx, "alice", "correct horse battery")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, int64(service.DefaultAccessTTL.Seconds()), res.ExpiresIn)

	claims, err := verifier.Verify(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "alice", claims.Username)

	// Profile blob decodes to the caller's identity.
	var profile map[string]any
	raw, err := base64.RawURLEncoding.DecodeString(res.Profile)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &profile))
	assert.Equal(t, "alice", profile["username"])
	assert.Equal(t, "manager", profile["role"])

	// Permissions blob decodes to the resolved policy row.
	var perms map[string]map[string]bool
	raw, err = base64.RawURLEncoding.DecodeString(res.Permissions)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &perms))
	assert.True(t, perms["products"]["update"])
	assert.False(t, perms["products"]["delete"])
	assert.True(t, perms["invitations"]["write"])
}

func TestLoginBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTokenService(t)

	seedUser(t, svc.Store, "alice", domain.RoleStaff)

	_, err := svc.Login(ctx, "alice", "wrong password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "whatever")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRefreshRotation(t *testing.T) {
	ctx := context.Background()
	svc, verifier := newTokenService(t)

	seedUser(t, svc.Store, "alice", domain.RoleStaff)
	res, err := svc.Login(ctx, "alice", "correct horse battery")
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, res.RefreshToken, pair.RefreshToken)

	_, err = verifier.Verify(pair.AccessToken)
	require.NoError(t, err)

	// The old refresh token is dead after rotation.
	_, err = svc.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidRefresh)

	// The rotated token still works.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshExpired(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTokenService(t)
	svc.RefreshTTL = time.Nanosecond

	seedUser(t, svc.Store, "alice", domain.RoleStaff)
	res, err := svc.Login(ctx, "alice", "correct horse battery")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = svc.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidRefresh)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTokenService(t)

	seedUser(t, svc.Store, "alice", domain.RoleStaff)
	res, err := svc.Login(ctx, "alice", "correct horse battery")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.RefreshToken))

	// Logging out twice or refreshing afterwards both fail.
	assert.ErrorIs(t, svc.Logout(ctx, res.RefreshToken), service.ErrInvalidRefresh)
	_, err = svc.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidRefresh)
}

func TestLogoutUnknownToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTokenService(t)

	assert.ErrorIs(t, svc.Logout(ctx, ""), service.ErrInvalidRefresh)
	assert.ErrorIs(t, svc.Logout(ctx, "not-a-token"), service.ErrInvalidRefresh)
}
