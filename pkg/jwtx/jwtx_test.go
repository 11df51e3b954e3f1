package jwtx

import (
	"testing"
	"time"

	"github.com/karyasoft/backoffice/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) *Signer {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519PEM()
	require.NoError(t, err)

	signer, err := NewSigner(pemKey)
	require.NoError(t, err)
	return signer
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	verifier := NewVerifier(signer.PublicKey(), "backoffice")

	claims := NewAccessClaims("user-1", "manager", "alice", "backoffice", 15*time.Minute, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "manager", got.Role)
	require.Equal(t, "alice", got.Username)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	other := newTestSigner(t)
	verifier := NewVerifier(other.PublicKey(), "")

	claims := NewAccessClaims("user-1", "staff", "bob", "backoffice", time.Minute, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	verifier := NewVerifier(signer.PublicKey(), "")

	claims := NewAccessClaims("user-1", "admin", "admin", "backoffice", time.Minute, time.Now().UTC().Add(-time.Hour))
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	verifier := NewVerifier(signer.PublicKey(), "expected-issuer")

	claims := NewAccessClaims("user-1", "admin", "admin", "another-issuer", time.Minute, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestValidateExpiryBounds(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	claims := NewAccessClaims("u", "staff", "s", "iss", time.Hour, now)

	require.NoError(t, claims.ValidateExpiry(now.Add(30*time.Minute)))
	require.ErrorIs(t, claims.ValidateExpiry(now.Add(2*time.Hour)), ErrExpired)
	require.ErrorIs(t, claims.ValidateExpiry(now.Add(-time.Minute)), ErrNotYetValid)
}
