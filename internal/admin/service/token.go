package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/karyasoft/backoffice/internal/admin/domain"
	"github.com/karyasoft/backoffice/internal/admin/policy"
	"github.com/karyasoft/backoffice/internal/admin/store"
	"github.com/karyasoft/backoffice/pkg/cryptox"
	"github.com/karyasoft/backoffice/pkg/idx"
	"github.com/karyasoft/backoffice/pkg/jwtx"
	"github.com/karyasoft/backoffice/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

type TokenService struct {
	Signer     *jwtx.Signer
	Store      store.Store
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// LoginResult is what a successful login carries: the token pair plus the
// profile and permissions blobs clients decode locally.
type LoginResult struct {
	domain.TokenPair

	// Profile is a base64url-encoded JSON identity blob.
	Profile string
	// Permissions is a base64url-encoded JSON encoding of the policy row
	// resolved for the user's role.
	Permissions string
}

// Login verifies the credentials and issues an access/refresh token pair.
func (s *TokenService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn comparable time so unknown usernames are not
			// distinguishable by latency.
			_ = cryptox.VerifyPassword(password, dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Warn("login failed", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user, now)
	if err != nil {
		return nil, err
	}

	profile, err := encodeBlob(profilePayload{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role.String(),
	})
	if err != nil {
		return nil, err
	}
	permissions, err := encodeBlob(policy.RowFor(user.Role))
	if err != nil {
		return nil, err
	}

	log.Info("login succeeded",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role.String()),
	)

	return &LoginResult{
		TokenPair:   *pair,
		Profile:     profile,
		Permissions: permissions,
	}, nil
}

// Refresh rotates the refresh token and issues a new access token. The old
// refresh token is revoked and the new one created in a single transaction.
func (s *TokenService) Refresh(ctx context.Context, refreshOpaque string) (*domain.TokenPair, error) {
	now := time.Now().UTC()

	rt, err := s.lookupLiveRefresh(ctx, refreshOpaque, now)
	if err != nil {
		return nil, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	accessToken, err := s.signAccess(user, now)
	if err != nil {
		return nil, err
	}

	newOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}
	newRT := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    user.ID,
		TokenHash: cryptox.FingerprintToken(newOpaque),
		ExpiresAt: now.Add(s.refreshTTL()),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, rt.TokenHash); err != nil {
			if errors.Is(err, store.ErrConflict) {
				// Lost a race against a concurrent refresh or logout.
				return ErrInvalidRefresh
			}
			return err
		}
		return tx.RefreshTokens().CreateRefreshToken(ctx, newRT)
	})
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newOpaque,
		ExpiresIn:    int64(s.accessTTL().Seconds()),
	}, nil
}

// Logout invalidates the refresh token so it can no longer mint access
// tokens. Unknown, expired or already-revoked tokens are an error.
func (s *TokenService) Logout(ctx context.Context, refreshOpaque string) error {
	now := time.Now().UTC()

	rt, err := s.lookupLiveRefresh(ctx, refreshOpaque, now)
	if err != nil {
		return err
	}

	if err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, rt.TokenHash); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return ErrInvalidRefresh
		}
		return err
	}

	slogx.FromContext(ctx).Info("logout", slog.String("user_id", rt.UserID))
	return nil
}

func (s *TokenService) lookupLiveRefresh(
	ctx context.Context,
	refreshOpaque string,
	now time.Time,
) (domain.RefreshToken, error) {
	if refreshOpaque == "" {
		return domain.RefreshToken{}, ErrInvalidRefresh
	}

	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(refreshOpaque))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.RefreshToken{}, ErrInvalidRefresh
		}
		return domain.RefreshToken{}, err
	}
	if rt.Revoked || now.After(rt.ExpiresAt) {
		return domain.RefreshToken{}, ErrInvalidRefresh
	}
	return rt, nil
}

func (s *TokenService) issuePair(ctx context.Context, user domain.User, now time.Time) (*domain.TokenPair, error) {
	accessToken, err := s.signAccess(user, now)
	if err != nil {
		return nil, err
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	rt := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    user.ID,
		TokenHash: cryptox.FingerprintToken(refreshOpaque),
		ExpiresAt: now.Add(s.refreshTTL()),
	}
	if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, rt); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshOpaque,
		ExpiresIn:    int64(s.accessTTL().Seconds()),
	}, nil
}

func (s *TokenService) signAccess(u domain.User, now time.Time) (string, error) {
	claims := jwtx.NewAccessClaims(u.ID, u.Role.String(), u.Username, s.Issuer, s.accessTTL(), now)
	return s.Signer.Sign(claims)
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return DefaultAccessTTL
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return DefaultRefreshTTL
}

type profilePayload struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

func encodeBlob(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// dummyHash is a valid Argon2id hash of a random string, used to equalize
// timing for unknown usernames.
const dummyHash = "$argon2id$v=19$m=65536,t=3,p=2$AAAAAAAAAAAAAAAAAAAAAA$t6rlTAr6stjamQhBYwUbaDzAzAzn6EjjXw2doUQaNZ0"
