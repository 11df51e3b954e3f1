package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/karyasoft/backoffice/internal/admin/domain"
	"github.com/karyasoft/backoffice/internal/admin/mail"
	"github.com/karyasoft/backoffice/internal/admin/policy"
	"github.com/karyasoft/backoffice/internal/admin/store"
	"github.com/karyasoft/backoffice/pkg/cryptox"
	"github.com/karyasoft/backoffice/pkg/idx"
	"github.com/karyasoft/backoffice/pkg/slogx"
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationInvalid  = errors.New("invitation invalid or expired")
	ErrInvitationUsed     = errors.New("invitation already used or revoked")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrForbidden          = errors.New("forbidden")
)

// DefaultInvitationTTL is how long an invitation stays acceptable unless
// configured otherwise.
const DefaultInvitationTTL = 72 * time.Hour

type InvitationService struct {
	Store         store.Store
	Mailer        mail.Mailer
	AcceptBaseURL string // prefix for the accept link in invite email
	TTL           time.Duration

	// Now is swappable in tests; zero value means time.Now.
	Now func() time.Time
}

func (s *InvitationService) clock() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *InvitationService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultInvitationTTL
}

// Create issues a new invitation binding email to role. The issuer must hold
// write permission on invitations (admin or manager). The raw token is
// returned once; only its fingerprint is stored.
//
// The invite email is sent best-effort after the invitation is committed: a
// delivery failure leaves the invitation in place (an admin can re-send or
// revoke it), matching the non-transactional behavior this API has always had.
func (s *InvitationService) Create(
	ctx context.Context,
	issuer domain.User,
	email string,
	role domain.Role,
) (domain.Invitation, string, error) {
	log := slogx.FromContext(ctx)

	if err := policy.Authorize(issuer.Role, policy.ResourceInvitations, policy.ActionWrite); err != nil {
		log.Warn("invitation create denied",
			slog.String("issuer_id", issuer.ID),
			slog.String("issuer_role", issuer.Role.String()),
		)
		return domain.Invitation{}, "", ErrForbidden
	}

	if email == "" {
		return domain.Invitation{}, "", ErrMissingFields
	}
	if _, err := domain.ParseRole(role.String()); err != nil {
		return domain.Invitation{}, "", fmt.Errorf("%w: %s", ErrMissingFields, err)
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		log.Error("failed to generate invitation token", slog.Any("error", err))
		return domain.Invitation{}, "", err
	}

	expiresAt := s.clock().Add(s.ttl())
	inv := domain.Invitation{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(token),
		Email:     email,
		Role:      role,
		InviterID: issuer.ID,
		ExpiresAt: &expiresAt,
	}

	if err := s.Store.Invitations().CreateInvitation(ctx, inv); err != nil {
		log.Error("failed to create invitation",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return domain.Invitation{}, "", err
	}

	// Re-read so the caller sees the store-stamped timestamps.
	created, err := s.Store.Invitations().GetInvitationByID(ctx, inv.ID)
	if err != nil {
		log.Error("failed to reload invitation",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return domain.Invitation{}, "", err
	}

	s.sendInviteEmail(ctx, created, token)

	log.Info("invitation created",
		slog.String("invitation_id", created.ID),
		slog.String("email", email),
		slog.String("role", role.String()),
		slog.Time("expires_at", expiresAt),
	)

	return created, token, nil
}

func (s *InvitationService) sendInviteEmail(ctx context.Context, inv domain.Invitation, token string) {
	if s.Mailer == nil {
		return
	}

	link := fmt.Sprintf("%s/invitations/accept?token=%s", s.AcceptBaseURL, token)
	msg := mail.Message{
		To:      inv.Email,
		Subject: "You are invited",
		Body: fmt.Sprintf(
			"You have been invited. Click to accept: %s\nThis link expires: %s",
			link, inv.ExpiresAt.Format(time.RFC3339),
		),
	}

	if err := s.Mailer.Send(ctx, msg); err != nil {
		slogx.FromContext(ctx).Warn("invite email delivery failed",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
	}
}

// Accept redeems an invitation token and creates the invited account. Public:
// no authenticated principal is involved. User creation and invitation
// consumption happen in one transaction; the consume is a conditional update
// so concurrent accepts on the same token cannot both succeed.
func (s *InvitationService) Accept(
	ctx context.Context,
	token, username, password, firstName, lastName string,
) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if token == "" {
		return domain.User{}, ErrMissingFields
	}
	if username == "" || password == "" {
		return domain.User{}, ErrMissingFields
	}

	fingerprint := cryptox.FingerprintToken(token)
	inv, err := s.Store.Invitations().GetInvitationByTokenHash(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("invitation acceptance with unknown token")
			return domain.User{}, ErrInvitationNotFound
		}
		log.Error("failed to fetch invitation", slog.Any("error", err))
		return domain.User{}, err
	}

	if !inv.IsValid(s.clock()) {
		log.Warn("invitation acceptance with used or expired invitation",
			slog.String("invitation_id", inv.ID),
		)
		return domain.User{}, ErrInvitationInvalid
	}

	if _, err := s.Store.Users().GetUserByUsername(ctx, username); err == nil {
		return domain.User{}, ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check username availability", slog.Any("error", err))
		return domain.User{}, err
	}

	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	newUser := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        inv.Email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		Role:         inv.Role,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, newUser); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrUsernameTaken
			}
			return err
		}
		// The used=false guard loses the race to any concurrent accept or
		// revoke, rolling back the user we just created.
		if err := tx.Invitations().ConsumeInvitation(ctx, inv.ID); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrInvitationInvalid
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	log.Info("account created via invitation",
		slog.String("user_id", newUser.ID),
		slog.String("username", newUser.Username),
		slog.String("invitation_id", inv.ID),
		slog.String("role", inv.Role.String()),
	)

	return newUser, nil
}

// Revoke permanently disables a pending invitation. Admin only; revoking an
// already-consumed invitation (accepted or previously revoked) is an error,
// not a no-op.
func (s *InvitationService) Revoke(ctx context.Context, actor domain.User, invitationID string) error {
	log := slogx.FromContext(ctx)

	if actor.Role != domain.RoleAdmin {
		log.Warn("invitation revoke denied",
			slog.String("actor_id", actor.ID),
			slog.String("actor_role", actor.Role.String()),
		)
		return ErrForbidden
	}

	inv, err := s.Store.Invitations().GetInvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvitationNotFound
		}
		return err
	}
	if inv.Used {
		return ErrInvitationUsed
	}

	if err := s.Store.Invitations().ConsumeInvitation(ctx, inv.ID); err != nil {
		if errors.Is(err, store.ErrConflict) {
			// Lost a race against a concurrent accept or revoke.
			return ErrInvitationUsed
		}
		return err
	}

	log.Info("invitation revoked",
		slog.String("invitation_id", inv.ID),
		slog.String("actor_id", actor.ID),
	)
	return nil
}

// List returns all invitations, newest first.
func (s *InvitationService) List(ctx context.Context) ([]domain.Invitation, error) {
	return s.Store.Invitations().ListInvitations(ctx)
}

// Get returns a single invitation by id.
func (s *InvitationService) Get(ctx context.Context, id string) (domain.Invitation, error) {
	inv, err := s.Store.Invitations().GetInvitationByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, ErrInvitationNotFound
		}
		return domain.Invitation{}, err
	}
	return inv, nil
}
