package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/karyasoft/backoffice/internal/admin/domain"
	"github.com/karyasoft/backoffice/internal/admin/store"
	"github.com/karyasoft/backoffice/pkg/cryptox"
	"github.com/karyasoft/backoffice/pkg/idx"
	"github.com/karyasoft/backoffice/pkg/slogx"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid role")
)

type UserService struct {
	Store store.Store
}

// CreateParams carries the fields for a direct user creation. Invitations
// are the usual onboarding path; this covers provisioning by an operator.
type CreateParams struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	Role      string
}

func (s *UserService) Create(ctx context.Context, p CreateParams) (domain.User, error) {
	if p.Username == "" || p.Password == "" {
		return domain.User{}, ErrMissingFields
	}
	role, err := domain.ParseRole(p.Role)
	if err != nil {
		return domain.User{}, ErrInvalidRole
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     p.Username,
		Email:        p.Email,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user created",
		slog.String("user_id", user.ID),
		slog.String("role", role.String()),
	)
	return s.Store.Users().GetUserByID(ctx, user.ID)
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// UpdateParams holds the mutable user fields. Nil pointers leave the
// current value untouched.
type UpdateParams struct {
	Email     *string
	FirstName *string
	LastName  *string
	Role      *string
	Password  *string
}

func (s *UserService) Update(ctx context.Context, id string, p UpdateParams) (domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	if p.Email != nil {
		user.Email = *p.Email
	}
	if p.FirstName != nil {
		user.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		user.LastName = *p.LastName
	}
	if p.Role != nil {
		role, err := domain.ParseRole(*p.Role)
		if err != nil {
			return domain.User{}, ErrInvalidRole
		}
		user.Role = role
	}
	user.UpdatedAt = time.Now().UTC()

	var newHash string
	if p.Password != nil && *p.Password != "" {
		newHash, err = cryptox.HashPassword(*p.Password)
		if err != nil {
			return domain.User{}, err
		}
	}

	// Field changes and the credential rewrite land atomically, so a failed
	// password write cannot leave a half-applied update behind.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdateUser(ctx, user); err != nil {
			return err
		}
		if newHash != "" {
			return tx.Users().UpdatePasswordHash(ctx, id, newHash)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	return s.Get(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.Store.Users().DeleteUser(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	slogx.FromContext(ctx).Info("user deleted", slog.String("user_id", id))
	return nil
}
