package service

import (
	"context"
	"log/slog"

	"github.com/karyasoft/backoffice/internal/admin/domain"
	"github.com/karyasoft/backoffice/internal/admin/store"
	"github.com/karyasoft/backoffice/pkg/slogx"
)

// EnsureDefaultAdmin creates the initial admin account when no admin exists
// yet. It is a no-op when credentials are unset or an admin is already
// present, so restarts are safe.
func EnsureDefaultAdmin(ctx context.Context, st store.Store, username, password string) error {
	log := slogx.FromContext(ctx)

	if username == "" || password == "" {
		log.Debug("bootstrap admin credentials unset, skipping")
		return nil
	}

	exists, err := st.Users().HasRole(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	users := &UserService{Store: st}
	user, err := users.Create(ctx, CreateParams{
		Username: username,
		Password: password,
		Role:     domain.RoleAdmin.String(),
	})
	if err != nil {
		return err
	}

	log.Info("bootstrap admin created",
		slog.String("user_id", user.ID),
		slog.String("username", username),
	)
	return nil
}
