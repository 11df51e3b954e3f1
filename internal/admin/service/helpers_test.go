package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/karyasoft/backoffice/internal/admin/domain"
	"github.com/karyasoft/backoffice/internal/admin/service"
	"github.com/karyasoft/backoffice/internal/admin/store"
	"github.com/karyasoft/backoffice/internal/admin/store/drivers/sqlite"
	"github.com/karyasoft/backoffice/pkg/cryptox"
)

func fingerprintOf(token string) string {
	return cryptox.FingerprintToken(token)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedUser(t *testing.T, st store.Store, username string, role domain.Role) domain.User {
	t.Helper()

	users := &service.UserService{Store: st}
	user, err := users.Create(context.Background(), service.CreateParams{
		Username: username,
		Password: "correct horse battery",
		Email:    username + "@example.com",
		Role:     role.String(),
	})
	require.NoError(t, err)
	return user
}
