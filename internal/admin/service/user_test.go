package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karyasoft/backoffice/internal/admin/domain"
	"github.com/karyasoft/backoffice/internal/admin/service"
)

func TestUserCreate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.UserService{Store: st}

	user, err := svc.Create(ctx, service.CreateParams{
		Username:  "alice",
		Password:  "hunter2hunter2",
		Email:     "alice@example.com",
		FirstName: "Alice",
		Role:      "manager",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, domain.RoleManager, user.Role)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)

	// Username uniqueness.
	_, err = svc.Create(ctx, service.CreateParams{
		Username: "alice",
		Password: "other password",
		Role:     "staff",
	})
	assert.ErrorIs(t, err, service.ErrUsernameTaken)

	// Unknown role is rejected up front.
	_, err = svc.Create(ctx, service.CreateParams{
		Username: "bob",
		Password: "hunter2hunter2",
		Role:     "superuser",
	})
	assert.ErrorIs(t, err, service.ErrInvalidRole)
}

func TestUserListAndGet(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.UserService{Store: st}

	a := seedUser(t, st, "alice", domain.RoleAdmin)
	seedUser(t, st, "bob", domain.RoleStaff)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = svc.Get(ctx, "01XXXXXXXXXXXXXXXXXXXXXXXX")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUserUpdate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.UserService{Store: st}

	user := seedUser(t, st, "alice", domain.RoleStaff)

	email := "new@example.com"
	role := "manager"
	updated, err := svc.Update(ctx, user.ID, service.UpdateParams{
		Email: &email,
		Role:  &role,
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, domain.RoleManager, updated.Role)
	// Untouched fields survive the partial update.
	assert.Equal(t, "alice", updated.Username)

	bad := "superuser"
	_, err = svc.Update(ctx, user.ID, service.UpdateParams{Role: &bad})
	assert.ErrorIs(t, err, service.ErrInvalidRole)

	_, err = svc.Update(ctx, "01XXXXXXXXXXXXXXXXXXXXXXXX", service.UpdateParams{Email: &email})
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUserUpdateFieldsAndPasswordTogether(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.UserService{Store: st}

	user := seedUser(t, st, "alice", domain.RoleStaff)
	before, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)

	email := "new@example.com"
	pw := "a brand new secret"
	updated, err := svc.Update(ctx, user.ID, service.UpdateParams{Email: &email, Password: &pw})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.NotEqual(t, before.PasswordHash, updated.PasswordHash)
}

func TestUserUpdatePassword(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.UserService{Store: st}

	user := seedUser(t, st, "alice", domain.RoleStaff)
	before, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)

	pw := "a brand new secret"
	_, err = svc.Update(ctx, user.ID, service.UpdateParams{Password: &pw})
	require.NoError(t, err)

	after, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, before.PasswordHash, after.PasswordHash)
}

func TestUserDelete(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.UserService{Store: st}

	user := seedUser(t, st, "alice", domain.RoleStaff)

	require.NoError(t, svc.Delete(ctx, user.ID))
	_, err := svc.Get(ctx, user.ID)
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, user.ID), service.ErrUserNotFound)
}

func TestEnsureDefaultAdmin(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	// Unset credentials: nothing happens.
	require.NoError(t, service.EnsureDefaultAdmin(ctx, st, "", ""))
	users, err := (&service.UserService{Store: st}).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, service.EnsureDefaultAdmin(ctx, st, "root", "first boot secret"))
	users, err = (&service.UserService{Store: st}).List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, domain.RoleAdmin, users[0].Role)

	// Second boot is a no-op even with different credentials.
	require.NoError(t, service.EnsureDefaultAdmin(ctx, st, "root2", "other secret"))
	users, err = (&service.UserService{Store: st}).List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
