package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karyasoft/backoffice/internal/admin/domain"
	"github.com/karyasoft/backoffice/internal/admin/mail"
	"github.com/karyasoft/backoffice/internal/admin/service"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func TestInvitationCreateAndAccept(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	mailer := &recordingMailer{}
	svc := &service.InvitationService{Store: st, Mailer: mailer}

	admin := seedUser(t, st, "root", domain.RoleAdmin)

	inv, token, err := svc.Create(ctx, admin, "bob@example.com", domain.RoleManager)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, inv.Used)
	assert.False(t, inv.CreatedAt.IsZero())
	assert.False(t, inv.UpdatedAt.IsZero())
	require.NotNil(t, inv.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(service.DefaultInvitationTTL), *inv.ExpiresAt, time.Minute)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "bob@example.com", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Body, token)

	user, err := svc.Accept(ctx, token, "bob", "hunter2hunter2", "Bob", "Smith")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, user.Role)
	assert.Equal(t, "bob@example.com", user.Email)

	stored, err := st.Invitations().GetInvitationByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, stored.Used)

	// A consumed token cannot be redeemed again.
	_, err = svc.Accept(ctx, token, "eve", "hunter2hunter2", "", "")
	assert.ErrorIs(t, err, service.ErrInvitationInvalid)
}

func TestInvitationCreateDeniedForStaff(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.InvitationService{Store: st}

	staff := seedUser(t, st, "clerk", domain.RoleStaff)

	_, _, err := svc.Create(ctx, staff, "new@example.com", domain.RoleStaff)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestInvitationManagerCanInvite(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.InvitationService{Store: st}

	manager := seedUser(t, st, "lead", domain.RoleManager)

	_, token, err := svc.Create(ctx, manager, "new@example.com", domain.RoleStaff)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestInvitationAcceptExpired(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.InvitationService{Store: st}

	admin := seedUser(t, st, "root", domain.RoleAdmin)

	_, token, err := svc.Create(ctx, admin, "late@example.com", domain.RoleStaff)
	require.NoError(t, err)

	// Move the service clock past the expiry.
	svc.Now = func() time.Time { return time.Now().Add(service.DefaultInvitationTTL + time.Second) }

	_, err = svc.Accept(ctx, token, "late", "hunter2hunter2", "", "")
	assert.ErrorIs(t, err, service.ErrInvitationInvalid)
}

func TestInvitationAcceptUnknownToken(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.InvitationService{Store: st}

	_, err := svc.Accept(ctx, "no-such-token", "ghost", "hunter2hunter2", "", "")
	assert.ErrorIs(t, err, service.ErrInvitationNotFound)
}

func TestInvitationAcceptMissingFields(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.InvitationService{Store: st}

	_, err := svc.Accept(ctx, "", "bob", "pw", "", "")
	assert.ErrorIs(t, err, service.ErrMissingFields)

	_, err = svc.Accept(ctx, "tok", "", "pw", "", "")
	assert.ErrorIs(t, err, service.ErrMissingFields)

	_, err = svc.Accept(ctx, "tok", "bob", "", "", "")
	assert.ErrorIs(t, err, service.ErrMissingFields)
}

func TestInvitationAcceptUsernameTaken(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.InvitationService{Store: st}

	admin := seedUser(t, st, "root", domain.RoleAdmin)
	_, token, err := svc.Create(ctx, admin, "dup@example.com", domain.RoleStaff)
	require.NoError(t, err)

	_, err = svc.Accept(ctx, token, "root", "hunter2hunter2", "", "")
	assert.ErrorIs(t, err, service.ErrUsernameTaken)

	// The invitation survives the failed attempt.
	inv, err := st.Invitations().GetInvitationByTokenHash(ctx, fingerprintOf(token))
	require.NoError(t, err)
	assert.False(t, inv.Used)
}

func TestInvitationConcurrentAcceptSingleWinner(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.InvitationService{Store: st}

	admin := seedUser(t, st, "root", domain.RoleAdmin)
	_, token, err := svc.Create(ctx, admin, "race@example.com", domain.RoleStaff)
	require.NoError(t, err)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Accept(ctx, token, "racer"+string(rune('a'+i)), "hunter2hunter2", "", "")
		}(i)
	}
	wg.Wait()

	var won int
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, service.ErrInvitationInvalid)
		}
	}
	assert.Equal(t, 1, won)
}

func TestInvitationRevoke(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.InvitationService{Store: st}

	admin := seedUser(t, st, "root", domain.RoleAdmin)
	manager := seedUser(t, st, "lead", domain.RoleManager)

	inv, token, err := svc.Create(ctx, admin, "gone@example.com", domain.RoleStaff)
	require.NoError(t, err)

	// Revocation is an admin action even though managers may invite.
	err = svc.Revoke(ctx, manager, inv.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	require.NoError(t, svc.Revoke(ctx, admin, inv.ID))

	// Revoking twice is a conflict, not a no-op.
	err = svc.Revoke(ctx, admin, inv.ID)
	assert.ErrorIs(t, err, service.ErrInvitationUsed)

	// A revoked token can no longer be redeemed.
	_, err = svc.Accept(ctx, token, "gone", "hunter2hunter2", "", "")
	assert.ErrorIs(t, err, service.ErrInvitationInvalid)
}

func TestInvitationRevokeAfterAccept(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.InvitationService{Store: st}

	admin := seedUser(t, st, "root", domain.RoleAdmin)
	inv, token, err := svc.Create(ctx, admin, "joined@example.com", domain.RoleStaff)
	require.NoError(t, err)

	_, err = svc.Accept(ctx, token, "joined", "hunter2hunter2", "", "")
	require.NoError(t, err)

	err = svc.Revoke(ctx, admin, inv.ID)
	assert.ErrorIs(t, err, service.ErrInvitationUsed)
}

func TestInvitationRevokeUnknown(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.InvitationService{Store: st}

	admin := seedUser(t, st, "root", domain.RoleAdmin)

	err := svc.Revoke(ctx, admin, "01XXXXXXXXXXXXXXXXXXXXXXXX")
	assert.ErrorIs(t, err, service.ErrInvitationNotFound)
}
