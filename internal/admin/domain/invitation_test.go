package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInvitationIsValid(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(72 * time.Hour)

	cases := []struct {
		name string
		inv  Invitation
		at   time.Time
		want bool
	}{
		{"fresh invitation", Invitation{ExpiresAt: &expiry}, now, true},
		{"used invitation", Invitation{Used: true, ExpiresAt: &expiry}, now, false},
		{"no expiry never expires", Invitation{}, now.Add(1000 * time.Hour), true},
		{"no expiry but used", Invitation{Used: true}, now, false},
		{"one nanosecond before expiry", Invitation{ExpiresAt: &expiry}, expiry.Add(-time.Nanosecond), true},
		{"exactly at expiry", Invitation{ExpiresAt: &expiry}, expiry, false},
		{"after expiry", Invitation{ExpiresAt: &expiry}, expiry.Add(time.Second), false},
		{"used and expired", Invitation{Used: true, ExpiresAt: &expiry}, expiry.Add(time.Second), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.inv.IsValid(tc.at))
		})
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"admin", "manager", "staff"} {
		role, err := ParseRole(valid)
		require.NoError(t, err)
		require.Equal(t, valid, role.String())
	}

	for _, invalid := range []string{"", "Admin", "superuser", "root"} {
		_, err := ParseRole(invalid)
		require.Error(t, err)
	}
}
