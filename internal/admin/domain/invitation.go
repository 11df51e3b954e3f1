package domain

import "time"

// Invitation is a single-use, time-limited offer binding an email to a role.
// Only the SHA-256 fingerprint of the opaque token is stored; the raw token
// is returned once at creation and never again.
type Invitation struct {
	ID        string
	TokenHash string
	Email     string
	Role      Role
	InviterID string // empty when the issuer was later removed
	Used      bool   // monotonic: false -> true, never back
	CreatedAt time.Time
	ExpiresAt *time.Time // nil means no expiry
	UpdatedAt time.Time
}

// IsValid reports whether the invitation can still be accepted at the given
// instant. Pure predicate, no mutation; the expired state is derived here
// rather than stored.
func (inv Invitation) IsValid(now time.Time) bool {
	return !inv.Used && (inv.ExpiresAt == nil || now.Before(*inv.ExpiresAt))
}
