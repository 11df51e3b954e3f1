package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/karyasoft/backoffice/internal/admin/domain"
	"github.com/karyasoft/backoffice/internal/admin/store"
)

type invitationsRepo struct {
	db dbtx
}

const invitationColumns = `id, token_hash, email, role, inviter_id, used, created_at, expires_at, updated_at`

func scanInvitation(row interface{ Scan(...any) error }) (domain.Invitation, error) {
	var inv domain.Invitation
	var role string
	var inviter sql.NullString
	var expires sql.NullTime
	err := row.Scan(
		&inv.ID, &inv.TokenHash, &inv.Email, &role, &inviter,
		&inv.Used, &inv.CreatedAt, &expires, &inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invitation{}, err
	}
	inv.Role = domain.Role(role)
	inv.InviterID = mapNullString(inviter)
	if expires.Valid {
		t := expires.Time
		inv.ExpiresAt = &t
	}
	return inv, nil
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	now := time.Now().UTC()
	var expires any
	if inv.ExpiresAt != nil {
		expires = *inv.ExpiresAt
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invitations (id, token_hash, email, role, inviter_id, used, created_at, expires_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?, ?, ?)`,
		inv.ID, inv.TokenHash, inv.Email, string(inv.Role),
		mapStringNull(inv.InviterID), now, expires, now,
	)
	return mapConstraint(err)
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, id)
	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE token_hash = ?`, hash)
	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) ListInvitations(ctx context.Context) ([]domain.Invitation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invs []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

// ConsumeInvitation is the single atomic read-modify-write that makes
// acceptance and revocation race-safe: the used=0 guard means only one caller
// can ever flip the flag.
func (r *invitationsRepo) ConsumeInvitation(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invitations SET used = 1, updated_at = ? WHERE id = ? AND used = 0`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrConflict
	}
	return nil
}
