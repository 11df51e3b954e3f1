package sqlite

import (
	"database/sql"

	"github.com/karyasoft/backoffice/internal/admin/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Users() store.Users                 { return &usersRepo{db: t.tx} }
func (t *txStore) Invitations() store.Invitations     { return &invitationsRepo{db: t.tx} }
func (t *txStore) RefreshTokens() store.RefreshTokens { return &refreshTokensRepo{db: t.tx} }
func (t *txStore) Products() store.Products           { return &productsRepo{db: t.tx} }
func (t *txStore) Orders() store.Orders               { return &ordersRepo{db: t.tx} }
