package store

import (
	"context"
	"errors"

	"github.com/karyasoft/backoffice/internal/admin/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict reports that a conditional update matched no row: the
	// guarded state (e.g. used = false) no longer holds.
	ErrConflict = errors.New("store: conflict")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement it. Sub-repositories keep concerns tidy and testable.
type Store interface {
	Users() Users
	Invitations() Invitations
	RefreshTokens() RefreshTokens
	Products() Products
	Orders() Orders

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise committed. Multi-step operations
	// that must be atomic (invitation acceptance, refresh rotation) go
	// through here.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store. Nested transactions are not supported.
type Tx interface {
	Users() Users
	Invitations() Invitations
	RefreshTokens() RefreshTokens
	Products() Products
	Orders() Orders
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login and availability checks.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// ListUsers returns all users ordered by creation date (newest first).
	ListUsers(ctx context.Context) ([]domain.User, error)

	// CreateUser inserts a new user (id provided by the app via ULID).
	// Returns ErrAlreadyExists on a username uniqueness violation.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser overwrites the mutable fields (email, names, role) and
	// bumps updated_at.
	UpdateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// DeleteUser removes a user; refresh tokens cascade per schema.
	DeleteUser(ctx context.Context, userID string) error

	// HasRole reports whether any user with the given role exists.
	HasRole(ctx context.Context, role domain.Role) (bool, error)
}

type Invitations interface {
	// CreateInvitation writes a new invitation (token_hash is the SHA-256
	// fingerprint of the opaque token).
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	// GetInvitationByID returns an invitation regardless of state.
	GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error)

	// GetInvitationByTokenHash returns an invitation by fingerprint
	// regardless of state; validity is the caller's concern.
	GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error)

	// ListInvitations returns all invitations ordered by creation date
	// (newest first).
	ListInvitations(ctx context.Context) ([]domain.Invitation, error)

	// ConsumeInvitation atomically flips used from false to true. Returns
	// ErrConflict when the invitation was already used, so concurrent
	// accept/revoke attempts on the same invitation cannot both succeed.
	ConsumeInvitation(ctx context.Context, id string) error
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the token by its fingerprint.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken atomically flips revoked from false to true.
	// Returns ErrConflict when already revoked.
	RevokeRefreshToken(ctx context.Context, hash string) error
}

type Products interface {
	GetProductByID(ctx context.Context, id string) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) error
	UpdateProduct(ctx context.Context, p domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

type Orders interface {
	GetOrderByID(ctx context.Context, id string) (domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	CreateOrder(ctx context.Context, o domain.Order) error
	UpdateOrder(ctx context.Context, o domain.Order) error
	DeleteOrder(ctx context.Context, id string) error
}
