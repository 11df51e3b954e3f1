package httpx

import (
	"context"

	"github.com/karyasoft/backoffice/pkg/jwtx"
)

type ctxKey string

const (
	ctxKeyUserID   ctxKey = "user_id"
	ctxKeyRole     ctxKey = "role"
	ctxKeyUsername ctxKey = "username"
)

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, ctxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, ctxKeyRole, c.Role)
	return context.WithValue(ctx, ctxKeyUsername, c.Username)
}

// UserIDFromContext returns the authenticated principal's ID, or "" when the
// request is anonymous.
func UserIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyUserID).(string)
	return v
}

// RoleFromContext returns the authenticated principal's role, or "" when the
// request is anonymous.
func RoleFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRole).(string)
	return v
}

// UsernameFromContext returns the authenticated principal's username.
func UsernameFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyUsername).(string)
	return v
}
