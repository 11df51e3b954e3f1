package http

import (
	"net/http"

	"github.com/karyasoft/backoffice/internal/admin/policy"
	"github.com/karyasoft/backoffice/internal/admin/service"
	"github.com/karyasoft/backoffice/internal/admin/store"
	"github.com/karyasoft/backoffice/pkg/httpx"
)

// RouterConfig wires the services and token verifier into the HTTP surface.
type RouterConfig struct {
	Verifier    httpx.TokenVerifier
	Store       store.Store
	Tokens      *service.TokenService
	Users       *service.UserService
	Invitations *service.InvitationService
	Products    *service.ProductService
	Orders      *service.OrderService
}

// NewRouter builds the full route table. Every protected route passes
// through authentication and the policy gate for its resource and action;
// the concrete handler never re-checks roles except where an operation has a
// stricter rule than the table row (invitation revocation).
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	auth := &AuthHandler{Tokens: cfg.Tokens}
	users := &UserHandler{Users: cfg.Users}
	invitations := &InvitationHandler{Invitations: cfg.Invitations}
	products := &ProductHandler{Products: cfg.Products}
	orders := &OrderHandler{Orders: cfg.Orders}
	system := &SystemHandler{Store: cfg.Store}

	authn := httpx.AuthnMiddleware(cfg.Verifier)
	gate := func(resource policy.Resource, action policy.Action) httpx.Middleware {
		return httpx.RequirePermission(policy.AllowedStrings, string(resource), string(action))
	}
	userLimit := httpx.RateLimitByUser(httpx.LenientLimit)

	protected := func(h http.HandlerFunc, resource policy.Resource, action policy.Action) http.Handler {
		return httpx.Chain(h, authn, gate(resource, action), userLimit)
	}

	// Session endpoints. Login and acceptance are unauthenticated and
	// tightly rate limited by client address.
	mux.Handle("POST /login", httpx.Chain(http.HandlerFunc(auth.login), httpx.RateLimitByIP(httpx.StrictLimit)))
	mux.Handle("POST /token/refresh", httpx.Chain(http.HandlerFunc(auth.refresh), httpx.RateLimitByIP(httpx.ModerateLimit)))
	mux.Handle("POST /logout", httpx.Chain(http.HandlerFunc(auth.logout), authn, userLimit))

	// Users.
	mux.Handle("GET /users", protected(users.list, policy.ResourceUsers, policy.ActionRead))
	mux.Handle("POST /users", protected(users.create, policy.ResourceUsers, policy.ActionWrite))
	mux.Handle("GET /users/{id}", protected(users.get, policy.ResourceUsers, policy.ActionRead))
	mux.Handle("PATCH /users/{id}", protected(users.update, policy.ResourceUsers, policy.ActionUpdate))
	mux.Handle("DELETE /users/{id}", protected(users.delete, policy.ResourceUsers, policy.ActionDelete))

	// Invitations. Acceptance is public; revocation goes through the
	// update gate and the service narrows it to admins.
	mux.Handle("POST /invitations/accept", httpx.Chain(http.HandlerFunc(invitations.accept), httpx.RateLimitByIP(httpx.StrictLimit)))
	mux.Handle("GET /invitations", protected(invitations.list, policy.ResourceInvitations, policy.ActionRead))
	mux.Handle("POST /invitations", protected(invitations.create, policy.ResourceInvitations, policy.ActionWrite))
	mux.Handle("GET /invitations/{id}", protected(invitations.get, policy.ResourceInvitations, policy.ActionRead))
	mux.Handle("POST /invitations/{id}/revoke", protected(invitations.revoke, policy.ResourceInvitations, policy.ActionUpdate))

	// Products.
	mux.Handle("GET /products", protected(products.list, policy.ResourceProducts, policy.ActionRead))
	mux.Handle("POST /products", protected(products.create, policy.ResourceProducts, policy.ActionWrite))
	mux.Handle("GET /products/{id}", protected(products.get, policy.ResourceProducts, policy.ActionRead))
	mux.Handle("PATCH /products/{id}", protected(products.update, policy.ResourceProducts, policy.ActionUpdate))
	mux.Handle("DELETE /products/{id}", protected(products.delete, policy.ResourceProducts, policy.ActionDelete))

	// Orders.
	mux.Handle("GET /orders", protected(orders.list, policy.ResourceOrders, policy.ActionRead))
	mux.Handle("POST /orders", protected(orders.create, policy.ResourceOrders, policy.ActionWrite))
	mux.Handle("GET /orders/{id}", protected(orders.get, policy.ResourceOrders, policy.ActionRead))
	mux.Handle("PATCH /orders/{id}", protected(orders.update, policy.ResourceOrders, policy.ActionUpdate))
	mux.Handle("DELETE /orders/{id}", protected(orders.delete, policy.ResourceOrders, policy.ActionDelete))

	// Probes stay unauthenticated.
	mux.HandleFunc("GET /livez", system.livez)
	mux.HandleFunc("GET /readyz", system.readyz)

	return mux
}
