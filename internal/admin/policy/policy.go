// Package policy holds the role policy table: the single source of truth for
// authorization decisions. The table is built once at init and never mutated;
// no other component may hard-code an alternate rule.
package policy

import (
	"errors"

	"github.com/karyasoft/backoffice/internal/admin/domain"
)

// Resource is a protectable entity class.
type Resource string

const (
	ResourceUsers       Resource = "users"
	ResourceProducts    Resource = "products"
	ResourceOrders      Resource = "orders"
	ResourceInvitations Resource = "invitations"
)

// Action is the operation class a request falls into.
type Action string

const (
	ActionRead   Action = "read"   // list / retrieve
	ActionWrite  Action = "write"  // create
	ActionUpdate Action = "update" // partial or full modify
	ActionDelete Action = "delete"
)

// Row is the resolved permission set for one role on one resource.
type Row struct {
	Read   bool `json:"read"`
	Write  bool `json:"write"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}

func (p Row) allows(action Action) bool {
	switch action {
	case ActionRead:
		return p.Read
	case ActionWrite:
		return p.Write
	case ActionUpdate:
		return p.Update
	case ActionDelete:
		return p.Delete
	}
	return false
}

var full = Row{Read: true, Write: true, Update: true, Delete: true}

// table maps role -> resource -> permitted actions. Unknown role or resource
// defaults to deny.
var table = map[domain.Role]map[Resource]Row{
	domain.RoleAdmin: {
		ResourceUsers:       full,
		ResourceProducts:    full,
		ResourceOrders:      full,
		ResourceInvitations: full,
	},
	domain.RoleManager: {
		ResourceUsers:       {Read: true},
		ResourceProducts:    {Read: true, Update: true},
		ResourceOrders:      {Read: true},
		ResourceInvitations: {Read: true, Write: true, Update: true},
	},
	domain.RoleStaff: {
		ResourceUsers:       {},
		ResourceProducts:    {Read: true},
		ResourceOrders:      {},
		ResourceInvitations: {},
	},
}

// ErrForbidden reports that the policy denies the requested action.
var ErrForbidden = errors.New("policy: forbidden")

// Allowed reports whether role may perform action on resource. Anything the
// table does not know is denied.
func Allowed(role domain.Role, resource Resource, action Action) bool {
	row, ok := table[role]
	if !ok {
		return false
	}
	return row[resource].allows(action)
}

// AllowedStrings is Allowed over raw strings, for wiring into middleware that
// does not import the domain package.
func AllowedStrings(role, resource, action string) bool {
	return Allowed(domain.Role(role), Resource(resource), Action(action))
}

// Authorize is the per-request gate: nil when role may perform action on
// resource, ErrForbidden otherwise. An empty role (anonymous) always denies.
// Object-level checks reduce to this same role-level decision; there is no
// per-object ownership rule in this system.
func Authorize(role domain.Role, resource Resource, action Action) error {
	if !Allowed(role, resource, action) {
		return ErrForbidden
	}
	return nil
}

// RowFor returns the resolved permission row for role, keyed by resource.
// Login encodes this into the permissions blob so clients can render UI
// without a second call.
func RowFor(role domain.Role) map[Resource]Row {
	src, ok := table[role]
	if !ok {
		return map[Resource]Row{}
	}
	out := make(map[Resource]Row, len(src))
	for res, row := range src {
		out[res] = row
	}
	return out
}
