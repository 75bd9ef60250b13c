package domain

import "time"

// Role is fixed when the account is created.
type Role string

const (
	RoleCustomer     Role = "CUSTOMER"
	RoleSupportAgent Role = "SUPPORT_AGENT"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleSupportAgent
}

var rolePermissions = map[Role][]string{
	RoleCustomer: {
		"CREATE_TICKET",
		"VIEW_OWN_TICKETS",
		"UPDATE_TICKET_DESCRIPTION",
		"CLOSE_TICKET",
	},
	RoleSupportAgent: {
		"VIEW_ASSIGNED_TICKETS",
		"UPDATE_TICKET_STATUS",
		"UPDATE_TICKET_PRIORITY",
		"REASSIGN_TICKET",
	},
}

// Permissions returns the display-only capability labels for a role.
func (r Role) Permissions() []string {
	perms := rolePermissions[r]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// User is a customer or support agent account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
