package auth

// Package auth contains domain-level types for the admin authentication
// session. It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and serialization.
// Valid values are defined as constants below and mirror the backend enum.
type Role string

const (
	RoleAdmin          Role = "ADMIN"
	RoleManager        Role = "MANAGER"
	RoleEmployee       Role = "EMPLOYEE"
	RoleDeliveryPerson Role = "DELIVERY_PERSON"
)

// Valid reports whether the role is one of the known backend roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee, RoleDeliveryPerson:
		return true
	}
	return false
}

// User is the identity record returned by the authentication gateway
// and persisted alongside the token.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// Credentials carries a login attempt.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Grant is issued by the gateway on successful authentication.
// ExpiresIn is the token lifetime in seconds.
type Grant struct {
	Token     string `json:"token"`
	User      User   `json:"user"`
	ExpiresIn int64  `json:"expiresIn"`
}

// State is a read-only snapshot of the session published to the view tree.
// IsAuthenticated is true iff both User and Token are set and the last
// resolution succeeded. Loading is true while a login or validation is in
// flight.
type State struct {
	User            *User
	Token           string
	IsAuthenticated bool
	Loading         bool
}
