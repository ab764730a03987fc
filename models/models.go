package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// RoleAdmin is the backend role name that unlocks the admin console.
const RoleAdmin = "Admin"

// SystemRoles are seeded by the backend and cannot be edited or deleted from the console.
var SystemRoles = []string{RoleAdmin, "General User", "Professional", "Business Owner"}

// IsSystemRole reports whether name is one of SystemRoles.
func IsSystemRole(name string) bool {
	for _, r := range SystemRoles {
		if r == name {
			return true
		}
	}
	return false
}

// Session is the server-held identity of a logged-in browser.
//
// Token is the backend bearer token. Stores persist it sealed; sessions handed to pages carry it in clear.
// RolesJSON is kept as raw text so a damaged row degrades to "no roles" instead of failing the request.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s" json:"-"`

	ID        string    `bun:"id,pk" json:"id"`
	Token     string    `bun:"token,notnull" json:"token"`
	UserID    string    `bun:"user_id,notnull" json:"user_id"`
	Email     string    `bun:"email,notnull" json:"email"`
	FirstName string    `bun:"first_name,notnull" json:"first_name"`
	LastName  string    `bun:"last_name,notnull" json:"last_name"`
	RolesJSON string    `bun:"roles_json,notnull" json:"roles_json"`
	ExpiresAt time.Time `bun:"expires_at,notnull" json:"expires_at"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Expired returns true when the session expiry time has passed.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsLoggedIn reports whether the session carries a bearer token.
func (s Session) IsLoggedIn() bool {
	return s.Token != ""
}

// IsAdmin reports whether the stored role list includes RoleAdmin.
func (s Session) IsAdmin() bool {
	return HasRole(s.Roles(), RoleAdmin)
}

// Roles decodes RolesJSON, returning an empty list when it is missing or malformed.
func (s Session) Roles() []string {
	if s.RolesJSON == "" {
		return []string{}
	}
	var roles []string
	if err := json.Unmarshal([]byte(s.RolesJSON), &roles); err != nil || roles == nil {
		return []string{}
	}
	return roles
}

// SetRoles stores roles as JSON.
func (s *Session) SetRoles(roles []string) {
	if roles == nil {
		roles = []string{}
	}
	b, _ := json.Marshal(roles)
	s.RolesJSON = string(b)
}

// CurrentUser is the identity view reconstructed from the session fields.
type CurrentUser struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
	Roles     []string
}

// CurrentUser reconstructs the identity stored on the session.
func (s Session) CurrentUser() CurrentUser {
	return CurrentUser{
		UserID:    s.UserID,
		Email:     s.Email,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Roles:     s.Roles(),
	}
}

// HasRole reports whether roles contains role.
func HasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// User is the read-only projection returned by the backend.
type User struct {
	UserID      int64    `json:"userId"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phoneNumber,omitempty"`
	Country     string   `json:"country"`
	Roles       []string `json:"roles"`
	CreatedAt   string   `json:"createdAt,omitempty"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Protected reports whether the user holds the admin role and must not be deleted from the console.
func (u User) Protected() bool {
	return HasRole(u.Roles, RoleAdmin)
}

// Role is a backend role definition.
type Role struct {
	RoleID      int64  `json:"roleId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UserCount   *int64 `json:"userCount,omitempty"`
}

// System reports whether the role is one of SystemRoles.
func (r Role) System() bool {
	return IsSystemRole(r.Name)
}

// LoginResult is the payload of a successful login.
type LoginResult struct {
	Token     string   `json:"token"`
	TokenType string   `json:"tokenType"`
	UserID    int64    `json:"userId"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

// AuditLog captures the actions performed through the console.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     string    `bun:"user_id,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
