package domain

import (
	"errors"
	"strings"
	"time"
)

// Role is a named set of permissions assignable to users.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Permissions []string  `json:"permissions,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
}

// Built-in role names. The route guard policy keys on these.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

// BuiltIn reports whether name is one of the roles every workspace has.
func BuiltIn(name string) bool {
	switch strings.ToLower(name) {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

func (r *Role) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required")
	}
	for _, p := range r.Permissions {
		if strings.TrimSpace(p) == "" {
			return errors.New("permissions must not contain empty entries")
		}
	}
	return nil
}
