package domain

import (
	"errors"
	"strings"
	"time"
)

// User is a console-managed user account.
type User struct {
	ID        string     `json:"id"`
	UserName  string     `json:"userName"`
	Email     string     `json:"email"`
	Role      string     `json:"role,omitempty"`
	Status    UserStatus `json:"status,omitempty"`
	CreatedAt time.Time  `json:"createdAt,omitzero"`
	UpdatedAt time.Time  `json:"updatedAt,omitzero"`
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// Validate validates the user before it is sent. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	u.Email = strings.TrimSpace(u.Email)
	if u.Email == "" {
		return errors.New("email is required")
	}
	if strings.TrimSpace(u.UserName) == "" {
		return errors.New("userName is required")
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return nil
}

// CreateUser is the payload for creating a user; Password is only ever sent, never stored.
type CreateUser struct {
	User
	Password string `json:"password,omitempty"`
}
