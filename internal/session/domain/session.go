package domain

import "encoding/json"

// User is the signed-in user as the console knows it.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
}

// UnmarshalJSON accepts the backend's userName spelling as well as username.
func (u *User) UnmarshalJSON(b []byte) error {
	var raw struct {
		Username string `json:"username"`
		UserName string `json:"userName"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	u.Username = raw.Username
	if u.Username == "" {
		u.Username = raw.UserName
	}
	u.Email, u.Role = raw.Email, raw.Role
	return nil
}

// Session is the client-side authentication state. Created on sign-in, destroyed on
// logout or session expiry (401).
type Session struct {
	BearerToken     string // empty when signed out
	IsAuthenticated bool
	CurrentUser     *User // nil when signed out or unknown
}
