package models

import (
	"encoding/json"
	"strings"
)

// Role is the access level attached to a session
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// SessionContext carries the authenticated identity for the lifetime of the
// dashboard. It is handed to the controller at construction instead of being
// looked up ambiently, restored from the local store on startup and cleared
// on logout.
type SessionContext struct {
	Username string `json:"username"`
	Token    string `json:"session_token"`
	Role     Role   `json:"role"`
}

// Authenticated reports whether a user is signed in
func (s SessionContext) Authenticated() bool {
	return s.Username != ""
}

// IsAdmin reports whether the session carries the admin role
func (s SessionContext) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// LegacyAdminUsername reports whether the username alone matches the
// original backend's admin convention. This is a trusted-client shortcut
// kept only as a fallback for tokens that carry no role claim.
func LegacyAdminUsername(username string) bool {
	return strings.EqualFold(username, "admin")
}

// ToJSON serializes the session for local storage
func (s SessionContext) ToJSON() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FromJSON loads the session from its stored form
func (s *SessionContext) FromJSON(jsonStr string) error {
	return json.Unmarshal([]byte(jsonStr), s)
}
