package domain

import "strings"

// Role selects which sections of the dashboard a user is shown.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleConsultant Role = "consultant"
	RoleUser       Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleConsultant, RoleUser:
		return true
	}
	return false
}

// ParseRole returns the role for a given label (case-insensitive).
func ParseRole(label string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(label)))
	return r, r.Valid()
}

// User is a stored account. Facility staff (RoleUser) are bound to one location.
type User struct {
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         Role       `json:"role" db:"role"`
	LocationID   FacilityID `json:"location_id" db:"location_id"`
}

// Session is the login response body.
type Session struct {
	Username   string     `json:"username"`
	Role       Role       `json:"role"`
	LocationID FacilityID `json:"location_id"`
}

// Session returns the public view of the account.
func (u User) Session() Session {
	return Session{Username: u.Username, Role: u.Role, LocationID: u.LocationID}
}
