package models

import "strings"

// User is the current user as reported by the auth backend after login
type User struct {
	ID        string   `json:"id" example:"ckx1a2b3c0000"`       // Backend identifier, numeric ids are kept as strings
	Email     string   `json:"email" example:"john@school.edu"`  // User's email address
	FirstName string   `json:"firstName,omitempty" example:"John"`
	LastName  string   `json:"lastName,omitempty" example:"Doe"`
	Name      string   `json:"name,omitempty"`                   // Full name when the backend sends a single field
	RoleType  RoleType `json:"roleType,omitempty" example:"STUDENT"`
}

// DisplayName returns the best human-readable name for the user
func (u *User) DisplayName() string {
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return full
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
