package models

import (
	"strings"
	"time"
)

// User is the identity entity. Email is the login identifier.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email" validate:"required,email,max=254"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name" validate:"max=32"`
	LastName     string     `json:"last_name" validate:"max=32"`
	FullName     string     `json:"full_name"` // generated by the database from first and last name
	IsActive     bool       `json:"is_active"`
	IsStaff      bool       `json:"is_staff"`
	IsSuperuser  bool       `json:"is_superuser"`
	DateJoined   time.Time  `json:"date_joined"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

func (u *User) String() string {
	return u.Email
}

// CanAccessAdmin reports whether the user may use the back office
func (u *User) CanAccessAdmin() bool {
	return u.IsActive && (u.IsStaff || u.IsSuperuser)
}

// Clean normalizes fields ahead of validation
func (u *User) Clean() {
	u.Email = NormalizeEmail(u.Email)
}

// NormalizeEmail lower-cases the domain part of an address and leaves the local part alone.
// Input without an @ is returned trimmed.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
