package domain

import (
	"strings"
	"time"
)

// User is an account that owns projects.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser creates a user with a normalized email address.
func NewUser(id, email, passwordHash string, now time.Time) User {
	return User{
		ID:           id,
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}
}

// Identity returns the resolved identity for this user.
func (u User) Identity() Identity {
	return Identity{UserID: u.ID, Email: u.Email}
}

// Identity is what the core knows about the caller of a request.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
