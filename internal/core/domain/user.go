package domain

import (
	"errors"
	"time"
)

// Roles assignable to an account. Regular journal users hold RoleUser;
// RoleAdmin additionally manages the prompt catalog.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidRole = errors.New("invalid role")

// ErrStreakConflict is returned when a streak write loses a race with a
// concurrent entry creation for the same user. The conflict surfaces to the
// caller; no retry is performed.
var ErrStreakConflict = errors.New("concurrent streak update")

// User models an account that writes journal entries. Streak counts
// consecutive calendar days (ending today) with at least one entry;
// LastEntryDate is the midnight-UTC day of the most recent streak-affecting
// entry, nil until the first entry is created.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Name          string     `json:"name"`
	Role          string     `json:"role"`
	Streak        int        `json:"streak"`
	LastEntryDate *time.Time `json:"last_entry_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
