package ports

import (
	"context"

	"github.com/dailypage/journal-api/internal/core/domain"
)

// RegisterInput carries the data needed to create an account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	// Role defaults to domain.RoleUser when empty.
	Role string
}

// UserStats summarizes a user's writing activity.
type UserStats struct {
	Streak       int   `json:"streak"`
	TotalEntries int64 `json:"total_entries"`
	TotalWords   int64 `json:"total_words"`
}

// UserService defines account use cases: registration, authentication,
// lookups, the daily streak update, and per-user totals.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login authenticates by email and returns a signed JWT plus the user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateStreak applies the calendar-day streak rules for userID and
	// advances the last-entry day to today. Called once per successful entry
	// creation, never on update or delete.
	UpdateStreak(ctx context.Context, userID string) (*domain.User, error)
	Stats(ctx context.Context, userID string) (*UserStats, error)
}
