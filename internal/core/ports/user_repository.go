package ports

import (
	"context"
	"time"

	"github.com/dailypage/journal-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrEmailTaken when the email
	// is already registered (unique index).
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateStreak persists a new streak value and last-entry day. The write
	// is conditional on the streak value the caller read (fromStreak); when a
	// concurrent update got there first the repository returns
	// domain.ErrStreakConflict.
	UpdateStreak(ctx context.Context, id string, fromStreak, toStreak int, lastEntryDate time.Time) (*domain.User, error)
}
