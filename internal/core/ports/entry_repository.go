package ports

import (
	"context"
	"time"

	"github.com/dailypage/journal-api/internal/core/domain"
)

// EntryRepository defines persistence operations for journal entries.
type EntryRepository interface {
	Create(ctx context.Context, entry *domain.Entry) (*domain.Entry, error)
	FindByID(ctx context.Context, id string) (*domain.Entry, error)
	// FindByUser returns the user's entries, newest date first. When day is
	// non-nil only entries written on that exact calendar day are returned.
	FindByUser(ctx context.Context, userID string, day *time.Time) ([]*domain.Entry, error)
	// Update persists content, word count and mood of an existing entry.
	Update(ctx context.Context, entry *domain.Entry) (*domain.Entry, error)
	Delete(ctx context.Context, id string) error
	// Totals returns the entry count and summed word count for a user.
	Totals(ctx context.Context, userID string) (entries int64, words int64, err error)
}
