package ports

import (
	"context"
	"time"

	"github.com/dailypage/journal-api/internal/core/domain"
)

// CreateEntryInput carries the data for a new entry. UserID is the
// authenticated principal, never taken from the request body.
type CreateEntryInput struct {
	UserID   string
	Content  string
	PromptID string
	Mood     string
}

// ListEntriesInput filters a user's entries. Date, when non-nil, restricts
// the result to one calendar day.
type ListEntriesInput struct {
	UserID string
	Date   *time.Time
}

// GetEntryInput identifies an entry together with the acting principal, so
// the service can enforce ownership (admins may read any entry).
type GetEntryInput struct {
	ID      string
	ActorID string
	Role    string
}

// UpdateEntryInput carries an entry update. Mood is replaced only when a
// non-empty value is supplied; an empty mood leaves the stored one intact.
type UpdateEntryInput struct {
	ID      string
	ActorID string
	Role    string
	Content string
	Mood    string
}

// DeleteEntryInput identifies the entry to delete and the acting principal.
type DeleteEntryInput struct {
	ID      string
	ActorID string
	Role    string
}

// EntryDetail is an entry with its prompt eagerly attached. User is only
// populated by Get.
type EntryDetail struct {
	Entry  *domain.Entry
	Prompt *domain.Prompt
	User   *domain.User
}

// EntryStats aggregates a user's journal. EntriesByMood buckets entries by
// mood label, with "unknown" for entries that carry none.
type EntryStats struct {
	TotalEntries         int64            `json:"total_entries"`
	TotalWords           int64            `json:"total_words"`
	AverageWordsPerEntry float64          `json:"average_words_per_entry"`
	EntriesByMood        map[string]int64 `json:"entries_by_mood"`
}

// EntryService defines the journal use cases. Create orchestrates the
// prompt catalog (mark-used) and the user service (streak update).
type EntryService interface {
	Create(ctx context.Context, in CreateEntryInput) (*EntryDetail, error)
	ListByUser(ctx context.Context, in ListEntriesInput) ([]*EntryDetail, error)
	Get(ctx context.Context, in GetEntryInput) (*EntryDetail, error)
	Update(ctx context.Context, in UpdateEntryInput) (*EntryDetail, error)
	Delete(ctx context.Context, in DeleteEntryInput) error
	Stats(ctx context.Context, userID string) (*EntryStats, error)
}
