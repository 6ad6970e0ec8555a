package ports

import (
	"context"
	"time"

	"github.com/dailypage/journal-api/internal/core/domain"
)

// PromptRepository defines persistence operations for writing prompts.
type PromptRepository interface {
	Create(ctx context.Context, prompt *domain.Prompt) (*domain.Prompt, error)
	FindByID(ctx context.Context, id string) (*domain.Prompt, error)
	// FindScheduledUnused returns the unused prompt scheduled for the given
	// day (midnight UTC), or domain.ErrPromptNotFound.
	FindScheduledUnused(ctx context.Context, day time.Time) (*domain.Prompt, error)
	// FindRandomUnused picks uniformly at random among unused prompts.
	// Returns domain.ErrNoPromptsAvailable when the pool is exhausted.
	FindRandomUnused(ctx context.Context) (*domain.Prompt, error)
	// MarkUsed sets is_used=true. Idempotent: re-marking an already used
	// prompt is not an error.
	MarkUsed(ctx context.Context, id string) (*domain.Prompt, error)
	// ListUsed returns used prompts ordered by scheduled date descending.
	ListUsed(ctx context.Context, limit int64) ([]*domain.Prompt, error)
}
