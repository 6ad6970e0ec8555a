package ports

import (
	"context"
	"time"

	"github.com/dailypage/journal-api/internal/core/domain"
)

// CreatePromptInput carries the data for a new prompt. ScheduledDate, when
// set, is normalized to midnight UTC by the service.
type CreatePromptInput struct {
	Text          string
	Category      string
	ScheduledDate *time.Time
}

// PromptService defines the prompt catalog use cases.
type PromptService interface {
	Create(ctx context.Context, in CreatePromptInput) (*domain.Prompt, error)
	// TodayPrompt applies the selection policy: the unused prompt scheduled
	// for today when one exists, otherwise a random unused prompt. Serving a
	// prompt never marks it used.
	TodayPrompt(ctx context.Context) (*domain.Prompt, error)
	RandomPrompt(ctx context.Context) (*domain.Prompt, error)
	FindByID(ctx context.Context, id string) (*domain.Prompt, error)
	MarkAsUsed(ctx context.Context, id string) (*domain.Prompt, error)
	// History returns used prompts, newest scheduled date first. A limit of
	// zero or less falls back to the default of 10.
	History(ctx context.Context, limit int64) ([]*domain.Prompt, error)
}
