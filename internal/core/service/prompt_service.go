package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/dailypage/journal-api/internal/api/metrics"
	"github.com/dailypage/journal-api/internal/core/domain"
	"github.com/dailypage/journal-api/internal/core/ports"
)

const defaultHistoryLimit = 10

// TodayPromptCache abstracts the prompt-of-the-day store (Redis). A cache
// miss is ("", nil); cache failures are never fatal to prompt selection.
type TodayPromptCache interface {
	TodayPromptID(ctx context.Context, day time.Time) (string, error)
	SetTodayPromptID(ctx context.Context, day time.Time, promptID string, ttl time.Duration) error
	Forget(ctx context.Context, day time.Time) error
}

// PromptService implements the prompt catalog: creation, the today/random
// selection policy, the one-way used transition, and history.
type PromptService struct {
	repo  ports.PromptRepository
	cache TodayPromptCache
	log   zerolog.Logger
	now   func() time.Time // overridable in tests
}

func NewPromptService(repo ports.PromptRepository, cache TodayPromptCache, log zerolog.Logger) *PromptService {
	return &PromptService{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

func (s *PromptService) Create(ctx context.Context, in ports.CreatePromptInput) (*domain.Prompt, error) {
	now := s.now().UTC()
	prompt := &domain.Prompt{
		Text:      in.Text,
		Category:  in.Category,
		IsUsed:    false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.ScheduledDate != nil {
		day := startOfDay(*in.ScheduledDate)
		prompt.ScheduledDate = &day
	}

	created, err := s.repo.Create(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("prompt_id", created.ID).Str("category", created.Category).Msg("prompt created")
	return created, nil
}

// TodayPrompt resolves the prompt of the day:
//
//  1. A cached id for today is honored while that prompt is still unused.
//  2. Otherwise the unused prompt scheduled for today, when one exists.
//  3. Otherwise a random unused prompt.
//
// Serving never marks the prompt used; that happens only when an entry
// answers it. The resolved id is cached until the next midnight.
func (s *PromptService) TodayPrompt(ctx context.Context) (*domain.Prompt, error) {
	today := startOfDay(s.now())

	if id := s.cachedTodayID(ctx, today); id != "" {
		prompt, err := s.repo.FindByID(ctx, id)
		if err == nil && !prompt.IsUsed {
			metrics.PromptsServedTotal.WithLabelValues("cache").Inc()
			return prompt, nil
		}
		// Stale cache entry: the prompt was used up or removed since it was
		// cached. Fall through and resolve again.
	}

	source := "scheduled"
	prompt, err := s.repo.FindScheduledUnused(ctx, today)
	if errors.Is(err, domain.ErrPromptNotFound) {
		source = "random"
		prompt, err = s.repo.FindRandomUnused(ctx)
	}
	if err != nil {
		return nil, err
	}

	s.cacheTodayID(ctx, today, prompt.ID)
	metrics.PromptsServedTotal.WithLabelValues(source).Inc()
	return prompt, nil
}

func (s *PromptService) RandomPrompt(ctx context.Context) (*domain.Prompt, error) {
	prompt, err := s.repo.FindRandomUnused(ctx)
	if err != nil {
		return nil, err
	}
	metrics.PromptsServedTotal.WithLabelValues("random").Inc()
	return prompt, nil
}

func (s *PromptService) FindByID(ctx context.Context, id string) (*domain.Prompt, error) {
	return s.repo.FindByID(ctx, id)
}

// MarkAsUsed flips is_used to true. The transition is one-way and
// idempotent: re-marking a used prompt just re-persists the flag.
func (s *PromptService) MarkAsUsed(ctx context.Context, id string) (*domain.Prompt, error) {
	prompt, err := s.repo.MarkUsed(ctx, id)
	if err != nil {
		return nil, err
	}

	// A used prompt must not be served again from the cache.
	today := startOfDay(s.now())
	if cached := s.cachedTodayID(ctx, today); cached == id {
		if err := s.cache.Forget(ctx, today); err != nil {
			s.log.Warn().Err(err).Msg("failed to drop prompt-of-day cache")
		}
	}

	return prompt, nil
}

func (s *PromptService) History(ctx context.Context, limit int64) ([]*domain.Prompt, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.repo.ListUsed(ctx, limit)
}

func (s *PromptService) cachedTodayID(ctx context.Context, day time.Time) string {
	if s.cache == nil {
		return ""
	}
	id, err := s.cache.TodayPromptID(ctx, day)
	if err != nil {
		s.log.Warn().Err(err).Msg("prompt-of-day cache read failed")
		return ""
	}
	return id
}

func (s *PromptService) cacheTodayID(ctx context.Context, day time.Time, id string) {
	if s.cache == nil {
		return
	}
	ttl := day.AddDate(0, 0, 1).Sub(s.now().UTC())
	if ttl <= 0 {
		return
	}
	if err := s.cache.SetTodayPromptID(ctx, day, id, ttl); err != nil {
		s.log.Warn().Err(err).Msg("prompt-of-day cache write failed")
	}
}
