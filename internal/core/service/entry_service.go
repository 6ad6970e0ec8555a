package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dailypage/journal-api/internal/api/metrics"
	"github.com/dailypage/journal-api/internal/core/domain"
	"github.com/dailypage/journal-api/internal/core/ports"
)

// EntryService implements the journal use cases. Entry creation orchestrates
// the prompt catalog (mark the prompt used) and the user service (streak
// update); everything else is per-entry CRUD plus stats aggregation.
type EntryService struct {
	repo    ports.EntryRepository
	users   ports.UserService
	prompts ports.PromptService
	log     zerolog.Logger
	now     func() time.Time // overridable in tests
}

func NewEntryService(repo ports.EntryRepository, users ports.UserService, prompts ports.PromptService, log zerolog.Logger) *EntryService {
	return &EntryService{
		repo:    repo,
		users:   users,
		prompts: prompts,
		log:     log,
		now:     time.Now,
	}
}

// countWords returns the number of maximal whitespace-delimited tokens in
// content. Empty or all-whitespace content counts as zero words.
func countWords(content string) int {
	return len(strings.Fields(content))
}

// Create resolves the user and prompt, persists the entry, then updates the
// user's streak. The order is load-bearing: the prompt is marked used and
// the entry saved before the streak is touched, so a failure in either
// leaves the streak unchanged. The entry save and the streak update are two
// separate writes, not a transaction; when the streak update fails the entry
// stays persisted and the error is surfaced to the caller.
func (s *EntryService) Create(ctx context.Context, in ports.CreateEntryInput) (*ports.EntryDetail, error) {
	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	prompt, err := s.prompts.MarkAsUsed(ctx, in.PromptID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	entry := &domain.Entry{
		Content:   in.Content,
		Date:      startOfDay(now),
		WordCount: countWords(in.Content),
		Mood:      in.Mood,
		UserID:    user.ID,
		PromptID:  prompt.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	saved, err := s.repo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	metrics.EntriesCreatedTotal.Inc()
	metrics.EntryWordCount.Observe(float64(saved.WordCount))
	s.log.Info().
		Str("entry_id", saved.ID).
		Str("user_id", user.ID).
		Int("word_count", saved.WordCount).
		Msg("entry created")

	if _, err := s.users.UpdateStreak(ctx, user.ID); err != nil {
		// The entry is already persisted; only the streak is stale now.
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("streak update failed after entry save")
		return nil, fmt.Errorf("update streak: %w", err)
	}

	return &ports.EntryDetail{Entry: saved, Prompt: prompt}, nil
}

func (s *EntryService) ListByUser(ctx context.Context, in ports.ListEntriesInput) ([]*ports.EntryDetail, error) {
	var day *time.Time
	if in.Date != nil {
		d := startOfDay(*in.Date)
		day = &d
	}

	entries, err := s.repo.FindByUser(ctx, in.UserID, day)
	if err != nil {
		return nil, err
	}

	return s.attachPrompts(ctx, entries), nil
}

func (s *EntryService) Get(ctx context.Context, in ports.GetEntryInput) (*ports.EntryDetail, error) {
	entry, err := s.authorized(ctx, in.ID, in.ActorID, in.Role)
	if err != nil {
		return nil, err
	}

	detail := &ports.EntryDetail{Entry: entry}
	if prompt, err := s.prompts.FindByID(ctx, entry.PromptID); err == nil {
		detail.Prompt = prompt
	}
	if user, err := s.users.FindByID(ctx, entry.UserID); err == nil {
		detail.User = user
	}
	return detail, nil
}

// Update replaces the content and recomputes the word count. Mood is only
// overwritten when a non-empty value arrives; omitting it keeps the stored
// mood rather than clearing it. The streak is never touched here.
func (s *EntryService) Update(ctx context.Context, in ports.UpdateEntryInput) (*ports.EntryDetail, error) {
	entry, err := s.authorized(ctx, in.ID, in.ActorID, in.Role)
	if err != nil {
		return nil, err
	}

	entry.Content = in.Content
	entry.WordCount = countWords(in.Content)
	if in.Mood != "" {
		entry.Mood = in.Mood
	}
	entry.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, entry)
	if err != nil {
		return nil, err
	}

	detail := &ports.EntryDetail{Entry: updated}
	if prompt, err := s.prompts.FindByID(ctx, updated.PromptID); err == nil {
		detail.Prompt = prompt
	}
	return detail, nil
}

func (s *EntryService) Delete(ctx context.Context, in ports.DeleteEntryInput) error {
	if _, err := s.authorized(ctx, in.ID, in.ActorID, in.Role); err != nil {
		return err
	}
	return s.repo.Delete(ctx, in.ID)
}

func (s *EntryService) Stats(ctx context.Context, userID string) (*ports.EntryStats, error) {
	entries, err := s.repo.FindByUser(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	stats := &ports.EntryStats{
		TotalEntries:  int64(len(entries)),
		EntriesByMood: make(map[string]int64),
	}
	for _, e := range entries {
		stats.TotalWords += int64(e.WordCount)
		mood := e.Mood
		if mood == "" {
			mood = "unknown"
		}
		stats.EntriesByMood[mood]++
	}
	if stats.TotalEntries > 0 {
		stats.AverageWordsPerEntry = float64(stats.TotalWords) / float64(stats.TotalEntries)
	}

	return stats, nil
}

// authorized loads an entry and verifies the actor may touch it: owners
// always, admins for any entry.
func (s *EntryService) authorized(ctx context.Context, id, actorID, role string) (*domain.Entry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != actorID && role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return entry, nil
}

// attachPrompts decorates entries with their prompts, resolving each prompt
// id once. A dangling prompt reference leaves Prompt nil rather than failing
// the whole listing.
func (s *EntryService) attachPrompts(ctx context.Context, entries []*domain.Entry) []*ports.EntryDetail {
	cache := make(map[string]*domain.Prompt)
	details := make([]*ports.EntryDetail, 0, len(entries))

	for _, e := range entries {
		detail := &ports.EntryDetail{Entry: e}
		if e.PromptID != "" {
			prompt, ok := cache[e.PromptID]
			if !ok {
				p, err := s.prompts.FindByID(ctx, e.PromptID)
				if err != nil {
					s.log.Debug().Str("prompt_id", e.PromptID).Msg("entry references missing prompt")
				} else {
					prompt = p
				}
				cache[e.PromptID] = prompt
			}
			detail.Prompt = prompt
		}
		details = append(details, detail)
	}

	return details
}
