package domain

import (
	"errors"
	"time"
)

var ErrPromptNotFound = errors.New("prompt not found")

// ErrNoPromptsAvailable means the unused-prompt pool is exhausted. Callers
// recover by creating new prompts; the API maps it to 404.
var ErrNoPromptsAvailable = errors.New("no unused prompts available")

// Prompt is a writing suggestion. ScheduledDate earmarks it for a specific
// calendar day (midnight UTC); IsUsed flips to true the first time an entry
// answers it and never reverts.
type Prompt struct {
	ID            string     `json:"id"`
	Text          string     `json:"text"`
	Category      string     `json:"category,omitempty"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	IsUsed        bool       `json:"is_used"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
