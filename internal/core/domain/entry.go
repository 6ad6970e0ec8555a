package domain

import (
	"errors"
	"time"
)

var ErrEntryNotFound = errors.New("entry not found")
var ErrForbidden = errors.New("access forbidden")

// Entry is a single journal entry. Date is the calendar day of writing
// (midnight UTC, fixed at creation); WordCount is derived from Content and
// recomputed on every content change, never supplied by the caller.
type Entry struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Date      time.Time `json:"date"`
	WordCount int       `json:"word_count"`
	Mood      string    `json:"mood,omitempty"`
	UserID    string    `json:"user_id"`
	PromptID  string    `json:"prompt_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
