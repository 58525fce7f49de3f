package response

import (
	"encoding/json"

	"github.com/examforge/examforge/internal/quiz"
)

// Attempt is one completed quiz submission. Attempts are written once,
// inside the submitting transaction, and never mutated afterwards.
type Attempt struct {
	ID     string `json:"id"`
	QuizID string `json:"quiz_id"`
	// UserID is empty for anonymous submissions; GuestName/GuestEmail may
	// then identify the respondent informally.
	UserID      string  `json:"user_id,omitempty"`
	GuestName   string  `json:"guest_name,omitempty"`
	GuestEmail  string  `json:"guest_email,omitempty"`
	Score       float64 `json:"score"`
	TotalPoints float64 `json:"total_points"`
	Percentage  float64 `json:"percentage"`
	Passed      *bool   `json:"is_passed,omitempty"`
	StartedAt   int64   `json:"started_at,omitempty"`
	CompletedAt int64   `json:"completed_at"`
	// Results are ordered as the answers were received.
	Results []Result `json:"results,omitempty"`
}

// Result is the graded record for one question within an attempt.
type Result struct {
	ID           string          `json:"id"`
	QuestionID   string          `json:"question_id"`
	Answer       json.RawMessage `json:"answer"`
	Correct      bool            `json:"correct"`
	Points       float64         `json:"points"`
	TimeSpentSec int             `json:"time_spent_sec,omitempty"`
}

// HistoryItem is an attempt with its quiz summary embedded, as served by
// the history endpoint.
type HistoryItem struct {
	Attempt
	Quiz quiz.Summary `json:"quiz"`
}
