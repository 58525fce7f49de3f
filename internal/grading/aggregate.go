package grading

import (
	"encoding/json"

	"github.com/examforge/examforge/internal/quiz"
)

// Answer is one submitted (question, value) pair in received order.
type Answer struct {
	QuestionID   string
	Raw          json.RawMessage
	TimeSpentSec int
}

// QuestionResult is the graded outcome for one answered question.
type QuestionResult struct {
	QuestionID   string
	Answer       json.RawMessage
	Correct      bool
	Points       float64
	TimeSpentSec int
}

// Summary is the attempt-level aggregate.
type Summary struct {
	Results     []QuestionResult
	Score       float64
	TotalPoints float64
	Percentage  float64
	// Passed is nil when the quiz defines no passing score.
	Passed *bool
}

// Aggregate grades every submitted answer against the quiz. Pairs that
// reference a question id not in the quiz are skipped silently. Total
// possible points cover answered questions only, so an attempt that skips
// questions is scored against what it actually answered.
func Aggregate(z *quiz.Quiz, answers []Answer) Summary {
	var sum Summary
	for _, a := range answers {
		q := z.QuestionByID(a.QuestionID)
		if q == nil {
			continue
		}
		correct, points := Evaluate(q, a.Raw)
		sum.Results = append(sum.Results, QuestionResult{
			QuestionID:   a.QuestionID,
			Answer:       a.Raw,
			Correct:      correct,
			Points:       points,
			TimeSpentSec: a.TimeSpentSec,
		})
		sum.Score += points
		sum.TotalPoints += q.Points
	}

	if sum.TotalPoints > 0 {
		sum.Percentage = sum.Score / sum.TotalPoints * 100
	}
	if z.PassingScore != nil {
		passed := sum.Percentage >= *z.PassingScore
		sum.Passed = &passed
	}
	return sum
}
