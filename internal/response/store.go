package response

import "context"

type ListOpts struct {
	QuizID string
	Limit  int
	Offset int
}

type Store interface {
	// Create persists an attempt with all its results atomically: either
	// the attempt, every result and the final score are visible, or
	// nothing is.
	Create(ctx context.Context, a Attempt) error
	Get(ctx context.Context, id string) (Attempt, error)
	// ListByUser returns the user's own attempts, newest first, with quiz
	// summaries attached.
	ListByUser(ctx context.Context, userID string, opts ListOpts) ([]HistoryItem, error)
	// ListByQuiz serves author/analytics views of all attempts on a quiz.
	ListByQuiz(ctx context.Context, quizID string, opts ListOpts) ([]Attempt, error)
	// CountByQuizUser counts prior attempts for the max-attempts check.
	CountByQuizUser(ctx context.Context, quizID, userID string) (int, error)
}
