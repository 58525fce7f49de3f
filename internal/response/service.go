package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/examforge/examforge/internal/analytics"
	"github.com/examforge/examforge/internal/cache"
	"github.com/examforge/examforge/internal/grading"
	"github.com/examforge/examforge/internal/quiz"
	"github.com/examforge/examforge/internal/ratelimit"
)

// Service runs the submission flow: eligibility checks, in-memory grading,
// atomic persistence, then best-effort cache invalidation and event
// logging.
type Service struct {
	quizzes quiz.Store
	store   Store
	limiter ratelimit.Limiter
	cache   cache.Invalidator
	events  analytics.Sink
	now     func() time.Time // test hook
}

func NewService(quizzes quiz.Store, store Store, limiter ratelimit.Limiter, inv cache.Invalidator, events analytics.Sink) *Service {
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}
	if inv == nil {
		inv = cache.Noop{}
	}
	return &Service{
		quizzes: quizzes,
		store:   store,
		limiter: limiter,
		cache:   inv,
		events:  events,
		now:     time.Now,
	}
}

type SubmitInput struct {
	QuizID string
	// UserID is the authenticated subject; empty means anonymous.
	UserID     string
	GuestName  string
	GuestEmail string
	Answers    []grading.Answer
	StartedAt  int64
}

// Submit validates eligibility, grades the answers and persists the
// attempt. Precondition failures return a sentinel error before any write
// happens; a persistence failure leaves no partial attempt behind. The
// returned flag reports whether the quiz reveals per-question correctness
// to the respondent.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Attempt, bool, error) {
	z, err := s.quizzes.Get(ctx, in.QuizID)
	if err != nil {
		if errors.Is(err, quiz.ErrNotFound) {
			return Attempt{}, false, ErrQuizNotFound
		}
		return Attempt{}, false, fmt.Errorf("load quiz: %w", err)
	}
	if z.Status != quiz.StatusPublished {
		// Unpublished quizzes are invisible to respondents.
		return Attempt{}, false, ErrQuizNotFound
	}

	if z.PasswordHash != "" && in.UserID == "" {
		return Attempt{}, false, ErrAuthRequired
	}

	if z.MaxAttempts > 0 && in.UserID != "" {
		// Count-then-insert: two racing submissions can both pass this
		// check and exceed the cap by one. Accepted at current traffic.
		n, err := s.store.CountByQuizUser(ctx, in.QuizID, in.UserID)
		if err != nil {
			return Attempt{}, false, fmt.Errorf("count attempts: %w", err)
		}
		if n >= z.MaxAttempts {
			return Attempt{}, false, ErrAttemptLimit
		}
	}

	if in.UserID == "" {
		ok, err := s.limiter.Allow(ctx, "ratelimit:submit:"+in.QuizID)
		if err != nil {
			return Attempt{}, false, fmt.Errorf("rate limit: %w", err)
		}
		if !ok {
			return Attempt{}, false, ErrThrottled
		}
	}

	sum := grading.Aggregate(&z, in.Answers)

	now := s.now().Unix()
	startedAt := in.StartedAt
	if startedAt == 0 {
		startedAt = now
	}
	a := Attempt{
		ID:          uuid.NewString(),
		QuizID:      in.QuizID,
		UserID:      in.UserID,
		GuestName:   in.GuestName,
		GuestEmail:  in.GuestEmail,
		Score:       sum.Score,
		TotalPoints: sum.TotalPoints,
		Percentage:  sum.Percentage,
		Passed:      sum.Passed,
		StartedAt:   startedAt,
		CompletedAt: now,
	}
	for _, r := range sum.Results {
		a.Results = append(a.Results, Result{
			ID:           uuid.NewString(),
			QuestionID:   r.QuestionID,
			Answer:       r.Answer,
			Correct:      r.Correct,
			Points:       r.Points,
			TimeSpentSec: r.TimeSpentSec,
		})
	}

	if err := s.store.Create(ctx, a); err != nil {
		return Attempt{}, false, fmt.Errorf("persist attempt: %w", err)
	}

	s.afterSubmit(ctx, a)
	return a, z.ShowCorrect, nil
}

// afterSubmit invalidates cached views and records the analytics event.
// Both are best-effort: the attempt is already committed and a cache or
// log hiccup must not fail the submission.
func (s *Service) afterSubmit(ctx context.Context, a Attempt) {
	keys := []string{cache.QuizKey(a.QuizID)}
	if a.UserID != "" {
		keys = append(keys, cache.UserKey(a.UserID))
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		log.Printf("cache invalidate %s: %v", a.QuizID, err)
	}

	if s.events != nil {
		data, _ := json.Marshal(map[string]any{
			"quiz_id":      a.QuizID,
			"user_id":      a.UserID,
			"score":        a.Score,
			"total_points": a.TotalPoints,
		})
		if err := s.events.Append(ctx, analytics.Event{
			Type:     analytics.EventResponseSubmitted,
			Key:      a.ID,
			DataJSON: string(data),
		}); err != nil {
			log.Printf("event append %s: %v", a.ID, err)
		}
	}
}

// History returns the caller's own past attempts with quiz summaries.
func (s *Service) History(ctx context.Context, userID string, opts ListOpts) ([]HistoryItem, error) {
	return s.store.ListByUser(ctx, userID, opts)
}

// ListByQuiz serves the author/analytics view of all attempts on a quiz.
func (s *Service) ListByQuiz(ctx context.Context, quizID string, opts ListOpts) ([]Attempt, error) {
	return s.store.ListByQuiz(ctx, quizID, opts)
}
