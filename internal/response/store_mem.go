package response

import (
	"context"
	"sort"
	"sync"

	"github.com/examforge/examforge/internal/quiz"
)

// MemoryStore backs tests. Quiz summaries for history items are looked up
// from an optional quiz store.
type MemoryStore struct {
	mu       sync.RWMutex
	attempts map[string]Attempt
	quizzes  quiz.Store
}

func NewMemoryStore(quizzes quiz.Store) *MemoryStore {
	return &MemoryStore{attempts: map[string]Attempt{}, quizzes: quizzes}
}

func (m *MemoryStore) Create(_ context.Context, a Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[a.ID] = a
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[id]
	if !ok {
		return Attempt{}, ErrNotFound
	}
	return a, nil
}

func (m *MemoryStore) ListByUser(ctx context.Context, userID string, opts ListOpts) ([]HistoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []HistoryItem{}
	for _, a := range m.attempts {
		if a.UserID != userID {
			continue
		}
		if opts.QuizID != "" && a.QuizID != opts.QuizID {
			continue
		}
		item := HistoryItem{Attempt: a}
		if m.quizzes != nil {
			if z, err := m.quizzes.Get(ctx, a.QuizID); err == nil {
				item.Quiz = quiz.Summary{
					ID: z.ID, Title: z.Title, Status: z.Status,
					QuestionCount: len(z.Questions), PassingScore: z.PassingScore,
					CreatedAt: z.CreatedAt,
				}
			}
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt > out[j].CompletedAt })
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *MemoryStore) ListByQuiz(_ context.Context, quizID string, opts ListOpts) ([]Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Attempt{}
	for _, a := range m.attempts {
		if a.QuizID == quizID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt > out[j].CompletedAt })
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *MemoryStore) CountByQuizUser(_ context.Context, quizID, userID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, a := range m.attempts {
		if a.QuizID == quizID && a.UserID == userID {
			n++
		}
	}
	return n, nil
}
