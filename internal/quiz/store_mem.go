package quiz

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore backs tests and single-process dev runs.
type MemoryStore struct {
	mu      sync.RWMutex
	quizzes map[string]Quiz
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{quizzes: map[string]Quiz{}}
}

func (m *MemoryStore) Put(_ context.Context, z Quiz) error {
	if err := z.DecodeKeys(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[z.ID] = z
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	z, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, ErrNotFound
	}
	return z, nil
}

func (m *MemoryStore) List(_ context.Context, opts ListOpts) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Summary{}
	for _, z := range m.quizzes {
		if opts.OwnerID != "" && z.OwnerID != opts.OwnerID {
			continue
		}
		if opts.PublishedOnly && z.Status != StatusPublished {
			continue
		}
		out = append(out, Summary{
			ID: z.ID, Title: z.Title, Status: z.Status, OwnerID: z.OwnerID,
			QuestionCount: len(z.Questions), PassingScore: z.PassingScore,
			CreatedAt: z.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[id]; !ok {
		return ErrNotFound
	}
	delete(m.quizzes, id)
	return nil
}
