package quiz

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("quiz not found")

type ListOpts struct {
	// OwnerID scopes the listing to one author; empty lists everything the
	// viewer role allows.
	OwnerID string
	// PublishedOnly hides drafts and archived quizzes (respondent view).
	PublishedOnly bool
	Limit         int
	Offset        int
}

type Store interface {
	// Put inserts or replaces a quiz. Answer keys must decode; Put rejects
	// quizzes whose stored keys are malformed.
	Put(ctx context.Context, z Quiz) error
	// Get returns the full quiz including answer keys, decoded.
	Get(ctx context.Context, id string) (Quiz, error)
	List(ctx context.Context, opts ListOpts) ([]Summary, error)
	Delete(ctx context.Context, id string) error
}
