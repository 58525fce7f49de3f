package response

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/examforge/examforge/internal/db"
	"github.com/examforge/examforge/internal/quiz"
)

func testDB(t *testing.T) (*SQLStore, *quiz.SQLStore) {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return NewSQLStore(dbh), quiz.NewSQLStore(dbh)
}

func seedQuiz(t *testing.T, qs *quiz.SQLStore, id string) {
	t.Helper()
	passing := 70.0
	err := qs.Put(context.Background(), quiz.Quiz{
		ID:           id,
		OwnerID:      "author-1",
		Title:        "History 101",
		Status:       quiz.StatusPublished,
		PassingScore: &passing,
		CreatedAt:    1700000000,
		Questions: []quiz.Question{
			{ID: "q1", Type: quiz.TypeTrueFalse, Points: 5, CorrectAnswer: json.RawMessage(`true`)},
		},
	})
	if err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
}

func sampleAttempt(id, quizID, userID string) Attempt {
	passed := true
	return Attempt{
		ID:          id,
		QuizID:      quizID,
		UserID:      userID,
		Score:       5,
		TotalPoints: 5,
		Percentage:  100,
		Passed:      &passed,
		StartedAt:   1700000100,
		CompletedAt: 1700000200,
		Results: []Result{
			{ID: id + "-r1", QuestionID: "q1", Answer: json.RawMessage(`true`), Correct: true, Points: 5, TimeSpentSec: 12},
		},
	}
}

func TestSQLStore_CreateAndGet(t *testing.T) {
	rs, qs := testDB(t)
	seedQuiz(t, qs, "z1")
	ctx := context.Background()

	if err := rs.Create(ctx, sampleAttempt("a1", "z1", "u1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := rs.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Score != 5 || got.TotalPoints != 5 || got.Percentage != 100 {
		t.Fatalf("attempt = %+v", got)
	}
	if got.Passed == nil || !*got.Passed {
		t.Fatalf("passed = %v", got.Passed)
	}
	if len(got.Results) != 1 || got.Results[0].QuestionID != "q1" || got.Results[0].TimeSpentSec != 12 {
		t.Fatalf("results = %+v", got.Results)
	}
	if string(got.Results[0].Answer) != `true` {
		t.Fatalf("answer = %s", got.Results[0].Answer)
	}

	if _, err := rs.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing: %v", err)
	}
}

func TestSQLStore_CreateRollsBackOnFailure(t *testing.T) {
	rs, qs := testDB(t)
	seedQuiz(t, qs, "z1")
	ctx := context.Background()

	a := sampleAttempt("a1", "z1", "u1")
	// Duplicate result row id forces a primary key violation mid-transaction.
	a.Results = append(a.Results, a.Results[0])

	if err := rs.Create(ctx, a); err == nil {
		t.Fatal("want error from duplicate result id")
	}

	// The attempt row inserted earlier in the transaction must be gone.
	if _, err := rs.Get(ctx, "a1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("partial attempt survived rollback: %v", err)
	}
	n, err := rs.CountByQuizUser(ctx, "z1", "u1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("count = %d after rollback, want 0", n)
	}
}

func TestSQLStore_CountByQuizUser(t *testing.T) {
	rs, qs := testDB(t)
	seedQuiz(t, qs, "z1")
	seedQuiz(t, qs, "z2")
	ctx := context.Background()

	for i, pair := range []struct{ quiz, user string }{
		{"z1", "u1"}, {"z1", "u1"}, {"z1", "u2"}, {"z2", "u1"},
	} {
		a := sampleAttempt("a"+string(rune('0'+i)), pair.quiz, pair.user)
		if err := rs.Create(ctx, a); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	n, err := rs.CountByQuizUser(ctx, "z1", "u1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
}

func TestSQLStore_ListByUserJoinsQuizSummary(t *testing.T) {
	rs, qs := testDB(t)
	seedQuiz(t, qs, "z1")
	ctx := context.Background()

	a := sampleAttempt("a1", "z1", "u1")
	if err := rs.Create(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}
	b := sampleAttempt("a2", "z1", "u1")
	b.CompletedAt = a.CompletedAt + 60
	if err := rs.Create(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}

	items, err := rs.ListByUser(ctx, "u1", ListOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	// Most recent first.
	if items[0].ID != "a2" {
		t.Fatalf("order: %s first, want a2", items[0].ID)
	}
	it := items[0]
	if it.Quiz.ID != "z1" || it.Quiz.Title != "History 101" || it.Quiz.Status != quiz.StatusPublished {
		t.Fatalf("quiz summary = %+v", it.Quiz)
	}
	if it.Quiz.PassingScore == nil || *it.Quiz.PassingScore != 70 {
		t.Fatalf("passing score = %v", it.Quiz.PassingScore)
	}
	if it.Percentage != 100 {
		t.Fatalf("percentage = %v", it.Percentage)
	}
}

func TestSQLStore_ListByQuizPagination(t *testing.T) {
	rs, qs := testDB(t)
	seedQuiz(t, qs, "z1")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		a := sampleAttempt("a"+string(rune('0'+i)), "z1", "")
		a.GuestName = "guest"
		a.CompletedAt = int64(1700000200 + i)
		if err := rs.Create(ctx, a); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	page, err := rs.ListByQuiz(ctx, "z1", ListOpts{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 || page[0].ID != "a4" {
		t.Fatalf("page = %+v", page)
	}

	next, err := rs.ListByQuiz(ctx, "z1", ListOpts{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("list offset: %v", err)
	}
	if len(next) != 2 || next[0].ID != "a2" {
		t.Fatalf("next page = %+v", next)
	}
}
