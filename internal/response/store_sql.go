package response

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/examforge/examforge/internal/quiz"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// Create writes the attempt row, its result rows in order, and the final
// score fields in one transaction. The attempt row is inserted with zero
// score first and updated last, mirroring the shape of the submission
// flow: any failure rolls the whole attempt back.
func (s *SQLStore) Create(ctx context.Context, a Attempt) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `INSERT INTO responses
		(id,quiz_id,user_id,guest_name,guest_email,score,total_points,passed,started_at,completed_at)
		VALUES ($1,$2,$3,$4,$5,0,0,NULL,$6,$7)`,
		a.ID, a.QuizID, a.UserID, a.GuestName, a.GuestEmail, a.StartedAt, a.CompletedAt)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}

	for i, r := range a.Results {
		_, err = tx.ExecContext(ctx, `INSERT INTO question_responses
			(id,response_id,question_id,position,answer_json,correct,points,time_spent_sec)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			r.ID, a.ID, r.QuestionID, i, string(r.Answer), r.Correct, r.Points, r.TimeSpentSec)
		if err != nil {
			return fmt.Errorf("insert result %s: %w", r.QuestionID, err)
		}
	}

	var passed sql.NullBool
	if a.Passed != nil {
		passed = sql.NullBool{Bool: *a.Passed, Valid: true}
	}
	_, err = tx.ExecContext(ctx, `UPDATE responses SET score=$1, total_points=$2, passed=$3 WHERE id=$4`,
		a.Score, a.TotalPoints, passed, a.ID)
	if err != nil {
		return fmt.Errorf("finalize attempt: %w", err)
	}
	return tx.Commit()
}

func (s *SQLStore) Get(ctx context.Context, id string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,quiz_id,user_id,guest_name,guest_email,score,total_points,passed,started_at,completed_at
		FROM responses WHERE id=$1`, id)
	a, err := scanAttempt(row)
	if err != nil {
		return Attempt{}, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id,question_id,answer_json,correct,points,time_spent_sec
		FROM question_responses WHERE response_id=$1 ORDER BY position`, id)
	if err != nil {
		return Attempt{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			r      Result
			answer string
		)
		if err := rows.Scan(&r.ID, &r.QuestionID, &answer, &r.Correct, &r.Points, &r.TimeSpentSec); err != nil {
			return Attempt{}, err
		}
		r.Answer = json.RawMessage(answer)
		a.Results = append(a.Results, r)
	}
	return a, rows.Err()
}

func (s *SQLStore) ListByUser(ctx context.Context, userID string, opts ListOpts) ([]HistoryItem, error) {
	q := `SELECT r.id,r.quiz_id,r.user_id,r.guest_name,r.guest_email,r.score,r.total_points,r.passed,r.started_at,r.completed_at,
		q.title,q.status,q.passing_score,q.created_at
		FROM responses r JOIN quizzes q ON q.id = r.quiz_id
		WHERE r.user_id=$1`
	args := []any{userID}
	if opts.QuizID != "" {
		q += ` AND r.quiz_id=$2`
		args = append(args, opts.QuizID)
	}
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q += fmt.Sprintf(" ORDER BY r.completed_at DESC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []HistoryItem{}
	for rows.Next() {
		var (
			item    HistoryItem
			passed  sql.NullBool
			status  string
			passing sql.NullFloat64
		)
		if err := rows.Scan(&item.ID, &item.QuizID, &item.UserID, &item.GuestName, &item.GuestEmail,
			&item.Score, &item.TotalPoints, &passed, &item.StartedAt, &item.CompletedAt,
			&item.Quiz.Title, &status, &passing, &item.Quiz.CreatedAt); err != nil {
			return nil, err
		}
		if passed.Valid {
			v := passed.Bool
			item.Passed = &v
		}
		item.Quiz.ID = item.QuizID
		item.Quiz.Status = quiz.Status(status)
		if passing.Valid {
			v := passing.Float64
			item.Quiz.PassingScore = &v
		}
		if item.TotalPoints > 0 {
			item.Percentage = item.Score / item.TotalPoints * 100
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListByQuiz(ctx context.Context, quizID string, opts ListOpts) ([]Attempt, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id,quiz_id,user_id,guest_name,guest_email,score,total_points,passed,started_at,completed_at
		FROM responses WHERE quiz_id=$1 ORDER BY completed_at DESC LIMIT $2 OFFSET $3`,
		quizID, limit, opts.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Attempt{}
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) CountByQuizUser(ctx context.Context, quizID, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM responses WHERE quiz_id=$1 AND user_id=$2`,
		quizID, userID).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row rowScanner) (Attempt, error) {
	var (
		a      Attempt
		passed sql.NullBool
	)
	err := row.Scan(&a.ID, &a.QuizID, &a.UserID, &a.GuestName, &a.GuestEmail,
		&a.Score, &a.TotalPoints, &passed, &a.StartedAt, &a.CompletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrNotFound
		}
		return Attempt{}, err
	}
	if passed.Valid {
		v := passed.Bool
		a.Passed = &v
	}
	if a.TotalPoints > 0 {
		a.Percentage = a.Score / a.TotalPoints * 100
	}
	return a, nil
}
