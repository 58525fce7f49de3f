package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLStore persists quizzes with questions serialized into a JSON column.
// Works against both the sqlite and postgres schemas in internal/db.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Put(ctx context.Context, z Quiz) error {
	if err := z.DecodeKeys(); err != nil {
		return fmt.Errorf("validate quiz %s: %w", z.ID, err)
	}
	qj, err := json.Marshal(z.Questions)
	if err != nil {
		return err
	}
	if z.CreatedAt == 0 {
		z.CreatedAt = time.Now().Unix()
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO quizzes
		(id,owner_id,title,status,passing_score,show_correct,password_hash,max_attempts,questions_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
		  title=EXCLUDED.title, status=EXCLUDED.status,
		  passing_score=EXCLUDED.passing_score, show_correct=EXCLUDED.show_correct,
		  password_hash=EXCLUDED.password_hash, max_attempts=EXCLUDED.max_attempts,
		  questions_json=EXCLUDED.questions_json`,
		z.ID, z.OwnerID, z.Title, string(z.Status), z.PassingScore, z.ShowCorrect,
		z.PasswordHash, z.MaxAttempts, string(qj), z.CreatedAt)
	return err
}

func (s *SQLStore) Get(ctx context.Context, id string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,owner_id,title,status,passing_score,show_correct,password_hash,max_attempts,questions_json,created_at
		FROM quizzes WHERE id=$1`, id)
	var (
		z       Quiz
		status  string
		passing sql.NullFloat64
		qjson   string
	)
	if err := row.Scan(&z.ID, &z.OwnerID, &z.Title, &status, &passing, &z.ShowCorrect,
		&z.PasswordHash, &z.MaxAttempts, &qjson, &z.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrNotFound
		}
		return Quiz{}, err
	}
	z.Status = Status(status)
	if passing.Valid {
		v := passing.Float64
		z.PassingScore = &v
	}
	if err := json.Unmarshal([]byte(qjson), &z.Questions); err != nil {
		return Quiz{}, fmt.Errorf("quiz %s: questions: %w", id, err)
	}
	if err := z.DecodeKeys(); err != nil {
		return Quiz{}, err
	}
	return z, nil
}

func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]Summary, error) {
	q := `SELECT id,owner_id,title,status,passing_score,questions_json,created_at FROM quizzes WHERE 1=1`
	args := []any{}
	n := 0
	if opts.OwnerID != "" {
		n++
		q += fmt.Sprintf(" AND owner_id=$%d", n)
		args = append(args, opts.OwnerID)
	}
	if opts.PublishedOnly {
		n++
		q += fmt.Sprintf(" AND status=$%d", n)
		args = append(args, string(StatusPublished))
	}
	q += " ORDER BY created_at DESC"
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	n++
	q += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)
	if opts.Offset > 0 {
		n++
		q += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var (
			sum     Summary
			status  string
			passing sql.NullFloat64
			qjson   string
		)
		if err := rows.Scan(&sum.ID, &sum.OwnerID, &sum.Title, &status, &passing, &qjson, &sum.CreatedAt); err != nil {
			return nil, err
		}
		sum.Status = Status(status)
		if passing.Valid {
			v := passing.Float64
			sum.PassingScore = &v
		}
		var qs []Question
		if err := json.Unmarshal([]byte(qjson), &qs); err == nil {
			sum.QuestionCount = len(qs)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
