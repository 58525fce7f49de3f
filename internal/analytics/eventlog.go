// Package analytics appends domain events to the event_log table. The log
// is consumed by out-of-process reporting jobs; this side only writes.
package analytics

import (
	"context"
	"database/sql"
	"time"
)

const EventResponseSubmitted = "response.submitted"

type Event struct {
	Type     string
	Key      string // natural key, e.g. the attempt id
	DataJSON string
}

type Sink interface {
	Append(ctx context.Context, e Event) error
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}
