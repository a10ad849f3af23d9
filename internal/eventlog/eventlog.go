package eventlog

import (
	"context"
	"database/sql"
	"time"
)

// Event is one append-only record in the event_log table. The transport
// adapter tails this log (or the queue fed from it) to notify teachers.
type Event struct {
	Offset    int64
	Type      string // e.g. result.recorded
	Key       string // natural key: result id
	DataJSON  string
	CreatedAt int64
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Append(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}
