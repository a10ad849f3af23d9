package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/synapsnap/quizbot/internal/quiz"
)

// SQLStore persists sessions in the sessions table, one row per student
// (student_id is the primary key). Save upserts the full row, giving the
// last-write-wins full-replace semantics Store requires; database/sql
// commits synchronously, so a returned nil means the row is durable.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Load(ctx context.Context, studentID string) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT student_id, test_id, idx, status, answers_json, started_at, COALESCE(completed_at, 0)
		 FROM sessions WHERE student_id=$1`, studentID)
	var sess Session
	var ajson string
	if err := row.Scan(&sess.StudentID, &sess.TestID, &sess.Index, &sess.Status,
		&ajson, &sess.StartedAt, &sess.CompletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("session: load %s: %w", studentID, err)
	}
	if err := json.Unmarshal([]byte(ajson), &sess.Answers); err != nil {
		return nil, fmt.Errorf("session: decode answers for %s: %w", studentID, err)
	}
	if sess.Answers == nil {
		sess.Answers = []quiz.Answer{}
	}
	return &sess, nil
}

func (s *SQLStore) Save(ctx context.Context, sess *Session) error {
	aj, err := json.Marshal(sess.Answers)
	if err != nil {
		return fmt.Errorf("session: encode answers for %s: %w", sess.StudentID, err)
	}
	var completed interface{}
	if sess.CompletedAt != 0 {
		completed = sess.CompletedAt
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO sessions (student_id, test_id, idx, status, answers_json, started_at, completed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (student_id) DO UPDATE SET
			test_id=EXCLUDED.test_id, idx=EXCLUDED.idx, status=EXCLUDED.status,
			answers_json=EXCLUDED.answers_json, started_at=EXCLUDED.started_at,
			completed_at=EXCLUDED.completed_at`,
		sess.StudentID, sess.TestID, sess.Index, string(sess.Status), string(aj), sess.StartedAt, completed)
	if err != nil {
		return fmt.Errorf("session: save %s: %w", sess.StudentID, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, studentID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE student_id=$1`, studentID); err != nil {
		return fmt.Errorf("session: delete %s: %w", studentID, err)
	}
	return nil
}
