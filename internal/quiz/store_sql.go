package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLStore keeps test definitions in the tests table; the question sequence
// is stored as a JSON column, matching the session and result stores.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutTest(ctx context.Context, t Test) error {
	if err := t.Validate(); err != nil {
		return err
	}
	qj, err := json.Marshal(t.Questions)
	if err != nil {
		return err
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().Unix()
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO tests (id, title, owner_id, questions_json, created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, owner_id=EXCLUDED.owner_id, questions_json=EXCLUDED.questions_json`,
		t.ID, t.Title, t.OwnerID, string(qj), t.CreatedAt)
	if err != nil {
		return fmt.Errorf("quiz: put test %s: %w", t.ID, err)
	}
	return nil
}

func (s *SQLStore) GetTest(ctx context.Context, id string) (Test, error) {
	t, err := s.GetTestFull(ctx, id)
	if err != nil {
		return Test{}, err
	}
	for i := range t.Questions {
		t.Questions[i] = t.Questions[i].Sanitized()
	}
	return t, nil
}

func (s *SQLStore) GetTestFull(ctx context.Context, id string) (Test, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, owner_id, questions_json, created_at FROM tests WHERE id=$1`, id)
	var t Test
	var qjson string
	if err := row.Scan(&t.ID, &t.Title, &t.OwnerID, &qjson, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Test{}, ErrTestNotFound
		}
		return Test{}, fmt.Errorf("quiz: get test %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(qjson), &t.Questions); err != nil {
		return Test{}, fmt.Errorf("quiz: decode questions for %s: %w", id, err)
	}
	return t, nil
}
