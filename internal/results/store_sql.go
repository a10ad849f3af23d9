package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Append(ctx context.Context, r Result) error {
	pj, err := json.Marshal(r.PerQuestion)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO results
		(id, test_id, student_id, correct, total, skipped, percent, per_question_json, started_at, completed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		r.ID, r.TestID, r.StudentID, r.Correct, r.Total, r.Skipped, r.Percent, string(pj), r.StartedAt, r.CompletedAt)
	if err != nil {
		return fmt.Errorf("results: append %s: %w", r.ID, err)
	}
	return nil
}

func (s *SQLStore) ListByTest(ctx context.Context, testID string, limit int) ([]Result, error) {
	q := `SELECT id, test_id, student_id, correct, total, skipped, percent, per_question_json, started_at, completed_at
		FROM results WHERE test_id=$1 ORDER BY completed_at DESC`
	args := []interface{}{testID}
	if limit > 0 {
		q += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("results: list for %s: %w", testID, err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		var pjson string
		if err := rows.Scan(&r.ID, &r.TestID, &r.StudentID, &r.Correct, &r.Total, &r.Skipped,
			&r.Percent, &pjson, &r.StartedAt, &r.CompletedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(pjson), &r.PerQuestion); err != nil {
			return nil, fmt.Errorf("results: decode vector for %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
