package results

// QuestionResult is one entry of the per-question correctness vector.
type QuestionResult struct {
	QuestionID string `json:"question_id"`
	Correct    bool   `json:"correct"`
	Skipped    bool   `json:"skipped,omitempty"`
}

// Result is the scored outcome of one completed session. Append-only:
// keyed by (student, test, completed_at), never overwritten.
type Result struct {
	ID          string           `json:"id"`
	TestID      string           `json:"test_id"`
	StudentID   string           `json:"student_id"`
	Correct     int              `json:"correct"`
	Total       int              `json:"total"`
	Skipped     int              `json:"skipped"`
	Percent     float64          `json:"percent"`
	PerQuestion []QuestionResult `json:"per_question"`
	StartedAt   int64            `json:"started_at"`
	CompletedAt int64            `json:"completed_at"`
}

// Stats aggregates all results recorded for one test.
type Stats struct {
	TestID      string             `json:"test_id"`
	Attempts    int                `json:"attempts"`
	Average     float64            `json:"average_score"`
	PerQuestion map[string]float64 `json:"per_question_correct_rate"`
}
