package session

import (
	"github.com/synapsnap/quizbot/internal/quiz"
)

// Status is the session lifecycle state. Completed and Abandoned are
// terminal; nothing transitions out of them except deletion.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// Session is one student's attempt at one test. At most one active session
// exists per student; the store is keyed by student id accordingly.
type Session struct {
	StudentID   string        `json:"student_id"`
	TestID      string        `json:"test_id"`
	Index       int           `json:"index"` // next question to answer
	Answers     []quiz.Answer `json:"answers"`
	Status      Status        `json:"status"`
	StartedAt   int64         `json:"started_at"`
	CompletedAt int64         `json:"completed_at,omitempty"`
}

func (s *Session) Active() bool { return s != nil && s.Status == StatusActive }

// Clone returns a deep copy so callers can mutate freely before Save.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Answers = make([]quiz.Answer, len(s.Answers))
	copy(c.Answers, s.Answers)
	return &c
}
