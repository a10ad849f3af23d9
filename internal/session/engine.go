package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/synapsnap/quizbot/internal/quiz"
	"github.com/synapsnap/quizbot/internal/results"
)

var (
	// ErrSessionActive: the student already has an active session for some
	// test. One quiz at a time; finish or abandon it first.
	ErrSessionActive = errors.New("session: another test already in progress")
	// ErrNoSession: the operation needs an active session and there is none.
	ErrNoSession = errors.New("session: no active session")
	// ErrStoreUnavailable wraps storage failures. The operation applied no
	// partial mutation and is safe to retry.
	ErrStoreUnavailable = errors.New("session: store unavailable")
)

// Aggregator consumes a completed session's answers and produces the Result.
type Aggregator interface {
	Finalize(ctx context.Context, studentID string, t quiz.Test, answers []quiz.Answer, startedAt, completedAt int64) (results.Result, error)
}

// Prompt is the question to present next, with progress for rendering.
type Prompt struct {
	Question quiz.Question `json:"question"`
	Position int           `json:"position"` // 1-based
	Total    int           `json:"total"`
}

// Step is the outcome of one answer submission: the next prompt, or the
// final result when the submission completed the session.
type Step struct {
	Next   *Prompt         `json:"next,omitempty"`
	Result *results.Result `json:"result,omitempty"`
}

// Engine drives students through tests. All operations for one student run
// strictly sequentially under a per-student lock; different students are
// independent.
type Engine struct {
	tests quiz.Store
	store Store
	agg   Aggregator

	// Retain keeps finished sessions in the store for audit instead of
	// deleting them once the aggregator has consumed them.
	retain bool

	now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type Option func(*Engine)

func WithRetainFinished(b bool) Option { return func(e *Engine) { e.retain = b } }

func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

func NewEngine(tests quiz.Store, store Store, agg Aggregator, opts ...Option) *Engine {
	e := &Engine{
		tests: tests,
		store: store,
		agg:   agg,
		now:   time.Now,
		locks: map[string]*sync.Mutex{},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) studentLock(studentID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[studentID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[studentID] = l
	}
	return l
}

// Start creates an active session at question 0 and returns the first prompt.
func (e *Engine) Start(ctx context.Context, studentID, testID string) (*Prompt, error) {
	l := e.studentLock(studentID)
	l.Lock()
	defer l.Unlock()

	cur, err := e.store.Load(ctx, studentID)
	if err != nil {
		return nil, storeErr(err)
	}
	if cur.Active() {
		return nil, ErrSessionActive
	}
	t, err := e.tests.GetTestFull(ctx, testID)
	if err != nil {
		if errors.Is(err, quiz.ErrTestNotFound) {
			return nil, err
		}
		return nil, storeErr(err)
	}
	sess := &Session{
		StudentID: studentID,
		TestID:    testID,
		Index:     0,
		Answers:   []quiz.Answer{},
		Status:    StatusActive,
		StartedAt: e.now().Unix(),
	}
	if err := e.store.Save(ctx, sess); err != nil {
		return nil, storeErr(err)
	}
	return prompt(t, 0), nil
}

// Submit validates the answer to the current question, records it and
// advances. skip records an unanswered entry instead of validating raw.
// On quiz.ErrInvalidAnswer the session is left untouched so the caller can
// re-prompt the same question.
func (e *Engine) Submit(ctx context.Context, studentID, raw string, skip bool) (*Step, error) {
	l := e.studentLock(studentID)
	l.Lock()
	defer l.Unlock()

	sess, err := e.store.Load(ctx, studentID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !sess.Active() {
		return nil, ErrNoSession
	}
	t, err := e.tests.GetTestFull(ctx, sess.TestID)
	if err != nil {
		if errors.Is(err, quiz.ErrTestNotFound) {
			return nil, err
		}
		return nil, storeErr(err)
	}
	if sess.Index >= t.Len() {
		// defensive: a session past its last question should have completed
		return nil, fmt.Errorf("session: index %d out of range for test %s", sess.Index, t.ID)
	}
	q := t.Questions[sess.Index]
	if !skip {
		if _, err := quiz.Check(q, raw); err != nil {
			return nil, err
		}
	}

	sess.Answers = append(sess.Answers, quiz.Answer{QuestionID: q.ID, Raw: raw, Skipped: skip})
	sess.Index++

	if sess.Index < t.Len() {
		if err := e.store.Save(ctx, sess); err != nil {
			return nil, storeErr(err)
		}
		return &Step{Next: prompt(t, sess.Index)}, nil
	}

	sess.Status = StatusCompleted
	sess.CompletedAt = e.now().Unix()
	res, err := e.agg.Finalize(ctx, studentID, t, sess.Answers, sess.StartedAt, sess.CompletedAt)
	if err != nil {
		// fail closed: the stored session is still at the previous question
		return nil, storeErr(err)
	}
	if err := e.finish(ctx, sess); err != nil {
		return nil, storeErr(err)
	}
	return &Step{Result: &res}, nil
}

// Abandon moves an active session to Abandoned without producing a result.
// Idempotent: with no active session it is a no-op.
func (e *Engine) Abandon(ctx context.Context, studentID string) error {
	l := e.studentLock(studentID)
	l.Lock()
	defer l.Unlock()

	sess, err := e.store.Load(ctx, studentID)
	if err != nil {
		return storeErr(err)
	}
	if !sess.Active() {
		return nil
	}
	sess.Status = StatusAbandoned
	if err := e.finish(ctx, sess); err != nil {
		return storeErr(err)
	}
	return nil
}

// Resume returns the current question of the student's active session,
// reconstructed entirely from the store.
func (e *Engine) Resume(ctx context.Context, studentID string) (*Prompt, error) {
	l := e.studentLock(studentID)
	l.Lock()
	defer l.Unlock()

	sess, err := e.store.Load(ctx, studentID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !sess.Active() {
		return nil, ErrNoSession
	}
	t, err := e.tests.GetTestFull(ctx, sess.TestID)
	if err != nil {
		if errors.Is(err, quiz.ErrTestNotFound) {
			return nil, err
		}
		return nil, storeErr(err)
	}
	return prompt(t, sess.Index), nil
}

func (e *Engine) finish(ctx context.Context, sess *Session) error {
	if e.retain {
		return e.store.Save(ctx, sess)
	}
	return e.store.Delete(ctx, sess.StudentID)
}

func prompt(t quiz.Test, idx int) *Prompt {
	return &Prompt{
		Question: t.Questions[idx].Sanitized(),
		Position: idx + 1,
		Total:    t.Len(),
	}
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
