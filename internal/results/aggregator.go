package results

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/synapsnap/quizbot/internal/quiz"
)

// Cache is an optional read-through cache for per-test statistics,
// invalidated whenever a new result is appended. A nil Cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// EventSink receives a notification for every recorded result, so the
// transport layer can tell the test's owner. Delivery is best-effort and
// never fails the submission.
type EventSink interface {
	ResultRecorded(ctx context.Context, r Result) error
}

const statsTTL = 10 * time.Minute

type Aggregator struct {
	store Store
	cache Cache
	sink  EventSink
}

func NewAggregator(store Store, cache Cache, sink EventSink) *Aggregator {
	return &Aggregator{store: store, cache: cache, sink: sink}
}

// Finalize computes the Result for a completed session and appends it.
// Correctness is recomputed from the stored raw answers against the current
// question definitions; answer-time flags are never trusted.
func (a *Aggregator) Finalize(ctx context.Context, studentID string, t quiz.Test, answers []quiz.Answer, startedAt, completedAt int64) (Result, error) {
	byQuestion := make(map[string]quiz.Answer, len(answers))
	for _, ans := range answers {
		byQuestion[ans.QuestionID] = ans
	}

	r := Result{
		ID:          uuid.NewString(),
		TestID:      t.ID,
		StudentID:   studentID,
		Total:       t.Len(),
		PerQuestion: make([]QuestionResult, 0, t.Len()),
		StartedAt:   startedAt,
		CompletedAt: completedAt,
	}
	for _, q := range t.Questions {
		qr := QuestionResult{QuestionID: q.ID}
		if ans, ok := byQuestion[q.ID]; ok {
			qr.Skipped = ans.Skipped
			if !ans.Skipped {
				correct, err := quiz.Check(q, ans.Raw)
				if err != nil && !errors.Is(err, quiz.ErrInvalidAnswer) {
					return Result{}, err
				}
				qr.Correct = err == nil && correct
			}
		}
		if qr.Correct {
			r.Correct++
		}
		if qr.Skipped {
			r.Skipped++
		}
		r.PerQuestion = append(r.PerQuestion, qr)
	}
	if r.Total > 0 {
		r.Percent = float64(r.Correct) / float64(r.Total) * 100
	}

	if err := a.store.Append(ctx, r); err != nil {
		return Result{}, err
	}
	a.invalidate(ctx, t.ID)
	if a.sink != nil {
		if err := a.sink.ResultRecorded(ctx, r); err != nil {
			log.Printf("results: notify for %s: %v", r.ID, err)
		}
	}
	return r, nil
}

// StatisticsFor aggregates all recorded results for a test, on demand.
func (a *Aggregator) StatisticsFor(ctx context.Context, testID string) (Stats, error) {
	if a.cache != nil {
		if v, err := a.cache.Get(ctx, statsKey(testID)); err == nil && v != "" {
			var st Stats
			if json.Unmarshal([]byte(v), &st) == nil {
				return st, nil
			}
		}
	}

	list, err := a.store.ListByTest(ctx, testID, 0)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{TestID: testID, Attempts: len(list), PerQuestion: map[string]float64{}}
	if len(list) == 0 {
		return st, nil
	}
	var sum float64
	seen := map[string]int{}
	hits := map[string]int{}
	for _, r := range list {
		sum += r.Percent
		for _, qr := range r.PerQuestion {
			seen[qr.QuestionID]++
			if qr.Correct {
				hits[qr.QuestionID]++
			}
		}
	}
	st.Average = sum / float64(len(list))
	// Rate over appearances, so results recorded before a test was re-uploaded
	// with different questions still average sensibly.
	for id, n := range seen {
		st.PerQuestion[id] = float64(hits[id]) / float64(n)
	}

	if a.cache != nil {
		if buf, err := json.Marshal(st); err == nil {
			if err := a.cache.Set(ctx, statsKey(testID), string(buf), statsTTL); err != nil {
				log.Printf("results: cache stats for %s: %v", testID, err)
			}
		}
	}
	return st, nil
}

// ListByTest exposes recent result history, newest first.
func (a *Aggregator) ListByTest(ctx context.Context, testID string, limit int) ([]Result, error) {
	return a.store.ListByTest(ctx, testID, limit)
}

func (a *Aggregator) invalidate(ctx context.Context, testID string) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Delete(ctx, statsKey(testID)); err != nil {
		log.Printf("results: invalidate stats for %s: %v", testID, err)
	}
}

func statsKey(testID string) string { return "stats:" + testID }
