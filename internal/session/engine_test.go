package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/synapsnap/quizbot/internal/quiz"
	"github.com/synapsnap/quizbot/internal/results"
	"github.com/synapsnap/quizbot/internal/session"
)

func capitalsTest() quiz.Test {
	return quiz.Test{
		ID:      "t1",
		Title:   "Capitals",
		OwnerID: "teacher-1",
		Questions: []quiz.Question{
			{ID: "q0", Ordinal: 0, Kind: quiz.KindTextChoice, Prompt: "Pick one", Options: []string{"X", "Y"}, Correct: 1},
			{ID: "q1", Ordinal: 1, Kind: quiz.KindTextInput, Prompt: "The answer?", Expected: "42", Match: quiz.MatchExact},
		},
	}
}

type fixture struct {
	tests    quiz.Store
	sessions session.Store
	resStore results.Store
	agg      *results.Aggregator
	engine   *session.Engine
}

func newFixture(t *testing.T, tests ...quiz.Test) *fixture {
	t.Helper()
	f := &fixture{
		tests:    quiz.NewInMemoryStore(),
		sessions: session.NewInMemoryStore(),
		resStore: results.NewInMemoryStore(),
	}
	f.agg = results.NewAggregator(f.resStore, nil, nil)
	f.engine = session.NewEngine(f.tests, f.sessions, f.agg)
	for _, tc := range tests {
		if err := f.tests.PutTest(context.Background(), tc); err != nil {
			t.Fatalf("put test: %v", err)
		}
	}
	return f
}

func TestFullRunScoresHundredPercent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, capitalsTest())

	p, err := f.engine.Start(ctx, "s1", "t1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if p.Question.ID != "q0" || p.Position != 1 || p.Total != 2 {
		t.Fatalf("unexpected first prompt: %+v", p)
	}
	if p.Question.Correct != -1 || p.Question.Expected != "" {
		t.Fatalf("prompt leaked answer key: %+v", p.Question)
	}

	step, err := f.engine.Submit(ctx, "s1", "Y", false)
	if err != nil {
		t.Fatalf("submit q0: %v", err)
	}
	if step.Result != nil || step.Next == nil || step.Next.Question.ID != "q1" {
		t.Fatalf("expected next prompt q1, got %+v", step)
	}

	step, err = f.engine.Submit(ctx, "s1", "42", false)
	if err != nil {
		t.Fatalf("submit q1: %v", err)
	}
	if step.Result == nil {
		t.Fatalf("expected terminal result, got %+v", step)
	}
	r := step.Result
	if r.Correct != 2 || r.Total != 2 || r.Percent != 100 {
		t.Fatalf("want 2/2 (100%%), got %+v", r)
	}
	if len(r.PerQuestion) != 2 || !r.PerQuestion[0].Correct || !r.PerQuestion[1].Correct {
		t.Fatalf("unexpected per-question vector: %+v", r.PerQuestion)
	}
}

func TestStartWhileActiveFails(t *testing.T) {
	ctx := context.Background()
	second := capitalsTest()
	second.ID = "t2"
	f := newFixture(t, capitalsTest(), second)

	if _, err := f.engine.Start(ctx, "s1", "t1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.engine.Start(ctx, "s1", "t2"); !errors.Is(err, session.ErrSessionActive) {
		t.Fatalf("want ErrSessionActive, got %v", err)
	}
	// a different student is unaffected
	if _, err := f.engine.Start(ctx, "s2", "t2"); err != nil {
		t.Fatalf("start for s2: %v", err)
	}
}

func TestStartUnknownTest(t *testing.T) {
	f := newFixture(t)
	if _, err := f.engine.Start(context.Background(), "s1", "nope"); !errors.Is(err, quiz.ErrTestNotFound) {
		t.Fatalf("want ErrTestNotFound, got %v", err)
	}
}

func TestInvalidOptionLeavesSessionUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, capitalsTest())

	if _, err := f.engine.Start(ctx, "s1", "t1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.engine.Submit(ctx, "s1", "D", false); !errors.Is(err, quiz.ErrInvalidAnswer) {
		t.Fatalf("want ErrInvalidAnswer, got %v", err)
	}
	p, err := f.engine.Resume(ctx, "s1")
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if p.Question.ID != "q0" {
		t.Fatalf("index advanced on invalid option, now at %s", p.Question.ID)
	}

	// a wrong-but-valid option advances and scores incorrect
	step, err := f.engine.Submit(ctx, "s1", "X", false)
	if err != nil {
		t.Fatalf("submit valid wrong answer: %v", err)
	}
	if step.Next == nil || step.Next.Question.ID != "q1" {
		t.Fatalf("expected advance to q1, got %+v", step)
	}
	step, err = f.engine.Submit(ctx, "s1", "41", false)
	if err != nil {
		t.Fatalf("submit final: %v", err)
	}
	if step.Result == nil || step.Result.Correct != 0 {
		t.Fatalf("want 0 correct, got %+v", step.Result)
	}
}

func TestSubmitWithoutSession(t *testing.T) {
	f := newFixture(t, capitalsTest())
	if _, err := f.engine.Submit(context.Background(), "ghost", "Y", false); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("want ErrNoSession, got %v", err)
	}
}

func TestAbandonIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, capitalsTest())

	// no session at all: no-op, not an error
	if err := f.engine.Abandon(ctx, "s1"); err != nil {
		t.Fatalf("abandon without session: %v", err)
	}

	if _, err := f.engine.Start(ctx, "s1", "t1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := f.engine.Abandon(ctx, "s1"); err != nil {
		t.Fatalf("first abandon: %v", err)
	}
	if err := f.engine.Abandon(ctx, "s1"); err != nil {
		t.Fatalf("second abandon: %v", err)
	}
	if _, err := f.engine.Resume(ctx, "s1"); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("want ErrNoSession after abandon, got %v", err)
	}
	// abandoned sessions never produce a result
	list, err := f.resStore.ListByTest(ctx, "t1", 0)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("abandoned session produced a result: %+v", list)
	}
}

func TestResumeSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, capitalsTest())

	if _, err := f.engine.Start(ctx, "s1", "t1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.engine.Submit(ctx, "s1", "Y", false); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// restart: a fresh engine over the same stores must reconstruct state
	restarted := session.NewEngine(f.tests, f.sessions, f.agg)
	p, err := restarted.Resume(ctx, "s1")
	if err != nil {
		t.Fatalf("resume after restart: %v", err)
	}
	if p.Question.ID != "q1" || p.Position != 2 {
		t.Fatalf("want q1 at position 2, got %+v", p)
	}

	step, err := restarted.Submit(ctx, "s1", "42", false)
	if err != nil {
		t.Fatalf("submit after restart: %v", err)
	}
	if step.Result == nil || step.Result.Correct != 2 {
		t.Fatalf("pre-restart answer lost: %+v", step.Result)
	}
}

func TestSkipRecordsIncorrectAndAdvances(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, capitalsTest())

	if _, err := f.engine.Start(ctx, "s1", "t1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	step, err := f.engine.Submit(ctx, "s1", "", true)
	if err != nil {
		t.Fatalf("skip q0: %v", err)
	}
	if step.Next == nil || step.Next.Question.ID != "q1" {
		t.Fatalf("skip did not advance: %+v", step)
	}
	step, err = f.engine.Submit(ctx, "s1", "42", false)
	if err != nil {
		t.Fatalf("submit q1: %v", err)
	}
	r := step.Result
	if r == nil || r.Correct != 1 || r.Skipped != 1 {
		t.Fatalf("want 1 correct / 1 skipped, got %+v", r)
	}
	if !r.PerQuestion[0].Skipped || r.PerQuestion[0].Correct {
		t.Fatalf("skipped question graded wrong: %+v", r.PerQuestion[0])
	}
}

func TestRetakeAfterCompletion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, capitalsTest())

	run := func() {
		if _, err := f.engine.Start(ctx, "s1", "t1"); err != nil {
			t.Fatalf("start: %v", err)
		}
		if _, err := f.engine.Submit(ctx, "s1", "Y", false); err != nil {
			t.Fatalf("submit: %v", err)
		}
		if _, err := f.engine.Submit(ctx, "s1", "42", false); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	run()
	run()

	list, err := f.resStore.ListByTest(ctx, "t1", 0)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("retake history not retained, got %d results", len(list))
	}
}

// flakyStore fails the next Save, to check fail-closed behavior.
type flakyStore struct {
	session.Store
	failNextSave bool
}

func (f *flakyStore) Save(ctx context.Context, s *session.Session) error {
	if f.failNextSave {
		f.failNextSave = false
		return errors.New("disk on fire")
	}
	return f.Store.Save(ctx, s)
}

func TestSaveFailureFailsClosed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, capitalsTest())
	flaky := &flakyStore{Store: f.sessions}
	engine := session.NewEngine(f.tests, flaky, f.agg)

	if _, err := engine.Start(ctx, "s1", "t1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	flaky.failNextSave = true
	if _, err := engine.Submit(ctx, "s1", "Y", false); !errors.Is(err, session.ErrStoreUnavailable) {
		t.Fatalf("want ErrStoreUnavailable, got %v", err)
	}
	// the persisted session is unchanged: same question, no recorded answer
	p, err := engine.Resume(ctx, "s1")
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if p.Question.ID != "q0" {
		t.Fatalf("failed save mutated the session, now at %s", p.Question.ID)
	}
	// retry succeeds
	step, err := engine.Submit(ctx, "s1", "Y", false)
	if err != nil {
		t.Fatalf("retry submit: %v", err)
	}
	if step.Next == nil || step.Next.Question.ID != "q1" {
		t.Fatalf("retry did not advance: %+v", step)
	}
}
