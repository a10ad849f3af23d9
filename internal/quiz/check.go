package quiz

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAnswer marks a submission that is not well-formed for the
// question: an option outside the defined set, or empty/whitespace input.
// The caller re-prompts; this is never an "incorrect" grade.
var ErrInvalidAnswer = errors.New("quiz: invalid answer")

// checker validates and scores one question kind.
type checker interface {
	Check(q Question, raw string) (bool, error)
}

var checkers = map[Kind]checker{
	KindTextChoice:  choiceChecker{},
	KindPhotoChoice: choiceChecker{},
	KindTextInput:   inputChecker{},
	KindPhotoInput:  inputChecker{},
}

// Check reports whether raw answers q correctly. It is a pure function over
// the supplied data; ErrInvalidAnswer means raw must be rejected without
// advancing the session.
func Check(q Question, raw string) (bool, error) {
	c, ok := checkers[q.Kind]
	if !ok {
		return false, fmt.Errorf("quiz: no checker for kind %q", q.Kind)
	}
	return c.Check(q, raw)
}

type choiceChecker struct{}

func (choiceChecker) Check(q Question, raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	for i, opt := range q.Options {
		if raw == opt {
			return i == q.Correct, nil
		}
	}
	return false, ErrInvalidAnswer
}

type inputChecker struct{}

func (inputChecker) Check(q Question, raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, ErrInvalidAnswer
	}
	want := strings.TrimSpace(q.Expected)
	if q.Match == MatchFold {
		return strings.EqualFold(raw, want), nil
	}
	return raw == want, nil
}
