package quiz

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the closed set of question variants.
type Kind string

const (
	KindTextChoice  Kind = "text_choice"
	KindTextInput   Kind = "text_input"
	KindPhotoChoice Kind = "photo_choice"
	KindPhotoInput  Kind = "photo_input"
)

// MatchMode controls how input answers are compared against the expected one.
type MatchMode string

const (
	MatchExact MatchMode = "exact"
	MatchFold  MatchMode = "fold" // case-insensitive
)

type Question struct {
	ID       string `json:"id"`
	Ordinal  int    `json:"ordinal"`
	Kind     Kind   `json:"kind"`
	Prompt   string `json:"prompt,omitempty"`
	PhotoKey string `json:"photo_key,omitempty"` // asset key for photo kinds

	// Choice kinds: ordered options, Correct indexes into Options.
	Options []string `json:"options,omitempty"`
	Correct int      `json:"correct"`

	// Input kinds: canonical expected answer and comparison mode.
	Expected string    `json:"expected,omitempty"`
	Match    MatchMode `json:"match,omitempty"`
}

func (q Question) IsChoice() bool {
	return q.Kind == KindTextChoice || q.Kind == KindPhotoChoice
}

func (q Question) IsInput() bool {
	return q.Kind == KindTextInput || q.Kind == KindPhotoInput
}

// Sanitized strips everything a student must not see.
func (q Question) Sanitized() Question {
	q.Correct = -1
	q.Expected = ""
	q.Match = ""
	return q
}

type Test struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	OwnerID   string     `json:"owner_id"`
	Questions []Question `json:"questions"`
	CreatedAt int64      `json:"created_at,omitempty"`
}

func (t Test) Len() int { return len(t.Questions) }

// Validate enforces the structural invariants a stored test must satisfy:
// non-empty contiguous question sequence, >=2 options with one in-range
// correct index for choice kinds, non-empty expected answer for input kinds.
func (t Test) Validate() error {
	if len(t.Questions) == 0 {
		return errors.New("quiz: test has no questions")
	}
	for i, q := range t.Questions {
		if q.Ordinal != i {
			return fmt.Errorf("quiz: question %d has ordinal %d, want %d", i, q.Ordinal, i)
		}
		switch q.Kind {
		case KindTextChoice, KindPhotoChoice:
			if len(q.Options) < 2 {
				return fmt.Errorf("quiz: question %q needs at least 2 options", q.ID)
			}
			if q.Correct < 0 || q.Correct >= len(q.Options) {
				return fmt.Errorf("quiz: question %q has correct index %d out of range", q.ID, q.Correct)
			}
		case KindTextInput, KindPhotoInput:
			if strings.TrimSpace(q.Expected) == "" {
				return fmt.Errorf("quiz: question %q has empty expected answer", q.ID)
			}
			if q.Match != MatchExact && q.Match != MatchFold {
				return fmt.Errorf("quiz: question %q has unknown match mode %q", q.ID, q.Match)
			}
		default:
			return fmt.Errorf("quiz: question %q has unknown kind %q", q.ID, q.Kind)
		}
		if (q.Kind == KindPhotoChoice || q.Kind == KindPhotoInput) && q.PhotoKey == "" {
			return fmt.Errorf("quiz: question %q is a photo kind without photo_key", q.ID)
		}
	}
	return nil
}

// Answer is one student submission for one question, in answer order.
type Answer struct {
	QuestionID string `json:"question_id"`
	Raw        string `json:"raw"`
	Skipped    bool   `json:"skipped,omitempty"`
}
