package quiz

import (
	"errors"
	"testing"
)

func TestCheckChoice(t *testing.T) {
	q := Question{
		ID:      "q0",
		Kind:    KindTextChoice,
		Options: []string{"A", "B", "C"},
		Correct: 1,
	}
	cases := []struct {
		name    string
		raw     string
		correct bool
		invalid bool
	}{
		{"correct option", "B", true, false},
		{"wrong option", "A", false, false},
		{"outside the set", "D", false, true},
		{"empty", "", false, true},
		{"surrounding whitespace ok", "  B  ", true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Check(q, tc.raw)
			if tc.invalid {
				if !errors.Is(err, ErrInvalidAnswer) {
					t.Fatalf("want ErrInvalidAnswer, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.correct {
				t.Fatalf("correct=%v, want %v", got, tc.correct)
			}
		})
	}
}

func TestCheckInput(t *testing.T) {
	fold := Question{ID: "q1", Kind: KindTextInput, Expected: "Paris", Match: MatchFold}
	exact := Question{ID: "q2", Kind: KindPhotoInput, Expected: "Paris", Match: MatchExact, PhotoKey: "k"}

	cases := []struct {
		name    string
		q       Question
		raw     string
		correct bool
		invalid bool
	}{
		{"fold lower", fold, "paris", true, false},
		{"fold upper", fold, "PARIS", true, false},
		{"fold wrong", fold, "London", false, false},
		{"fold empty", fold, "", false, true},
		{"fold whitespace only", fold, "   ", false, true},
		{"exact match", exact, "Paris", true, false},
		{"exact case mismatch", exact, "paris", false, false},
		{"exact trims", exact, " Paris ", true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Check(tc.q, tc.raw)
			if tc.invalid {
				if !errors.Is(err, ErrInvalidAnswer) {
					t.Fatalf("want ErrInvalidAnswer, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.correct {
				t.Fatalf("correct=%v, want %v", got, tc.correct)
			}
		})
	}
}

func TestTestValidate(t *testing.T) {
	valid := Test{
		ID: "t", Title: "ok", OwnerID: "o",
		Questions: []Question{
			{ID: "a", Ordinal: 0, Kind: KindTextChoice, Options: []string{"x", "y"}, Correct: 0},
			{ID: "b", Ordinal: 1, Kind: KindTextInput, Expected: "42", Match: MatchExact},
			{ID: "c", Ordinal: 2, Kind: KindPhotoChoice, Options: []string{"x", "y"}, Correct: 1, PhotoKey: "p"},
			{ID: "d", Ordinal: 3, Kind: KindPhotoInput, Expected: "x", Match: MatchFold, PhotoKey: "p"},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid test rejected: %v", err)
	}

	broken := []struct {
		name   string
		mutate func(*Test)
	}{
		{"no questions", func(tt *Test) { tt.Questions = nil }},
		{"ordinal gap", func(tt *Test) { tt.Questions[1].Ordinal = 5 }},
		{"one option", func(tt *Test) { tt.Questions[0].Options = []string{"x"} }},
		{"correct out of range", func(tt *Test) { tt.Questions[0].Correct = 2 }},
		{"empty expected", func(tt *Test) { tt.Questions[1].Expected = "  " }},
		{"unknown match mode", func(tt *Test) { tt.Questions[1].Match = "loose" }},
		{"unknown kind", func(tt *Test) { tt.Questions[0].Kind = "essay" }},
		{"photo kind without key", func(tt *Test) { tt.Questions[2].PhotoKey = "" }},
	}
	for _, tc := range broken {
		t.Run(tc.name, func(t *testing.T) {
			tt := valid
			tt.Questions = make([]Question, len(valid.Questions))
			copy(tt.Questions, valid.Questions)
			tc.mutate(&tt)
			if err := tt.Validate(); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestSanitizedStripsAnswers(t *testing.T) {
	q := Question{Kind: KindTextChoice, Options: []string{"a", "b"}, Correct: 0, Expected: "a", Match: MatchExact}
	s := q.Sanitized()
	if s.Correct != -1 || s.Expected != "" || s.Match != "" {
		t.Fatalf("answer key leaked: %+v", s)
	}
	if len(s.Options) != 2 {
		t.Fatalf("options must survive sanitizing: %+v", s)
	}
}
