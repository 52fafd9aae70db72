package pollform

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name         string
		question     string
		choices      []string
		wantQuestion bool
		wantChoices  []int
	}{
		{"valid", "Q?", []string{"a", "b"}, false, nil},
		{"empty question", "", []string{"a"}, true, nil},
		{"question at limit", strings.Repeat("q", 200), []string{"a"}, false, nil},
		{"question over limit", strings.Repeat("q", 201), []string{"a"}, true, nil},
		{"empty choice", "Q?", []string{"a", ""}, false, []int{1}},
		{"long choice", "Q?", []string{strings.Repeat("x", 101)}, false, []int{0}},
		{"duplicates flagged together", "Q?", []string{"Yes", "no", " yes "}, false, []int{0, 2}},
		{"two duplicate groups", "Q?", []string{"a", "B", "A", "b", "c"}, false, []int{0, 1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Draft{Question: tt.question, Choices: tt.choices}
			res := Validate(d)
			if (res.Question != "") != tt.wantQuestion {
				t.Errorf("question flagged=%v, want %v", res.Question != "", tt.wantQuestion)
			}
			if len(res.Choices) != len(tt.wantChoices) {
				t.Fatalf("expected flagged %v, got %v", tt.wantChoices, res.Choices)
			}
			for _, i := range tt.wantChoices {
				if _, ok := res.Choices[i]; !ok {
					t.Errorf("choice %d not flagged: %v", i, res.Choices)
				}
			}
			if res.Valid() != (!tt.wantQuestion && len(tt.wantChoices) == 0) {
				t.Errorf("unexpected Valid()=%v", res.Valid())
			}
		})
	}
}
