package pollform

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinQuestionRunes   = 1
	MaxQuestionRunes   = 200
	MinChoiceTextRunes = 1
	MaxChoiceTextRunes = 100
)

// Result holds the inline field state after a validation pass.
// Question is empty when valid; Choices maps a choice index to its reason.
type Result struct {
	Question string
	Choices  map[int]string
}

func (r Result) Valid() bool {
	return r.Question == "" && len(r.Choices) == 0
}

// Validate checks the draft without touching the network.
// Every choice that shares its normalized text with another choice is flagged.
func Validate(d Draft) Result {
	var res Result
	if n := utf8.RuneCountInString(d.Question); n < MinQuestionRunes || n > MaxQuestionRunes {
		res.Question = fmt.Sprintf("Question must be from %d to %d letters long", MinQuestionRunes, MaxQuestionRunes)
	}

	groups := make(map[string][]int, len(d.Choices))
	for i, text := range d.Choices {
		key := strings.ToLower(strings.TrimSpace(text))
		groups[key] = append(groups[key], i)
	}

	for i, text := range d.Choices {
		reason := ""
		if n := utf8.RuneCountInString(text); n < MinChoiceTextRunes || n > MaxChoiceTextRunes {
			reason = fmt.Sprintf("Choice must be from %d to %d letters long", MinChoiceTextRunes, MaxChoiceTextRunes)
		} else if len(groups[strings.ToLower(strings.TrimSpace(text))]) > 1 {
			reason = "Choices must be unique"
		}
		if reason == "" {
			continue
		}
		if res.Choices == nil {
			res.Choices = make(map[int]string)
		}
		res.Choices[i] = reason
	}
	return res
}
