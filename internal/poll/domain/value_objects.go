package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinQuestionRunes   = 1
	MaxQuestionRunes   = 250
	MinChoices         = 1
	MaxChoices         = 10
	MinChoiceTextRunes = 1
	MaxChoiceTextRunes = 100
)

// ErrMissingRequiredData is returned when question or choices are absent from a command.
var ErrMissingRequiredData = errors.New("missing required data")

// FieldError is a validation failure scoped to one request field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldError(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

type Question string

// NewQuestion checks the question length in runes. Whitespace is kept as submitted.
func NewQuestion(value string) (Question, error) {
	n := utf8.RuneCountInString(value)
	if n < MinQuestionRunes || n > MaxQuestionRunes {
		return "", fieldError("question", "Question length must be %d <= N <= %d", MinQuestionRunes, MaxQuestionRunes)
	}
	return Question(value), nil
}

func (q Question) String() string {
	return string(q)
}

// NormalizeChoiceText is the comparison key for sibling choices.
func NormalizeChoiceText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// ValidateChoiceCount enforces the 1..10 choice bound.
func ValidateChoiceCount(n int) error {
	if n < MinChoices || n > MaxChoices {
		return fieldError("choices", "Choices length must be %d <= N <= %d", MinChoices, MaxChoices)
	}
	return nil
}

type ChoiceList []Choice

// NewChoiceList validates choice texts and returns choices with empty vote lists.
// newID supplies the identifier of each choice.
func NewChoiceList(texts []string, newID func() string) (ChoiceList, error) {
	if err := ValidateChoiceCount(len(texts)); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(texts))
	result := make(ChoiceList, 0, len(texts))
	for _, text := range texts {
		n := utf8.RuneCountInString(text)
		if n < MinChoiceTextRunes || n > MaxChoiceTextRunes {
			return nil, fieldError("choices", "Choice text length must be %d <= N <= %d", MinChoiceTextRunes, MaxChoiceTextRunes)
		}
		key := NormalizeChoiceText(text)
		if _, ok := seen[key]; ok {
			return nil, fieldError("choices", "Choice texts must be unique: %q", strings.TrimSpace(text))
		}
		seen[key] = struct{}{}
		result = append(result, Choice{ID: newID(), Text: text, Votes: []Vote{}})
	}
	return result, nil
}

func (l ChoiceList) Texts() []string {
	result := make([]string, 0, len(l))
	for _, c := range l {
		result = append(result, c.Text)
	}
	return result
}

// ValidateExpiry rejects expiration instants that are not after now.
func ValidateExpiry(expiresAt *time.Time, now time.Time) error {
	if expiresAt == nil {
		return nil
	}
	if !expiresAt.After(now) {
		return fieldError("expires_at", "Expiration must be in the future")
	}
	return nil
}
