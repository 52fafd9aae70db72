package pollform

import (
	"errors"
	"time"

	"github.com/sngm3741/survey-app/api/internal/pollclient"
)

const (
	MinChoices = 1
	MaxChoices = 10
)

var (
	// ErrChoiceCount rejects an add or remove that would leave the 1..10 range.
	ErrChoiceCount = errors.New("Amount of choices must be from 1 to 10!")
	ErrChoiceIndex = errors.New("choice index out of range")
)

// Draft is the editable state of a poll before submission.
// Methods return a modified copy and never alter the receiver.
type Draft struct {
	Question                string
	Choices                 []string
	IsMultipleAnswerOptions bool
	ExpiresAt               *time.Time
}

// NewDraft returns the initial state: empty question and one empty choice.
func NewDraft() Draft {
	return Draft{Choices: []string{""}}
}

func (d Draft) clone() Draft {
	out := d
	out.Choices = append([]string(nil), d.Choices...)
	if d.ExpiresAt != nil {
		t := *d.ExpiresAt
		out.ExpiresAt = &t
	}
	return out
}

// AddChoice appends an empty choice when the draft holds 1 to 9 choices.
func (d Draft) AddChoice() (Draft, error) {
	n := len(d.Choices)
	if n < MinChoices || n >= MaxChoices {
		return d, ErrChoiceCount
	}
	out := d.clone()
	out.Choices = append(out.Choices, "")
	return out, nil
}

// RemoveChoice drops the choice at index when the draft holds 2 to 10 choices.
func (d Draft) RemoveChoice(index int) (Draft, error) {
	n := len(d.Choices)
	if n <= MinChoices || n > MaxChoices {
		return d, ErrChoiceCount
	}
	if index < 0 || index >= n {
		return d, ErrChoiceIndex
	}
	out := d.clone()
	out.Choices = append(out.Choices[:index], out.Choices[index+1:]...)
	return out, nil
}

func (d Draft) WithQuestion(question string) Draft {
	out := d.clone()
	out.Question = question
	return out
}

func (d Draft) WithChoiceText(index int, text string) (Draft, error) {
	if index < 0 || index >= len(d.Choices) {
		return d, ErrChoiceIndex
	}
	out := d.clone()
	out.Choices[index] = text
	return out, nil
}

func (d Draft) WithMultipleAnswers(multiple bool) Draft {
	out := d.clone()
	out.IsMultipleAnswerOptions = multiple
	return out
}

func (d Draft) WithExpiresAt(expiresAt *time.Time) Draft {
	out := d.clone()
	out.ExpiresAt = nil
	if expiresAt != nil {
		t := *expiresAt
		out.ExpiresAt = &t
	}
	return out
}

// Request converts the draft into the creation payload as typed.
func (d Draft) Request() pollclient.CreatePollRequest {
	choices := make([]pollclient.ChoiceInput, 0, len(d.Choices))
	for _, text := range d.Choices {
		choices = append(choices, pollclient.ChoiceInput{Text: text, Votes: []pollclient.Vote{}})
	}
	req := pollclient.CreatePollRequest{
		Question:                d.Question,
		Choices:                 choices,
		IsMultipleAnswerOptions: d.IsMultipleAnswerOptions,
	}
	if d.ExpiresAt != nil {
		t := d.ExpiresAt.UTC()
		req.ExpiresAt = &t
	}
	return req
}
