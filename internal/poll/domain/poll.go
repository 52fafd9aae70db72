package domain

import "time"

// Poll is a question with a bounded, ordered set of choices.
type Poll struct {
	ID                      string
	Question                Question
	Choices                 ChoiceList
	IsMultipleAnswerOptions bool
	ExpiresAt               *time.Time
	CreatedBy               string
	CreatedAt               time.Time
}

// Choice is one selectable option within a poll.
type Choice struct {
	ID    string
	Text  string
	Votes []Vote
}

// Vote records a single respondent selecting a choice.
type Vote struct {
	VoterID string
	CastAt  time.Time
}

// Expired reports whether the poll no longer accepts answers at the given instant.
func (p Poll) Expired(now time.Time) bool {
	if p.ExpiresAt == nil {
		return false
	}
	return !now.Before(*p.ExpiresAt)
}

// NotificationFailure is a creation notice the messenger gateway never accepted.
type NotificationFailure struct {
	ID          string
	Target      string
	Payload     map[string]string
	Error       string
	Attempts    int
	Status      string
	CreatedAt   time.Time
	LastTriedAt time.Time
}
