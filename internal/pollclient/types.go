package pollclient

import "time"

// Poll mirrors the JSON representation served by /api/polls.
type Poll struct {
	ID                      string     `json:"id"`
	Question                string     `json:"question"`
	Choices                 []Choice   `json:"choices"`
	IsMultipleAnswerOptions bool       `json:"is_multiple_answer_options"`
	ExpiresAt               *time.Time `json:"expires_at"`
	CreatedAt               time.Time  `json:"created_at"`
}

type Choice struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Votes []Vote `json:"votes"`
}

type Vote struct {
	VoterID string    `json:"voter_id"`
	CastAt  time.Time `json:"cast_at"`
}

// ListResponse is one page of the poll collection.
type ListResponse struct {
	Offset   int    `json:"offset"`
	PageSize int    `json:"page_size"`
	Data     []Poll `json:"data"`
}

// CreatePollRequest is the creation payload. Choices always carry an empty vote list.
type CreatePollRequest struct {
	Question                string        `json:"question"`
	Choices                 []ChoiceInput `json:"choices"`
	IsMultipleAnswerOptions bool          `json:"is_multiple_answer_options"`
	ExpiresAt               *time.Time    `json:"expires_at"`
}

type ChoiceInput struct {
	Text  string `json:"text"`
	Votes []Vote `json:"votes"`
}

type createResponse struct {
	Data Poll `json:"data"`
}
