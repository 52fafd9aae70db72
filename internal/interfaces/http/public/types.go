package public

import (
	"encoding/json"
	"time"

	"github.com/sngm3741/survey-app/api/internal/interfaces/http/common"
	"github.com/sngm3741/survey-app/api/internal/poll/domain"
)

type createPollRequest struct {
	Question                *string         `json:"question"`
	Choices                 []choicePayload `json:"choices"`
	IsMultipleAnswerOptions bool            `json:"is_multiple_answer_options"`
	ExpiresAt               *time.Time      `json:"expires_at"`
}

type choicePayload struct {
	Text  string            `json:"text"`
	Votes []json.RawMessage `json:"votes,omitempty"`
}

type pollListResponse struct {
	Offset   int            `json:"offset"`
	PageSize int            `json:"page_size"`
	Data     []pollResponse `json:"data"`
}

type pollCreateResponse struct {
	Data pollResponse `json:"data"`
}

type pollResponse struct {
	ID                      string           `json:"id"`
	Question                string           `json:"question"`
	Choices                 []choiceResponse `json:"choices"`
	IsMultipleAnswerOptions bool             `json:"is_multiple_answer_options"`
	ExpiresAt               *string          `json:"expires_at"`
	CreatedAt               string           `json:"created_at"`
}

type choiceResponse struct {
	ID    string         `json:"id"`
	Text  string         `json:"text"`
	Votes []voteResponse `json:"votes"`
}

type voteResponse struct {
	VoterID string `json:"voter_id"`
	CastAt  string `json:"cast_at"`
}

func pollDomainToResponse(poll domain.Poll) pollResponse {
	choices := make([]choiceResponse, 0, len(poll.Choices))
	for _, c := range poll.Choices {
		votes := make([]voteResponse, 0, len(c.Votes))
		for _, v := range c.Votes {
			votes = append(votes, voteResponse{VoterID: v.VoterID, CastAt: formatTimestamp(v.CastAt)})
		}
		choices = append(choices, choiceResponse{ID: c.ID, Text: c.Text, Votes: votes})
	}

	var expiresAt *string
	if poll.ExpiresAt != nil {
		value := formatTimestamp(*poll.ExpiresAt)
		expiresAt = &value
	}

	return pollResponse{
		ID:                      poll.ID,
		Question:                poll.Question.String(),
		Choices:                 choices,
		IsMultipleAnswerOptions: poll.IsMultipleAnswerOptions,
		ExpiresAt:               expiresAt,
		CreatedAt:               formatTimestamp(poll.CreatedAt),
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(common.TimestampLayout)
}
