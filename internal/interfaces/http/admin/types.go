package admin

import (
	"time"

	"github.com/sngm3741/survey-app/api/internal/poll/domain"
)

type adminPollListResponse struct {
	Offset   int                 `json:"offset"`
	PageSize int                 `json:"page_size"`
	Total    int                 `json:"total"`
	Items    []adminPollResponse `json:"items"`
}

type adminPollResponse struct {
	ID                      string                `json:"id"`
	Question                string                `json:"question"`
	Choices                 []adminChoiceResponse `json:"choices"`
	IsMultipleAnswerOptions bool                  `json:"is_multiple_answer_options"`
	ExpiresAt               *time.Time            `json:"expires_at"`
	Expired                 bool                  `json:"expired"`
	CreatedBy               string                `json:"created_by"`
	CreatedAt               time.Time             `json:"created_at"`
}

type adminChoiceResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	VoteCount int    `json:"vote_count"`
}

type failedNotificationListResponse struct {
	Items []failedNotificationResponse `json:"items"`
}

type failedNotificationResponse struct {
	ID          string            `json:"id"`
	Target      string            `json:"target"`
	Payload     map[string]string `json:"payload"`
	Error       string            `json:"error"`
	Attempts    int               `json:"attempts"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	LastTriedAt time.Time         `json:"last_tried_at"`
}

// adminPollDomainToResponse はドメインの Poll を管理画面用レスポンスへ変換する。
func adminPollDomainToResponse(poll domain.Poll, now time.Time) adminPollResponse {
	choices := make([]adminChoiceResponse, 0, len(poll.Choices))
	for _, c := range poll.Choices {
		choices = append(choices, adminChoiceResponse{ID: c.ID, Text: c.Text, VoteCount: len(c.Votes)})
	}
	return adminPollResponse{
		ID:                      poll.ID,
		Question:                poll.Question.String(),
		Choices:                 choices,
		IsMultipleAnswerOptions: poll.IsMultipleAnswerOptions,
		ExpiresAt:               poll.ExpiresAt,
		Expired:                 poll.Expired(now),
		CreatedBy:               poll.CreatedBy,
		CreatedAt:               poll.CreatedAt,
	}
}

func failedNotificationToResponse(f domain.NotificationFailure) failedNotificationResponse {
	payload := f.Payload
	if payload == nil {
		payload = map[string]string{}
	}
	return failedNotificationResponse{
		ID:          f.ID,
		Target:      f.Target,
		Payload:     payload,
		Error:       f.Error,
		Attempts:    f.Attempts,
		Status:      f.Status,
		CreatedAt:   f.CreatedAt,
		LastTriedAt: f.LastTriedAt,
	}
}
