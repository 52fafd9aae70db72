package application

import (
	"context"
	"time"

	"github.com/sngm3741/survey-app/api/internal/poll/domain"
)

// PollRepository persists polls in insertion order.
type PollRepository interface {
	List(ctx context.Context, paging Paging) ([]domain.Poll, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, poll *domain.Poll) error
}

// FailedNotificationRepository keeps notices the messenger gateway rejected.
type FailedNotificationRepository interface {
	Record(ctx context.Context, failure domain.NotificationFailure) error
	List(ctx context.Context, paging Paging) ([]domain.NotificationFailure, error)
}

// Paging selects the window [Offset, Offset+Limit).
type Paging struct {
	Offset int
	Limit  int
}

// PollPage is a window of polls together with the collection size.
type PollPage struct {
	Paging
	Items []domain.Poll
	Total int
}

// PollService describes poll use-cases.
type PollService interface {
	List(ctx context.Context, paging Paging) ([]domain.Poll, error)
	Page(ctx context.Context, paging Paging) (PollPage, error)
	Create(ctx context.Context, cmd CreatePollCommand) (*domain.Poll, error)
}

// CreatePollCommand contains inputs for creating a poll.
// A nil Question or nil Choices means the field was absent from the request.
type CreatePollCommand struct {
	Question                *string
	Choices                 []ChoiceCommand
	IsMultipleAnswerOptions bool
	ExpiresAt               *time.Time
	CreatedBy               string
}

// ChoiceCommand carries one submitted choice.
type ChoiceCommand struct {
	Text string
}
