package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sngm3741/survey-app/api/internal/poll/domain"
)

type pollService struct {
	repo  PollRepository
	now   func() time.Time
	newID func() string
}

// Option customises a PollService.
type Option func(*pollService)

// WithClock replaces the time source used for created_at.
func WithClock(now func() time.Time) Option {
	return func(s *pollService) { s.now = now }
}

// WithIDGenerator replaces the choice identifier generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *pollService) { s.newID = newID }
}

func NewPollService(repo PollRepository, opts ...Option) PollService {
	s := &pollService{repo: repo, now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *pollService) List(ctx context.Context, paging Paging) ([]domain.Poll, error) {
	paging = normalizePaging(paging)
	if paging.Limit == 0 {
		return []domain.Poll{}, nil
	}
	return s.repo.List(ctx, paging)
}

func (s *pollService) Page(ctx context.Context, paging Paging) (PollPage, error) {
	items, err := s.List(ctx, paging)
	if err != nil {
		return PollPage{}, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return PollPage{}, err
	}
	return PollPage{Paging: normalizePaging(paging), Items: items, Total: total}, nil
}

// Create validates the command and stores a new poll.
// Checks run in order: presence, choice count, question length, choice texts, expiry.
func (s *pollService) Create(ctx context.Context, cmd CreatePollCommand) (*domain.Poll, error) {
	if cmd.Question == nil || cmd.Choices == nil {
		return nil, domain.ErrMissingRequiredData
	}
	if err := domain.ValidateChoiceCount(len(cmd.Choices)); err != nil {
		return nil, err
	}
	question, err := domain.NewQuestion(*cmd.Question)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(cmd.Choices))
	for _, c := range cmd.Choices {
		texts = append(texts, c.Text)
	}
	choices, err := domain.NewChoiceList(texts, s.newID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := domain.ValidateExpiry(cmd.ExpiresAt, now); err != nil {
		return nil, err
	}
	var expiresAt *time.Time
	if cmd.ExpiresAt != nil {
		value := cmd.ExpiresAt.UTC()
		expiresAt = &value
	}

	poll := &domain.Poll{
		Question:                question,
		Choices:                 choices,
		IsMultipleAnswerOptions: cmd.IsMultipleAnswerOptions,
		ExpiresAt:               expiresAt,
		CreatedBy:               cmd.CreatedBy,
		CreatedAt:               now,
	}
	if err := s.repo.Create(ctx, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

func normalizePaging(p Paging) Paging {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit < 0 {
		p.Limit = 0
	}
	return p
}
