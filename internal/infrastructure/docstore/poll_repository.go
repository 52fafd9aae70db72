package docstore

import (
	"context"

	"github.com/sngm3741/survey-app/api/internal/poll/application"
	"github.com/sngm3741/survey-app/api/internal/poll/domain"
)

// PollRepository implements application.PollRepository on top of a document store.
type PollRepository struct {
	store      Store[PollDocument]
	collection string
}

// NewPollRepository binds the repository to one collection of the store.
func NewPollRepository(store Store[PollDocument], collection string) *PollRepository {
	return &PollRepository{store: store, collection: collection}
}

// List は挿入順で [Offset, Offset+Limit) の範囲をストア側で切り出して返す。
func (r *PollRepository) List(ctx context.Context, paging application.Paging) ([]domain.Poll, error) {
	docs, err := r.store.Page(ctx, r.collection, paging.Offset, paging.Limit)
	if err != nil {
		return nil, err
	}
	polls := make([]domain.Poll, 0, len(docs))
	for _, doc := range docs {
		polls = append(polls, mapPollDocument(doc))
	}
	return polls, nil
}

func (r *PollRepository) Count(ctx context.Context) (int, error) {
	return r.store.Count(ctx, r.collection)
}

// Create は Poll を保存し、ストアが採番した ID を反映する。
func (r *PollRepository) Create(ctx context.Context, poll *domain.Poll) error {
	doc, err := r.store.Create(ctx, r.collection, toPollDocument(*poll))
	if err != nil {
		return err
	}
	poll.ID = doc.ID
	return nil
}

func toPollDocument(poll domain.Poll) PollDocument {
	choices := make([]ChoiceDocument, 0, len(poll.Choices))
	for _, c := range poll.Choices {
		votes := make([]VoteDocument, 0, len(c.Votes))
		for _, v := range c.Votes {
			votes = append(votes, VoteDocument{VoterID: v.VoterID, CastAt: v.CastAt})
		}
		choices = append(choices, ChoiceDocument{ID: c.ID, Text: c.Text, Votes: votes})
	}
	return PollDocument{
		Question:                poll.Question.String(),
		Choices:                 choices,
		IsMultipleAnswerOptions: poll.IsMultipleAnswerOptions,
		ExpiresAt:               poll.ExpiresAt,
		CreatedBy:               poll.CreatedBy,
		CreatedAt:               poll.CreatedAt,
	}
}

func mapPollDocument(doc Document[PollDocument]) domain.Poll {
	choices := make(domain.ChoiceList, 0, len(doc.Data.Choices))
	for _, c := range doc.Data.Choices {
		votes := make([]domain.Vote, 0, len(c.Votes))
		for _, v := range c.Votes {
			votes = append(votes, domain.Vote{VoterID: v.VoterID, CastAt: v.CastAt})
		}
		choices = append(choices, domain.Choice{ID: c.ID, Text: c.Text, Votes: votes})
	}
	createdAt := doc.Data.CreatedAt
	if createdAt.IsZero() {
		createdAt = doc.TS
	}
	return domain.Poll{
		ID:                      doc.ID,
		Question:                domain.Question(doc.Data.Question),
		Choices:                 choices,
		IsMultipleAnswerOptions: doc.Data.IsMultipleAnswerOptions,
		ExpiresAt:               doc.Data.ExpiresAt,
		CreatedBy:               doc.Data.CreatedBy,
		CreatedAt:               createdAt,
	}
}
