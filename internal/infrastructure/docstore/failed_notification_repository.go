package docstore

import (
	"context"

	"github.com/sngm3741/survey-app/api/internal/poll/application"
	"github.com/sngm3741/survey-app/api/internal/poll/domain"
)

// FailedNotificationRepository implements application.FailedNotificationRepository.
type FailedNotificationRepository struct {
	store      Store[FailedNotificationDocument]
	collection string
}

func NewFailedNotificationRepository(store Store[FailedNotificationDocument], collection string) *FailedNotificationRepository {
	return &FailedNotificationRepository{store: store, collection: collection}
}

func (r *FailedNotificationRepository) Record(ctx context.Context, failure domain.NotificationFailure) error {
	_, err := r.store.Create(ctx, r.collection, FailedNotificationDocument{
		Target:      failure.Target,
		Payload:     failure.Payload,
		Error:       failure.Error,
		Attempts:    failure.Attempts,
		Status:      failure.Status,
		CreatedAt:   failure.CreatedAt,
		LastTriedAt: failure.LastTriedAt,
	})
	return err
}

func (r *FailedNotificationRepository) List(ctx context.Context, paging application.Paging) ([]domain.NotificationFailure, error) {
	docs, err := r.store.Page(ctx, r.collection, paging.Offset, paging.Limit)
	if err != nil {
		return nil, err
	}
	result := make([]domain.NotificationFailure, 0, len(docs))
	for _, doc := range docs {
		result = append(result, domain.NotificationFailure{
			ID:          doc.ID,
			Target:      doc.Data.Target,
			Payload:     doc.Data.Payload,
			Error:       doc.Data.Error,
			Attempts:    doc.Data.Attempts,
			Status:      doc.Data.Status,
			CreatedAt:   doc.Data.CreatedAt,
			LastTriedAt: doc.Data.LastTriedAt,
		})
	}
	return result, nil
}
