package docstore_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sngm3741/survey-app/api/internal/infrastructure/docstore"
	"github.com/sngm3741/survey-app/api/internal/infrastructure/sqldoc"
	"github.com/sngm3741/survey-app/api/internal/poll/application"
	"github.com/sngm3741/survey-app/api/internal/poll/domain"
)

func newRepositories(t *testing.T) (*docstore.PollRepository, *docstore.FailedNotificationRepository) {
	t.Helper()
	db, err := sqldoc.Open(context.Background(), sqldoc.SQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	polls := docstore.NewPollRepository(sqldoc.NewStore[docstore.PollDocument](db, sqldoc.SQLite), "Polls")
	failures := docstore.NewFailedNotificationRepository(sqldoc.NewStore[docstore.FailedNotificationDocument](db, sqldoc.SQLite), "failed_notifications")
	return polls, failures
}

func TestPollRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepositories(t)

	createdAt := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	expires := createdAt.Add(48 * time.Hour)
	poll := &domain.Poll{
		Question: "Tea or coffee?",
		Choices: domain.ChoiceList{
			{ID: "c1", Text: "Tea", Votes: []domain.Vote{}},
			{ID: "c2", Text: "Coffee", Votes: []domain.Vote{}},
		},
		IsMultipleAnswerOptions: true,
		ExpiresAt:               &expires,
		CreatedBy:               "user-1",
		CreatedAt:               createdAt,
	}
	if err := repo.Create(ctx, poll); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if poll.ID == "" {
		t.Fatal("expected store-assigned id")
	}

	polls, err := repo.List(ctx, application.Paging{Offset: 0, Limit: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(polls) != 1 {
		t.Fatalf("expected 1 poll, got %d", len(polls))
	}
	got := polls[0]
	if got.ID != poll.ID || got.Question != poll.Question || got.CreatedBy != "user-1" {
		t.Errorf("unexpected poll: %+v", got)
	}
	if !got.CreatedAt.Equal(createdAt) || got.ExpiresAt == nil || !got.ExpiresAt.Equal(expires) {
		t.Errorf("timestamps not preserved: %+v", got)
	}
	if len(got.Choices) != 2 || got.Choices[1].Text != "Coffee" || got.Choices[1].Votes == nil {
		t.Errorf("choices not preserved: %+v", got.Choices)
	}
}

func TestPollRepositoryWindow(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepositories(t)

	for i := 1; i <= 10; i++ {
		p := &domain.Poll{
			Question:  domain.Question(fmt.Sprintf("poll %d", i)),
			Choices:   domain.ChoiceList{{ID: "c", Text: "a"}},
			CreatedAt: time.Now().UTC(),
		}
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
	}

	polls, err := repo.List(ctx, application.Paging{Offset: 5, Limit: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(polls) != 2 || polls[0].Question != "poll 6" || polls[1].Question != "poll 7" {
		t.Fatalf("expected the 6th and 7th polls, got %+v", polls)
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 10 {
		t.Fatalf("expected count 10, got %d (%v)", n, err)
	}
}

func TestFailedNotificationRepository(t *testing.T) {
	ctx := context.Background()
	_, repo := newRepositories(t)

	now := time.Now().UTC().Truncate(time.Second)
	err := repo.Record(ctx, domain.NotificationFailure{
		Target:      "poll_created",
		Payload:     map[string]string{"pollId": "p1"},
		Error:       "gateway timeout",
		Attempts:    3,
		Status:      "pending",
		CreatedAt:   now,
		LastTriedAt: now,
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	items, err := repo.List(ctx, application.Paging{Limit: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 || items[0].Payload["pollId"] != "p1" || items[0].Attempts != 3 || items[0].ID == "" {
		t.Fatalf("unexpected failures: %+v", items)
	}
}
