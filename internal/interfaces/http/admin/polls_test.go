package admin_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/sngm3741/survey-app/api/internal/infrastructure/docstore"
	"github.com/sngm3741/survey-app/api/internal/infrastructure/sqldoc"
	"github.com/sngm3741/survey-app/api/internal/interfaces/http/admin"
	pollapp "github.com/sngm3741/survey-app/api/internal/poll/application"
	"github.com/sngm3741/survey-app/api/internal/poll/domain"
)

func newRouter(t *testing.T) (http.Handler, pollapp.PollService, *docstore.FailedNotificationRepository) {
	t.Helper()
	db, err := sqldoc.Open(context.Background(), sqldoc.SQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := docstore.NewPollRepository(sqldoc.NewStore[docstore.PollDocument](db, sqldoc.SQLite), "Polls")
	failures := docstore.NewFailedNotificationRepository(sqldoc.NewStore[docstore.FailedNotificationDocument](db, sqldoc.SQLite), "failed_notifications")
	polls := pollapp.NewPollService(repo)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	r := chi.NewRouter()
	admin.NewHandler(admin.Config{
		Logger:              logger,
		Polls:               polls,
		FailedNotifications: failures,
		DefaultPageSize:     100,
		MaxPageSize:         500,
	}).Register(r)
	return r, polls, failures
}

func TestPollListIncludesTotalAndCreator(t *testing.T) {
	router, polls, _ := newRouter(t)
	for i := 1; i <= 4; i++ {
		q := fmt.Sprintf("Q%d", i)
		if _, err := polls.Create(context.Background(), pollapp.CreatePollCommand{
			Question:  &q,
			Choices:   []pollapp.ChoiceCommand{{Text: "a"}, {Text: "b"}},
			CreatedBy: fmt.Sprintf("user-%d", i),
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/polls?offset=1&page_size=2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Offset   int `json:"offset"`
		PageSize int `json:"page_size"`
		Total    int `json:"total"`
		Items    []struct {
			Question  string `json:"question"`
			CreatedBy string `json:"created_by"`
			Choices   []struct {
				VoteCount int `json:"vote_count"`
			} `json:"choices"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 4 || body.Offset != 1 || body.PageSize != 2 {
		t.Errorf("unexpected page header: %+v", body)
	}
	if len(body.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(body.Items))
	}
	if body.Items[0].Question != "Q2" || body.Items[0].CreatedBy != "user-2" {
		t.Errorf("unexpected first item: %+v", body.Items[0])
	}
	if body.Items[1].Question != "Q3" || len(body.Items[1].Choices) != 2 {
		t.Errorf("unexpected second item: %+v", body.Items[1])
	}
}

func TestPollListRejectsInvalidPaging(t *testing.T) {
	router, _, _ := newRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/polls?offset=x", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestFailedNotificationList(t *testing.T) {
	router, _, failures := newRouter(t)
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	err := failures.Record(context.Background(), domain.NotificationFailure{
		Target:      "poll_created",
		Payload:     map[string]string{"pollId": "p1"},
		Error:       "gateway down",
		Attempts:    3,
		Status:      "pending",
		CreatedAt:   now,
		LastTriedAt: now,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications/failed", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Items []struct {
			Target   string            `json:"target"`
			Payload  map[string]string `json:"payload"`
			Error    string            `json:"error"`
			Attempts int               `json:"attempts"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Items) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(body.Items))
	}
	got := body.Items[0]
	if got.Target != "poll_created" || got.Payload["pollId"] != "p1" || got.Error != "gateway down" || got.Attempts != 3 {
		t.Errorf("unexpected failure: %+v", got)
	}
}

func TestFailedNotificationListZeroPageSize(t *testing.T) {
	router, _, failures := newRouter(t)
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	for i := 0; i < 2; i++ {
		if err := failures.Record(context.Background(), domain.NotificationFailure{
			Target:      "poll_created",
			Attempts:    3,
			Status:      "pending",
			CreatedAt:   now,
			LastTriedAt: now,
		}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications/failed?page_size=0", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Items == nil || len(body.Items) != 0 {
		t.Errorf("expected an empty items array, got %s", rec.Body.String())
	}
}
