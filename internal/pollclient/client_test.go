package pollclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestListKey(t *testing.T) {
	if got := ListKey(0, 100); got != "/api/polls?offset=0&page_size=100" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestListUsesCacheUntilInvalidated(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("offset") != "0" || r.URL.Query().Get("page_size") != "100" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"offset":0,"page_size":100,"data":[{"id":"p1","question":"Q?","choices":[{"id":"c1","text":"a","votes":[]}],"is_multiple_answer_options":false,"expires_at":null,"created_at":"2026-01-02T03:04:05.000Z"}]}`)
	}))
	defer srv.Close()

	client, err := New(Config{BaseURL: srv.URL + "/", Cache: NewCache()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		resp, err := client.List(ctx, 0, 100)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(resp.Data) != 1 || resp.Data[0].Question != "Q?" || resp.Data[0].ExpiresAt != nil {
			t.Fatalf("unexpected response %+v", resp)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("expected one request while cached, got %d", hits.Load())
	}

	client.Invalidate(ListKey(0, 100))
	if _, err := client.List(ctx, 0, 100); err != nil {
		t.Fatalf("list: %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected refetch after invalidation, got %d requests", hits.Load())
	}
}

func TestCreatePollSendsEmptyVotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/polls" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if string(raw["choices"]) != `[{"text":"yes","votes":[]}]` {
			t.Errorf("unexpected choices %s", raw["choices"])
		}
		if string(raw["expires_at"]) != "null" {
			t.Errorf("unexpected expires_at %s", raw["expires_at"])
		}
		io.WriteString(w, `{"data":{"id":"p9","question":"Q?","choices":[{"id":"c1","text":"yes","votes":[]}],"created_at":"2026-01-02T03:04:05.000Z"}}`)
	}))
	defer srv.Close()

	client, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	poll, err := client.CreatePoll(context.Background(), CreatePollRequest{
		Question: "Q?",
		Choices:  []ChoiceInput{{Text: "yes"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if poll.ID != "p9" || len(poll.Choices) != 1 {
		t.Errorf("unexpected poll %+v", poll)
	}
}

func TestAPIErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message field", http.StatusBadRequest, `{"message":"Missing required data"}`, "Missing required data"},
		{"field scoped", http.StatusBadRequest, `{"question":"Question length must be 1 <= N <= 250"}`, "Question length must be 1 <= N <= 250"},
		{"store failure", http.StatusInternalServerError, `{"error":"boom"}`, "boom"},
		{"plain text", http.StatusMethodNotAllowed, "Method PUT Not Allowed\n", "Method PUT Not Allowed"},
		{"empty body", http.StatusBadGateway, "", "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			client, err := New(Config{BaseURL: srv.URL})
			if err != nil {
				t.Fatalf("new client: %v", err)
			}
			_, err = client.CreatePoll(context.Background(), CreatePollRequest{Question: "Q?"})
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Status != tt.status || apiErr.Message != tt.want {
				t.Errorf("expected %d %q, got %d %q", tt.status, tt.want, apiErr.Status, apiErr.Message)
			}
		})
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}

func TestCacheReturnsCopies(t *testing.T) {
	cache := NewCache()
	original := ListResponse{Data: []Poll{{ID: "p1", Question: "Q?", Choices: []Choice{{ID: "c1", Text: "a", Votes: []Vote{}}}}}}
	cache.Set("k", original)
	original.Data[0].Question = "changed before read"

	got, ok := cache.Get("k")
	if !ok {
		t.Fatal("expected cached entry")
	}
	if got.Data[0].Question != "Q?" {
		t.Fatalf("Set must store a copy, got %q", got.Data[0].Question)
	}
	got.Data[0].Question = "edited"
	got.Data[0].Choices[0].Text = "edited"

	again, _ := cache.Get("k")
	if again.Data[0].Question != "Q?" || again.Data[0].Choices[0].Text != "a" {
		t.Errorf("cached entry changed through a returned value: %+v", again.Data[0])
	}
}
