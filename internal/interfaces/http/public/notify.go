package public

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sngm3741/survey-app/api/internal/poll/domain"
)

const (
	notifyAttempts = 3
	notifyDelay    = 200 * time.Millisecond
)

func (h *Handler) notifyPollCreated(ctx context.Context, poll domain.Poll) {
	if ctx == nil {
		ctx = context.Background()
	}

	identifier := strings.TrimSpace(poll.CreatedBy)
	if identifier == "" {
		identifier = "anonymous"
	}

	message := buildPollCreatedMessage(poll)
	err := h.sendMessengerWithRetry(ctx, h.messengerDestination, identifier, message, notifyAttempts, notifyDelay)
	if err == nil {
		return
	}
	h.logger.Printf("投票作成通知の送信に失敗: %v", err)
	h.persistNotificationFailure(ctx, identifier, poll, err, notifyAttempts)
}

func buildPollCreatedMessage(poll domain.Poll) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("**%s** から新しい投票が作成されました。\n", displayCreator(poll.CreatedBy)))
	builder.WriteString(fmt.Sprintf("- 質問: %s\n", poll.Question))
	for i, choice := range poll.Choices {
		builder.WriteString(fmt.Sprintf("  %d. %s\n", i+1, choice.Text))
	}
	if poll.IsMultipleAnswerOptions {
		builder.WriteString("- 複数回答: 可\n")
	}
	if poll.ExpiresAt != nil {
		builder.WriteString(fmt.Sprintf("- 締切: %s\n", formatTimestamp(*poll.ExpiresAt)))
	}
	return builder.String()
}

func displayCreator(createdBy string) string {
	if value := strings.TrimSpace(createdBy); value != "" {
		return value
	}
	return "匿名ユーザー"
}

func (h *Handler) sendMessengerWithRetry(ctx context.Context, destination, userID, text string, attempts int, delay time.Duration) error {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return errors.New("destination is empty")
	}
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		err := h.sendMessengerMessage(ctx, destination, userID, text)
		if err == nil {
			return nil
		}
		lastErr = err
		if delay > 0 && i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return lastErr
}

func (h *Handler) persistNotificationFailure(ctx context.Context, identifier string, poll domain.Poll, sendErr error, attempts int) {
	if h.failedNotifications == nil || sendErr == nil {
		return
	}
	now := time.Now().UTC()
	failure := domain.NotificationFailure{
		Target: "poll_created",
		Payload: map[string]string{
			"pollId":     poll.ID,
			"question":   poll.Question.String(),
			"createdBy":  poll.CreatedBy,
			"identifier": identifier,
		},
		Error:       sendErr.Error(),
		Attempts:    attempts,
		Status:      "pending",
		CreatedAt:   now,
		LastTriedAt: now,
	}
	if err := h.failedNotifications.Record(ctx, failure); err != nil {
		h.logger.Printf("failed_notifications への保存に失敗: %v", err)
	}
}

func (h *Handler) sendMessengerMessage(ctx context.Context, destination, userID, bodyText string) error {
	trimmedUserID := strings.TrimSpace(userID)
	if trimmedUserID == "" {
		return errors.New("userID is required")
	}

	payload := map[string]any{
		"userId": trimmedUserID,
		"text":   bodyText,
	}
	if dest := strings.TrimSpace(destination); dest != "" {
		payload["destination"] = dest
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("メッセンジャー送信用ペイロードの作成に失敗: %w", err)
	}

	timeout := h.httpClient.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := strings.TrimRight(h.messengerEndpoint, "/") + "/messages"
	req, err := http.NewRequestWithContext(ctxWithTimeout, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("メッセンジャー送信リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("メッセンジャー送信リクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return fmt.Errorf("メッセンジャー送信でエラーが発生: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}

	return nil
}
