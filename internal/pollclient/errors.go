package pollclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx answer from the poll API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("poll api: %d %s", e.Status, e.Message)
}

// messageKeys lists the response fields that may carry the user-facing reason, in priority order.
var messageKeys = []string{"message", "error", "question", "choices", "expires_at"}

func newAPIError(status int, body []byte) *APIError {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range messageKeys {
			if value, ok := payload[key].(string); ok && strings.TrimSpace(value) != "" {
				return &APIError{Status: status, Message: value}
			}
		}
	}
	message := strings.TrimSpace(string(body))
	if message == "" {
		message = http.StatusText(status)
	}
	return &APIError{Status: status, Message: message}
}
