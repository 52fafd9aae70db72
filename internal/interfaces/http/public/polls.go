package public

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sngm3741/survey-app/api/internal/interfaces/http/common"
	pollapp "github.com/sngm3741/survey-app/api/internal/poll/application"
	"github.com/sngm3741/survey-app/api/internal/poll/domain"
)

const allowedPollMethods = "GET, POST"

func (h *Handler) pollCollectionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.listPolls(w, r)
		case http.MethodPost:
			h.createPoll(w, r)
		default:
			w.Header().Set("Allow", allowedPollMethods)
			http.Error(w, fmt.Sprintf("Method %s Not Allowed", r.Method), http.StatusMethodNotAllowed)
		}
	}
}

func (h *Handler) listPolls(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	offset, okOffset := common.ParseNonNegativeInt(query.Get("offset"), 0)
	pageSize, okSize := common.ParseNonNegativeInt(query.Get("page_size"), h.defaultPageSize)
	if !okOffset || !okSize {
		common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{
			"message": "offset and page_size must be non-negative integers",
		})
		return
	}
	if pageSize > h.maxPageSize {
		pageSize = h.maxPageSize
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	polls, err := h.polls.List(ctx, pollapp.Paging{Offset: offset, Limit: pageSize})
	if err != nil {
		h.logger.Printf("投票一覧の取得に失敗: %v", err)
		common.WriteError(h.logger, w, http.StatusInternalServerError, "投票一覧の取得に失敗しました")
		return
	}

	data := make([]pollResponse, 0, len(polls))
	for _, poll := range polls {
		data = append(data, pollDomainToResponse(poll))
	}

	common.WriteJSON(h.logger, w, http.StatusOK, pollListResponse{
		Offset:   offset,
		PageSize: pageSize,
		Data:     data,
	})
}

func (h *Handler) createPoll(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req createPollRequest
	decoder := json.NewDecoder(io.LimitReader(r.Body, common.MaxPollRequestBody))
	// 空ボディは question と choices の欠落として扱う
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	cmd := pollapp.CreatePollCommand{
		Question:                req.Question,
		IsMultipleAnswerOptions: req.IsMultipleAnswerOptions,
		ExpiresAt:               req.ExpiresAt,
		CreatedBy:               common.Requester(r),
	}
	if req.Choices != nil {
		cmd.Choices = make([]pollapp.ChoiceCommand, 0, len(req.Choices))
		for _, c := range req.Choices {
			cmd.Choices = append(cmd.Choices, pollapp.ChoiceCommand{Text: c.Text})
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	poll, err := h.polls.Create(ctx, cmd)
	if err != nil {
		var fieldErr *domain.FieldError
		switch {
		case errors.Is(err, domain.ErrMissingRequiredData):
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"message": "Missing required data"})
		case errors.As(err, &fieldErr):
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{fieldErr.Field: fieldErr.Message})
		default:
			h.logger.Printf("投票の保存に失敗: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "投票の保存に失敗しました")
		}
		return
	}

	if h.messengerEndpoint != "" {
		go h.notifyPollCreated(context.Background(), *poll)
	}

	common.WriteJSON(h.logger, w, http.StatusOK, pollCreateResponse{Data: pollDomainToResponse(*poll)})
}
