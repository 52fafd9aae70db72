package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/sngm3741/survey-app/api/internal/interfaces/http/common"
	pollapp "github.com/sngm3741/survey-app/api/internal/poll/application"
)

func (h *Handler) paging(r *http.Request) (pollapp.Paging, bool) {
	query := r.URL.Query()
	offset, okOffset := common.ParseNonNegativeInt(query.Get("offset"), 0)
	limit, okLimit := common.ParseNonNegativeInt(query.Get("page_size"), h.defaultPageSize)
	if !okOffset || !okLimit {
		return pollapp.Paging{}, false
	}
	if h.maxPageSize > 0 && limit > h.maxPageSize {
		limit = h.maxPageSize
	}
	return pollapp.Paging{Offset: offset, Limit: limit}, true
}

func (h *Handler) pollListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paging, ok := h.paging(r)
		if !ok {
			common.WriteError(h.logger, w, http.StatusBadRequest, "offset と page_size は0以上の整数で指定してください")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		page, err := h.polls.Page(ctx, paging)
		if err != nil {
			h.logger.Printf("admin poll list fetch failed: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "投票一覧の取得に失敗しました")
			return
		}

		now := time.Now()
		items := make([]adminPollResponse, 0, len(page.Items))
		for _, poll := range page.Items {
			items = append(items, adminPollDomainToResponse(poll, now))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, adminPollListResponse{
			Offset:   page.Offset,
			PageSize: page.Limit,
			Total:    page.Total,
			Items:    items,
		})
	}
}

func (h *Handler) failedNotificationListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paging, ok := h.paging(r)
		if !ok {
			common.WriteError(h.logger, w, http.StatusBadRequest, "offset と page_size は0以上の整数で指定してください")
			return
		}
		if h.failedNotifications == nil || paging.Limit == 0 {
			common.WriteJSON(h.logger, w, http.StatusOK, failedNotificationListResponse{Items: []failedNotificationResponse{}})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		failures, err := h.failedNotifications.List(ctx, paging)
		if err != nil {
			h.logger.Printf("admin failed notification fetch failed: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "通知失敗履歴の取得に失敗しました")
			return
		}

		items := make([]failedNotificationResponse, 0, len(failures))
		for _, f := range failures {
			items = append(items, failedNotificationToResponse(f))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, failedNotificationListResponse{Items: items})
	}
}
