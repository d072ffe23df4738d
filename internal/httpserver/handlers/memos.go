package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"linkstash/internal/domain"
	"linkstash/internal/httpserver/deps"
	"linkstash/internal/httpserver/mw"
	"linkstash/internal/logger"
	"linkstash/internal/utils"
)

// untitledMemo replaces a title cleared on update.
const untitledMemo = "Untitled"

type memoPayload struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type memoListResponse struct {
	Items   []domain.Memo `json:"items"`
	Total   int           `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

func ListMemos(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opt, page, perPage := listQuery(r)

		items, total, err := d.Store.ListMemos(r.Context(), mw.AccessKey(r.Context()), opt)
		if err != nil {
			d.Logger.Error("failed to list memos", logger.Error(err))
			storeError(w, err)
			return
		}
		if items == nil {
			items = []domain.Memo{}
		}

		writeJSON(w, http.StatusOK, memoListResponse{
			Items:   items,
			Total:   total,
			Page:    page,
			PerPage: perPage,
		})
	}
}

func CreateMemo(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in memoPayload
		if err := decodeBody(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(in.Content) == "" {
			writeError(w, http.StatusBadRequest, "content is required")
			return
		}

		title := strings.TrimSpace(in.Title)
		if title == "" {
			title = utils.TimestampTitle(d.Now())
		}

		created, err := d.Store.InsertMemo(r.Context(), mw.AccessKey(r.Context()), domain.Memo{
			Title:    title,
			Content:  in.Content,
			Category: strings.TrimSpace(in.Category),
		})
		if err != nil {
			d.Logger.Error("failed to create memo", logger.Error(err))
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func UpdateMemo(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var in memoPayload
		if err := decodeBody(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(in.Content) == "" {
			writeError(w, http.StatusBadRequest, "content is required")
			return
		}

		// A cleared title falls back to a placeholder rather than
		// persisting empty.
		title := strings.TrimSpace(in.Title)
		if title == "" {
			title = untitledMemo
		}

		record := domain.Memo{
			ID:       id,
			Title:    title,
			Content:  in.Content,
			Category: strings.TrimSpace(in.Category),
		}
		if err := d.Store.UpdateMemo(r.Context(), mw.AccessKey(r.Context()), record); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteMemo(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Store.DeleteMemos(r.Context(), mw.AccessKey(r.Context()), []string{id}); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func BulkDeleteMemos(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in bulkDeleteRequest
		if err := decodeBody(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if len(in.IDs) == 0 {
			writeError(w, http.StatusBadRequest, "ids must not be empty")
			return
		}

		if err := d.Store.DeleteMemos(r.Context(), mw.AccessKey(r.Context()), in.IDs); err != nil {
			storeError(w, err)
			return
		}
		d.Logger.Info("memos bulk-deleted", logger.Int("count", len(in.IDs)))
		w.WriteHeader(http.StatusNoContent)
	}
}
