package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"linkstash/internal/domain"
	"linkstash/internal/httpserver/deps"
	"linkstash/internal/httpserver/mw"
	"linkstash/internal/logger"
	"linkstash/internal/scheduler"
	"linkstash/internal/utils"
)

type bookmarkPayload struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type bookmarkListResponse struct {
	Items   []domain.Bookmark `json:"items"`
	Total   int               `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opt, page, perPage := listQuery(r)

		items, total, err := d.Store.ListBookmarks(r.Context(), mw.AccessKey(r.Context()), opt)
		if err != nil {
			d.Logger.Error("failed to list bookmarks", logger.Error(err))
			storeError(w, err)
			return
		}
		if items == nil {
			items = []domain.Bookmark{}
		}

		writeJSON(w, http.StatusOK, bookmarkListResponse{
			Items:   items,
			Total:   total,
			Page:    page,
			PerPage: perPage,
		})
	}
}

// CreateBookmarks saves one bookmark per non-empty line of the url
// field. A blank title gets a timestamp placeholder; when several lines
// are added at once, every title gets an index suffix so they stay
// distinguishable.
func CreateBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in bookmarkPayload
		if err := decodeBody(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		urls := splitLines(in.URL)
		if len(urls) == 0 {
			writeError(w, http.StatusBadRequest, "url is required")
			return
		}

		baseTitle := strings.TrimSpace(in.Title)
		placeholder := baseTitle == ""
		if placeholder {
			baseTitle = utils.TimestampTitle(d.Now())
		}

		records := make([]domain.Bookmark, 0, len(urls))
		for i, u := range urls {
			title := baseTitle
			if len(urls) > 1 {
				title = utils.IndexedTitle(baseTitle, i+1, placeholder)
			}
			records = append(records, domain.Bookmark{
				URL:         u,
				Title:       title,
				Category:    strings.TrimSpace(in.Category),
				Description: in.Description,
			})
		}

		accessKey := mw.AccessKey(r.Context())
		created, err := d.Store.InsertBookmarks(r.Context(), accessKey, records)
		if err != nil {
			d.Logger.Error("failed to create bookmarks", logger.Error(err))
			storeError(w, err)
			return
		}

		// Placeholder titles get resolved in the background when the
		// worker is running.
		if d.Titles != nil && placeholder {
			for _, rec := range created {
				d.Titles.Enqueue(scheduler.TitleJob{AccessKey: accessKey, Bookmark: rec})
			}
		}

		writeJSON(w, http.StatusCreated, map[string][]domain.Bookmark{"items": created})
	}
}

func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var in bookmarkPayload
		if err := decodeBody(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		url := strings.TrimSpace(in.URL)
		if url == "" {
			writeError(w, http.StatusBadRequest, "url is required")
			return
		}

		// A cleared title falls back to the URL; titles never persist
		// empty.
		title := strings.TrimSpace(in.Title)
		if title == "" {
			title = url
		}

		record := domain.Bookmark{
			ID:          id,
			URL:         url,
			Title:       title,
			Category:    strings.TrimSpace(in.Category),
			Description: in.Description,
		}
		if err := d.Store.UpdateBookmark(r.Context(), mw.AccessKey(r.Context()), record); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Store.DeleteBookmarks(r.Context(), mw.AccessKey(r.Context()), []string{id}); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func BulkDeleteBookmarks(d deps.Deps) http.HandlerFunc {
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

		if err := d.Store.DeleteBookmarks(r.Context(), mw.AccessKey(r.Context()), in.IDs); err != nil {
			storeError(w, err)
			return
		}
		d.Logger.Info("bookmarks bulk-deleted", logger.Int("count", len(in.IDs)))
		w.WriteHeader(http.StatusNoContent)
	}
}

// splitLines returns the trimmed non-empty lines of s.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
