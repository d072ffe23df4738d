package handlers

import (
	"errors"
	"net/http"

	"linkstash/internal/dedup"
	"linkstash/internal/domain"
	"linkstash/internal/httpserver/deps"
	"linkstash/internal/httpserver/mw"
	"linkstash/internal/logger"
	"linkstash/internal/store"
)

type duplicatesResponse struct {
	Groups []dedup.Group `json:"groups"`
}

// ListDuplicates scans the whole namespace and reports groups of
// bookmarks sharing a normalized URL.
func ListDuplicates(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, _, err := d.Store.ListBookmarks(r.Context(), mw.AccessKey(r.Context()), store.ListOptions{})
		if err != nil {
			d.Logger.Error("failed to scan for duplicates", logger.Error(err))
			storeError(w, err)
			return
		}

		groups := dedup.FindGroups(records)
		if groups == nil {
			groups = []dedup.Group{}
		}
		writeJSON(w, http.StatusOK, duplicatesResponse{Groups: groups})
	}
}

type duplicateDeleteRequest struct {
	Key string   `json:"key"`
	IDs []string `json:"ids"`
}

// DeleteDuplicates removes selected members of one duplicate group. The
// deletion is refused when it would empty the group entirely, so every
// URL keeps at least one bookmark.
func DeleteDuplicates(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in duplicateDeleteRequest
		if err := decodeBody(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if in.Key == "" {
			writeError(w, http.StatusBadRequest, "key is required")
			return
		}
		if len(in.IDs) == 0 {
			writeError(w, http.StatusBadRequest, "ids must not be empty")
			return
		}

		accessKey := mw.AccessKey(r.Context())
		records, _, err := d.Store.ListBookmarks(r.Context(), accessKey, store.ListOptions{})
		if err != nil {
			storeError(w, err)
			return
		}

		group, ok := findGroup(dedup.FindGroups(records), in.Key)
		if !ok {
			writeError(w, http.StatusNotFound, "no duplicate group for key")
			return
		}

		if err := group.ValidateDeletion(in.IDs); err != nil {
			if errors.Is(err, domain.ErrGroupExhausted) {
				writeError(w, http.StatusConflict, "deletion would remove every bookmark in the group")
				return
			}
			writeError(w, http.StatusInternalServerError, "validation failure")
			return
		}

		// Only delete ids that actually belong to the group.
		toDelete := groupMembers(group, in.IDs)
		if len(toDelete) == 0 {
			writeError(w, http.StatusBadRequest, "no ids belong to the group")
			return
		}

		if err := d.Store.DeleteBookmarks(r.Context(), accessKey, toDelete); err != nil {
			storeError(w, err)
			return
		}
		d.Logger.Info("duplicate bookmarks deleted",
			logger.String("key", in.Key),
			logger.Int("count", len(toDelete)))
		w.WriteHeader(http.StatusNoContent)
	}
}

func findGroup(groups []dedup.Group, key string) (dedup.Group, bool) {
	for _, g := range groups {
		if g.Key == key {
			return g, true
		}
	}
	return dedup.Group{}, false
}

func groupMembers(g dedup.Group, ids []string) []string {
	members := make(map[string]bool, g.Size())
	members[g.Kept.ID] = true
	for _, b := range g.Removable {
		members[b.ID] = true
	}

	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if members[id] && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
