package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"linkstash/internal/store"
)

const (
	defaultPerPage = 20
	maxPerPage     = 200
)

// listQuery reads page/per_page/q/fields query parameters into store
// options plus the 1-based page echoed back in responses.
func listQuery(r *http.Request) (store.ListOptions, int, int) {
	q := r.URL.Query()

	page := atoiDefault(q.Get("page"), 1)
	if page < 1 {
		page = 1
	}
	perPage := atoiDefault(q.Get("per_page"), defaultPerPage)
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	opt := store.ListOptions{
		Offset: (page - 1) * perPage,
		Limit:  perPage,
		Query:  strings.TrimSpace(q.Get("q")),
	}
	if fields := strings.TrimSpace(q.Get("fields")); fields != "" {
		for _, f := range strings.Split(fields, ",") {
			if f = strings.TrimSpace(f); f != "" {
				opt.Fields = append(opt.Fields, f)
			}
		}
	}
	return opt, page, perPage
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
