package store

import (
	"strings"

	"linkstash/internal/domain"
)

// In-memory search and pagination helpers shared by the backends that
// filter on the application side (redis, memory). The Postgres backend
// pushes the same semantics into SQL.

// MatchBookmark reports whether b satisfies the query in opt.
// An empty query matches everything.
func MatchBookmark(b domain.Bookmark, opt ListOptions) bool {
	if opt.Query == "" {
		return true
	}
	fields := opt.Fields
	if len(fields) == 0 {
		fields = []string{FieldTitle, FieldURL, FieldCategory, FieldDescription}
	}
	q := strings.ToLower(opt.Query)
	for _, f := range fields {
		var v string
		switch f {
		case FieldTitle:
			v = b.Title
		case FieldURL:
			v = b.URL
		case FieldCategory:
			v = b.Category
		case FieldDescription:
			v = b.Description
		default:
			continue
		}
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

// MatchMemo reports whether m satisfies the query in opt.
func MatchMemo(m domain.Memo, opt ListOptions) bool {
	if opt.Query == "" {
		return true
	}
	fields := opt.Fields
	if len(fields) == 0 {
		fields = []string{FieldTitle, FieldCategory, FieldContent}
	}
	q := strings.ToLower(opt.Query)
	for _, f := range fields {
		var v string
		switch f {
		case FieldTitle:
			v = m.Title
		case FieldCategory:
			v = m.Category
		case FieldContent:
			v = m.Content
		default:
			continue
		}
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

// PageBounds clamps an offset/limit window to [0, total).
// Limit <= 0 selects everything from offset on.
func PageBounds(total, offset, limit int) (lo, hi int) {
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	if limit <= 0 {
		return offset, total
	}
	hi = offset + limit
	if hi > total {
		hi = total
	}
	return offset, hi
}
