package domain

import "time"

// Bookmark is a stored URL entry.
// The URL is kept verbatim as entered or imported; the normalized form
// used for duplicate detection is computed on demand and never persisted,
// so normalization rule changes apply retroactively without a migration.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned by the store on insert.
	// Empty on records that have not been persisted yet.
	ID string `json:"id"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// URL is the literal address as entered or imported.
	URL string `json:"url"`

	// Title is the display name. Non-empty once persisted; callers
	// substitute a timestamp title when the user leaves it blank.
	Title string `json:"title"`

	// Category optionally encodes a hierarchical path using "/" as
	// separator, e.g. "Work/Projects". Empty means uncategorized.
	Category string `json:"category,omitempty"`

	// Description is free-form and optional.
	Description string `json:"description,omitempty"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is set by the store on insert and never changes.
	CreatedAt time.Time `json:"created_at"`
}
