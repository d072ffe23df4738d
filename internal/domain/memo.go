package domain

import "time"

// Memo is a short free-form text note sharing the bookmark namespace model.
type Memo struct {
	// ID is assigned by the store on insert.
	ID string `json:"id"`

	// Title is the display name; defaults to a timestamp title when blank.
	Title string `json:"title"`

	// Content is the memo body. Always non-empty.
	Content string `json:"content"`

	// Category is optional, same convention as Bookmark.Category.
	Category string `json:"category,omitempty"`

	// CreatedAt is set by the store on insert and never changes.
	CreatedAt time.Time `json:"created_at"`
}
