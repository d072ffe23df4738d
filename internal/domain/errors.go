package domain

import "errors"

// Sentinel errors shared across the storage and pipeline layers.
// Handlers translate these into user-facing responses; none of them
// is fatal to the running service.
var (
	// ErrNotFound is returned when a record does not exist in the
	// caller's namespace.
	ErrNotFound = errors.New("record not found")

	// ErrEmptyImport is returned when an uploaded bookmark file
	// contains zero qualifying links. Nothing is written.
	ErrEmptyImport = errors.New("no bookmarks found in file")

	// ErrNothingToImport is returned when every parsed link was
	// filtered out as a duplicate. Not a failure.
	ErrNothingToImport = errors.New("no new bookmarks to import")

	// ErrNothingToExport is returned when the namespace has no
	// records to export. No file is produced.
	ErrNothingToExport = errors.New("no bookmarks to export")

	// ErrGroupExhausted rejects a deletion that would remove every
	// member of a duplicate group. Checked before any delete is issued.
	ErrGroupExhausted = errors.New("deletion would remove every bookmark in the group")
)
