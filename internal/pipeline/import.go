// Package pipeline implements the bookmark file import and export
// flows on top of the store, the Netscape codec and the URL normalizer.
// Pipelines hold no state between runs.
package pipeline

import (
	"context"

	"linkstash/internal/domain"
	"linkstash/internal/logger"
	"linkstash/internal/netscape"
	"linkstash/internal/norm"
	"linkstash/internal/store"
)

// ImportBatchSize is the number of records written per store call.
// Batches run sequentially; a failed batch is logged and skipped
// without aborting the rest.
const ImportBatchSize = 50

// ImportResult reports the outcome of an import run.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Importer runs bookmark file imports against a store.
type Importer struct {
	store store.Store
	log   logger.Logger
}

// NewImporter creates an import pipeline.
func NewImporter(s store.Store, log logger.Logger) *Importer {
	return &Importer{store: s, log: log}
}

// Run parses fileContents as a Netscape bookmark file and inserts the
// links into accessKey's namespace. With skipDuplicates, links whose
// normalized URL already exists in the namespace are filtered out and
// counted as skipped.
//
// Returns domain.ErrEmptyImport when the file holds no qualifying
// links, and domain.ErrNothingToImport (with the skipped count) when
// duplicate filtering leaves nothing to write.
func (im *Importer) Run(ctx context.Context, accessKey, fileContents string, skipDuplicates bool) (ImportResult, error) {
	parsed := netscape.Parse(fileContents)
	if len(parsed) == 0 {
		return ImportResult{}, domain.ErrEmptyImport
	}

	toImport := parsed
	if skipDuplicates {
		existing, err := im.existingKeys(ctx, accessKey)
		if err != nil {
			return ImportResult{}, err
		}

		toImport = toImport[:0]
		for _, p := range parsed {
			if !existing[norm.Normalize(p.URL)] {
				toImport = append(toImport, p)
			}
		}
	}

	skipped := len(parsed) - len(toImport)
	if len(toImport) == 0 {
		return ImportResult{Skipped: skipped}, domain.ErrNothingToImport
	}

	imported := 0
	for start := 0; start < len(toImport); start += ImportBatchSize {
		end := start + ImportBatchSize
		if end > len(toImport) {
			end = len(toImport)
		}

		batch := make([]domain.Bookmark, 0, end-start)
		for _, p := range toImport[start:end] {
			batch = append(batch, domain.Bookmark{
				URL:      p.URL,
				Title:    p.Title,
				Category: p.Category,
			})
		}

		if _, err := im.store.InsertBookmarks(ctx, accessKey, batch); err != nil {
			im.log.Error("import batch failed",
				logger.Int("batch_start", start),
				logger.Int("batch_size", len(batch)),
				logger.Error(err))
			continue
		}
		imported += len(batch)
	}

	return ImportResult{Imported: imported, Skipped: skipped}, nil
}

// existingKeys builds the set of normalized URL keys already present
// in the namespace.
func (im *Importer) existingKeys(ctx context.Context, accessKey string) (map[string]bool, error) {
	urls, err := im.store.BookmarkURLs(ctx, accessKey)
	if err != nil {
		return nil, err
	}
	keys := make(map[string]bool, len(urls))
	for _, u := range urls {
		keys[norm.Normalize(u)] = true
	}
	return keys, nil
}
