package pipeline

import (
	"context"
	"fmt"
	"time"

	"linkstash/internal/domain"
	"linkstash/internal/logger"
	"linkstash/internal/netscape"
	"linkstash/internal/store"
)

// ExportFile is a generated bookmark document ready for download.
type ExportFile struct {
	Filename string
	MIMEType string
	Data     []byte
	Count    int
}

// Exporter runs bookmark file exports against a store.
type Exporter struct {
	store store.Store
	log   logger.Logger
}

// NewExporter creates an export pipeline.
func NewExporter(s store.Store, log logger.Logger) *Exporter {
	return &Exporter{store: s, log: log}
}

// Run fetches every bookmark in accessKey's namespace, ordered by
// category then creation time descending, and serializes them into a
// Netscape bookmark document. now determines the timestamp embedded in
// the suggested filename. Returns domain.ErrNothingToExport when the
// namespace is empty.
func (ex *Exporter) Run(ctx context.Context, accessKey string, now time.Time) (ExportFile, error) {
	records, err := ex.store.BookmarksForExport(ctx, accessKey)
	if err != nil {
		return ExportFile{}, err
	}
	if len(records) == 0 {
		return ExportFile{}, domain.ErrNothingToExport
	}

	doc := netscape.Generate(records)

	file := ExportFile{
		Filename: fmt.Sprintf("bookmarks_%s.html", now.Format("20060102_1504")),
		MIMEType: "text/html",
		Data:     []byte(doc),
		Count:    len(records),
	}

	ex.log.Info("bookmarks exported",
		logger.Int("count", file.Count),
		logger.String("filename", file.Filename))

	return file, nil
}
