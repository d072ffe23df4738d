// Package scheduler runs background jobs. The only job today is the
// title worker, which fills in page titles for bookmarks saved without
// one.
package scheduler

import (
	"context"
	"regexp"
	"sync"

	"linkstash/internal/domain"
	"linkstash/internal/fetch"
	"linkstash/internal/logger"
	"linkstash/internal/store"
)

// DefaultTitleQueueSize bounds the pending title-fetch queue. Jobs
// beyond it are dropped; a missing title is cosmetic.
const DefaultTitleQueueSize = 128

// timestampTitle matches the placeholder titles assigned when a
// bookmark is created without one (see utils.TimestampTitle).
var timestampTitle = regexp.MustCompile(`^\d{8}_\d{6}`)

// TitleJob asks the worker to resolve the title of one bookmark.
type TitleJob struct {
	AccessKey string
	Bookmark  domain.Bookmark
}

// TitleWorker consumes title-fetch jobs on a single goroutine.
// Everything is best-effort: fetch failures and vanished bookmarks are
// logged at debug level and dropped.
type TitleWorker struct {
	store   store.Store
	fetcher *fetch.TitleFetcher
	logger  logger.Logger
	jobs    chan TitleJob
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewTitleWorker creates a title worker with the given queue size.
func NewTitleWorker(s store.Store, f *fetch.TitleFetcher, log logger.Logger, queueSize int) *TitleWorker {
	if queueSize <= 0 {
		queueSize = DefaultTitleQueueSize
	}
	return &TitleWorker{
		store:   s,
		fetcher: f,
		logger:  log,
		jobs:    make(chan TitleJob, queueSize),
		stopCh:  make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (w *TitleWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case job := <-w.jobs:
				w.process(ctx, job)
			case <-w.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop terminates the worker and waits for the in-flight job.
func (w *TitleWorker) Stop() {
	close(w.stopCh)
	w.wg.Wait()
}

// Enqueue submits a job without blocking. Returns false when the queue
// is full and the job was dropped.
func (w *TitleWorker) Enqueue(job TitleJob) bool {
	select {
	case w.jobs <- job:
		return true
	default:
		w.logger.Debug("title fetch queue full, dropping job",
			logger.String("url", job.Bookmark.URL))
		return false
	}
}

func (w *TitleWorker) process(ctx context.Context, job TitleJob) {
	title, err := w.fetcher.Fetch(ctx, job.Bookmark.URL)
	if err != nil {
		w.logger.Debug("title fetch failed",
			logger.String("url", job.Bookmark.URL),
			logger.Error(err))
		return
	}

	// A timestamp-shaped result means we got nothing better than the
	// placeholder; leave the record alone.
	if timestampTitle.MatchString(title) {
		return
	}

	record := job.Bookmark
	record.Title = title
	if err := w.store.UpdateBookmark(ctx, job.AccessKey, record); err != nil {
		// Deleted in the meantime, or the store hiccuped. Not worth retrying.
		w.logger.Debug("title update skipped",
			logger.String("id", record.ID),
			logger.Error(err))
		return
	}

	w.logger.Info("bookmark title resolved",
		logger.String("id", record.ID),
		logger.String("title", title))
}
