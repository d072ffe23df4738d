package scheduler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"linkstash/internal/domain"
	"linkstash/internal/fetch"
	"linkstash/internal/logger"
	"linkstash/internal/store"
	"linkstash/internal/store/memory"
)

const testKey = "worker-test"

func pageServer(t *testing.T, title string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><head><title>" + title + "</title></head><body></body></html>"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func waitForTitle(t *testing.T, st store.Store, want string) bool {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		items, _, err := st.ListBookmarks(context.Background(), testKey, store.ListOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if len(items) == 1 && items[0].Title == want {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}

func TestTitleWorkerResolvesTitle(t *testing.T) {
	srv := pageServer(t, "Fetched Title")
	st := memory.NewStore()
	log := logger.New("error", false)

	created, err := st.InsertBookmarks(context.Background(), testKey, []domain.Bookmark{
		{URL: srv.URL, Title: "20260829_134501"},
	})
	if err != nil {
		t.Fatal(err)
	}

	w := NewTitleWorker(st, fetch.NewTitleFetcher(100, time.Second), log, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	if !w.Enqueue(TitleJob{AccessKey: testKey, Bookmark: created[0]}) {
		t.Fatal("Enqueue returned false on an empty queue")
	}

	if !waitForTitle(t, st, "Fetched Title") {
		t.Error("title was not resolved in time")
	}
}

func TestTitleWorkerKeepsPlaceholderOnTimestampResult(t *testing.T) {
	// A page whose title looks like our own placeholder is no
	// improvement; the stored record must stay untouched.
	srv := pageServer(t, "20260101_000000 archive dump")
	st := memory.NewStore()
	log := logger.New("error", false)

	created, err := st.InsertBookmarks(context.Background(), testKey, []domain.Bookmark{
		{URL: srv.URL, Title: "20260829_134501"},
	})
	if err != nil {
		t.Fatal(err)
	}

	w := NewTitleWorker(st, fetch.NewTitleFetcher(100, time.Second), log, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	w.Enqueue(TitleJob{AccessKey: testKey, Bookmark: created[0]})

	if waitForTitle(t, st, "20260101_000000 archive dump") {
		t.Error("timestamp-shaped title should have been discarded")
	}
	items, _, _ := st.ListBookmarks(context.Background(), testKey, store.ListOptions{})
	if items[0].Title != "20260829_134501" {
		t.Errorf("title = %q, want untouched placeholder", items[0].Title)
	}
}

func TestTitleWorkerDropsWhenQueueFull(t *testing.T) {
	st := memory.NewStore()
	log := logger.New("error", false)

	// Worker not started: the queue fills up and stays full.
	w := NewTitleWorker(st, fetch.NewTitleFetcher(100, time.Second), log, 1)

	if !w.Enqueue(TitleJob{AccessKey: testKey}) {
		t.Fatal("first job should fit")
	}
	if w.Enqueue(TitleJob{AccessKey: testKey}) {
		t.Error("second job should be dropped")
	}
}
