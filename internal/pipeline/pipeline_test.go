package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"linkstash/internal/domain"
	"linkstash/internal/logger"
	"linkstash/internal/store"
	"linkstash/internal/store/memory"
)

const testKey = "test-namespace"

func testLogger() logger.Logger {
	return logger.New("error", false)
}

const threeLinksDoc = `<DL><p>
	<DT><A HREF="https://one.com">One</A></DT>
	<DT><A HREF="https://two.com">Two</A></DT>
	<DT><A HREF="https://three.com">Three</A></DT>
</DL><p>`

func TestImportSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()

	// Pre-existing record matching one.com by normalized key.
	_, err := st.InsertBookmarks(ctx, testKey, []domain.Bookmark{
		{URL: "https://www.one.com/", Title: "One"},
	})
	if err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	res, err := NewImporter(st, testLogger()).Run(ctx, testKey, threeLinksDoc, true)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if res.Imported != 2 || res.Skipped != 1 {
		t.Errorf("got imported=%d skipped=%d, want imported=2 skipped=1", res.Imported, res.Skipped)
	}

	_, total, err := st.ListBookmarks(ctx, testKey, store.ListOptions{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 {
		t.Errorf("expected 3 records after import, got %d", total)
	}
}

func TestImportWithoutSkipKeepsDuplicates(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()

	if _, err := st.InsertBookmarks(ctx, testKey, []domain.Bookmark{
		{URL: "https://one.com", Title: "One"},
	}); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	res, err := NewImporter(st, testLogger()).Run(ctx, testKey, threeLinksDoc, false)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if res.Imported != 3 || res.Skipped != 0 {
		t.Errorf("got imported=%d skipped=%d, want imported=3 skipped=0", res.Imported, res.Skipped)
	}
}

func TestImportEmptyFile(t *testing.T) {
	st := memory.NewStore()
	_, err := NewImporter(st, testLogger()).Run(context.Background(), testKey, "<html><body>no links</body></html>", false)
	if !errors.Is(err, domain.ErrEmptyImport) {
		t.Errorf("expected ErrEmptyImport, got %v", err)
	}
}

func TestImportNothingNew(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()

	if _, err := st.InsertBookmarks(ctx, testKey, []domain.Bookmark{
		{URL: "https://one.com", Title: "One"},
		{URL: "https://two.com", Title: "Two"},
		{URL: "https://three.com", Title: "Three"},
	}); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	res, err := NewImporter(st, testLogger()).Run(ctx, testKey, threeLinksDoc, true)
	if !errors.Is(err, domain.ErrNothingToImport) {
		t.Fatalf("expected ErrNothingToImport, got %v", err)
	}
	if res.Skipped != 3 {
		t.Errorf("expected skipped=3, got %d", res.Skipped)
	}
}

// flakyStore fails every insert to exercise partial batch tolerance.
type flakyStore struct {
	store.Store
	failures int
}

func (f *flakyStore) InsertBookmarks(ctx context.Context, accessKey string, records []domain.Bookmark) ([]domain.Bookmark, error) {
	f.failures++
	return nil, errors.New("backend unavailable")
}

func TestImportToleratesBatchFailure(t *testing.T) {
	st := &flakyStore{Store: memory.NewStore()}

	res, err := NewImporter(st, testLogger()).Run(context.Background(), testKey, threeLinksDoc, false)
	if err != nil {
		t.Fatalf("batch failures must not abort the import: %v", err)
	}
	if res.Imported != 0 {
		t.Errorf("expected imported=0 after failed batches, got %d", res.Imported)
	}
	if st.failures == 0 {
		t.Error("expected at least one attempted batch")
	}
}

func TestImportBatching(t *testing.T) {
	var b strings.Builder
	b.WriteString("<DL><p>\n")
	for i := 0; i < ImportBatchSize+10; i++ {
		fmt.Fprintf(&b, "<DT><A HREF=\"https://site%d.com\">link %d</A></DT>\n", i, i)
	}
	b.WriteString("</DL><p>\n")

	st := memory.NewStore()
	res, err := NewImporter(st, testLogger()).Run(context.Background(), testKey, b.String(), false)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if res.Imported != ImportBatchSize+10 {
		t.Errorf("expected %d imported, got %d", ImportBatchSize+10, res.Imported)
	}
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()

	if _, err := st.InsertBookmarks(ctx, testKey, []domain.Bookmark{
		{URL: "https://x.com", Title: "X", Category: "Work"},
		{URL: "https://flat.com", Title: "Flat"},
	}); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	now := time.Date(2026, 8, 29, 13, 45, 0, 0, time.Local)
	file, err := NewExporter(st, testLogger()).Run(ctx, testKey, now)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	if file.Filename != "bookmarks_20260829_1345.html" {
		t.Errorf("unexpected filename %q", file.Filename)
	}
	if file.MIMEType != "text/html" {
		t.Errorf("unexpected MIME type %q", file.MIMEType)
	}
	if file.Count != 2 {
		t.Errorf("expected count=2, got %d", file.Count)
	}
	doc := string(file.Data)
	if !strings.Contains(doc, "NETSCAPE-Bookmark-file-1") {
		t.Error("exported document missing Netscape doctype")
	}
	if !strings.Contains(doc, "<H3>Work</H3>") {
		t.Error("exported document missing category folder")
	}
}

func TestExportEmptyNamespace(t *testing.T) {
	st := memory.NewStore()
	_, err := NewExporter(st, testLogger()).Run(context.Background(), testKey, time.Now())
	if !errors.Is(err, domain.ErrNothingToExport) {
		t.Errorf("expected ErrNothingToExport, got %v", err)
	}
}
