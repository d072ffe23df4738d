package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"linkstash/internal/dedup"
	"linkstash/internal/domain"
	"linkstash/internal/httpserver/deps"
	"linkstash/internal/httpserver/mw"
	"linkstash/internal/logger"
	"linkstash/internal/pipeline"
	"linkstash/internal/store"
	"linkstash/internal/store/memory"
)

const testAccessKey = "routes-test"

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()

	st := memory.NewStore()
	log := logger.New("error", false)
	fixed := time.Date(2026, 8, 29, 13, 45, 1, 0, time.UTC)

	d := deps.Deps{
		Logger:    log,
		StartTime: time.Now(),
		Version:   "test",
		TimeNow:   func() time.Time { return fixed },
		Store:     st,
		Importer:  pipeline.NewImporter(st, log),
		Exporter:  pipeline.NewExporter(st, log),
	}

	r := chi.NewRouter()
	RegisterAll(r, d)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, st
}

func doRequest(t *testing.T, srv *httptest.Server, method, path, body string, withKey bool) *http.Response {
	t.Helper()

	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	if withKey {
		req.Header.Set(mw.AccessKeyHeader, testAccessKey)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func TestMissingAccessKey(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/api/bookmarks", "", false)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestCreateBookmarksMultiline(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"url":"https://a.com\nhttps://b.com\n\n","title":""}`
	resp := doRequest(t, srv, http.MethodPost, "/api/bookmarks", body, true)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var out struct {
		Items []domain.Bookmark `json:"items"`
	}
	decode(t, resp, &out)
	if len(out.Items) != 2 {
		t.Fatalf("created %d bookmarks, want 2", len(out.Items))
	}
	// Every record of a multi-line add carries its index.
	if out.Items[0].Title != "20260829_134501_1" {
		t.Errorf("first title = %q, want indexed placeholder", out.Items[0].Title)
	}
	if out.Items[1].Title != "20260829_134501_2" {
		t.Errorf("second title = %q, want indexed placeholder", out.Items[1].Title)
	}
}

func TestCreateBookmarkSingleLineTitles(t *testing.T) {
	srv, _ := newTestServer(t)

	var out struct {
		Items []domain.Bookmark `json:"items"`
	}

	resp := doRequest(t, srv, http.MethodPost, "/api/bookmarks", `{"url":"https://a.com"}`, true)
	decode(t, resp, &out)
	if out.Items[0].Title != "20260829_134501" {
		t.Errorf("placeholder title = %q, want unsuffixed timestamp", out.Items[0].Title)
	}

	resp = doRequest(t, srv, http.MethodPost, "/api/bookmarks", `{"url":"https://b.com","title":"My Link"}`, true)
	decode(t, resp, &out)
	if out.Items[0].Title != "My Link" {
		t.Errorf("title = %q, want unsuffixed user title", out.Items[0].Title)
	}
}

func TestCreateBookmarksMultilineUserTitle(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"url":"https://a.com\nhttps://b.com","title":"Docs"}`
	resp := doRequest(t, srv, http.MethodPost, "/api/bookmarks", body, true)

	var out struct {
		Items []domain.Bookmark `json:"items"`
	}
	decode(t, resp, &out)
	if len(out.Items) != 2 {
		t.Fatalf("created %d bookmarks, want 2", len(out.Items))
	}
	if out.Items[0].Title != "Docs (1)" || out.Items[1].Title != "Docs (2)" {
		t.Errorf("titles = %q, %q, want Docs (1) and Docs (2)", out.Items[0].Title, out.Items[1].Title)
	}
}

func TestCreateBookmarkRequiresURL(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, srv, http.MethodPost, "/api/bookmarks", `{"title":"no url"}`, true)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListBookmarksPagination(t *testing.T) {
	srv, st := newTestServer(t)
	seed(t, st, 5)

	resp := doRequest(t, srv, http.MethodGet, "/api/bookmarks?page=2&per_page=2", "", true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out struct {
		Items   []domain.Bookmark `json:"items"`
		Total   int               `json:"total"`
		Page    int               `json:"page"`
		PerPage int               `json:"per_page"`
	}
	decode(t, resp, &out)
	if out.Total != 5 || out.Page != 2 || out.PerPage != 2 {
		t.Errorf("total/page/per_page = %d/%d/%d", out.Total, out.Page, out.PerPage)
	}
	if len(out.Items) != 2 {
		t.Errorf("page has %d items, want 2", len(out.Items))
	}
}

func TestListBookmarksSearch(t *testing.T) {
	srv, st := newTestServer(t)
	mustInsert(t, st, domain.Bookmark{URL: "https://go.dev", Title: "Go"})
	mustInsert(t, st, domain.Bookmark{URL: "https://example.com", Title: "Other"})

	resp := doRequest(t, srv, http.MethodGet, "/api/bookmarks?q=go&fields=url,title", "", true)
	var out struct {
		Total int `json:"total"`
	}
	decode(t, resp, &out)
	if out.Total != 1 {
		t.Errorf("total = %d, want 1", out.Total)
	}
}

func TestUpdateBookmark(t *testing.T) {
	srv, st := newTestServer(t)
	created := mustInsert(t, st, domain.Bookmark{URL: "https://a.com", Title: "old"})

	body := `{"url":"https://a.com","title":"new"}`
	resp := doRequest(t, srv, http.MethodPut, "/api/bookmarks/"+created.ID, body, true)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}

	resp = doRequest(t, srv, http.MethodPut, "/api/bookmarks/unknown-id", body, true)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown id", resp.StatusCode)
	}
}

func TestUpdateBookmarkClearedTitleFallsBackToURL(t *testing.T) {
	srv, st := newTestServer(t)
	created := mustInsert(t, st, domain.Bookmark{URL: "https://a.com", Title: "named"})

	resp := doRequest(t, srv, http.MethodPut, "/api/bookmarks/"+created.ID, `{"url":"https://a.com","title":"  "}`, true)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}

	items, _, err := st.ListBookmarks(context.Background(), testAccessKey, store.ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Title != "https://a.com" {
		t.Errorf("title = %q, want the url as fallback", items[0].Title)
	}
}

func TestBulkDeleteBookmarks(t *testing.T) {
	srv, st := newTestServer(t)
	a := mustInsert(t, st, domain.Bookmark{URL: "https://a.com"})
	b := mustInsert(t, st, domain.Bookmark{URL: "https://b.com"})

	body := `{"ids":["` + a.ID + `","` + b.ID + `"]}`
	resp := doRequest(t, srv, http.MethodPost, "/api/bookmarks/bulk-delete", body, true)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}

	resp = doRequest(t, srv, http.MethodPost, "/api/bookmarks/bulk-delete", `{"ids":[]}`, true)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for empty ids", resp.StatusCode)
	}
}

func TestDuplicatesFlow(t *testing.T) {
	srv, st := newTestServer(t)
	kept := mustInsert(t, st, domain.Bookmark{URL: "http://a.com", Title: "kept"})
	dup := mustInsert(t, st, domain.Bookmark{URL: "http://a.com/", Title: "dup"})
	mustInsert(t, st, domain.Bookmark{URL: "https://unique.com"})

	resp := doRequest(t, srv, http.MethodGet, "/api/bookmarks/duplicates", "", true)
	var out struct {
		Groups []dedup.Group `json:"groups"`
	}
	decode(t, resp, &out)
	if len(out.Groups) != 1 {
		t.Fatalf("found %d groups, want 1", len(out.Groups))
	}
	g := out.Groups[0]
	if g.Key != "http://a.com" {
		t.Errorf("group key = %q", g.Key)
	}
	if g.Kept.ID != kept.ID {
		t.Errorf("kept = %s, want the older record", g.Kept.ID)
	}

	// Deleting every member is refused.
	body := `{"key":"http://a.com","ids":["` + kept.ID + `","` + dup.ID + `"]}`
	resp = doRequest(t, srv, http.MethodPost, "/api/bookmarks/duplicates/delete", body, true)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}

	// Deleting just the duplicate works.
	body = `{"key":"http://a.com","ids":["` + dup.ID + `"]}`
	resp = doRequest(t, srv, http.MethodPost, "/api/bookmarks/duplicates/delete", body, true)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}

	resp = doRequest(t, srv, http.MethodGet, "/api/bookmarks/duplicates", "", true)
	decode(t, resp, &out)
	if len(out.Groups) != 0 {
		t.Errorf("still %d groups after cleanup", len(out.Groups))
	}
}

func TestDuplicatesUnknownKey(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"key":"http://nothing.com","ids":["x"]}`
	resp := doRequest(t, srv, http.MethodPost, "/api/bookmarks/duplicates/delete", body, true)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestImportAndExport(t *testing.T) {
	srv, _ := newTestServer(t)

	doc := `<DL><p>
<DT><A HREF="https://one.com">One</A></DT>
<DT><A HREF="https://two.com">Two</A></DT>
</DL>`
	resp := doRequest(t, srv, http.MethodPost, "/api/bookmarks/import", doc, true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("import status = %d, want 200", resp.StatusCode)
	}
	var result pipeline.ImportResult
	decode(t, resp, &result)
	if result.Imported != 2 || result.Skipped != 0 {
		t.Errorf("imported/skipped = %d/%d, want 2/0", result.Imported, result.Skipped)
	}

	// Re-import with duplicate skipping filters everything out.
	resp = doRequest(t, srv, http.MethodPost, "/api/bookmarks/import?skip_duplicates=true", doc, true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second import status = %d, want 200", resp.StatusCode)
	}
	decode(t, resp, &result)
	if result.Imported != 0 || result.Skipped != 2 {
		t.Errorf("imported/skipped = %d/%d, want 0/2", result.Imported, result.Skipped)
	}

	resp = doRequest(t, srv, http.MethodGet, "/api/bookmarks/export", "", true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/html" {
		t.Errorf("Content-Type = %q", ct)
	}
	cd := resp.Header.Get("Content-Disposition")
	if !strings.Contains(cd, "bookmarks_20260829_1345.html") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestImportEmptyBody(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, srv, http.MethodPost, "/api/bookmarks/import", "<html></html>", true)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestExportEmptyNamespace(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/api/bookmarks/export", "", true)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestMemoLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, srv, http.MethodPost, "/api/memos", `{"content":"remember the milk"}`, true)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var created domain.Memo
	decode(t, resp, &created)
	if created.Title != "20260829_134501" {
		t.Errorf("title = %q, want timestamp placeholder", created.Title)
	}

	resp = doRequest(t, srv, http.MethodPut, "/api/memos/"+created.ID, `{"title":"shopping","content":"milk and eggs"}`, true)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("update status = %d, want 204", resp.StatusCode)
	}

	resp = doRequest(t, srv, http.MethodGet, "/api/memos?q=eggs", "", true)
	var list struct {
		Items []domain.Memo `json:"items"`
		Total int           `json:"total"`
	}
	decode(t, resp, &list)
	if list.Total != 1 {
		t.Fatalf("total = %d, want 1", list.Total)
	}

	resp = doRequest(t, srv, http.MethodDelete, "/api/memos/"+created.ID, "", true)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}
}

func TestUpdateMemoClearedTitleFallsBackToUntitled(t *testing.T) {
	srv, st := newTestServer(t)

	created, err := st.InsertMemo(context.Background(), testAccessKey, domain.Memo{Title: "named", Content: "milk"})
	if err != nil {
		t.Fatal(err)
	}

	resp := doRequest(t, srv, http.MethodPut, "/api/memos/"+created.ID, `{"title":"","content":"milk"}`, true)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}

	items, _, err := st.ListMemos(context.Background(), testAccessKey, store.ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Title != "Untitled" {
		t.Errorf("title = %q, want Untitled fallback", items[0].Title)
	}
}

func TestMemoRequiresContent(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, srv, http.MethodPost, "/api/memos", `{"title":"empty"}`, true)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestOpsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz", "/infra"} {
		resp := doRequest(t, srv, http.MethodGet, path, "", false)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, resp.StatusCode)
		}
	}
}

// seed inserts n bookmarks directly into the store.
func seed(t *testing.T, st *memory.Store, n int) {
	t.Helper()
	records := make([]domain.Bookmark, n)
	for i := range records {
		records[i] = domain.Bookmark{URL: "https://example.com", Title: "seed"}
	}
	if _, err := st.InsertBookmarks(context.Background(), testAccessKey, records); err != nil {
		t.Fatal(err)
	}
}

func mustInsert(t *testing.T, st *memory.Store, b domain.Bookmark) domain.Bookmark {
	t.Helper()
	created, err := st.InsertBookmarks(context.Background(), testAccessKey, []domain.Bookmark{b})
	if err != nil {
		t.Fatal(err)
	}
	return created[0]
}
