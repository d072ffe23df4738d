// Package fetch retrieves page titles for bookmarks saved without one.
// Outbound requests share a rate limiter so a large add burst cannot
// hammer remote sites.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"linkstash/internal/utils"
)

const (
	// maxBodyBytes caps how much of a page is read looking for <title>.
	maxBodyBytes = 512 << 10

	userAgent = "linkstash/1.0 (+bookmark title fetch)"
)

// TitleFetcher fetches the <title> of a web page.
type TitleFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewTitleFetcher creates a fetcher. rps bounds outbound requests per
// second (burst 1); timeout applies per request.
func NewTitleFetcher(rps float64, timeout time.Duration) *TitleFetcher {
	if rps <= 0 {
		rps = 1
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TitleFetcher{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Fetch returns the trimmed <title> text of url. An empty title or a
// non-2xx response is an error; callers treat any failure as
// best-effort and keep the placeholder title.
func (f *TitleFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		// Some pages only carry an og:title meta.
		title = strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	}
	if title == "" {
		return "", fmt.Errorf("page has no title")
	}

	return title, nil
}
