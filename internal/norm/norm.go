// Package norm canonicalizes URLs into comparison keys for duplicate
// detection. The result is used only for equality checks, never for
// navigation or display.
package norm

import (
	"regexp"
	"strings"
)

// wwwPrefix matches a leading "www." right after the scheme. Only this
// exact prefix is stripped; other subdomains and IDNs are intentionally
// left alone.
var wwwPrefix = regexp.MustCompile(`^(https?://)www\.`)

// Normalize canonicalizes raw into a comparison key:
//
//  1. trim surrounding whitespace, lowercase everything
//  2. drop the query string and fragment
//  3. strip a "www." segment directly after an http(s) scheme
//  4. strip all trailing slashes
//
// Scheme-less input goes through the same steps. The function never
// fails: worst case it returns the trimmed, lowercased input.
// Normalize is idempotent.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))

	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}

	s = wwwPrefix.ReplaceAllString(s, "$1")

	// Strip trailing slashes, but never the ones belonging to the
	// scheme separator: a bare "http://" stays "http://".
	for strings.HasSuffix(s, "/") && !strings.HasSuffix(s, "://") {
		s = s[:len(s)-1]
	}

	return s
}
