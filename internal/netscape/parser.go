// Package netscape reads and writes the Netscape bookmark file dialect
// (<!DOCTYPE NETSCAPE-Bookmark-file-1>) used by browser import/export.
package netscape

import (
	"strings"

	"golang.org/x/net/html"
)

// ParsedBookmark is a single link extracted from a bookmark file.
type ParsedBookmark struct {
	URL      string
	Title    string
	Category string // slash-joined folder path, empty when not foldered
}

// Parse extracts bookmarks from a Netscape bookmark HTML document.
// Parsing is browser-style lenient: malformed or partial input never
// fails, worst case zero links come back. Only http://, https:// and
// chrome:// links are accepted; anything else (javascript:, mailto:,
// relative paths) is skipped.
func Parse(htmlText string) []ParsedBookmark {
	doc, err := html.Parse(strings.NewReader(htmlText))
	if err != nil {
		// html.Parse only fails on reader errors, not on bad markup.
		return nil
	}

	var bookmarks []ParsedBookmark
	walkAnchors(doc, func(a *html.Node) {
		href := attr(a, "href")
		if !acceptedScheme(href) {
			return
		}

		title := strings.TrimSpace(textContent(a))
		if title == "" {
			title = href
		}

		bookmarks = append(bookmarks, ParsedBookmark{
			URL:      href,
			Title:    title,
			Category: categoryPath(a),
		})
	})

	return bookmarks
}

func acceptedScheme(href string) bool {
	return strings.HasPrefix(href, "http://") ||
		strings.HasPrefix(href, "https://") ||
		strings.HasPrefix(href, "chrome://")
}

// walkAnchors visits every <a> element in document order.
func walkAnchors(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode && n.Data == "a" {
		visit(n)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkAnchors(c, visit)
	}
}

// categoryPath reconstructs the slash-joined folder path of an anchor by
// walking its ancestor chain. For every enclosing <dl> list the folder
// name is the text of the associated <dt><h3> heading. Browser exports
// come in two shapes: Chrome omits </dt> so the list ends up a child of
// the heading's <dt>, while files with explicit closing tags put the
// list right after it as a sibling. Both are handled. Consecutive
// repeats of the same folder name collapse into one segment.
func categoryPath(a *html.Node) string {
	var path []string // innermost first

	for n := a.Parent; n != nil; n = n.Parent {
		if n.Type != html.ElementNode || n.Data != "dl" {
			continue
		}
		name := folderName(n)
		if name == "" {
			continue
		}
		if len(path) == 0 || path[len(path)-1] != name {
			path = append(path, name)
		}
	}

	if len(path) == 0 {
		return ""
	}

	// Reverse to outermost-first before joining.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return strings.Join(path, "/")
}

// folderName finds the heading naming a <dl> folder list: either the
// <h3> inside the parent <dt>, or the <h3> of the nearest preceding
// sibling <dt>.
func folderName(dl *html.Node) string {
	if p := dl.Parent; p != nil && p.Type == html.ElementNode && p.Data == "dt" {
		if h3 := childElement(p, "h3"); h3 != nil {
			return strings.TrimSpace(textContent(h3))
		}
	}
	for sib := dl.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type != html.ElementNode {
			continue
		}
		if sib.Data == "dt" {
			if h3 := childElement(sib, "h3"); h3 != nil {
				return strings.TrimSpace(textContent(h3))
			}
			return ""
		}
		if sib.Data == "dl" {
			// A preceding sibling list belongs to another folder.
			return ""
		}
	}
	return ""
}

func childElement(n *html.Node, name string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == name {
			return c
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}
