package netscape

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"linkstash/internal/domain"
)

const header = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<!-- This is an automatically generated file.
     It will be read and overwritten.
     DO NOT EDIT! -->
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
`

// folderNode is an ephemeral tree node built from slash-delimited
// category paths during generation.
type folderNode struct {
	children  map[string]*folderNode
	bookmarks []domain.Bookmark
}

func newFolderNode() *folderNode {
	return &folderNode{children: make(map[string]*folderNode)}
}

// Generate serializes records into a Netscape bookmark document that
// Parse can read back (round-trip on url, title and category).
// Categorized records become nested folders, sorted lexicographically
// at each level with a folder's own entries before its child folders.
// Uncategorized records follow as flat top-level entries in input order.
func Generate(records []domain.Bookmark) string {
	root := newFolderNode()
	var uncategorized []domain.Bookmark

	for _, r := range records {
		segments := splitCategory(r.Category)
		if len(segments) == 0 {
			uncategorized = append(uncategorized, r)
			continue
		}

		node := root
		for _, seg := range segments {
			child, ok := node.children[seg]
			if !ok {
				child = newFolderNode()
				node.children[seg] = child
			}
			node = child
		}
		node.bookmarks = append(node.bookmarks, r)
	}

	var b strings.Builder
	b.WriteString(header)
	writeFolders(&b, root, "    ")
	for _, r := range uncategorized {
		writeEntry(&b, r, "    ")
	}
	b.WriteString("</DL><p>\n")
	return b.String()
}

// splitCategory splits a category path on "/", trimming each segment
// and dropping empty ones.
func splitCategory(category string) []string {
	if category == "" {
		return nil
	}
	var segments []string
	for _, seg := range strings.Split(category, "/") {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

func writeFolders(b *strings.Builder, node *folderNode, indent string) {
	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		child := node.children[name]
		fmt.Fprintf(b, "%s<DT><H3>%s</H3></DT>\n", indent, html.EscapeString(name))
		fmt.Fprintf(b, "%s<DL><p>\n", indent)

		for _, r := range child.bookmarks {
			writeEntry(b, r, indent+"    ")
		}
		writeFolders(b, child, indent+"    ")

		fmt.Fprintf(b, "%s</DL><p>\n", indent)
	}
}

func writeEntry(b *strings.Builder, r domain.Bookmark, indent string) {
	fmt.Fprintf(b, "%s<DT><A HREF=\"%s\" ADD_DATE=\"%d\">%s</A></DT>\n",
		indent, html.EscapeString(r.URL), r.CreatedAt.Unix(), html.EscapeString(r.Title))
}
