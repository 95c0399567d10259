package phonelog

import (
	"fmt"
	"io"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// excluded contains the basenames of the storage self-check logs, which the
// device lists alongside the console logs.
var excluded = map[string]bool{
	"fsck.fd0a": true,
	"fsck.fd1a": true,
}

// ParseIndex parses a console log listing page and returns the log links on it.
func ParseIndex(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	return ConsoleLogLinks(doc), nil
}

// ConsoleLogLinks returns the href of every anchor at div/table/tr/td/b/a in
// document order. The tbody inserted by the html parser is allowed between the
// table and the row.
func ConsoleLogLinks(doc *html.Node) []string {
	var links []string
	for n := range doc.Descendants() {
		if !isElement(n, atom.A) || !isLogAnchor(n) {
			continue
		}
		if href, ok := attr(n, "href"); ok {
			links = append(links, href)
		}
	}
	return links
}

func isLogAnchor(a *html.Node) bool {
	b := a.Parent
	if !isElement(b, atom.B) {
		return false
	}
	td := b.Parent
	if !isElement(td, atom.Td) {
		return false
	}
	tr := td.Parent
	if !isElement(tr, atom.Tr) {
		return false
	}
	table := tr.Parent
	if isElement(table, atom.Tbody) {
		table = table.Parent
	}
	if !isElement(table, atom.Table) {
		return false
	}
	return isElement(table.Parent, atom.Div)
}

func isElement(n *html.Node, a atom.Atom) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == a
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Basename returns the final path element of href without its extension.
// Leading dots are not treated as an extension.
func Basename(href string) string {
	base := path.Base(href)
	ext := path.Ext(strings.TrimLeft(base, "."))
	return strings.TrimSuffix(base, ext)
}

// Excluded reports whether href is a storage self-check log rather than a
// console log.
func Excluded(href string) bool {
	return excluded[Basename(href)]
}
