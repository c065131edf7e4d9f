package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Document is a parsed page handed to each strategy.
type Document struct {
	Root *html.Node
	// URL is the final page URL after redirects, used to resolve relative links.
	URL *url.URL
}

// ParseDocument parses raw HTML. pageURL may be empty.
func ParseDocument(body []byte, pageURL string) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc := &Document{Root: root}
	if pageURL != "" {
		if u, err := url.Parse(pageURL); err == nil {
			doc.URL = u
		}
	}
	return doc, nil
}

// Resolve makes ref absolute against the page URL when possible.
func (d *Document) Resolve(ref string) string {
	if ref == "" || d.URL == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return d.URL.ResolveReference(u).String()
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if res := findFirst(c, tag); res != nil {
			return res
		}
	}
	return nil
}

// findAll returns every element named tag in document order.
func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, tag) {
			out = append(out, cur)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// rawText concatenates all descendant text nodes.
func rawText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
			return
		}
		if cur.Type == html.ElementNode {
			switch strings.ToLower(cur.Data) {
			case "script", "style", "noscript":
				return
			}
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// nodeText is the whitespace-collapsed visible text of n.
func nodeText(n *html.Node) string {
	// Text nodes are already unescaped by the parser; only fold and collapse.
	return strings.Join(strings.Fields(foldCompat(rawText(n))), " ")
}

// hasClassContaining reports whether any class token of n contains one of subs
// (case-insensitive).
func hasClassContaining(n *html.Node, subs ...string) bool {
	for _, token := range strings.Fields(strings.ToLower(attr(n, "class"))) {
		for _, s := range subs {
			if strings.Contains(token, s) {
				return true
			}
		}
	}
	return false
}
