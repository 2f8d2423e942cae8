package goquery

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// bodyContext parses fragments as if they appeared inside <body>.
var bodyContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

// FragmentText returns the text of an HTML fragment. Each text node is
// trimmed, empty ones are dropped, and the rest are joined by newlines.
// Script, style and template contents are skipped.
func FragmentText(fragment string) (string, error) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), bodyContext)
	if err != nil {
		return "", err
	}

	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Template, atom.Noscript:
				return
			}
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}

	return strings.Join(parts, "\n"), nil
}

// collapse trims s and replaces internal whitespace runs with one space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
