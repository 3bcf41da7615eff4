package htmldoc

import (
	"strings"

	"golang.org/x/net/html"
)

// Attr returns the value of the named attribute, or "".
func Attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

// Classes returns the class attribute split into tokens, in order.
func Classes(n *html.Node) []string {
	v := Attr(n, "class")
	if v == "" {
		return nil
	}
	return strings.Fields(v)
}

// HasClass reports whether the element carries the given class token.
func HasClass(n *html.Node, class string) bool {
	for _, c := range Classes(n) {
		if c == class {
			return true
		}
	}
	return false
}

// Children yields element children and non-blank text children in order,
// skipping whitespace-only text nodes and comments.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				out = append(out, c)
			}
		case html.ElementNode:
			out = append(out, c)
		}
	}
	return out
}

// NormalizeWS collapses every whitespace run to a single space and trims the
// result.
func NormalizeWS(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// InnerText returns the normalized text content of the subtree.
func InnerText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return NormalizeWS(sb.String())
}

// FindAll returns all element descendants with the given tag name, including
// n itself when it matches.
func FindAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// ClosestTable returns the nearest ancestor (or self) table element.
func ClosestTable(n *html.Node) *html.Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode && cur.Data == "table" {
			return cur
		}
	}
	return nil
}
