// Package htmldoc wraps HTML parsing for the conversion engine: input
// decoding, noise removal and the tree helpers the converter needs.
package htmldoc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/encoding/charmap"
)

// Decode converts raw payload bytes to text. UTF-8 input is passed through,
// anything else is decoded permissively as Windows-1252 so that we never
// reject a payload over encoding alone.
func Decode(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("unable to decode payload: %w", err)
	}
	return string(out), nil
}

// Document is the parsed markup tree prepared for one conversion: style
// blocks are collected and noise nodes are already removed.
type Document struct {
	Root *html.Node
	// Text of all <style> blocks in document order, captured before removal.
	StyleText string
}

// Parse builds a Document from decoded markup text. The html package never
// fails on malformed input, so the only errors here are reader failures.
func Parse(content string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("unable to parse markup: %w", err)
	}
	d := &Document{Root: root}
	d.StyleText = collectStyleText(root)
	removeNoise(root)
	return d, nil
}

// Body returns the body element if present, otherwise the whole tree.
func (d *Document) Body() *html.Node {
	if body := findElement(d.Root, atom.Body); body != nil {
		return body
	}
	return d.Root
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func collectStyleText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Style {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					sb.WriteString(c.Data)
					sb.WriteByte('\n')
				}
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// removeNoise drops script and style elements so that traversal never sees
// their text content.
func removeNoise(n *html.Node) {
	var doomed []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Script || c.DataAtom == atom.Style) {
			doomed = append(doomed, c)
			continue
		}
		removeNoise(c)
	}
	for _, c := range doomed {
		n.RemoveChild(c)
	}
}
