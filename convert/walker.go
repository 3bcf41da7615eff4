package convert

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"hdc/config"
	"hdc/css"
	"hdc/docx"
	"hdc/htmldoc"
)

// blockTags are elements that occupy their own structural position. Anything
// else found at container level is either loose text or a loose inline
// element and gets wrapped in a paragraph.
var blockTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "div": true, "section": true, "article": true,
	"header": true, "footer": true,
	"table": true, "ul": true, "ol": true, "li": true,
	"img": true, "hr": true,
}

// walker carries the state of one conversion through the traversal. A fresh
// walker is built per conversion; nothing here is shared.
type walker struct {
	doc   *docx.Document
	rules *css.Rules
	cfg   *config.DocumentConfig
	log   *zap.Logger
}

// walkContainer routes every child of a container node: block elements go to
// walkBlock, loose text and loose inline elements become paragraphs.
func (w *walker) walkContainer(target docx.Container, n *html.Node) {
	for _, child := range htmldoc.Children(n) {
		if child.Type == html.TextNode {
			if text := htmldoc.NormalizeWS(child.Data); text != "" {
				target.AddParagraph().AddText(text)
			}
			continue
		}
		if blockTags[child.Data] {
			w.walkBlock(target, child)
			continue
		}
		p := target.AddParagraph()
		w.buildInline(p, child, InlineStyle{})
	}
}

// walkBlock dispatches one block-level node into the container.
func (w *walker) walkBlock(target docx.Container, n *html.Node) {
	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		w.heading(target, n)
	case "p":
		p := target.AddParagraph()
		for _, child := range htmldoc.Children(n) {
			w.buildInline(p, child, InlineStyle{})
		}
	case "img":
		w.embedImage(target, n)
	case "hr":
		// visual approximation, the format rule element is not emitted
		target.AddParagraph().AddText(strings.Repeat("—", 20))
	case "ul":
		w.list(target, n, false)
	case "ol":
		w.list(target, n, true)
	case "li":
		// list item outside a list context: single bulleted paragraph
		p := target.AddParagraph()
		p.Style = docx.StyleListBullet
		for _, child := range htmldoc.Children(n) {
			w.buildInline(p, child, InlineStyle{})
		}
	case "table":
		w.table(target, n)
	default:
		// transparent container (div, section, ...)
		w.walkContainer(target, n)
	}
}

// headingLevel parses the numeric suffix of a heading tag, clamped to [1,6]
// with 2 as the fallback for anything unparsable.
func headingLevel(tag string) int {
	level, err := strconv.Atoi(strings.TrimPrefix(tag, "h"))
	if err != nil {
		return 2
	}
	return min(max(level, 1), 6)
}

func (w *walker) heading(target docx.Container, n *html.Node) {
	text := htmldoc.InnerText(n)
	if text == "" {
		return
	}
	level := headingLevel(n.Data)

	var p *docx.Paragraph
	if h, ok := target.(docx.HeadingAdder); ok {
		p = h.AddHeading(text, level)
	} else {
		// table cells have no heading capability
		p = target.AddParagraph()
		p.AddText(text)
	}

	if len(p.Runs) == 0 {
		return
	}
	r, ok := p.Runs[0].(*docx.TextRun)
	if !ok {
		return
	}
	switch level {
	case 1:
		r.SizePt = 18
		r.Bold = true
	case 2:
		r.SizePt = 15
		r.Bold = true
		r.Color = "0066CC"
	case 3:
		r.SizePt = 13
		r.Bold = true
	}
}

// list renders direct list-item children as numbered or bulleted paragraphs.
// Nested block content inside an item is walked as block content after the
// item's own inline text.
func (w *walker) list(target docx.Container, n *html.Node, ordered bool) {
	style := docx.StyleListBullet
	if ordered {
		style = docx.StyleListNumber
	}
	for _, item := range htmldoc.Children(n) {
		if item.Type != html.ElementNode || item.Data != "li" {
			continue
		}
		p := target.AddParagraph()
		p.Style = style
		for _, child := range htmldoc.Children(item) {
			if child.Type == html.ElementNode && blockTags[child.Data] {
				w.walkBlock(target, child)
				continue
			}
			w.buildInline(p, child, InlineStyle{})
		}
	}
}
