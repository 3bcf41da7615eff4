package convert

import (
	"golang.org/x/net/html"

	"hdc/docx"
	"hdc/htmldoc"
)

// InlineStyle accumulates formatting while descending through inline markup.
// Flags only ever turn on: `<b>a<i>b</i></b>` produces a bold run and a
// bold-italic run.
type InlineStyle struct {
	Bold      bool
	Italic    bool
	Underline bool
}

// buildInline appends runs for one inline node to the paragraph.
func (w *walker) buildInline(p *docx.Paragraph, n *html.Node, style InlineStyle) {
	if n.Type == html.TextNode {
		text := htmldoc.NormalizeWS(n.Data)
		if text == "" {
			return
		}
		p.Runs = append(p.Runs, &docx.TextRun{
			Text:      text,
			Bold:      style.Bold,
			Italic:    style.Italic,
			Underline: style.Underline,
		})
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	switch n.Data {
	case "strong", "b":
		style.Bold = true
	case "em", "i":
		style.Italic = true
	case "u":
		style.Underline = true
	case "br":
		p.AddBreak()
		return
	case "a":
		w.emitLink(p, n, style)
		return
	case "img":
		// images are block content; an inline img is dropped
		return
	}

	for _, child := range htmldoc.Children(n) {
		w.buildInline(p, child, style)
	}
}

// emitLink writes an anchor as a hyperlink run. An anchor without an href is
// emitted as plain styled text; an anchor without text falls back to showing
// the URL itself.
func (w *walker) emitLink(p *docx.Paragraph, n *html.Node, style InlineStyle) {
	url := htmldoc.Attr(n, "href")
	text := htmldoc.InnerText(n)
	if text == "" {
		text = url
	}
	if text == "" {
		return
	}
	if url == "" {
		p.Runs = append(p.Runs, &docx.TextRun{
			Text:      text,
			Bold:      style.Bold,
			Italic:    style.Italic,
			Underline: style.Underline,
		})
		return
	}
	relID := w.doc.AddHyperlink(url)
	p.Runs = append(p.Runs, &docx.LinkRun{
		RelID:  relID,
		Text:   text,
		Bold:   style.Bold,
		Italic: style.Italic,
		Color:  w.cfg.LinkColor,
	})
}
