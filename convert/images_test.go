package convert

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"testing"

	"go.uber.org/zap/zaptest"

	"hdc/css"
	"hdc/docx"
	"hdc/htmldoc"
)

// pngDataURI builds a data URI with a generated PNG of the given size.
func pngDataURI(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("unable to encode png: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func imageRun(t *testing.T, doc *docx.Document) (*docx.Paragraph, *docx.ImageRun) {
	t.Helper()
	for _, b := range doc.Blocks() {
		p, ok := b.(*docx.Paragraph)
		if !ok {
			continue
		}
		for _, r := range p.Runs {
			if ir, ok := r.(*docx.ImageRun); ok {
				return p, ir
			}
		}
	}
	t.Fatal("no image run in document")
	return nil, nil
}

func TestEmbedImage_NaturalSize(t *testing.T) {
	doc := buildDoc(t, fmt.Sprintf(`<img src="%s">`, pngDataURI(t, 192, 96)))
	_, ir := imageRun(t, doc)

	// 192 px at 96 dpi is exactly 2 inches
	if ir.Width != docx.EMUFromInches(2) {
		t.Errorf("width = %d EMU, want %d", ir.Width, docx.EMUFromInches(2))
	}
	if ir.Height != docx.EMUFromInches(1) {
		t.Errorf("height = %d EMU, want %d", ir.Height, docx.EMUFromInches(1))
	}
}

func TestEmbedImage_StyleWidthWins(t *testing.T) {
	doc := buildDoc(t, fmt.Sprintf(
		`<img src="%s" width="100" style="width: 192px">`, pngDataURI(t, 960, 480)))
	_, ir := imageRun(t, doc)

	if ir.Width != docx.EMUFromInches(2) {
		t.Errorf("width = %d EMU, want %d (style must win over attribute)", ir.Width, docx.EMUFromInches(2))
	}
	// aspect ratio preserved
	if ir.Height != docx.EMUFromInches(1) {
		t.Errorf("height = %d EMU, want %d", ir.Height, docx.EMUFromInches(1))
	}
}

func TestEmbedImage_MaxWidthWins(t *testing.T) {
	doc := buildDoc(t, fmt.Sprintf(
		`<img src="%s" style="max-width: 96px; width: 192px">`, pngDataURI(t, 192, 192)))
	_, ir := imageRun(t, doc)

	if ir.Width != docx.EMUFromInches(1) {
		t.Errorf("width = %d EMU, want %d (max-width must win over width)", ir.Width, docx.EMUFromInches(1))
	}
}

func TestEmbedImage_MaxWidthUpscales(t *testing.T) {
	doc := buildDoc(t, fmt.Sprintf(
		`<img src="%s" style="max-width: 384px">`, pngDataURI(t, 192, 96)))
	_, ir := imageRun(t, doc)

	// max-width is the target width even above the natural size
	if ir.Width != docx.EMUFromInches(4) {
		t.Errorf("width = %d EMU, want %d", ir.Width, docx.EMUFromInches(4))
	}
	if ir.Height != docx.EMUFromInches(2) {
		t.Errorf("height = %d EMU, want %d", ir.Height, docx.EMUFromInches(2))
	}
}

func TestEmbedImage_WidthAttribute(t *testing.T) {
	doc := buildDoc(t, fmt.Sprintf(`<img src="%s" width="96">`, pngDataURI(t, 192, 192)))
	_, ir := imageRun(t, doc)

	if ir.Width != docx.EMUFromInches(1) {
		t.Errorf("width = %d EMU, want %d", ir.Width, docx.EMUFromInches(1))
	}
}

func TestEmbedImage_ClassRuleApplies(t *testing.T) {
	doc := buildDoc(t, fmt.Sprintf(
		`<html><head><style>.pic { width: 192px; }</style></head><body><img class="pic" src="%s"></body></html>`,
		pngDataURI(t, 960, 960)))
	_, ir := imageRun(t, doc)

	if ir.Width != docx.EMUFromInches(2) {
		t.Errorf("width = %d EMU, want %d", ir.Width, docx.EMUFromInches(2))
	}
}

func TestEmbedImage_RightAlignedAncestor(t *testing.T) {
	doc := buildDoc(t, fmt.Sprintf(
		`<div style="text-align: right"><div><img src="%s"></div></div>`, pngDataURI(t, 8, 8)))
	p, _ := imageRun(t, doc)
	if p.Alignment != docx.AlignRight {
		t.Errorf("alignment = %v, want AlignRight", p.Alignment)
	}
}

func TestEmbedImage_RightAlignBeyondCloserAlignment(t *testing.T) {
	// a nearer ancestor with a different text-align value must not mask a
	// right-aligned ancestor further up
	doc := buildDoc(t, fmt.Sprintf(
		`<div style="text-align: right"><div style="text-align: left"><img src="%s"></div></div>`,
		pngDataURI(t, 8, 8)))
	p, _ := imageRun(t, doc)
	if p.Alignment != docx.AlignRight {
		t.Errorf("alignment = %v, want AlignRight", p.Alignment)
	}
}

func TestEmbedImage_RightAlignOnImageItself(t *testing.T) {
	doc := buildDoc(t, fmt.Sprintf(
		`<img src="%s" style="text-align: right">`, pngDataURI(t, 8, 8)))
	p, _ := imageRun(t, doc)
	if p.Alignment != docx.AlignRight {
		t.Errorf("alignment = %v, want AlignRight", p.Alignment)
	}
}

func TestEmbedImage_SkipsBadSources(t *testing.T) {
	for _, markup := range []string{
		`<img src="https://example.com/pic.png">`,
		`<img src="/static/pic.png">`,
		`<img src="data:image/png;base64,!!!notbase64!!!">`,
		`<img src="data:image/png;base64,QUJD">`, // valid base64, not an image
		`<img>`,
	} {
		doc := buildDoc(t, markup)
		if got := len(doc.Blocks()); got != 0 {
			t.Errorf("%s: got %d blocks, want 0", markup, got)
		}
	}
}

func TestEmbedImage_WhitespaceInPayload(t *testing.T) {
	uri := pngDataURI(t, 16, 16)
	// inject line breaks into the base64 payload
	broken := uri[:40] + "\n" + uri[40:80] + "\r\n " + uri[80:]
	doc := buildDoc(t, fmt.Sprintf(`<img src="%s">`, broken))
	_, ir := imageRun(t, doc)
	if ir.Width != docx.EMUFromPixels(16) {
		t.Errorf("width = %d EMU, want %d", ir.Width, docx.EMUFromPixels(16))
	}
}

func TestEmbedImage_SVGRasterized(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 96 48"><rect width="96" height="48"/></svg>`
	uri := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
	doc := buildDoc(t, fmt.Sprintf(`<img src="%s">`, uri))
	_, ir := imageRun(t, doc)

	if ir.Width != docx.EMUFromInches(1) {
		t.Errorf("width = %d EMU, want %d", ir.Width, docx.EMUFromInches(1))
	}
	if ir.Height != docx.EMUFromInches(0.5) {
		t.Errorf("height = %d EMU, want %d", ir.Height, docx.EMUFromInches(0.5))
	}
}

func TestEmbedImage_Downscale(t *testing.T) {
	cfg := testCfg()
	cfg.Images.MaxWidthPx = 32

	tree, err := htmldoc.Parse(fmt.Sprintf(`<img src="%s">`, pngDataURI(t, 64, 32)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log := zaptest.NewLogger(t)
	doc := docx.New()
	w := &walker{doc: doc, rules: css.NewParser(log).Parse(""), cfg: cfg, log: log}
	w.walkContainer(doc, tree.Body())

	_, ir := imageRun(t, doc)
	if ir.Width != docx.EMUFromPixels(32) {
		t.Errorf("width = %d EMU, want %d after downscale", ir.Width, docx.EMUFromPixels(32))
	}
	if ir.Height != docx.EMUFromPixels(16) {
		t.Errorf("height = %d EMU, want %d after downscale", ir.Height, docx.EMUFromPixels(16))
	}
}
