package convert

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"regexp"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/net/html"

	"hdc/docx"
	"hdc/htmldoc"
	"hdc/utils/images"
)

// dataURIRe matches an inline base64 image source. Remote URLs and other
// schemes are not fetched.
var dataURIRe = regexp.MustCompile(`(?is)^data:image/([a-z0-9.+-]+);base64,(.+)$`)

// base64Cleaner drops the whitespace browsers tolerate inside data URIs.
var base64Cleaner = strings.NewReplacer(" ", "", "\t", "", "\n", "", "\r", "")

// embedImage converts an <img> with an inline data URI into an embedded
// picture paragraph. Anything that cannot be decoded is skipped without
// failing the conversion.
func (w *walker) embedImage(target docx.Container, n *html.Node) {
	src := htmldoc.Attr(n, "src")
	m := dataURIRe.FindStringSubmatch(src)
	if m == nil {
		if src != "" {
			w.log.Debug("Skipping image with unsupported source", zap.String("src", first64(src)))
		}
		return
	}

	subtype := strings.ToLower(m[1])
	data, err := base64.StdEncoding.DecodeString(base64Cleaner.Replace(m[2]))
	if err != nil {
		w.log.Debug("Skipping image with bad base64 payload", zap.Error(err))
		return
	}

	if subtype == "svg+xml" {
		if data, err = images.RasterizeSVGToPNG(data); err != nil {
			w.log.Debug("Skipping unrasterizable SVG", zap.Error(err))
			return
		}
	}

	ext := "png"
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		ext = kind.Extension
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		w.log.Debug("Skipping undecodable image", zap.String("subtype", subtype), zap.Error(err))
		return
	}
	naturalW, naturalH := cfg.Width, cfg.Height

	// Oversized bitmaps are downscaled before embedding so that the package
	// stays small even when the display size is.
	if maxPx := w.cfg.Images.MaxWidthPx; maxPx > 0 && naturalW > maxPx {
		img, err := imaging.Decode(bytes.NewReader(data))
		if err == nil {
			img = imaging.Resize(img, maxPx, 0, imaging.Lanczos)
			var buf bytes.Buffer
			if err = imaging.Encode(&buf, img, imaging.PNG); err == nil {
				data = buf.Bytes()
				ext = "png"
				naturalW = img.Bounds().Dx()
				naturalH = img.Bounds().Dy()
			}
		}
		if err != nil {
			w.log.Debug("Keeping original image bytes", zap.Error(err))
		}
	}

	widthPx := w.displayWidth(n, naturalW)
	heightPx := widthPx * naturalH / naturalW
	if heightPx < 1 {
		heightPx = 1
	}

	relID := w.doc.AddImage(ext, data)
	p := target.AddParagraph()
	if w.alignedRight(n) {
		p.Alignment = docx.AlignRight
	}
	p.Runs = append(p.Runs, &docx.ImageRun{
		RelID:  relID,
		Name:   "image." + ext,
		Width:  docx.EMUFromPixels(widthPx),
		Height: docx.EMUFromPixels(heightPx),
	})
}

// displayWidth resolves the rendered pixel width of an image: max-width
// wins over width from resolved styles, then the width attribute, then the
// natural bitmap width. A max-width is taken as the target width even when
// it exceeds the natural size.
func (w *walker) displayWidth(n *html.Node, naturalW int) int {
	props := w.rules.Resolve(n)
	if px, ok := props.Pixels("max-width"); ok && px > 0 {
		return px
	}
	if px, ok := props.Pixels("width"); ok && px > 0 {
		return px
	}
	if attr := htmldoc.Attr(n, "width"); attr != "" {
		if px, err := strconv.Atoi(strings.TrimSuffix(attr, "px")); err == nil && px > 0 {
			return px
		}
	}
	return naturalW
}

// alignedRight reports whether the element or any ancestor carries
// text-align: right. Ancestors with other alignment values do not stop the
// upward search.
func (w *walker) alignedRight(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if v := w.rules.Resolve(cur)["text-align"]; strings.EqualFold(strings.TrimSpace(v), "right") {
			return true
		}
	}
	return false
}

func first64(s string) string {
	if len(s) > 64 {
		return s[:64]
	}
	return s
}
