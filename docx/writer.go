package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strconv"

	"github.com/beevik/etree"
)

// XML namespaces of the parts we emit.
const (
	nsMain      = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRel       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWPDrawing = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsDrawing   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPicture   = "http://schemas.openxmlformats.org/drawingml/2006/picture"

	nsContentTypes = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsPackageRels  = "http://schemas.openxmlformats.org/package/2006/relationships"
)

// Bytes serializes the document to a complete binary package.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo serializes the document package to w.
func (d *Document) WriteTo(w io.Writer) error {
	zw := zip.NewWriter(w)

	if err := writeXMLToZip(zw, "[Content_Types].xml", d.contentTypesXML()); err != nil {
		return fmt.Errorf("unable to write content types: %w", err)
	}
	if err := writeXMLToZip(zw, "_rels/.rels", packageRelsXML()); err != nil {
		return fmt.Errorf("unable to write package relationships: %w", err)
	}
	if err := writeXMLToZip(zw, "word/document.xml", d.documentXML()); err != nil {
		return fmt.Errorf("unable to write document: %w", err)
	}
	if err := writeXMLToZip(zw, "word/_rels/document.xml.rels", d.documentRelsXML()); err != nil {
		return fmt.Errorf("unable to write document relationships: %w", err)
	}
	if err := writeXMLToZip(zw, "word/styles.xml", d.stylesXML()); err != nil {
		return fmt.Errorf("unable to write styles: %w", err)
	}
	if err := writeXMLToZip(zw, "word/numbering.xml", numberingXML()); err != nil {
		return fmt.Errorf("unable to write numbering: %w", err)
	}
	for _, m := range d.media {
		f, err := zw.Create(path.Join("word", "media", m.Name))
		if err != nil {
			return fmt.Errorf("unable to create media entry %s: %w", m.Name, err)
		}
		if _, err := f.Write(m.Data); err != nil {
			return fmt.Errorf("unable to write media entry %s: %w", m.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("unable to close output archive: %w", err)
	}
	return nil
}

func writeXMLToZip(zw *zip.Writer, name string, doc *etree.Document) error {
	f, err := zw.Create(name)
	if err != nil {
		return err
	}
	doc.WriteSettings = etree.WriteSettings{CanonicalText: true, CanonicalAttrVal: true}
	if _, err := doc.WriteTo(f); err != nil {
		return err
	}
	return nil
}

func newXMLDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

func (d *Document) contentTypesXML() *etree.Document {
	doc := newXMLDocument()
	types := doc.CreateElement("Types")
	types.CreateAttr("xmlns", nsContentTypes)

	addDefault := func(ext, ct string) {
		e := types.CreateElement("Default")
		e.CreateAttr("Extension", ext)
		e.CreateAttr("ContentType", ct)
	}
	addOverride := func(part, ct string) {
		e := types.CreateElement("Override")
		e.CreateAttr("PartName", part)
		e.CreateAttr("ContentType", ct)
	}

	addDefault("rels", "application/vnd.openxmlformats-package.relationships+xml")
	addDefault("xml", "application/xml")

	seen := make(map[string]bool)
	for _, m := range d.media {
		ext := path.Ext(m.Name)
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		addDefault(ext[1:], mediaContentType(ext[1:]))
	}

	addOverride("/word/document.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml")
	addOverride("/word/styles.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml")
	addOverride("/word/numbering.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml")
	return doc
}

func mediaContentType(ext string) string {
	switch ext {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "tif", "tiff":
		return "image/tiff"
	case "webp":
		return "image/webp"
	default:
		return "image/png"
	}
}

func packageRelsXML() *etree.Document {
	doc := newXMLDocument()
	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", nsPackageRels)
	rel := rels.CreateElement("Relationship")
	rel.CreateAttr("Id", "rId1")
	rel.CreateAttr("Type", relTypeDocument)
	rel.CreateAttr("Target", "word/document.xml")
	return doc
}

func (d *Document) documentRelsXML() *etree.Document {
	doc := newXMLDocument()
	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", nsPackageRels)
	for _, r := range d.rels.items {
		rel := rels.CreateElement("Relationship")
		rel.CreateAttr("Id", r.ID)
		rel.CreateAttr("Type", r.Type)
		rel.CreateAttr("Target", r.Target)
		if r.External {
			rel.CreateAttr("TargetMode", "External")
		}
	}
	return doc
}

func (d *Document) documentXML() *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("w:document")
	root.CreateAttr("xmlns:w", nsMain)
	root.CreateAttr("xmlns:r", nsRel)
	root.CreateAttr("xmlns:wp", nsWPDrawing)
	root.CreateAttr("xmlns:a", nsDrawing)
	root.CreateAttr("xmlns:pic", nsPicture)

	body := root.CreateElement("w:body")
	imgCounter := 0
	for _, b := range d.blocks {
		appendBlock(body, b, &imgCounter)
	}
	if n := len(d.blocks); n > 0 {
		if _, table := d.blocks[n-1].(*Table); table {
			// a table may not close the body
			body.CreateElement("w:p")
		}
	}
	d.appendSectPr(body)
	return doc
}

func (d *Document) appendSectPr(body *etree.Element) {
	sect := body.CreateElement("w:sectPr")
	size := sect.CreateElement("w:pgSz")
	// A4 portrait
	size.CreateAttr("w:w", "11906")
	size.CreateAttr("w:h", "16838")
	if d.Margins != nil {
		mar := sect.CreateElement("w:pgMar")
		mar.CreateAttr("w:top", strconv.Itoa(int(d.Margins.Top)))
		mar.CreateAttr("w:right", strconv.Itoa(int(d.Margins.Right)))
		mar.CreateAttr("w:bottom", strconv.Itoa(int(d.Margins.Bottom)))
		mar.CreateAttr("w:left", strconv.Itoa(int(d.Margins.Left)))
		mar.CreateAttr("w:header", "708")
		mar.CreateAttr("w:footer", "708")
		mar.CreateAttr("w:gutter", "0")
	}
}

func appendBlock(parent *etree.Element, b Block, imgCounter *int) {
	switch b := b.(type) {
	case *Paragraph:
		appendParagraph(parent, b, imgCounter)
	case *Table:
		appendTable(parent, b, imgCounter)
	}
}

func appendParagraph(parent *etree.Element, p *Paragraph, imgCounter *int) {
	pe := parent.CreateElement("w:p")

	if p.Style != StyleNormal || p.Alignment != AlignDefault {
		pPr := pe.CreateElement("w:pPr")
		if p.Style != StyleNormal {
			st := pPr.CreateElement("w:pStyle")
			st.CreateAttr("w:val", p.Style)
		}
		if p.Alignment != AlignDefault {
			jc := pPr.CreateElement("w:jc")
			jc.CreateAttr("w:val", alignmentValue(p.Alignment))
		}
	}

	for _, r := range p.Runs {
		switch r := r.(type) {
		case *TextRun:
			appendTextRun(pe, r)
		case *BreakRun:
			re := pe.CreateElement("w:r")
			re.CreateElement("w:br")
		case *LinkRun:
			appendLinkRun(pe, r)
		case *ImageRun:
			appendImageRun(pe, r, imgCounter)
		}
	}
}

func alignmentValue(a Alignment) string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "both"
	}
}

func appendTextRun(pe *etree.Element, r *TextRun) {
	re := pe.CreateElement("w:r")
	if r.Bold || r.Italic || r.Underline || r.SizePt > 0 || r.Color != "" {
		rPr := re.CreateElement("w:rPr")
		if r.Bold {
			rPr.CreateElement("w:b")
		}
		if r.Italic {
			rPr.CreateElement("w:i")
		}
		if r.Underline {
			u := rPr.CreateElement("w:u")
			u.CreateAttr("w:val", "single")
		}
		if r.Color != "" {
			c := rPr.CreateElement("w:color")
			c.CreateAttr("w:val", r.Color)
		}
		if r.SizePt > 0 {
			sz := rPr.CreateElement("w:sz")
			sz.CreateAttr("w:val", strconv.Itoa(halfPoints(r.SizePt)))
		}
	}
	appendText(re, r.Text)
}

func appendText(re *etree.Element, text string) {
	t := re.CreateElement("w:t")
	t.CreateAttr("xml:space", "preserve")
	t.SetText(text)
}

// appendLinkRun emits the w:hyperlink wrapper the format requires for
// external links: the relationship reference on the wrapper, the visual
// decoration on the inner run.
func appendLinkRun(pe *etree.Element, r *LinkRun) {
	link := pe.CreateElement("w:hyperlink")
	link.CreateAttr("r:id", r.RelID)

	re := link.CreateElement("w:r")
	rPr := re.CreateElement("w:rPr")
	if r.Bold {
		rPr.CreateElement("w:b")
	}
	if r.Italic {
		rPr.CreateElement("w:i")
	}
	u := rPr.CreateElement("w:u")
	u.CreateAttr("w:val", "single")
	c := rPr.CreateElement("w:color")
	c.CreateAttr("w:val", r.Color)
	appendText(re, r.Text)
}

func appendImageRun(pe *etree.Element, r *ImageRun, imgCounter *int) {
	*imgCounter++
	id := strconv.Itoa(*imgCounter)

	re := pe.CreateElement("w:r")
	drawing := re.CreateElement("w:drawing")
	inline := drawing.CreateElement("wp:inline")
	for _, dist := range []string{"distT", "distB", "distL", "distR"} {
		inline.CreateAttr(dist, "0")
	}

	extent := inline.CreateElement("wp:extent")
	extent.CreateAttr("cx", strconv.FormatInt(int64(r.Width), 10))
	extent.CreateAttr("cy", strconv.FormatInt(int64(r.Height), 10))

	docPr := inline.CreateElement("wp:docPr")
	docPr.CreateAttr("id", id)
	docPr.CreateAttr("name", r.Name)

	graphic := inline.CreateElement("a:graphic")
	data := graphic.CreateElement("a:graphicData")
	data.CreateAttr("uri", nsPicture)

	p := data.CreateElement("pic:pic")
	nv := p.CreateElement("pic:nvPicPr")
	cNvPr := nv.CreateElement("pic:cNvPr")
	cNvPr.CreateAttr("id", id)
	cNvPr.CreateAttr("name", r.Name)
	nv.CreateElement("pic:cNvPicPr")

	fill := p.CreateElement("pic:blipFill")
	blip := fill.CreateElement("a:blip")
	blip.CreateAttr("r:embed", r.RelID)
	fill.CreateElement("a:stretch").CreateElement("a:fillRect")

	spPr := p.CreateElement("pic:spPr")
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", "0")
	off.CreateAttr("y", "0")
	ext := xfrm.CreateElement("a:ext")
	ext.CreateAttr("cx", strconv.FormatInt(int64(r.Width), 10))
	ext.CreateAttr("cy", strconv.FormatInt(int64(r.Height), 10))
	geom := spPr.CreateElement("a:prstGeom")
	geom.CreateAttr("prst", "rect")
	geom.CreateElement("a:avLst")
}

func appendTable(parent *etree.Element, t *Table, imgCounter *int) {
	te := parent.CreateElement("w:tbl")

	tblPr := te.CreateElement("w:tblPr")
	if t.Bordered {
		st := tblPr.CreateElement("w:tblStyle")
		st.CreateAttr("w:val", "TableGrid")
	} else {
		borders := tblPr.CreateElement("w:tblBorders")
		for _, edge := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
			e := borders.CreateElement("w:" + edge)
			e.CreateAttr("w:val", "nil")
		}
	}
	width := tblPr.CreateElement("w:tblW")
	width.CreateAttr("w:w", "0")
	width.CreateAttr("w:type", "auto")
	layout := tblPr.CreateElement("w:tblLayout")
	layout.CreateAttr("w:type", "autofit")

	grid := te.CreateElement("w:tblGrid")
	for range t.Cols {
		grid.CreateElement("w:gridCol")
	}

	for _, row := range t.Rows {
		tr := te.CreateElement("w:tr")
		for _, cell := range row.Cells {
			tc := tr.CreateElement("w:tc")
			tc.CreateElement("w:tcPr")
			if len(cell.blocks) == 0 {
				// a cell must contain at least one paragraph
				tc.CreateElement("w:p")
				continue
			}
			for _, b := range cell.blocks {
				appendBlock(tc, b, imgCounter)
			}
			if _, nested := cell.blocks[len(cell.blocks)-1].(*Table); nested {
				// a table may not close a cell
				tc.CreateElement("w:p")
			}
		}
	}
}
