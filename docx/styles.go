package docx

import (
	"strconv"

	"github.com/beevik/etree"
)

// stylesXML builds word/styles.xml: document defaults plus the named
// paragraph styles the converter emits (headings, list paragraphs) and the
// bordered table style.
func (d *Document) stylesXML() *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("w:styles")
	root.CreateAttr("xmlns:w", nsMain)

	d.appendDocDefaults(root)
	appendNormalStyle(root)
	for level := 1; level <= 6; level++ {
		appendHeadingStyle(root, level)
	}
	appendListStyle(root, StyleListBullet, "List Bullet", numIDBullet)
	appendListStyle(root, StyleListNumber, "List Number", numIDDecimal)
	appendTableGridStyle(root)
	return doc
}

func (d *Document) appendDocDefaults(root *etree.Element) {
	defs := root.CreateElement("w:docDefaults")

	rPrDef := defs.CreateElement("w:rPrDefault").CreateElement("w:rPr")
	fonts := rPrDef.CreateElement("w:rFonts")
	fonts.CreateAttr("w:ascii", d.Defaults.FontFamily)
	fonts.CreateAttr("w:hAnsi", d.Defaults.FontFamily)
	sz := rPrDef.CreateElement("w:sz")
	sz.CreateAttr("w:val", strconv.Itoa(halfPoints(d.Defaults.FontSizePt)))

	pPrDef := defs.CreateElement("w:pPrDefault").CreateElement("w:pPr")
	if d.Defaults.LineSpacing > 0 && d.Defaults.LineSpacing != 1 {
		spacing := pPrDef.CreateElement("w:spacing")
		// line height in 240ths of a line
		spacing.CreateAttr("w:line", strconv.Itoa(int(d.Defaults.LineSpacing*240)))
		spacing.CreateAttr("w:lineRule", "auto")
	}
}

func newStyle(root *etree.Element, styleType, id, name string) *etree.Element {
	style := root.CreateElement("w:style")
	style.CreateAttr("w:type", styleType)
	style.CreateAttr("w:styleId", id)
	n := style.CreateElement("w:name")
	n.CreateAttr("w:val", name)
	return style
}

func appendNormalStyle(root *etree.Element) {
	style := newStyle(root, "paragraph", "Normal", "Normal")
	style.CreateAttr("w:default", "1")
}

// headingSizesPt are the built-in heading run sizes. The converter overrides
// h1-h3 runs explicitly; these cover levels rendered without overrides.
var headingSizesPt = [...]float64{18, 15, 13, 12, 11, 11}

func appendHeadingStyle(root *etree.Element, level int) {
	style := newStyle(root, "paragraph", HeadingStyle(level), "heading "+strconv.Itoa(level))
	basedOn := style.CreateElement("w:basedOn")
	basedOn.CreateAttr("w:val", "Normal")
	next := style.CreateElement("w:next")
	next.CreateAttr("w:val", "Normal")

	pPr := style.CreateElement("w:pPr")
	pPr.CreateElement("w:keepNext")
	outline := pPr.CreateElement("w:outlineLvl")
	outline.CreateAttr("w:val", strconv.Itoa(level-1))

	rPr := style.CreateElement("w:rPr")
	rPr.CreateElement("w:b")
	sz := rPr.CreateElement("w:sz")
	sz.CreateAttr("w:val", strconv.Itoa(halfPoints(headingSizesPt[level-1])))
}

func appendListStyle(root *etree.Element, id, name string, numID int) {
	style := newStyle(root, "paragraph", id, name)
	basedOn := style.CreateElement("w:basedOn")
	basedOn.CreateAttr("w:val", "Normal")

	pPr := style.CreateElement("w:pPr")
	numPr := pPr.CreateElement("w:numPr")
	ilvl := numPr.CreateElement("w:ilvl")
	ilvl.CreateAttr("w:val", "0")
	num := numPr.CreateElement("w:numId")
	num.CreateAttr("w:val", strconv.Itoa(numID))
}

func appendTableGridStyle(root *etree.Element) {
	style := newStyle(root, "table", "TableGrid", "Table Grid")
	tblPr := style.CreateElement("w:tblPr")
	borders := tblPr.CreateElement("w:tblBorders")
	for _, edge := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		e := borders.CreateElement("w:" + edge)
		e.CreateAttr("w:val", "single")
		e.CreateAttr("w:sz", "4")
		e.CreateAttr("w:space", "0")
		e.CreateAttr("w:color", "auto")
	}
}
