package docx

import (
	"strconv"

	"github.com/beevik/etree"
)

// Numbering IDs referenced by the list paragraph styles.
const (
	numIDBullet  = 1
	numIDDecimal = 2
)

// numberingXML builds word/numbering.xml with the two list definitions the
// converter uses: a bullet list and a decimal ordered list.
func numberingXML() *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("w:numbering")
	root.CreateAttr("xmlns:w", nsMain)

	appendAbstractNum(root, 0, "bullet", "", "Symbol")
	appendAbstractNum(root, 1, "decimal", "%1.", "")

	appendNum(root, numIDBullet, 0)
	appendNum(root, numIDDecimal, 1)
	return doc
}

func appendAbstractNum(root *etree.Element, id int, format, text, font string) {
	abs := root.CreateElement("w:abstractNum")
	abs.CreateAttr("w:abstractNumId", strconv.Itoa(id))

	lvl := abs.CreateElement("w:lvl")
	lvl.CreateAttr("w:ilvl", "0")

	start := lvl.CreateElement("w:start")
	start.CreateAttr("w:val", "1")
	fmtEl := lvl.CreateElement("w:numFmt")
	fmtEl.CreateAttr("w:val", format)
	lvlText := lvl.CreateElement("w:lvlText")
	lvlText.CreateAttr("w:val", text)
	jc := lvl.CreateElement("w:lvlJc")
	jc.CreateAttr("w:val", "left")

	pPr := lvl.CreateElement("w:pPr")
	ind := pPr.CreateElement("w:ind")
	ind.CreateAttr("w:left", "720")
	ind.CreateAttr("w:hanging", "360")

	if font != "" {
		rPr := lvl.CreateElement("w:rPr")
		fonts := rPr.CreateElement("w:rFonts")
		fonts.CreateAttr("w:ascii", font)
		fonts.CreateAttr("w:hAnsi", font)
	}
}

func appendNum(root *etree.Element, numID, abstractID int) {
	num := root.CreateElement("w:num")
	num.CreateAttr("w:numId", strconv.Itoa(numID))
	abs := num.CreateElement("w:abstractNumId")
	abs.CreateAttr("w:val", strconv.Itoa(abstractID))
}
