// Package docx carries a small WordprocessingML document model and its
// package serializer. The model knows only what the conversion engine emits:
// styled paragraphs with plain, break, hyperlink and image runs, and
// bordered or borderless tables with nested block content.
package docx

// Block is a body-level element: a paragraph or a table.
type Block interface {
	isBlock()
}

// Run is the smallest unit of content inside a paragraph.
type Run interface {
	isRun()
}

// Alignment is a paragraph justification value.
type Alignment int

const (
	AlignDefault Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Paragraph style identifiers, matching style IDs in styles.xml.
const (
	StyleNormal     = ""
	StyleListBullet = "ListBullet"
	StyleListNumber = "ListNumber"
)

// HeadingStyle returns the paragraph style ID for a heading level (1-6).
func HeadingStyle(level int) string {
	switch level {
	case 1:
		return "Heading1"
	case 2:
		return "Heading2"
	case 3:
		return "Heading3"
	case 4:
		return "Heading4"
	case 5:
		return "Heading5"
	default:
		return "Heading6"
	}
}

// Paragraph is a sequence of runs with an optional named style and
// justification.
type Paragraph struct {
	Style     string
	Alignment Alignment
	Runs      []Run
}

func (*Paragraph) isBlock() {}

// AddText appends a plain text run and returns it for decoration.
func (p *Paragraph) AddText(text string) *TextRun {
	r := &TextRun{Text: text}
	p.Runs = append(p.Runs, r)
	return r
}

// AddBreak appends a hard line break.
func (p *Paragraph) AddBreak() {
	p.Runs = append(p.Runs, &BreakRun{})
}

// TextRun is ordinary styled text.
type TextRun struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	SizePt    float64 // 0 means inherited
	Color     string  // RRGGBB, "" means inherited
}

func (*TextRun) isRun() {}

// BreakRun is a hard line break inside a paragraph.
type BreakRun struct{}

func (*BreakRun) isRun() {}

// LinkRun is text wrapped in an external hyperlink relationship. The format
// has no first-class hyperlink run, so serialization emits the w:hyperlink
// indirection with a single-underlined colored run inside.
type LinkRun struct {
	RelID  string
	Text   string
	Bold   bool
	Italic bool
	Color  string // RRGGBB link color
}

func (*LinkRun) isRun() {}

// ImageRun places an embedded picture by media relationship, sized in EMU.
type ImageRun struct {
	RelID  string
	Name   string
	Width  EMU
	Height EMU
}

func (*ImageRun) isRun() {}

// Table is a grid of cells, rendered with visible borders when Bordered is
// set and with all borders nil otherwise.
type Table struct {
	Bordered bool
	Rows     []*Row
	Cols     int
}

func (*Table) isBlock() {}

// AddRow appends a row to the table.
func (t *Table) AddRow() *Row {
	r := &Row{}
	t.Rows = append(t.Rows, r)
	return r
}

// Row is one table row.
type Row struct {
	Cells []*Cell
}

// AddCell appends a cell to the row.
func (r *Row) AddCell() *Cell {
	c := &Cell{}
	r.Cells = append(r.Cells, c)
	return c
}

// Cell holds block content. It satisfies Container but not HeadingAdder:
// headings are a document-root capability.
type Cell struct {
	blocks []Block
}

// AddParagraph appends an empty paragraph to the cell.
func (c *Cell) AddParagraph() *Paragraph {
	p := &Paragraph{}
	c.blocks = append(c.blocks, p)
	return p
}

// AddTable appends a nested table to the cell.
func (c *Cell) AddTable(bordered bool) *Table {
	t := &Table{Bordered: bordered}
	c.blocks = append(c.blocks, t)
	return t
}

// Blocks returns the cell content in order.
func (c *Cell) Blocks() []Block { return c.blocks }

// Container accepts block content. Implemented by Document and Cell.
type Container interface {
	AddParagraph() *Paragraph
	AddTable(bordered bool) *Table
}

// HeadingAdder is the extra capability of the document root.
type HeadingAdder interface {
	Container
	AddHeading(text string, level int) *Paragraph
}

// PageMargins are uniform page margins in twips. Zero value means "leave
// the format defaults alone".
type PageMargins struct {
	Top    Twips
	Right  Twips
	Bottom Twips
	Left   Twips
}

// DocDefaults is the document-wide run/paragraph baseline written into
// styles.xml.
type DocDefaults struct {
	FontFamily  string
	FontSizePt  float64
	LineSpacing float64 // multiple of single spacing
}

// Document is the package root container.
type Document struct {
	Defaults DocDefaults
	Margins  *PageMargins

	blocks []Block
	rels   *relationships
	media  []mediaFile
}

// New creates an empty document with conventional defaults.
func New() *Document {
	return &Document{
		Defaults: DocDefaults{FontFamily: "Calibri", FontSizePt: 11, LineSpacing: 1},
		rels:     newRelationships(),
	}
}

// AddParagraph appends an empty body paragraph.
func (d *Document) AddParagraph() *Paragraph {
	p := &Paragraph{}
	d.blocks = append(d.blocks, p)
	return p
}

// AddHeading appends a heading paragraph with a single text run.
func (d *Document) AddHeading(text string, level int) *Paragraph {
	p := &Paragraph{Style: HeadingStyle(level)}
	p.AddText(text)
	d.blocks = append(d.blocks, p)
	return p
}

// AddTable appends a body table.
func (d *Document) AddTable(bordered bool) *Table {
	t := &Table{Bordered: bordered}
	d.blocks = append(d.blocks, t)
	return t
}

// Blocks returns the body content in order.
func (d *Document) Blocks() []Block { return d.blocks }

var (
	_ HeadingAdder = (*Document)(nil)
	_ Container    = (*Cell)(nil)
)
