package convert

import (
	"golang.org/x/net/html"

	"hdc/docx"
	"hdc/htmldoc"
)

// TableKind tells whether a table carries data or is only used for layout.
type TableKind int

const (
	LayoutTable TableKind = iota
	DataTable
)

// Classify decides how a table should be rendered. A table is data when it
// is explicitly marked with the data-table class, contains header cells, or
// declares a border. Everything else is treated as layout and flattened.
func Classify(n *html.Node) TableKind {
	if htmldoc.HasClass(n, "data-table") {
		return DataTable
	}
	if len(htmldoc.FindAll(n, "th")) > 0 {
		return DataTable
	}
	if b := htmldoc.Attr(n, "border"); b != "" && b != "0" {
		return DataTable
	}
	return LayoutTable
}

// tableShape collects the table's own rows (excluding rows of nested tables)
// and the widest row's cell count.
func tableShape(n *html.Node) (rows []*html.Node, maxCols int) {
	for _, tr := range htmldoc.FindAll(n, "tr") {
		if htmldoc.ClosestTable(tr) != n {
			continue
		}
		rows = append(rows, tr)
		cols := 0
		for _, c := range htmldoc.Children(tr) {
			if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
				cols++
			}
		}
		if cols > maxCols {
			maxCols = cols
		}
	}
	return rows, maxCols
}

func rowCells(tr *html.Node) []*html.Node {
	var out []*html.Node
	for _, c := range htmldoc.Children(tr) {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			out = append(out, c)
		}
	}
	return out
}

func (w *walker) table(target docx.Container, n *html.Node) {
	rows, cols := tableShape(n)
	if len(rows) == 0 || cols == 0 {
		return
	}
	switch Classify(n) {
	case DataTable:
		w.dataTable(target, rows, cols)
	default:
		w.layoutTable(target, rows, cols)
	}
}

// dataTable renders a bordered grid with each cell's flattened text. Rows
// are padded with empty cells up to the widest row.
func (w *walker) dataTable(target docx.Container, rows []*html.Node, cols int) {
	t := target.AddTable(true)
	t.Cols = cols
	for _, tr := range rows {
		row := t.AddRow()
		cells := rowCells(tr)
		for j := range cols {
			c := row.AddCell()
			if j < len(cells) {
				c.AddParagraph().AddText(htmldoc.InnerText(cells[j]))
			}
		}
	}
}

// layoutTable renders a borderless grid and walks each cell as a block
// container, so nested structure inside stays intact.
func (w *walker) layoutTable(target docx.Container, rows []*html.Node, cols int) {
	t := target.AddTable(false)
	t.Cols = cols
	for _, tr := range rows {
		row := t.AddRow()
		cells := rowCells(tr)
		for j := range cols {
			c := row.AddCell()
			if j < len(cells) {
				w.walkContainer(c, cells[j])
			}
		}
	}
}
