package docx

import "fmt"

// Relationship type URIs used by the document part.
const (
	relTypeStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeNumbering = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	relTypeHyperlink = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	relTypeImage     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relTypeDocument  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
)

type relationship struct {
	ID       string
	Type     string
	Target   string
	External bool
}

// relationships allocates sequential rIds for the document part.
type relationships struct {
	items []relationship
}

func newRelationships() *relationships {
	// rId1 and rId2 are reserved for styles.xml and numbering.xml so that
	// the document part always resolves its stylesheet and list definitions.
	r := &relationships{}
	r.add(relTypeStyles, "styles.xml", false)
	r.add(relTypeNumbering, "numbering.xml", false)
	return r
}

func (r *relationships) add(relType, target string, external bool) string {
	id := fmt.Sprintf("rId%d", len(r.items)+1)
	r.items = append(r.items, relationship{ID: id, Type: relType, Target: target, External: external})
	return id
}

type mediaFile struct {
	Name string // file name under word/media/
	Data []byte
}

// AddHyperlink registers an external hyperlink relationship and returns its
// rId for use in a LinkRun.
func (d *Document) AddHyperlink(url string) string {
	return d.rels.add(relTypeHyperlink, url, true)
}

// AddImage stores image bytes as a media part and returns the rId for use in
// an ImageRun. The extension should match the payload format ("png", ...).
func (d *Document) AddImage(ext string, data []byte) string {
	name := fmt.Sprintf("image%d.%s", len(d.media)+1, ext)
	d.media = append(d.media, mediaFile{Name: name, Data: data})
	return d.rels.add(relTypeImage, "media/"+name, false)
}
