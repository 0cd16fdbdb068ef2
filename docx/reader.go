package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// Document provides access to a parsed DOCX document.
type Document struct {
	archive      *zip.Reader
	document     *documentXML
	styles       *stylesXML
	rels         *relationshipsXML
	contentTypes *contentTypesXML
	paragraphs   []Paragraph
}

// Paragraph is one body paragraph in document order.
type Paragraph struct {
	Text string

	// ListItem marks paragraphs that are part of a numbered or bulleted
	// list, either through numbering properties or a list style.
	// ListLevel is the zero based indentation level.
	ListItem  bool
	ListLevel int

	// ImageRefs holds the relationship IDs of images embedded in this
	// paragraph's runs, in run order.
	ImageRefs []string
}

// Image is an embedded image payload keyed by its relationship ID.
type Image struct {
	RelID string
	Ext   string
	Data  []byte
}

// Open parses a DOCX document from data. The only hard requirement is a
// readable ZIP archive with a word/document.xml part; styles and
// relationships are optional.
func Open(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	d := &Document{archive: zr}

	docData, err := d.partContent("word/document.xml")
	if err != nil {
		return nil, fmt.Errorf("missing word/document.xml: %w", err)
	}
	d.document = &documentXML{}
	if err := xml.Unmarshal(docData, d.document); err != nil {
		return nil, fmt.Errorf("unmarshaling document.xml: %w", err)
	}

	// Optional parts.
	if data, err := d.partContent("word/styles.xml"); err == nil {
		d.styles = &stylesXML{}
		if err := xml.Unmarshal(data, d.styles); err != nil {
			d.styles = nil
		}
	}
	if data, err := d.partContent("word/_rels/document.xml.rels"); err == nil {
		d.rels = &relationshipsXML{}
		if err := xml.Unmarshal(data, d.rels); err != nil {
			d.rels = nil
		}
	}
	if data, err := d.partContent("[Content_Types].xml"); err == nil {
		d.contentTypes = &contentTypesXML{}
		if err := xml.Unmarshal(data, d.contentTypes); err != nil {
			d.contentTypes = nil
		}
	}

	d.processParagraphs()
	return d, nil
}

// partContent reads one file from the archive.
func (d *Document) partContent(name string) ([]byte, error) {
	for _, f := range d.archive.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

// Paragraphs returns the body paragraphs in document order.
func (d *Document) Paragraphs() []Paragraph {
	return d.paragraphs
}

// Text returns the document text, one line per paragraph.
func (d *Document) Text() string {
	parts := make([]string, len(d.paragraphs))
	for i, p := range d.paragraphs {
		parts[i] = p.Text
	}
	return strings.Join(parts, "\n")
}

// Images returns the embedded images keyed by relationship ID. The
// extension comes from the declared content type of the payload part.
func (d *Document) Images() (map[string]Image, error) {
	images := make(map[string]Image)
	if d.rels == nil {
		return images, nil
	}

	for _, rel := range d.rels.Relationships {
		if !strings.Contains(rel.Target, "image") {
			continue
		}

		target := resolveTarget(rel.Target)
		data, err := d.partContent(target)
		if err != nil {
			continue
		}

		images[rel.ID] = Image{
			RelID: rel.ID,
			Ext:   d.imageExt(target),
			Data:  data,
		}
	}
	return images, nil
}

// resolveTarget maps a relationship target to an archive path. Targets
// are relative to the word/ directory unless they start with a slash.
func resolveTarget(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join("word", target)
}

// imageExt derives the file extension from the content type declared for
// the part, falling back to the target's own extension.
func (d *Document) imageExt(target string) string {
	ext := strings.TrimPrefix(path.Ext(target), ".")

	if d.contentTypes != nil {
		for _, o := range d.contentTypes.Overrides {
			if strings.TrimPrefix(o.PartName, "/") == target {
				return contentTypeExt(o.ContentType, ext)
			}
		}
		for _, def := range d.contentTypes.Defaults {
			if strings.EqualFold(def.Extension, ext) {
				return contentTypeExt(def.ContentType, ext)
			}
		}
	}

	if ext == "" {
		return "png"
	}
	return ext
}

// contentTypeExt extracts the subtype of a MIME type, e.g. "png" from
// "image/png".
func contentTypeExt(contentType, fallback string) string {
	if idx := strings.LastIndex(contentType, "/"); idx >= 0 && idx+1 < len(contentType) {
		return contentType[idx+1:]
	}
	if fallback == "" {
		return "png"
	}
	return fallback
}

// processParagraphs flattens the parsed XML into the paragraph stream.
func (d *Document) processParagraphs() {
	if d.document == nil || d.document.Body == nil {
		return
	}

	d.paragraphs = make([]Paragraph, 0, len(d.document.Body.Paragraphs))
	for _, p := range d.document.Body.Paragraphs {
		d.paragraphs = append(d.paragraphs, d.processParagraph(p))
	}
}

func (d *Document) processParagraph(p paragraphXML) Paragraph {
	para := Paragraph{}

	runs := p.Runs
	for _, link := range p.Hyperlinks {
		runs = append(runs, link.Runs...)
	}

	var textParts []string
	for _, run := range runs {
		if text := runText(run); text != "" {
			textParts = append(textParts, text)
		}
		for _, drawing := range run.Drawings {
			if id := drawingEmbedID(drawing); id != "" {
				para.ImageRefs = append(para.ImageRefs, id)
			}
		}
	}
	para.Text = strings.Join(textParts, "")

	para.ListItem, para.ListLevel = d.listInfo(p.Properties)
	return para
}

// runText extracts the text of a run, mapping tabs and breaks to their
// plain text equivalents.
func runText(run runXML) string {
	var parts []string
	for _, t := range run.Text {
		parts = append(parts, t.Value)
	}
	for range run.Tabs {
		parts = append(parts, "\t")
	}
	for range run.Breaks {
		parts = append(parts, "\n")
	}
	return strings.Join(parts, "")
}

// drawingEmbedID returns the blip relationship ID of a drawing, whether
// inline or anchored.
func drawingEmbedID(drawing drawingXML) string {
	if drawing.Inline != nil && drawing.Inline.Blip != nil {
		return drawing.Inline.Blip.Embed
	}
	if drawing.Anchor != nil && drawing.Anchor.Blip != nil {
		return drawing.Anchor.Blip.Embed
	}
	return ""
}

// listStyleKeywords mark style names that imply list membership.
var listStyleKeywords = []string{"list", "bullet", "number", "enumerat"}

// listInfo decides whether a paragraph belongs to a list. Numbering
// properties win; otherwise the paragraph style name is matched against
// the usual list style names.
func (d *Document) listInfo(props paragraphPropsXML) (bool, int) {
	if props.NumPr != nil {
		level := 0
		if v, err := strconv.Atoi(props.NumPr.ILvl.Val); err == nil && v >= 0 {
			level = v
		}
		return true, level
	}

	styleID := props.Style.Val
	if styleID == "" {
		return false, 0
	}

	name := strings.ToLower(styleID)
	if d.styles != nil {
		for _, style := range d.styles.Styles {
			if style.StyleID == styleID && style.Name.Val != "" {
				name = strings.ToLower(style.Name.Val)
				break
			}
		}
	}
	for _, kw := range listStyleKeywords {
		if strings.Contains(name, kw) {
			return true, 0
		}
	}
	return false, 0
}
