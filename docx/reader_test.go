package docx

import (
	"archive/zip"
	"bytes"
	"testing"
)

// buildDOCX assembles an in-memory DOCX archive from part contents.
func buildDOCX(t *testing.T, parts map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}
	return buf.Bytes()
}

const docxHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`

func wrapDocument(body string) string {
	return docxHeader +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
		` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"` +
		` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
		` xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
		`<w:body>` + body + `</w:body></w:document>`
}

func para(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

// ============================================================================
// Opening and text
// ============================================================================

func TestOpenAndText(t *testing.T) {
	data := buildDOCX(t, map[string]string{
		"word/document.xml": wrapDocument(
			para("3. Frage:") +
				para("Welche Struktur liegt dorsal?") +
				para("____________"),
		),
	})

	doc, err := Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	paras := doc.Paragraphs()
	if len(paras) != 3 {
		t.Fatalf("got %d paragraphs, want 3", len(paras))
	}
	if paras[1].Text != "Welche Struktur liegt dorsal?" {
		t.Errorf("paragraph 1 = %q", paras[1].Text)
	}

	want := "3. Frage:\nWelche Struktur liegt dorsal?\n____________"
	if doc.Text() != want {
		t.Errorf("Text = %q, want %q", doc.Text(), want)
	}
}

func TestOpenNotZIP(t *testing.T) {
	if _, err := Open([]byte("plain text, not an archive")); err == nil {
		t.Fatal("expected error for non-ZIP data")
	}
}

func TestOpenMissingDocumentPart(t *testing.T) {
	data := buildDOCX(t, map[string]string{
		"word/styles.xml": docxHeader + `<w:styles xmlns:w="x"></w:styles>`,
	})
	if _, err := Open(data); err == nil {
		t.Fatal("expected error without word/document.xml")
	}
}

func TestRunTextTabsAndBreaks(t *testing.T) {
	data := buildDOCX(t, map[string]string{
		"word/document.xml": wrapDocument(
			`<w:p><w:r><w:t>Fach:</w:t><w:tab/><w:t>Anatomie</w:t></w:r></w:p>`,
		),
	})

	doc, err := Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := doc.Paragraphs()[0].Text; got != "Fach:\tAnatomie" {
		t.Errorf("text = %q, want tab separated", got)
	}
}

func TestHyperlinkRunsIncluded(t *testing.T) {
	data := buildDOCX(t, map[string]string{
		"word/document.xml": wrapDocument(
			`<w:p><w:r><w:t>Siehe </w:t></w:r>` +
				`<w:hyperlink r:id="rId9"><w:r><w:t>Abbildung</w:t></w:r></w:hyperlink></w:p>`,
		),
	})

	doc, err := Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := doc.Paragraphs()[0].Text; got != "Siehe Abbildung" {
		t.Errorf("text = %q", got)
	}
}

// ============================================================================
// List detection
// ============================================================================

func TestListFromNumberingProps(t *testing.T) {
	data := buildDOCX(t, map[string]string{
		"word/document.xml": wrapDocument(
			`<w:p><w:pPr><w:numPr><w:ilvl w:val="1"/><w:numId w:val="3"/></w:numPr></w:pPr>` +
				`<w:r><w:t>Arteria carotis</w:t></w:r></w:p>` +
				para("kein Listenpunkt"),
		),
	})

	doc, err := Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	first := doc.Paragraphs()[0]
	if !first.ListItem || first.ListLevel != 1 {
		t.Errorf("first paragraph list = %v level %d, want list level 1", first.ListItem, first.ListLevel)
	}
	if doc.Paragraphs()[1].ListItem {
		t.Error("plain paragraph detected as list item")
	}
}

func TestListFromStyleName(t *testing.T) {
	styles := docxHeader +
		`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:style w:type="paragraph" w:styleId="Aufz1"><w:name w:val="List Bullet"/></w:style>` +
		`</w:styles>`

	data := buildDOCX(t, map[string]string{
		"word/document.xml": wrapDocument(
			`<w:p><w:pPr><w:pStyle w:val="Aufz1"/></w:pPr><w:r><w:t>Option</w:t></w:r></w:p>`,
		),
		"word/styles.xml": styles,
	})

	doc, err := Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !doc.Paragraphs()[0].ListItem {
		t.Error("style named List Bullet not detected as list")
	}
}

func TestListFromStyleIDWithoutStyles(t *testing.T) {
	data := buildDOCX(t, map[string]string{
		"word/document.xml": wrapDocument(
			`<w:p><w:pPr><w:pStyle w:val="ListParagraph"/></w:pPr><w:r><w:t>Option</w:t></w:r></w:p>`,
		),
	})

	doc, err := Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !doc.Paragraphs()[0].ListItem {
		t.Error("ListParagraph style ID not detected as list")
	}
}

// ============================================================================
// Images
// ============================================================================

const drawingRun = `<w:r><w:drawing><wp:inline>` +
	`<a:graphic><a:graphicData><pic:pic><pic:blipFill>` +
	`<a:blip r:embed="rId5"/>` +
	`</pic:blipFill></pic:pic></a:graphicData></a:graphic>` +
	`</wp:inline></w:drawing></w:r>`

func TestParagraphImageRefs(t *testing.T) {
	data := buildDOCX(t, map[string]string{
		"word/document.xml": wrapDocument(
			para("Text davor") +
				`<w:p>` + drawingRun + `</w:p>`,
		),
	})

	doc, err := Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if refs := doc.Paragraphs()[0].ImageRefs; len(refs) != 0 {
		t.Errorf("text paragraph has image refs: %v", refs)
	}
	refs := doc.Paragraphs()[1].ImageRefs
	if len(refs) != 1 || refs[0] != "rId5" {
		t.Errorf("image refs = %v, want [rId5]", refs)
	}
}

func TestImages(t *testing.T) {
	rels := docxHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId5" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>` +
		`<Relationship Id="rId6" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
		`</Relationships>`
	contentTypes := docxHeader +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="png" ContentType="image/png"/>` +
		`</Types>`

	data := buildDOCX(t, map[string]string{
		"word/document.xml":            wrapDocument(para("x")),
		"word/_rels/document.xml.rels": rels,
		"[Content_Types].xml":          contentTypes,
		"word/media/image1.png":        "fake-png-bytes",
	})

	doc, err := Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	images, err := doc.Images()
	if err != nil {
		t.Fatalf("Images: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("got %d images, want 1", len(images))
	}

	img, ok := images["rId5"]
	if !ok {
		t.Fatal("rId5 missing from image map")
	}
	if img.Ext != "png" {
		t.Errorf("Ext = %q, want png", img.Ext)
	}
	if string(img.Data) != "fake-png-bytes" {
		t.Errorf("Data = %q", img.Data)
	}
}

func TestImageExtFromContentType(t *testing.T) {
	rels := docxHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId7" Type="t" Target="media/image2.jpg"/>` +
		`</Relationships>`
	contentTypes := docxHeader +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="jpg" ContentType="image/jpeg"/>` +
		`</Types>`

	data := buildDOCX(t, map[string]string{
		"word/document.xml":            wrapDocument(para("x")),
		"word/_rels/document.xml.rels": rels,
		"[Content_Types].xml":          contentTypes,
		"word/media/image2.jpg":        "jpegdata",
	})

	doc, err := Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	images, err := doc.Images()
	if err != nil {
		t.Fatalf("Images: %v", err)
	}
	if img := images["rId7"]; img.Ext != "jpeg" {
		t.Errorf("Ext = %q, want jpeg from content type", img.Ext)
	}
}
