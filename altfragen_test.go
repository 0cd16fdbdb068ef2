package altfragen

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// buildPDF assembles a minimal PDF with computed xref offsets.
func buildPDF(objects ...string) []byte {
	var buf strings.Builder
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefPos)

	return []byte(buf.String())
}

func examPDF(content string) []byte {
	return buildPDF(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	)
}

const examContent = `BT /F1 12 Tf 50 792 Td (1. Frage: Was zeigt das Bild?) Tj ` +
	`0 -20 Td (A\) Niere B\) Leber Fach: Anatomie) Tj ` +
	`0 -20 Td (____________________) Tj ` +
	`0 -280 Td (2. Frage: Welche Aussage stimmt?) Tj ` +
	`0 -20 Td (A\) keine B\) alle) Tj ET`

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

const examDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:r><w:t>1. Frage: Welche Struktur ist markiert?</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>A) die linke B) die rechte</w:t></w:r></w:p>` +
	`</w:body></w:document>`

func TestExtractPDFFromBytes(t *testing.T) {
	result, warnings, err := FromBytes(examPDF(examContent), "herbst_2022.pdf").Extract()
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if got := len(result.Questions); got != 2 {
		t.Fatalf("got %d questions, want 2", got)
	}
	if result.Questions[0].Subject != "Anatomie" {
		t.Errorf("subject = %q", result.Questions[0].Subject)
	}
	if result.ExamName != "herbst_2022" {
		t.Errorf("exam name = %q, want filename stem", result.ExamName)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %s", FormatWarnings(warnings))
	}
}

func TestExtractDOCXFromBytes(t *testing.T) {
	data := buildDOCX(t, examDocumentXML)

	result, _, err := FromBytes(data, "klausur.docx").Extract()
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := len(result.Questions); got != 1 {
		t.Fatalf("got %d questions, want 1", got)
	}
	if result.Questions[0].Text != "Welche Struktur ist markiert?" {
		t.Errorf("text = %q", result.Questions[0].Text)
	}
	if result.ExamName != "klausur" {
		t.Errorf("exam name = %q", result.ExamName)
	}
}

func TestExamMetadataOptions(t *testing.T) {
	result, _, err := FromBytes(examPDF(examContent), "herbst_2022.pdf").
		ExamName("Anatomie Herbst").
		ExamYear("2022").
		ExamSemester("WS").
		DefaultSubject("Physikum").
		Extract()
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if result.ExamName != "Anatomie Herbst" {
		t.Errorf("exam name = %q", result.ExamName)
	}
	if result.ExamYear != "2022" || result.ExamSemester != "WS" {
		t.Errorf("year/semester = %q/%q", result.ExamYear, result.ExamSemester)
	}

	// The first question carries its own Fach field, which wins over
	// the configured default.
	if result.Questions[0].Subject != "Anatomie" {
		t.Errorf("parsed subject overridden: %q", result.Questions[0].Subject)
	}
	if result.Questions[1].Subject != "Physikum" {
		t.Errorf("default subject not applied: %q", result.Questions[1].Subject)
	}
}

func TestFluentConfigDoesNotMutate(t *testing.T) {
	base := FromBytes(examPDF(examContent), "exam.pdf")
	configured := base.ExamYear("2022")

	if base.options.examYear != "" {
		t.Error("configuring a derived extractor mutated the base")
	}
	if configured.options.examYear != "2022" {
		t.Error("derived extractor lost its configuration")
	}
}

func TestExtractMissingFile(t *testing.T) {
	_, _, err := Open("/nonexistent/klausur.pdf").Extract()
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestExtractUnsupportedFormat(t *testing.T) {
	_, _, err := FromBytes([]byte("plain text, no container"), "notes.txt").Extract()
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestExtractCorruptPDFReturnsNoPartialData(t *testing.T) {
	result, warnings, err := FromBytes([]byte("%PDF-1.4\ngarbage without objects"), "kaputt.pdf").Extract()
	if err == nil {
		t.Fatal("expected error for corrupt PDF")
	}
	if result != nil {
		t.Error("expected no partial result on container failure")
	}
	if warnings != nil {
		t.Error("expected no warnings on container failure")
	}
}

func TestExtractEmptyDocumentWarns(t *testing.T) {
	result, warnings, err := FromBytes(examPDF("BT ET"), "leer.pdf").Extract()
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(result.Questions) != 0 {
		t.Fatalf("got %d questions from empty document", len(result.Questions))
	}
	if len(warnings) == 0 || !strings.Contains(FormatWarnings(warnings), "no questions") {
		t.Errorf("warnings = %q, want a no-questions warning", FormatWarnings(warnings))
	}
}

type fakeRecognizer struct {
	text string
	err  error
}

func (f fakeRecognizer) Recognize(imageData []byte) (string, error) {
	return f.text, f.err
}

func TestRecognizerFallback(t *testing.T) {
	jpeg := strings.Repeat("\xff\xd8scan", 30)
	data := buildPDF(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Contents 4 0 R"+
			" /Resources << /XObject << /Im1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream",
			len("q 595 0 0 842 0 0 cm /Im1 Do Q"), "q 595 0 0 842 0 0 cm /Im1 Do Q"),
		fmt.Sprintf("<< /Length %d /Type /XObject /Subtype /Image /Width 50 /Height 50 /Filter /DCTDecode >>\nstream\n%s\nendstream",
			len(jpeg), jpeg),
	)

	recognized := "1. Frage: Was zeigt der Scan?\nA) Niere B) Leber"
	result, warnings, err := FromBytes(data, "scan.pdf").
		WithRecognizer(fakeRecognizer{text: recognized}).
		Extract()
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if got := len(result.Questions); got != 1 {
		t.Fatalf("got %d questions, want 1 recovered via OCR", got)
	}
	if result.Questions[0].OptionA != "Niere" {
		t.Errorf("option A = %q", result.Questions[0].OptionA)
	}
	if !strings.Contains(FormatWarnings(warnings), "OCR") {
		t.Errorf("warnings = %q, want OCR note", FormatWarnings(warnings))
	}
}
