package pdf

import (
	"math"
	"testing"
)

func mustOpenPage(t *testing.T, data []byte) *Page {
	t.Helper()
	doc, err := Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if doc.PageCount() != 1 {
		t.Fatalf("PageCount = %d, want 1", doc.PageCount())
	}
	page, err := doc.Page(0)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	return page
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

// ============================================================================
// Text extraction
// ============================================================================

func TestTextLineCoordinates(t *testing.T) {
	content := "BT /F1 12 Tf 1 0 0 1 50 700 Tm (3. Frage:) Tj 0 -20 Td (Wie lautet die Antwort?) Tj ET"
	page := mustOpenPage(t, singlePagePDF("", content))

	lines, err := page.TextLines()
	if err != nil {
		t.Fatalf("TextLines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	first := lines[0]
	if first.Text != "3. Frage:" {
		t.Errorf("line 0 text = %q", first.Text)
	}
	if !approx(first.X, 50) {
		t.Errorf("line 0 X = %v, want 50", first.X)
	}
	// Baseline at 700 on an 842 high page, 12pt font.
	if !approx(first.Top, 130) || !approx(first.Bottom, 142) {
		t.Errorf("line 0 span = [%v, %v], want [130, 142]", first.Top, first.Bottom)
	}

	second := lines[1]
	if second.Text != "Wie lautet die Antwort?" {
		t.Errorf("line 1 text = %q", second.Text)
	}
	if !approx(second.Top, 150) || !approx(second.Bottom, 162) {
		t.Errorf("line 1 span = [%v, %v], want [150, 162]", second.Top, second.Bottom)
	}
}

func TestTextLinesSortedTopDown(t *testing.T) {
	// The lower line is painted first. Output order must follow the page,
	// not the stream.
	content := "BT /F1 10 Tf 1 0 0 1 50 100 Tm (unten) Tj 1 0 0 1 50 800 Tm (oben) Tj ET"
	page := mustOpenPage(t, singlePagePDF("", content))

	lines, err := page.TextLines()
	if err != nil {
		t.Fatalf("TextLines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Text != "oben" || lines[1].Text != "unten" {
		t.Errorf("lines out of order: %q, %q", lines[0].Text, lines[1].Text)
	}
	if lines[0].Top >= lines[1].Top {
		t.Errorf("line tops not increasing: %v, %v", lines[0].Top, lines[1].Top)
	}
}

func TestFragmentsOnSameBaselineJoined(t *testing.T) {
	content := "BT /F1 12 Tf 1 0 0 1 50 700 Tm (Fach:) Tj 40 0 Td (Anatomie) Tj ET"
	page := mustOpenPage(t, singlePagePDF("", content))

	lines, err := page.TextLines()
	if err != nil {
		t.Fatalf("TextLines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0].Text != "Fach: Anatomie" {
		t.Errorf("joined line = %q, want %q", lines[0].Text, "Fach: Anatomie")
	}
}

func TestShowTextOperators(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			"TJ array with kerning",
			"BT /F1 12 Tf 1 0 0 1 50 700 Tm [(Ant) -20 (wort)] TJ ET",
			"Antwort",
		},
		{
			"quote advances a line",
			"BT /F1 12 Tf 14 TL 1 0 0 1 50 700 Tm (erste) Tj (zweite) ' ET",
			"erste\nzweite",
		},
		{
			"double quote shows third operand",
			"BT /F1 12 Tf 14 TL 1 0 0 1 50 700 Tm 0 2 (dritte) \" ET",
			"dritte",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := mustOpenPage(t, singlePagePDF("", tt.content))
			text, err := page.Text()
			if err != nil {
				t.Fatalf("Text: %v", err)
			}
			if text != tt.want {
				t.Errorf("Text = %q, want %q", text, tt.want)
			}
		})
	}
}

func TestLatinTextDecoding(t *testing.T) {
	content := "BT /F1 12 Tf 1 0 0 1 50 700 Tm (Pr\xfcfung f\xfcr \xc4rzte) Tj ET"
	page := mustOpenPage(t, singlePagePDF("", content))

	text, err := page.Text()
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if text != "Prüfung für Ärzte" {
		t.Errorf("Text = %q, want %q", text, "Prüfung für Ärzte")
	}
}

func TestGraphicsStateStack(t *testing.T) {
	// Text inside q..Q with a translation, then text after Q at the same
	// nominal position. The second must land at the untranslated spot.
	content := "q 1 0 0 1 0 -200 cm BT /F1 12 Tf 1 0 0 1 50 700 Tm (verschoben) Tj ET Q " +
		"BT /F1 12 Tf 1 0 0 1 50 700 Tm (normal) Tj ET"
	page := mustOpenPage(t, singlePagePDF("", content))

	lines, err := page.TextLines()
	if err != nil {
		t.Fatalf("TextLines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Text != "normal" {
		t.Errorf("top line = %q, want %q", lines[0].Text, "normal")
	}
	if !approx(lines[1].Top, 330) {
		t.Errorf("translated line top = %v, want 330", lines[1].Top)
	}
}

func TestDocumentText(t *testing.T) {
	data := buildPDF("1 0 R",
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R 5 0 R] /Count 2 /MediaBox [0 0 595 842] >>",
		"<< /Type /Page /Parent 2 0 R /Contents 4 0 R >>",
		streamBody("", "BT 1 0 0 1 50 800 Tm (Seite eins) Tj ET"),
		"<< /Type /Page /Parent 2 0 R /Contents 6 0 R >>",
		streamBody("", "BT 1 0 0 1 50 800 Tm (Seite zwei) Tj ET"),
	)

	doc, err := Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := doc.Text(); got != "Seite eins\nSeite zwei" {
		t.Errorf("Text = %q", got)
	}
}

func TestEmptyPage(t *testing.T) {
	data := buildPDF("1 0 R",
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] >>",
	)
	page := mustOpenPage(t, data)

	lines, err := page.TextLines()
	if err != nil {
		t.Fatalf("TextLines: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("got %d lines from empty page", len(lines))
	}
}
