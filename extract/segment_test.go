package extract

import (
	"strings"
	"testing"
)

const sep = "\n____________________\n"

func TestSegmentTextOneQuestionPerBlock(t *testing.T) {
	text := strings.Join([]string{
		"1. Frage: Was zeigt das Bild? A) Niere B) Leber",
		"2. Frage: Welche Aussage trifft zu? A) keine B) alle",
		"3. Frage: Wo liegt die Milz? A) links B) rechts",
	}, sep)

	questions := SegmentText(text)
	if len(questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(questions))
	}
	for i, want := range []string{"1", "2", "3"} {
		if questions[i].Number != want {
			t.Errorf("question %d number = %q, want %q", i, questions[i].Number, want)
		}
	}
	if got := questions[0].Text; got != "Was zeigt das Bild?" {
		t.Errorf("question text = %q", got)
	}
	if got := questions[0].OptionA; got != "Niere" {
		t.Errorf("option A = %q", got)
	}
	if got := questions[2].OptionB; got != "rechts" {
		t.Errorf("option B = %q", got)
	}
}

func TestSegmentTextSlashMarkers(t *testing.T) {
	paren := SegmentText("1. Frage: Was gilt? A) eins B) zwei")
	slash := SegmentText("1. Frage: Was gilt? A/ eins B/ zwei")

	if len(paren) != 1 || len(slash) != 1 {
		t.Fatalf("got %d and %d questions, want 1 each", len(paren), len(slash))
	}
	if paren[0].OptionA != slash[0].OptionA || paren[0].OptionB != slash[0].OptionB {
		t.Errorf("slash options %q/%q differ from paren options %q/%q",
			slash[0].OptionA, slash[0].OptionB, paren[0].OptionA, paren[0].OptionB)
	}
}

func TestSegmentTextInterrogativeFallback(t *testing.T) {
	text := "Einleitung ohne Nummer." + sep +
		"Welche Arterie versorgt den Lobus caudatus?\nA) A. hepatica"

	questions := SegmentText(text)
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	q := questions[0]
	if q.Number != "2" {
		t.Errorf("number = %q, want block position 2", q.Number)
	}
	if q.Text != "Welche Arterie versorgt den Lobus caudatus?" {
		t.Errorf("text = %q", q.Text)
	}
	if q.OptionA != "A. hepatica" {
		t.Errorf("option A = %q", q.OptionA)
	}
}

func TestSegmentTextHeaderTextStopsAtLineEnd(t *testing.T) {
	// Wrapped continuation lines stay in the full text but not in the
	// question text.
	questions := SegmentText(
		"1. Frage: Was ist die Hauptstadt\nvon Deutschland und warum?\nA) Berlin B) Bonn",
	)
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	if got := questions[0].Text; got != "Was ist die Hauptstadt" {
		t.Errorf("text = %q, want first line only", got)
	}
	if got := questions[0].OptionA; got != "Berlin" {
		t.Errorf("option A = %q", got)
	}

	// A bare header takes its text from the next line.
	questions = SegmentText("2. Frage:\nWo liegt die Milz?\nA) links B) rechts")
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	if got := questions[0].Text; got != "Wo liegt die Milz?" {
		t.Errorf("text = %q", got)
	}
}

func TestSegmentTextMetadata(t *testing.T) {
	questions := SegmentText(
		"7. Frage: Wie viele Herzklappen gibt es?\n" +
			"A) vier B) fünf\n" +
			"Fach: Anatomie\nAntwort: A\nKommentar: Standardwissen",
	)
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	q := questions[0]
	if q.Subject != "Anatomie" {
		t.Errorf("subject = %q", q.Subject)
	}
	if q.CorrectAnswer != "A" {
		t.Errorf("answer = %q", q.CorrectAnswer)
	}
	if q.Comment != "Standardwissen" {
		t.Errorf("comment = %q", q.Comment)
	}
}

func TestSupplementFromFullText(t *testing.T) {
	questions := SegmentText("1. Frage: Was ist das? A) dies B) das")
	full := "Einleitung.\n" +
		"Welche Besonderheit zeigt der abgebildete Wirbel im Vergleich?\n" +
		"Was nun?\n"

	questions = SupplementFromFullText(questions, full)
	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2 (short sentence skipped)", len(questions))
	}
	q := questions[1]
	if q.Number != "2" {
		t.Errorf("number = %q, want 2", q.Number)
	}
	if q.Text != "Welche Besonderheit zeigt der abgebildete Wirbel im Vergleich?" {
		t.Errorf("text = %q", q.Text)
	}
	if q.HasAnyOption() {
		t.Error("supplemented question should carry no options")
	}
}

func TestSupplementSkippedWhenEnoughQuestions(t *testing.T) {
	blocks := make([]string, 5)
	for i := range blocks {
		blocks[i] = "1. Frage: Was gilt? A) x"
	}
	questions := SegmentText(strings.Join(blocks, sep))
	if len(questions) != 5 {
		t.Fatalf("got %d questions, want 5", len(questions))
	}

	got := SupplementFromFullText(questions, "Welche zusätzliche Frage wäre denkbar gewesen?")
	if len(got) != 5 {
		t.Errorf("supplement added questions despite %d existing", len(questions))
	}
}
