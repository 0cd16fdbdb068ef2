package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jeskokaiser/altfragen-io-backend/model"
)

var (
	// separatorRe splits the exam text into question blocks at runs of
	// ten or more underscores.
	separatorRe = regexp.MustCompile(`_{10,}`)

	// headerRe matches the "3. Frage:" block header, with optional
	// indentation and an optional colon.
	headerRe = regexp.MustCompile(`(?m)^\s*(\d+)\.\s*Frage:?`)

	// interrogativeRe matches a question sentence when a block has no
	// numbered header.
	interrogativeRe = regexp.MustCompile(`(?ims)^\s*(?:Was|Welche|Wo|Wann|Wie|Warum).*?\?`)

	// sentenceRe finds question sentences in the whole document text for
	// the fallback pass.
	sentenceRe = regexp.MustCompile(`(?im)^\s*(?:[^.!?]*?(?:Was|Welche|Wo|Wann|Wie|Warum)[^.!?]*?\?)`)

	// stopRe marks where a question text or field value ends: the next
	// option marker or metadata label.
	stopRe = regexp.MustCompile(`(?i)[A-E][\)/]|Fach:|Antwort:|Kommentar:`)
)

// fallbackThreshold is the question count below which the whole-document
// interrogative scan kicks in.
const fallbackThreshold = 5

// SegmentText splits exam text into question blocks and parses each into
// a Question. Blocks without a numbered header fall back to the first
// interrogative sentence, numbered by block position.
func SegmentText(text string) []*model.Question {
	var questions []*model.Question

	for blockIdx, block := range separatorRe.Split(text, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		if m := headerRe.FindStringSubmatchIndex(block); m != nil {
			number := block[m[2]:m[3]]
			q := model.NewQuestion(number)
			q.FullText = block
			q.SetText(headerSeededText(block[m[1]:]))
			parseOptions(q, block)
			parseMetadata(q, block)
			questions = append(questions, q)
			continue
		}

		if sentence := interrogativeRe.FindString(block); sentence != "" {
			q := model.NewQuestion(strconv.Itoa(blockIdx + 1))
			q.FullText = block
			q.SetText(strings.TrimSpace(sentence))
			parseOptions(q, block)
			questions = append(questions, q)
		}
	}

	return questions
}

// SupplementFromFullText appends questions found by scanning the whole
// document for interrogative sentences. It is used when block
// segmentation yields fewer than five questions. The new questions carry
// no position and no options.
func SupplementFromFullText(questions []*model.Question, text string) []*model.Question {
	if len(questions) >= fallbackThreshold {
		return questions
	}

	number := len(questions) + 1
	for _, sentence := range sentenceRe.FindAllString(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) <= 20 {
			continue
		}
		q := model.NewQuestion(strconv.Itoa(number))
		q.FullText = sentence
		q.SetText(sentence)
		questions = append(questions, q)
		number++
	}
	return questions
}

// textUntilStop returns the text up to the next option marker or
// metadata label, trimmed.
func textUntilStop(s string) string {
	if loc := stopRe.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	return strings.TrimSpace(s)
}

// headerSeededText extracts the question text that follows a numbered
// header. Leading whitespace is skipped, then the text runs to the end
// of that line or the next stop marker, whichever comes first. Wrapped
// continuation lines belong to the full text, not the question text.
func headerSeededText(s string) string {
	s = strings.TrimLeft(s, " \t\r\n")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return textUntilStop(s)
}
