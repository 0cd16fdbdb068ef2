package extract

import (
	"regexp"
	"strings"

	"github.com/jeskokaiser/altfragen-io-backend/model"
)

var (
	// optionMarkerRe finds option markers anywhere in a block, both the
	// "A)" and the "A/" style.
	optionMarkerRe = regexp.MustCompile(`(?i)([A-E])[\)/]`)

	// optionLineRe matches a line that starts an option, with optional
	// indentation.
	optionLineRe = regexp.MustCompile(`(?i)^\s*([A-E])[\)/]\s*(.*)`)

	// metadataLineRe matches a line that starts a metadata field.
	metadataLineRe = regexp.MustCompile(`(?i)^\s*(Fach|Antwort|Kommentar):`)

	fachRe      = regexp.MustCompile(`(?i)Fach:`)
	antwortRe   = regexp.MustCompile(`(?i)Antwort:`)
	kommentarRe = regexp.MustCompile(`(?i)Kommentar:`)
)

// ParseDetails fills question fields that segmentation left empty, from
// the question's full block text. Options are parsed line by line first,
// collecting continuation lines until the next option or metadata label;
// if that finds nothing, a marker sweep over the whole block is used
// instead. Existing values are never overwritten.
func ParseDetails(q *model.Question) {
	full := q.FullText

	options := parseOptionsByLine(full)
	if len(options) == 0 {
		options = parseOptionsBySweep(full)
	}
	for letter, value := range options {
		q.SetOption(letter, value)
	}

	q.SetSubject(fieldValue(full, fachRe, antwortRe, kommentarRe))
	q.SetCorrectAnswer(fieldValue(full, antwortRe, fachRe, kommentarRe))
	q.SetComment(fieldValue(full, kommentarRe, fachRe, antwortRe))
}

// parseOptions runs the marker sweep and stores anything the question
// does not have yet. Used during segmentation.
func parseOptions(q *model.Question, block string) {
	for letter, value := range parseOptionsBySweep(block) {
		q.SetOption(letter, value)
	}
}

// parseMetadata extracts the Fach, Antwort and Kommentar fields from a
// block, filling only empty question fields.
func parseMetadata(q *model.Question, block string) {
	q.SetSubject(fieldValue(block, fachRe, antwortRe, kommentarRe))
	q.SetCorrectAnswer(fieldValue(block, antwortRe, fachRe, kommentarRe))
	q.SetComment(fieldValue(block, kommentarRe, fachRe, antwortRe))
}

// parseOptionsByLine scans the block line by line. An option starts at a
// line with an option marker and collects following non-empty lines until
// the next option or metadata line.
func parseOptionsByLine(full string) map[byte]string {
	options := make(map[byte]string)
	lines := strings.Split(full, "\n")

	for i := 0; i < len(lines); i++ {
		m := optionLineRe.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if m == nil {
			continue
		}
		letter := upperLetter(m[1][0])
		content := strings.TrimSpace(m[2])

		var parts []string
		if content != "" {
			parts = append(parts, content)
		}

		j := i + 1
		for j < len(lines) {
			next := lines[j]
			if optionLineRe.MatchString(next) || metadataLineRe.MatchString(next) {
				break
			}
			if trimmed := strings.TrimSpace(next); trimmed != "" {
				parts = append(parts, trimmed)
			}
			j++
		}
		i = j - 1

		options[letter] = strings.TrimSpace(strings.Join(parts, " "))
	}
	return options
}

// parseOptionsBySweep finds the first marker for each letter anywhere in
// the block and takes the text up to the next marker or metadata label.
// The first occurrence of a letter wins.
func parseOptionsBySweep(full string) map[byte]string {
	options := make(map[byte]string)

	for _, m := range optionMarkerRe.FindAllStringSubmatchIndex(full, -1) {
		letter := upperLetter(full[m[2]])
		if _, seen := options[letter]; seen {
			continue
		}
		options[letter] = textUntilStop(full[m[1]:])
	}
	return options
}

// fieldValue extracts the value after the first occurrence of label,
// ending at whichever of the other two labels comes first.
func fieldValue(full string, label, other1, other2 *regexp.Regexp) string {
	loc := label.FindStringIndex(full)
	if loc == nil {
		return ""
	}

	rest := full[loc[1]:]
	end := len(rest)
	if m := other1.FindStringIndex(rest); m != nil && m[0] < end {
		end = m[0]
	}
	if m := other2.FindStringIndex(rest); m != nil && m[0] < end {
		end = m[0]
	}
	return strings.TrimSpace(rest[:end])
}

func upperLetter(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
