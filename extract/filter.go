package extract

import (
	"regexp"
	"strings"

	"github.com/jeskokaiser/altfragen-io-backend/model"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	// fillerTextRe matches question texts that consist only of digits,
	// punctuation and whitespace, such as leftover numbering.
	fillerTextRe = regexp.MustCompile(`^[\d\s.\-_]+$`)
)

// placeholderTexts are instruction fragments that sometimes survive
// segmentation as their own block but carry no question.
var placeholderTexts = map[string]bool{
	"gesucht: richtig/falsch?": true,
	"gesucht: richtig/falsch":  true,
	"gesucht:richtig/falsch?":  true,
	"gesucht:richtig/falsch":   true,
}

// ShouldIgnore reports whether a parsed question is not a usable exam
// question: too short, without any answer options, a known placeholder
// phrase, or filler with no letters at all.
func ShouldIgnore(q *model.Question) bool {
	text := strings.TrimSpace(q.Text)
	if len(text) < 5 {
		return true
	}
	if !q.HasAnyOption() {
		return true
	}

	normalized := strings.TrimSpace(whitespaceRe.ReplaceAllString(strings.ToLower(text), " "))
	if placeholderTexts[normalized] {
		return true
	}

	return fillerTextRe.MatchString(text)
}
