package extract

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jeskokaiser/altfragen-io-backend/model"
	"github.com/jeskokaiser/altfragen-io-backend/pdf"
)

const (
	// minQuestionHeight is the smallest vertical extent a question region
	// may be assigned below its header.
	minQuestionHeight = 75.0

	// pageBottomMargin keeps the last question on a page from extending
	// all the way to the page edge.
	pageBottomMargin = 10.0

	// questionGap separates a question region from the header of the
	// next question on the same page.
	questionGap = 5.0

	// minRegionHeight is the absolute lower bound on region height, also
	// used as the region for headers that could not be located.
	minRegionHeight = 20.0
)

// ResolvePositions locates every question header on its page and assigns
// each question a vertical region [Y0, Y1] used for spatial image
// assignment. Questions are sorted by number first so that the region of
// one question can be bounded by the header of the next.
func ResolvePositions(questions []*model.Question, doc *pdf.Document) {
	sortByNumber(questions)

	pages := doc.Pages()
	lines := make([][]pdf.TextLine, len(pages))
	for i, page := range pages {
		pageLines, err := page.TextLines()
		if err != nil {
			continue
		}
		lines[i] = pageLines
	}

	for _, q := range questions {
		locateHeader(q, lines)
	}

	for i, q := range questions {
		if q.Page < 0 {
			q.Y0 = 0
			q.Y1 = minRegionHeight
			continue
		}

		pageHeight := defaultHeight
		if q.Page < len(pages) {
			pageHeight = pages[q.Page].Height()
		}

		next := nextOnSamePage(questions, i)
		q.Y1 = estimateBottom(q, next, pageHeight)
	}
}

const defaultHeight = 842.0

// locateHeader scans the text lines of every page for the question's
// header and records page, top and bottom of the first line that carries
// it.
func locateHeader(q *model.Question, lines [][]pdf.TextLine) {
	needle := q.Number + ". Frage"

	for pageIdx, pageLines := range lines {
		for _, line := range pageLines {
			if !containsHeader(line.Text, needle) {
				continue
			}
			q.Page = pageIdx
			q.Y0 = line.Top
			q.HeaderBottom = line.Bottom
			return
		}
	}
}

// containsHeader reports whether text carries the header needle. The
// character before the match must not be a digit, so that question 2 does
// not match inside the header of question 12.
func containsHeader(text, needle string) bool {
	idx := strings.Index(text, needle)
	for idx >= 0 {
		if idx == 0 || text[idx-1] < '0' || text[idx-1] > '9' {
			return true
		}
		rest := strings.Index(text[idx+1:], needle)
		if rest < 0 {
			return false
		}
		idx += 1 + rest
	}
	return false
}

// estimateBottom computes the bottom edge of a question's region. The
// region reaches at least minQuestionHeight below the header, stops short
// of the next question's header on the same page, and never falls below
// minRegionHeight in total.
func estimateBottom(q, next *model.Question, pageHeight float64) float64 {
	base := q.HeaderBottom
	if base <= 0 {
		base = q.Y0
	}

	est := pageHeight - pageBottomMargin
	if next != nil {
		est = next.Y0 - questionGap
	}

	y1 := est
	if base+minQuestionHeight > y1 {
		y1 = base + minQuestionHeight
	}
	if q.Y0+minRegionHeight > y1 {
		y1 = q.Y0 + minRegionHeight
	}

	if next != nil && y1 >= next.Y0 {
		y1 = next.Y0 - questionGap
		if q.Y0+minRegionHeight > y1 {
			y1 = q.Y0 + minRegionHeight
		}
	}
	return y1
}

// nextOnSamePage returns the first question after index i that was
// located on the same page, or nil.
func nextOnSamePage(questions []*model.Question, i int) *model.Question {
	for j := i + 1; j < len(questions); j++ {
		if questions[j].Page == questions[i].Page {
			return questions[j]
		}
	}
	return nil
}

// sortByNumber orders questions by their numeric question number.
// Non-numeric numbers sort after numeric ones, in their original order.
func sortByNumber(questions []*model.Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		a, errA := strconv.Atoi(questions[i].Number)
		b, errB := strconv.Atoi(questions[j].Number)
		if errA != nil {
			return false
		}
		if errB != nil {
			return true
		}
		return a < b
	})
}
