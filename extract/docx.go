package extract

import (
	"regexp"
	"strings"

	"github.com/jeskokaiser/altfragen-io-backend/docx"
	"github.com/jeskokaiser/altfragen-io-backend/model"
)

// docxHeaderRe matches a question header paragraph. Word documents show
// more variation in manual formatting than generated PDFs, so this match
// is case insensitive.
var docxHeaderRe = regexp.MustCompile(`(?i)^\s*(\d+)\.\s*Frage:?`)

// docxSeparatorRe matches a paragraph that is nothing but a separator
// rule of underscores.
var docxSeparatorRe = regexp.MustCompile(`^_{10,}$`)

// maxListLabel is the highest list counter that is rendered as an answer
// option letter, 'A' through 'E'.
const maxListLabel = 5

// FromDOCX runs the extraction pipeline on an opened Word document. The
// paragraph stream is walked once: headers open a new question, list
// paragraphs are relabelled as option letters, and images are tagged
// with the question that was open when they appeared.
func FromDOCX(d *docx.Document) *model.ExtractionResult {
	imagesByRel, err := d.Images()
	if err != nil {
		imagesByRel = nil
	}

	var questions []*model.Question
	var images []*model.ImageAsset
	var current *model.Question
	var block []string
	position := 0
	listCounters := make(map[int]int)

	finalize := func() {
		if current == nil {
			return
		}
		current.FullText = strings.Join(block, "\n")
		if m := docxHeaderRe.FindStringIndex(current.FullText); m != nil {
			current.SetText(headerSeededText(current.FullText[m[1]:]))
		}
		ParseDetails(current)
		questions = append(questions, current)
		current = nil
		block = nil
	}

	for _, para := range d.Paragraphs() {
		text := strings.TrimSpace(para.Text)

		separator := docxSeparatorRe.MatchString(text)
		var header []string
		if separator {
			finalize()
		} else if header = docxHeaderRe.FindStringSubmatch(text); header != nil {
			finalize()
			current = model.NewQuestion(header[1])
			current.DocumentPosition = position
			position++
			resetCounters(listCounters)
			block = append(block, text)
		}

		// Images come after separator and header handling, so a drawing
		// in a header paragraph is tagged with the question that
		// paragraph opens.
		for _, relID := range para.ImageRefs {
			img, ok := imagesByRel[relID]
			if !ok {
				continue
			}
			asset := &model.ImageAsset{
				Data:             img.Data,
				Ext:              img.Ext,
				Page:             -1,
				DocumentPosition: position,
			}
			if current != nil {
				asset.QuestionNumber = current.Number
			}
			images = append(images, asset)
			position++
		}

		if separator {
			position++
			continue
		}
		if header != nil {
			continue
		}

		if text == "" {
			continue
		}

		if para.ListItem {
			label := listLabel(listCounters, para.ListLevel)
			if label != "" {
				text = label + " " + text
			}
		} else {
			resetCounters(listCounters)
		}
		if current != nil {
			block = append(block, text)
		}
	}
	finalize()

	for _, q := range questions {
		q.Seal()
	}

	// No payload dedup here: a relationship referenced by several
	// paragraphs yields one asset per reference, each tagged with its own
	// question. Only the size filter applies.
	var kept []*model.ImageAsset
	for _, img := range images {
		if len(img.Data) >= minImageBytes {
			kept = append(kept, img)
		}
	}
	images = kept

	AssignImagesByFlow(images, questions)

	return buildResult(questions, images)
}

// listLabel advances the counter for the paragraph's list level and
// returns the option letter label, or "" once the level has run past
// 'E'. Counters of deeper levels restart.
func listLabel(counters map[int]int, level int) string {
	counters[level]++
	for l := range counters {
		if l > level {
			delete(counters, l)
		}
	}

	n := counters[level]
	if n > maxListLabel {
		return ""
	}
	return string(rune('A'+n-1)) + ")"
}

func resetCounters(counters map[int]int) {
	for l := range counters {
		delete(counters, l)
	}
}
