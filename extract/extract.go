package extract

import "github.com/jeskokaiser/altfragen-io-backend/model"

// FromText runs the text-only pipeline on already extracted plain text,
// for callers that obtained the text elsewhere, such as an OCR pass over
// a scanned document. No positions are resolved and no images are
// collected.
func FromText(text string) *model.ExtractionResult {
	questions := SegmentText(text)
	for _, q := range questions {
		ParseDetails(q)
	}
	questions = SupplementFromFullText(questions, text)
	for _, q := range questions {
		q.Seal()
	}
	return buildResult(questions, nil)
}
