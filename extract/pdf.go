package extract

import (
	"crypto/md5"

	"github.com/jeskokaiser/altfragen-io-backend/model"
	"github.com/jeskokaiser/altfragen-io-backend/pdf"
)

// minImageBytes filters out tiny decorative images such as icons and
// separator graphics.
const minImageBytes = 100

// dedupPrefixBytes is the number of leading payload bytes hashed to
// detect the same image embedded multiple times.
const dedupPrefixBytes = 1000

// FromPDF runs the full extraction pipeline on an opened PDF: segment
// the text into questions, locate them on their pages, collect the
// embedded images and map each image to the question it belongs to.
func FromPDF(doc *pdf.Document) *model.ExtractionResult {
	text := doc.Text()
	questions := SegmentText(text)
	for _, q := range questions {
		ParseDetails(q)
	}

	// Positions are resolved before the whole-document fallback runs, so
	// fallback questions never acquire a page region: their synthetic
	// numbers could otherwise match literal "N. Frage" strings and cut
	// into the regions of real questions.
	ResolvePositions(questions, doc)

	questions = SupplementFromFullText(questions, text)
	for _, q := range questions {
		q.Seal()
	}

	images := collectImages(doc)
	AssignImagesByPosition(images, questions)

	return buildResult(questions, images)
}

// collectImages gathers the raster images of every page. XObject images
// are tried first; when the document has none, inline images are
// collected instead. Duplicates are dropped by object number and by a
// hash of the payload prefix.
func collectImages(doc *pdf.Document) []*model.ImageAsset {
	var images []*model.ImageAsset
	seenObjects := make(map[int]bool)

	for pageIdx, page := range doc.Pages() {
		placed, err := page.Images()
		if err != nil {
			continue
		}
		for i, pi := range placed {
			if pi.ObjectNumber != 0 && seenObjects[pi.ObjectNumber] {
				continue
			}
			if pi.ObjectNumber != 0 {
				seenObjects[pi.ObjectNumber] = true
			}
			images = append(images, toAsset(pi, pageIdx, i))
		}
	}

	if len(images) == 0 {
		for pageIdx, page := range doc.Pages() {
			inline, err := page.InlineImages()
			if err != nil {
				continue
			}
			for i, pi := range inline {
				images = append(images, toAsset(pi, pageIdx, i))
			}
		}
	}

	return dedupByPayload(images)
}

// toAsset converts a placed image to an asset. Images without a recorded
// placement get a synthetic stacked bounding box so that spatial
// assignment still has something to work with.
func toAsset(pi pdf.PlacedImage, pageIdx, idx int) *model.ImageAsset {
	bbox := pi.BBox
	if !pi.Placed {
		bbox = model.NewBBox(0, float64(idx)*100, 100, float64(idx+1)*100)
	}
	return &model.ImageAsset{
		Data: pi.Data,
		Ext:  pi.Ext,
		Page: pageIdx,
		BBox: bbox,
	}
}

// dedupByPayload drops images that are too small to be content and
// images whose payload prefix was already seen.
func dedupByPayload(images []*model.ImageAsset) []*model.ImageAsset {
	var kept []*model.ImageAsset
	seen := make(map[[md5.Size]byte]bool)

	for _, img := range images {
		if len(img.Data) < minImageBytes {
			continue
		}
		prefix := img.Data
		if len(prefix) > dedupPrefixBytes {
			prefix = prefix[:dedupPrefixBytes]
		}
		sum := md5.Sum(prefix)
		if seen[sum] {
			continue
		}
		seen[sum] = true
		kept = append(kept, img)
	}
	return kept
}

// buildResult applies the validity filter and fills the run statistics.
func buildResult(questions []*model.Question, images []*model.ImageAsset) *model.ExtractionResult {
	result := &model.ExtractionResult{Images: images}
	result.Stats.TotalExtracted = len(questions)
	result.Stats.TotalImages = len(images)

	kept := make(map[string]bool, len(questions))
	for _, q := range questions {
		if ShouldIgnore(q) {
			result.Stats.QuestionsIgnored++
			continue
		}
		kept[q.ID] = true
		result.Questions = append(result.Questions, q)
	}
	result.Stats.TotalProcessed = result.Stats.TotalExtracted - result.Stats.QuestionsIgnored

	// Images assigned to a question that did not survive the filter go
	// back to unassigned, as if nothing had claimed them.
	for _, img := range images {
		if img.AssignedQuestionID != "" && !kept[img.AssignedQuestionID] {
			img.AssignedQuestionID = ""
			img.ImageKey = ""
		}
	}
	return result
}
