package extract

import (
	"github.com/jeskokaiser/altfragen-io-backend/model"
)

// AssignImagesByPosition maps page-based images to questions. An image
// belongs to the question whose region contains its vertical midpoint;
// among several containing regions the tightest one wins. When no region
// contains the midpoint the question with the smallest vertical gap to
// the image is chosen instead.
func AssignImagesByPosition(images []*model.ImageAsset, questions []*model.Question) {
	byPage := make(map[int][]*model.Question)
	for _, q := range questions {
		if q.Page < 0 || q.Y1 < q.Y0 {
			continue
		}
		byPage[q.Page] = append(byPage[q.Page], q)
	}

	for _, img := range images {
		candidates := byPage[img.Page]
		if len(candidates) == 0 {
			continue
		}

		q := containingQuestion(img, candidates)
		if q == nil {
			q = nearestQuestion(img, candidates)
		}
		if q == nil {
			continue
		}

		img.AssignedQuestionID = q.ID
		img.ImageKey = img.PageKey(q.ID)
		q.SetImageKey(img.ImageKey)
	}
}

// containingQuestion returns the question whose region contains the
// image's vertical midpoint, preferring the tightest region.
func containingQuestion(img *model.ImageAsset, candidates []*model.Question) *model.Question {
	midY := img.BBox.MidY()

	var best *model.Question
	bestSpan := 0.0
	for _, q := range candidates {
		if midY < q.Y0 || midY > q.Y1 {
			continue
		}
		span := q.Y1 - q.Y0
		if best == nil || span < bestSpan {
			best = q
			bestSpan = span
		}
	}
	return best
}

// nearestQuestion returns the question with the smallest one-sided
// vertical gap to the image. Any overlap counts as distance zero.
func nearestQuestion(img *model.ImageAsset, candidates []*model.Question) *model.Question {
	var best *model.Question
	bestGap := 0.0
	for _, q := range candidates {
		gap := 0.0
		switch {
		case img.BBox.Y1 < q.Y0:
			gap = q.Y0 - img.BBox.Y1
		case img.BBox.Y0 > q.Y1:
			gap = img.BBox.Y0 - q.Y1
		}
		if best == nil || gap < bestGap {
			best = q
			bestGap = gap
		}
	}
	return best
}

// AssignImagesByFlow maps flow-based images to questions by the question
// number that was open when the image appeared in the document. Keys are
// per-question sequence numbers; when a key is already taken the sequence
// restarts at one past the question's current image count.
func AssignImagesByFlow(images []*model.ImageAsset, questions []*model.Question) {
	byNumber := make(map[string]*model.Question, len(questions))
	for _, q := range questions {
		byNumber[q.Number] = q
	}

	used := make(map[string]bool, len(images))
	perQuestion := make(map[string]int)

	for idx, img := range images {
		q, ok := byNumber[img.QuestionNumber]
		if !ok {
			continue
		}

		key := img.FlowKey(q.ID, idx)
		if used[key] {
			key = img.FlowKey(q.ID, perQuestion[q.ID]+1)
		}
		used[key] = true
		perQuestion[q.ID]++

		img.AssignedQuestionID = q.ID
		img.ImageKey = key
		q.SetImageKey(key)
	}
}
