package extract

import (
	"testing"

	"github.com/jeskokaiser/altfragen-io-backend/model"
)

func placedQuestion(number string, page int, y0, y1 float64) *model.Question {
	q := model.NewQuestion(number)
	q.Page = page
	q.Y0 = y0
	q.Y1 = y1
	return q
}

func pageImage(page int, y0, y1 float64) *model.ImageAsset {
	return &model.ImageAsset{
		Data: []byte("img"),
		Ext:  "png",
		Page: page,
		BBox: model.NewBBox(0, y0, 50, y1),
	}
}

func TestAssignByContainment(t *testing.T) {
	q := placedQuestion("1", 0, 100, 400)
	img := pageImage(0, 150, 250)

	AssignImagesByPosition([]*model.ImageAsset{img}, []*model.Question{q})

	if img.AssignedQuestionID != q.ID {
		t.Fatalf("image assigned to %q, want %q", img.AssignedQuestionID, q.ID)
	}
	if img.ImageKey == "" || q.ImageKey != img.ImageKey {
		t.Errorf("image key %q not mirrored on question (%q)", img.ImageKey, q.ImageKey)
	}
}

func TestAssignContainmentPrefersTightestRegion(t *testing.T) {
	wide := placedQuestion("1", 0, 0, 800)
	tight := placedQuestion("2", 0, 150, 300)
	img := pageImage(0, 180, 220)

	AssignImagesByPosition([]*model.ImageAsset{img}, []*model.Question{wide, tight})

	if img.AssignedQuestionID != tight.ID {
		t.Errorf("image assigned to the wide region, want the tight one")
	}
}

func TestAssignByNearestGap(t *testing.T) {
	// Image sits between two regions, 20 units below the first and 70
	// units above the second.
	upper := placedQuestion("1", 0, 100, 200)
	lower := placedQuestion("2", 0, 310, 400)
	img := pageImage(0, 220, 240)

	AssignImagesByPosition([]*model.ImageAsset{img}, []*model.Question{upper, lower})

	if img.AssignedQuestionID != upper.ID {
		t.Errorf("image assigned to the farther question")
	}
}

func TestAssignSkipsUnplacedQuestions(t *testing.T) {
	unplaced := model.NewQuestion("1")
	img := pageImage(0, 100, 200)

	AssignImagesByPosition([]*model.ImageAsset{img}, []*model.Question{unplaced})

	if img.AssignedQuestionID != "" {
		t.Errorf("image assigned to a question without page placement")
	}
}

func TestAssignLastImageWinsOnQuestion(t *testing.T) {
	q := placedQuestion("1", 0, 0, 500)
	first := pageImage(0, 50, 100)
	second := pageImage(0, 200, 300)

	AssignImagesByPosition([]*model.ImageAsset{first, second}, []*model.Question{q})

	if q.ImageKey != second.ImageKey {
		t.Errorf("question key = %q, want key of the last image %q", q.ImageKey, second.ImageKey)
	}
}

func TestAssignByFlow(t *testing.T) {
	q1 := model.NewQuestion("1")
	q2 := model.NewQuestion("2")
	images := []*model.ImageAsset{
		{Data: []byte("a"), Ext: "png", Page: -1, QuestionNumber: "1"},
		{Data: []byte("b"), Ext: "jpeg", Page: -1, QuestionNumber: "2"},
		{Data: []byte("c"), Ext: "png", Page: -1, QuestionNumber: "7"},
	}

	AssignImagesByFlow(images, []*model.Question{q1, q2})

	if images[0].AssignedQuestionID != q1.ID {
		t.Errorf("image 0 assigned to %q", images[0].AssignedQuestionID)
	}
	if images[1].AssignedQuestionID != q2.ID {
		t.Errorf("image 1 assigned to %q", images[1].AssignedQuestionID)
	}
	if images[2].AssignedQuestionID != "" {
		t.Errorf("image 2 assigned despite unknown question number")
	}
	if images[0].ImageKey != q1.ID+"_docx_0.png" {
		t.Errorf("image 0 key = %q", images[0].ImageKey)
	}
	if images[1].ImageKey != q2.ID+"_docx_1.jpeg" {
		t.Errorf("image 1 key = %q", images[1].ImageKey)
	}
}
