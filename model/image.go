package model

import "fmt"

// ImageAsset represents a raster image extracted from a document, together
// with the placement information needed to associate it with a question.
type ImageAsset struct {
	// Data is the encoded image payload, ready to store or upload.
	Data []byte

	// Ext is the file extension for Data without the leading dot,
	// e.g. "png" or "jpg".
	Ext string

	// Page is the zero-based page index the image appears on, or -1 for
	// flow-based documents.
	Page int

	// BBox is the placement rectangle on the page in top-down
	// coordinates. Only meaningful when Page >= 0.
	BBox BBox

	// DocumentPosition orders the image within a flow-based document.
	DocumentPosition int

	// QuestionNumber is the number of the question that was open when
	// the image was encountered in a flow-based document. Empty for
	// page-based documents, where assignment is spatial.
	QuestionNumber string

	// AssignedQuestionID and ImageKey are filled once the image has been
	// mapped to a question.
	AssignedQuestionID string
	ImageKey           string
}

// PageKey builds the storage key for an image assigned to a question on a
// page-based document. The vertical midpoint disambiguates multiple images
// assigned to the same question on the same page.
func (a *ImageAsset) PageKey(questionID string) string {
	return fmt.Sprintf("%s_%d_%d.%s", questionID, a.Page, int(a.BBox.MidY()), a.Ext)
}

// FlowKey builds the storage key for an image assigned to a question in a
// flow-based document, using a per-question sequence number.
func (a *ImageAsset) FlowKey(questionID string, seq int) string {
	return fmt.Sprintf("%s_docx_%d.%s", questionID, seq, a.Ext)
}
