package model

// Stats summarizes an extraction run. TotalProcessed is always
// TotalExtracted minus QuestionsIgnored.
type Stats struct {
	TotalExtracted   int `json:"total_extracted"`
	TotalProcessed   int `json:"total_processed"`
	QuestionsIgnored int `json:"questions_ignored"`
	TotalImages      int `json:"total_images"`
}

// ExtractionResult is the complete output of processing one document:
// the questions that survived validity filtering, the images mapped to
// them, and run statistics.
type ExtractionResult struct {
	Questions []*Question   `json:"questions"`
	Images    []*ImageAsset `json:"-"`
	Stats     Stats         `json:"stats"`

	// ExamName, ExamYear and ExamSemester tag every question of the run.
	// ExamName falls back to the source filename when not configured.
	ExamName     string `json:"exam_name"`
	ExamYear     string `json:"exam_year,omitempty"`
	ExamSemester string `json:"exam_semester,omitempty"`
}
