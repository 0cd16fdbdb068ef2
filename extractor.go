package altfragen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeskokaiser/altfragen-io-backend/docx"
	"github.com/jeskokaiser/altfragen-io-backend/extract"
	"github.com/jeskokaiser/altfragen-io-backend/format"
	"github.com/jeskokaiser/altfragen-io-backend/model"
	"github.com/jeskokaiser/altfragen-io-backend/pdf"
)

// Extractor provides a fluent interface for extracting exam questions
// from PDF and DOCX documents. Each configuration method returns a new
// Extractor instance, so a configured Extractor can be shared and
// branched safely.
type Extractor struct {
	filename string
	data     []byte
	haveData bool

	options ExtractOptions

	warnings []Warning
}

// clone copies the extractor for the fluent configuration methods.
func (e *Extractor) clone() *Extractor {
	c := *e
	return &c
}

// ExamName sets the exam name attached to the result. Without it the
// name falls back to the source filename without its extension.
func (e *Extractor) ExamName(name string) *Extractor {
	c := e.clone()
	c.options.examName = name
	return c
}

// ExamYear sets the exam year attached to the result.
func (e *Extractor) ExamYear(year string) *Extractor {
	c := e.clone()
	c.options.examYear = year
	return c
}

// ExamSemester sets the exam semester attached to the result.
func (e *Extractor) ExamSemester(semester string) *Extractor {
	c := e.clone()
	c.options.examSemester = semester
	return c
}

// DefaultSubject fills the subject of questions whose block carried no
// "Fach:" field. Parsed subjects are never overridden.
func (e *Extractor) DefaultSubject(subject string) *Extractor {
	c := e.clone()
	c.options.defaultSubject = subject
	return c
}

// WithRecognizer installs an OCR fallback. When a PDF yields questions
// from none of its text, the recognizer is run over the extracted images
// and the recognized text is fed through the text pipeline.
func (e *Extractor) WithRecognizer(r TextRecognizer) *Extractor {
	c := e.clone()
	c.options.recognizer = r
	return c
}

func (e *Extractor) warnf(stage, msg string, args ...any) {
	e.warnings = append(e.warnings, Warning{Stage: stage, Message: fmt.Sprintf(msg, args...)})
}

// Extract runs the extraction pipeline and returns the result together
// with the warnings collected along the way. A document that cannot be
// read or opened is the only hard error; in that case no partial result
// is returned.
func (e *Extractor) Extract() (*model.ExtractionResult, []Warning, error) {
	e = e.clone()
	e.warnings = nil

	data := e.data
	if !e.haveData {
		var err error
		data, err = os.ReadFile(e.filename)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", e.filename, err)
		}
	}

	f, err := format.DetectFromBytes(data)
	if err != nil || f == format.Unknown {
		f = format.Detect(e.filename)
	}

	var result *model.ExtractionResult
	switch f {
	case format.PDF:
		result, err = e.extractPDF(data)
	case format.DOCX:
		result, err = e.extractDOCX(data)
	default:
		return nil, nil, fmt.Errorf("%s: unsupported document format", e.filename)
	}
	if err != nil {
		return nil, nil, err
	}

	e.applyMetadata(result)
	e.collectWarnings(result)
	return result, e.warnings, nil
}

func (e *Extractor) extractPDF(data []byte) (*model.ExtractionResult, error) {
	doc, err := pdf.Open(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", e.filename, err)
	}

	result := extract.FromPDF(doc)
	for _, q := range result.Questions {
		if q.Page < 0 {
			e.warnf("resolve", "question %s could not be located on any page", q.Number)
		}
	}
	if result.Stats.TotalExtracted == 0 && e.options.recognizer != nil {
		if ocrResult := e.extractViaOCR(result.Images); ocrResult != nil {
			ocrResult.Images = result.Images
			ocrResult.Stats.TotalImages = result.Stats.TotalImages
			return ocrResult, nil
		}
	}
	return result, nil
}

// extractViaOCR recognizes text in the document's images and runs the
// text pipeline over it. Returns nil when recognition produced nothing.
func (e *Extractor) extractViaOCR(images []*model.ImageAsset) *model.ExtractionResult {
	var texts []string
	for _, img := range images {
		text, err := e.options.recognizer.Recognize(img.Data)
		if err != nil {
			e.warnf("ocr", "image on page %d: %v", img.Page, err)
			continue
		}
		if text != "" {
			texts = append(texts, text)
		}
	}
	if len(texts) == 0 {
		return nil
	}

	result := extract.FromText(strings.Join(texts, "\n"))
	if result.Stats.TotalExtracted == 0 {
		return nil
	}
	e.warnf("ocr", "no text layer, %d questions recovered via OCR", result.Stats.TotalExtracted)
	return result
}

func (e *Extractor) extractDOCX(data []byte) (*model.ExtractionResult, error) {
	doc, err := docx.Open(data)
	if err != nil {
		return nil, fmt.Errorf("opening DOCX %s: %w", e.filename, err)
	}
	return extract.FromDOCX(doc), nil
}

// applyMetadata stamps the exam metadata onto the result and fills
// question subjects that the document did not provide.
func (e *Extractor) applyMetadata(result *model.ExtractionResult) {
	result.ExamName = e.options.examName
	if result.ExamName == "" {
		result.ExamName = examNameFromFilename(e.filename)
	}
	result.ExamYear = e.options.examYear
	result.ExamSemester = e.options.examSemester

	if e.options.defaultSubject != "" {
		for _, q := range result.Questions {
			if q.Subject == "" {
				q.Subject = e.options.defaultSubject
			}
		}
	}
}

func (e *Extractor) collectWarnings(result *model.ExtractionResult) {
	if result.Stats.TotalExtracted == 0 {
		e.warnf("segment", "no questions found in %s", e.filename)
		return
	}
	if n := result.Stats.QuestionsIgnored; n > 0 {
		e.warnf("filter", "%d of %d questions ignored as invalid", n, result.Stats.TotalExtracted)
	}
}

// examNameFromFilename derives the exam name from the source filename,
// dropping directories and the extension.
func examNameFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
