// Package altfragen extracts multiple-choice exam questions from German
// "Altfragen" documents (PDF or DOCX): question text, answer options,
// metadata, and the images that belong to each question.
//
// Basic usage:
//
//	result, warnings, err := altfragen.Open("anatomie_2023.pdf").Extract()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", altfragen.FormatWarnings(warnings))
//	}
//
// With caller metadata:
//
//	result, _, err := altfragen.Open("anatomie_2023.pdf").
//	    ExamYear("2023").
//	    ExamSemester("WS").
//	    DefaultSubject("Anatomie").
//	    Extract()
//
// The lower-level pdf, docx, and extract packages are also available for
// callers that need more control.
package altfragen

import "strings"

// Open prepares extraction from a file on disk. The file is read when
// Extract is called.
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes prepares extraction from an in-memory document. The filename
// is used for format detection and for the exam name fallback; it does
// not have to exist on disk.
func FromBytes(data []byte, filename string) *Extractor {
	return &Extractor{
		filename: filename,
		data:     data,
		haveData: true,
		options:  defaultOptions(),
	}
}

// Warning describes a non-fatal degradation during extraction, such as a
// question whose page position could not be determined. Extraction
// continues past warnings; the result is still usable.
type Warning struct {
	Stage   string
	Message string
}

func (w Warning) String() string {
	return w.Stage + ": " + w.Message
}

// FormatWarnings joins warnings into a single human readable string.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
