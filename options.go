package altfragen

// ExtractOptions holds caller-supplied metadata for an extraction run.
// Configured values are fallbacks: a value parsed out of the document
// always wins over the configured one.
type ExtractOptions struct {
	examName       string
	examYear       string
	examSemester   string
	defaultSubject string

	recognizer TextRecognizer
}

func defaultOptions() ExtractOptions {
	return ExtractOptions{}
}

// TextRecognizer turns an encoded raster image into plain text. It is
// satisfied by *ocr.Client from builds with the "ocr" tag, or by any
// external OCR integration.
type TextRecognizer interface {
	Recognize(imageData []byte) (string, error)
}
