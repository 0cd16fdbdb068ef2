//go:build !ocr

// Package ocr recognizes text in scanned exam pages via the Tesseract
// engine. This stub is compiled when the "ocr" build tag is not set; all
// operations fail with ErrNotEnabled.
package ocr

import "errors"

// ErrNotEnabled is returned when recognition is requested from a build
// without OCR support.
var ErrNotEnabled = errors.New("ocr: not compiled in, rebuild with -tags ocr")

// Client is the stub recognizer.
type Client struct{}

// New always fails in the stub build.
func New() (*Client, error) {
	return nil, ErrNotEnabled
}

// Close is a no-op. Safe on a nil client.
func (c *Client) Close() error {
	return nil
}

// Recognize always fails in the stub build.
func (c *Client) Recognize(imageData []byte) (string, error) {
	return "", ErrNotEnabled
}

// SetLanguage always fails in the stub build.
func (c *Client) SetLanguage(lang string) error {
	return ErrNotEnabled
}
