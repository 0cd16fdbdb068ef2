//go:build ocr

// Package ocr recognizes text in scanned exam pages via the Tesseract
// engine. It is only compiled with the "ocr" build tag and requires a
// system Tesseract installation:
//
//	apt-get install tesseract-ocr tesseract-ocr-deu
//
// Without the tag a stub is compiled instead and New returns
// ErrNotEnabled.
package ocr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// ErrNotEnabled is returned by the stub build. It is declared in both
// builds so callers can test for it unconditionally.
var ErrNotEnabled = errors.New("ocr: not compiled in, rebuild with -tags ocr")

// Client recognizes text in raster images. Exams are German documents,
// so recognition defaults to the German language pack.
type Client struct {
	client *gosseract.Client
}

// New creates a recognizer. Close it to release the underlying engine.
func New() (*Client, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage("deu"); err != nil {
		client.Close()
		return nil, fmt.Errorf("ocr: setting language: %w", err)
	}
	return &Client{client: client}, nil
}

// Close releases the engine. Safe on a nil client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Recognize runs recognition on an encoded image (PNG or JPEG) and
// returns the trimmed text.
func (c *Client) Recognize(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("ocr: setting image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: recognition: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// SetLanguage overrides the recognition language. Multiple languages are
// separated with "+", e.g. "deu+eng".
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}
