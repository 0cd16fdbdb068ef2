//go:build !ocr

package ocr

import (
	"errors"
	"testing"
)

func TestNewNotEnabled(t *testing.T) {
	client, err := New()
	if !errors.Is(err, ErrNotEnabled) {
		t.Errorf("New error = %v, want ErrNotEnabled", err)
	}
	if client != nil {
		t.Error("expected nil client")
	}
}

func TestCloseOnNilClient(t *testing.T) {
	var client *Client
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client: %v", err)
	}
}

func TestRecognizeNotEnabled(t *testing.T) {
	c := &Client{}
	if _, err := c.Recognize([]byte("png")); !errors.Is(err, ErrNotEnabled) {
		t.Errorf("Recognize error = %v, want ErrNotEnabled", err)
	}
	if err := c.SetLanguage("deu"); !errors.Is(err, ErrNotEnabled) {
		t.Errorf("SetLanguage error = %v, want ErrNotEnabled", err)
	}
}
