//go:build ocr

// Package ocr recognizes text in slide pictures.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps Tesseract for OCR operations. It is safe for concurrent
// use; recognitions are serialized because a Tesseract handle holds a
// single image at a time.
type Client struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// Enabled reports whether OCR support was compiled in.
func Enabled() bool { return true }

// New creates a new OCR client for the given "+" separated languages
// (e.g. "eng+fra"). An empty string keeps Tesseract's default, English.
// The client should be closed when no longer needed to release resources.
func New(languages string) (*Client, error) {
	client := gosseract.NewClient()
	if languages != "" {
		if err := client.SetLanguage(strings.Split(languages, "+")...); err != nil {
			client.Close()
			return nil, fmt.Errorf("setting OCR language %q: %w", languages, err)
		}
	}
	return &Client{client: client}, nil
}

// Version returns the Tesseract version, which doubles as an availability
// probe for the native library.
func (c *Client) Version() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client.Version()
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		err := c.client.Close()
		c.client = nil
		return err
	}
	return nil
}

// RecognizeImage performs OCR on image data (PNG, TIFF, JPEG, etc.).
// Returns the recognized text with leading/trailing whitespace trimmed.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return "", fmt.Errorf("OCR client closed")
	}

	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}
