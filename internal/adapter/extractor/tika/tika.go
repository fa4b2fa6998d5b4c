// Package tika provides Apache Tika-backed extraction strategies.
//
// Two strategies share one HTTP client: a stream-parse strategy that
// covers documents the native reader mishandles, and an OCR strategy
// that asks Tika to rasterize pages and run optical character
// recognition, as a last resort for scanned documents.
package tika

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Client is a minimal Apache Tika HTTP client. It performs
// PUT /tika with Accept: text/plain to retrieve extracted text.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Tika client. An empty baseURL yields a client
// whose strategies report themselves unavailable.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) extract(ctx context.Context, path string, ocr bool) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/tika", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/plain")
	req.Header.Set("Content-Type", "application/pdf")
	if ocr {
		// Force page rasterization + Tesseract on the server side.
		req.Header.Set("X-Tika-PDFOcrStrategy", "ocr_only")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("tika status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// StreamStrategy parses the document stream server-side.
type StreamStrategy struct{ c *Client }

// NewStreamStrategy constructs the stream-parse strategy.
func NewStreamStrategy(c *Client) *StreamStrategy { return &StreamStrategy{c: c} }

// Name identifies the strategy in logs and chain results.
func (s *StreamStrategy) Name() string { return "tika-stream" }

// Available reports whether a Tika server is configured.
func (s *StreamStrategy) Available() bool { return s.c != nil && s.c.baseURL != "" }

// Extract uploads the document to Tika and returns plain text.
func (s *StreamStrategy) Extract(ctx context.Context, path string) (string, error) {
	return s.c.extract(ctx, path, false)
}

// OCRStrategy rasterizes pages and runs OCR server-side. Slowest; last.
type OCRStrategy struct {
	c       *Client
	enabled bool
}

// NewOCRStrategy constructs the OCR strategy; enabled gates it off even
// when a Tika server is configured.
func NewOCRStrategy(c *Client, enabled bool) *OCRStrategy {
	return &OCRStrategy{c: c, enabled: enabled}
}

// Name identifies the strategy in logs and chain results.
func (s *OCRStrategy) Name() string { return "tika-ocr" }

// Available reports whether OCR extraction can run in this deployment.
func (s *OCRStrategy) Available() bool { return s.enabled && s.c != nil && s.c.baseURL != "" }

// Extract uploads the document with the OCR-only parse strategy.
func (s *OCRStrategy) Extract(ctx context.Context, path string) (string, error) {
	return s.c.extract(ctx, path, true)
}
