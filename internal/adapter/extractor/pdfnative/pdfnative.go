// Package pdfnative extracts layout text from text-based PDFs using a
// pure-Go PDF reader. It is the fastest strategy and runs first.
package pdfnative

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Strategy reads the PDF text layer directly.
type Strategy struct{}

// New constructs the native text-layer strategy.
func New() *Strategy { return &Strategy{} }

// Name identifies the strategy in logs and chain results.
func (s *Strategy) Name() string { return "pdf-native" }

// Available always reports true: the reader is compiled in.
func (s *Strategy) Available() bool { return true }

// Extract concatenates the plain text of every page. Pages that fail to
// decode are skipped; scanned pages simply contribute nothing, in which
// case the chain falls through to the next strategy.
func (s *Strategy) Extract(_ context.Context, path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	var b strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}
