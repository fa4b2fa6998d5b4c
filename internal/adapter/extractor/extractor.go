// Package extractor implements the multi-strategy text extraction
// engine. Strategies are tried in cost order; the first non-empty
// result wins and later strategies never run. A strategy that is not
// available in the current deployment is skipped silently.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fairyhunter13/resume-ai-evaluator/internal/domain"
)

// Strategy is a single capability-checked extraction method.
type Strategy interface {
	Name() string
	Available() bool
	Extract(ctx context.Context, path string) (string, error)
}

// Chain tries strategies in order and implements domain.Extractor.
type Chain struct {
	strategies []Strategy
}

// NewChain constructs a chain over the given strategies, in order.
func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// Extract returns the first non-empty extracted text and the name of
// the strategy that produced it. It fails with domain.ErrExtractionFailed
// only when every strategy is unavailable, errors, or yields empty text.
func (c *Chain) Extract(ctx context.Context, path string) (string, string, error) {
	for _, s := range c.strategies {
		if !s.Available() {
			slog.Debug("extraction strategy unavailable, skipping", slog.String("strategy", s.Name()))
			continue
		}
		text, err := s.Extract(ctx, path)
		if err != nil {
			slog.Warn("extraction strategy failed",
				slog.String("strategy", s.Name()),
				slog.String("path", path),
				slog.Any("error", err))
			continue
		}
		if t := strings.TrimSpace(text); t != "" {
			slog.Info("text extracted", slog.String("strategy", s.Name()), slog.Int("chars", len(t)))
			return t, s.Name(), nil
		}
		slog.Warn("extraction strategy returned empty text", slog.String("strategy", s.Name()))
	}
	return "", "", fmt.Errorf("%w: %s: all strategies exhausted", domain.ErrExtractionFailed, path)
}
