package slog

import (
	"log/slog"
	"time"

	"github.com/emqnuele/webscraper"
)

// Ensure LoggingExtractor implements webscraper.Extractor.
var _ webscraper.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an alternate extraction engine with debug logging.
type LoggingExtractor struct {
	next   webscraper.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next webscraper.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Name delegates to the wrapped engine.
func (e *LoggingExtractor) Name() string {
	return e.next.Name()
}

// Extract delegates to the wrapped engine and logs the operation.
func (e *LoggingExtractor) Extract(html string) (result *webscraper.ExtractResult, err error) {
	defer func(begin time.Time) {
		size := 0
		if result != nil {
			size = len(result.Text)
		}
		e.logger.Debug("alternate extraction",
			"engine", e.next.Name(),
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html)
}
