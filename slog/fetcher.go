// Package slog provides logging decorators around the domain interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/emqnuele/webscraper"
)

// Ensure LoggingFetcher implements webscraper.Fetcher.
var _ webscraper.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with request logging.
type LoggingFetcher struct {
	next   webscraper.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next webscraper.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (page *webscraper.FetchedPage, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		}
		if page != nil {
			attrs = append(attrs,
				"status", page.Page.StatusCode,
				"size", page.Page.SizeReadable,
			)
		}
		f.logger.Info("page fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
