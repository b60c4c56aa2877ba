package mock

import (
	"context"

	"github.com/emqnuele/webscraper"
)

var _ webscraper.ResultWriter = (*ResultWriter)(nil)

// ResultWriter is a mock implementation of webscraper.ResultWriter.
type ResultWriter struct {
	WriteResultFn func(ctx context.Context, res *webscraper.Result, index int) (string, error)
}

func (w *ResultWriter) WriteResult(ctx context.Context, res *webscraper.Result, index int) (string, error) {
	return w.WriteResultFn(ctx, res, index)
}
