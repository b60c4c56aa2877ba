package webscraper

import "context"

// ResultWriter persists one result document. The index distinguishes
// multiple URLs processed in the same run and participates in file naming.
// It returns the location the result was written to.
type ResultWriter interface {
	WriteResult(ctx context.Context, res *Result, index int) (string, error)
}
