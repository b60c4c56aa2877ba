package mock

import "github.com/emqnuele/webscraper"

var _ webscraper.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of webscraper.Extractor.
type Extractor struct {
	NameFn    func() string
	ExtractFn func(html string) (*webscraper.ExtractResult, error)
}

func (e *Extractor) Name() string {
	if e.NameFn == nil {
		return "mock"
	}
	return e.NameFn()
}

func (e *Extractor) Extract(html string) (*webscraper.ExtractResult, error) {
	return e.ExtractFn(html)
}
