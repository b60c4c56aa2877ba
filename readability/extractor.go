// Package readability provides an alternate extraction engine backed by
// go-readability (the Mozilla Readability algorithm).
package readability

import (
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/emqnuele/webscraper"
)

// Ensure Extractor implements webscraper.Extractor at compile time.
var _ webscraper.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Name identifies the engine for body.source attribution.
func (e *Extractor) Name() string {
	return "readability"
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*webscraper.ExtractResult, error) {
	if rawHTML == "" {
		return nil, webscraper.Errorf(webscraper.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &webscraper.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
		Text:        article.TextContent,
	}, nil
}
