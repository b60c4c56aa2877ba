package webscraper

// ExtractResult holds the output of an alternate extraction engine.
type ExtractResult struct {
	// Title is the article title as seen by the engine.
	Title string

	// ContentHTML is the main content as clean HTML, boilerplate removed.
	ContentHTML string

	// Text is the main content as plain text.
	Text string
}

// Extractor is an alternate content extraction algorithm run beside the
// heuristic block scorer. The selection policy decides which result becomes
// the article body; the winner's Name is recorded as body.source.
type Extractor interface {
	// Name identifies the engine (e.g. "readability").
	Name() string

	// Extract processes raw HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)
}
