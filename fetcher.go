package webscraper

import "context"

// FetchedPage is the raw outcome of fetching one URL: transport-level page
// information plus the response body decoded to a string.
type FetchedPage struct {
	Page Page
	HTML string
}

// Fetcher retrieves pages over the network.
// Implementations hide client configuration, redirects, user-agent rotation
// and rate limiting.
type Fetcher interface {
	// Fetch retrieves the page at url. The context controls timeout and
	// cancellation. Network errors, timeouts and non-success statuses are
	// reported as EUNAVAILABLE.
	Fetch(ctx context.Context, url string) (*FetchedPage, error)

	// Close releases client resources.
	Close() error
}
