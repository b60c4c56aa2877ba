// Package resty provides the HTTP implementation of webscraper.Fetcher,
// with redirect following, user-agent rotation and optional per-domain
// rate limiting.
package resty

import (
	"context"
	"math/rand/v2"
	"mime"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/emqnuele/webscraper"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// realisticUserAgents is rotated across requests when no custom user agent
// is configured, so bursts of fetches do not present a single synthetic UA.
var realisticUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_5) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.6312.86 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:124.0) Gecko/20100101 Firefox/124.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_6) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
}

// Ensure Fetcher implements webscraper.Fetcher at compile time.
var _ webscraper.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages using a resty HTTP client. Redirects are followed
// and the final URL after redirects is reported in the page info.
type Fetcher struct {
	client     *resty.Client
	timeout    time.Duration
	userAgents []string
	limiter    *DomainLimiter
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent pins a single custom User-Agent instead of rotating the
// built-in list. An empty value keeps rotation.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgents = []string{ua}
		}
	}
}

// WithRateLimit spaces requests to the same domain at the given requests
// per second. Zero or negative disables limiting.
func WithRateLimit(rps float64) Option {
	return func(f *Fetcher) {
		if rps > 0 {
			f.limiter = NewDomainLimiter(rps)
		}
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:    DefaultFetchTimeout,
		userAgents: realisticUserAgents,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = resty.New().SetTimeout(f.timeout)

	return f
}

// Fetch retrieves the page at rawURL. Network errors, timeouts and
// non-success statuses are reported as EUNAVAILABLE and abort only this
// URL's processing.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*webscraper.FetchedPage, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, domainOf(rawURL)); err != nil {
			return nil, err
		}
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", f.userAgent()).
		Get(rawURL)
	if err != nil {
		return nil, webscraper.Errorf(webscraper.EUNAVAILABLE, "fetch %s: %v", rawURL, err)
	}
	if resp.IsError() {
		return nil, webscraper.Errorf(webscraper.EUNAVAILABLE, "fetch %s: HTTP %d", rawURL, resp.StatusCode())
	}

	finalURL := rawURL
	if resp.RawResponse != nil && resp.RawResponse.Request != nil && resp.RawResponse.Request.URL != nil {
		finalURL = resp.RawResponse.Request.URL.String()
	}

	headers := make(map[string]string, len(resp.Header()))
	for key, values := range resp.Header() {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	body := resp.Body()
	return &webscraper.FetchedPage{
		Page: webscraper.Page{
			URL:          finalURL,
			StatusCode:   resp.StatusCode(),
			Encoding:     encodingOf(resp.Header().Get("Content-Type")),
			SizeBytes:    len(body),
			SizeReadable: webscraper.FormatSize(len(body)),
			Headers:      headers,
		},
		HTML: string(body),
	}, nil
}

// Close releases resources. The underlying client needs no explicit
// cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// userAgent picks the UA for the next request.
func (f *Fetcher) userAgent() string {
	if len(f.userAgents) == 1 {
		return f.userAgents[0]
	}
	return f.userAgents[rand.IntN(len(f.userAgents))]
}

// encodingOf extracts the charset from a Content-Type header.
func encodingOf(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}
