// Package extract orchestrates per-URL content extraction: fetch (or cache
// hit), heuristic parsing beside the optional alternate engine, degraded
// result handling, and a bounded worker pool across URLs.
package extract

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/emqnuele/webscraper"
)

// ContentParser derives the content section from raw HTML. Implemented by
// goquery.Parser.
type ContentParser interface {
	Parse(rawHTML, pageURL, altName string, alt *webscraper.ExtractResult) (*webscraper.Content, error)
}

// Pipeline processes URLs into result documents. Each URL's extraction is
// independent; one URL's failure never aborts or corrupts another's result.
type Pipeline struct {
	Fetcher   webscraper.Fetcher
	Parser    ContentParser
	Alternate webscraper.Extractor    // optional alternate engine
	Cache     webscraper.PageCache    // optional fetched-page cache
	Writer    webscraper.ResultWriter // optional; outcomes record the path

	Concurrency int
}

// Outcome holds the result of processing a single URL. Result may be a
// degraded document even when Err is set (parse failures preserve page
// metadata); a fetch failure leaves Result nil.
type Outcome struct {
	Position int
	URL      string
	Result   *webscraper.Result
	Path     string
	Err      error
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// Run processes all URLs through a bounded worker pool and returns one
// outcome per URL, index-aligned with the input. The progress callback, if
// provided, receives events as URLs complete in no particular order.
func (p *Pipeline) Run(ctx context.Context, urls []string, progress ProgressFunc) []Outcome {
	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	total := len(urls)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	outcomeCh := make(chan Outcome, total)
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, url := range urls {
			i, url := i, url
			g.Go(func() error {
				outcomeCh <- p.processURL(gctx, i, url)
				return nil
			})
		}
		_ = g.Wait()
		close(outcomeCh)
	}()

	outcomes := make([]Outcome, total)
	for outcome := range outcomeCh {
		completed.Add(1)
		outcomes[outcome.Position] = outcome

		if progress == nil {
			continue
		}
		event := ProgressEvent{
			Completed: int(completed.Load()),
			Total:     total,
			URL:       outcome.URL,
		}
		if outcome.Err != nil {
			event.Type = ProgressFailed
			event.Error = outcome.Err
		} else {
			event.Type = ProgressCompleted
		}
		progress(event)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}
	return outcomes
}

// Failed returns the URLs whose outcomes carry errors.
func Failed(outcomes []Outcome) []string {
	var urls []string
	for _, o := range outcomes {
		if o.Err != nil {
			urls = append(urls, o.URL)
		}
	}
	return urls
}

// processURL runs the full extraction for a single URL.
func (p *Pipeline) processURL(ctx context.Context, position int, url string) Outcome {
	outcome := Outcome{Position: position, URL: url}

	page, cached := p.fromCache(ctx, url)
	if page == nil {
		fetched, err := p.Fetcher.Fetch(ctx, url)
		if err != nil {
			outcome.Err = err
			return outcome
		}
		page = fetched
	}
	if !cached && p.Cache != nil {
		// Best effort; a cache write failure must not fail the URL.
		_ = p.Cache.Put(ctx, url, page)
	}

	var alt *webscraper.ExtractResult
	altName := ""
	if p.Alternate != nil {
		altName = p.Alternate.Name()
		// Alternate engine failure is non-fatal; the heuristic side stands
		// alone.
		if res, err := p.Alternate.Extract(page.HTML); err == nil {
			alt = res
		}
	}

	content, err := p.Parser.Parse(page.HTML, page.Page.URL, altName, alt)
	if err != nil {
		// The document was unusable, but the page metadata survives in a
		// degraded result.
		degraded := webscraper.DegradedContent(page.Page.URL)
		outcome.Result = &webscraper.Result{Page: page.Page, Content: degraded}
		outcome.Err = err
		return outcome
	}

	outcome.Result = &webscraper.Result{Page: page.Page, Content: *content}

	if p.Writer != nil {
		path, err := p.Writer.WriteResult(ctx, outcome.Result, position+1)
		if err != nil {
			outcome.Err = err
			return outcome
		}
		outcome.Path = path
	}
	return outcome
}

// fromCache looks the URL up in the optional page cache. Cache errors are
// treated as misses.
func (p *Pipeline) fromCache(ctx context.Context, url string) (*webscraper.FetchedPage, bool) {
	if p.Cache == nil {
		return nil, false
	}
	page, ok, err := p.Cache.Get(ctx, url)
	if err != nil || !ok {
		return nil, false
	}
	return page, true
}
