package extract_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emqnuele/webscraper"
	"github.com/emqnuele/webscraper/extract"
	"github.com/emqnuele/webscraper/mock"
)

// stubParser lets tests control the parsing step.
type stubParser struct {
	ParseFn func(rawHTML, pageURL, altName string, alt *webscraper.ExtractResult) (*webscraper.Content, error)
}

func (p *stubParser) Parse(rawHTML, pageURL, altName string, alt *webscraper.ExtractResult) (*webscraper.Content, error) {
	return p.ParseFn(rawHTML, pageURL, altName, alt)
}

func fetchedPage(url string) *webscraper.FetchedPage {
	return &webscraper.FetchedPage{
		Page: webscraper.Page{URL: url, StatusCode: 200, Headers: map[string]string{}},
		HTML: "<html><body><p>content</p></body></html>",
	}
}

func okParser() *stubParser {
	return &stubParser{
		ParseFn: func(_, pageURL, _ string, _ *webscraper.ExtractResult) (*webscraper.Content, error) {
			content := webscraper.DegradedContent(pageURL)
			content.Article.Body.Source = webscraper.SourceHeuristic
			return &content, nil
		},
	}
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	t.Run("processes all URLs and aligns outcomes with input order", func(t *testing.T) {
		t.Parallel()

		urls := []string{
			"https://example.com/a",
			"https://example.com/b",
			"https://example.com/c",
		}

		p := &extract.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*webscraper.FetchedPage, error) {
					return fetchedPage(url), nil
				},
			},
			Parser:      okParser(),
			Concurrency: 2,
		}

		outcomes := p.Run(context.Background(), urls, nil)

		require.Len(t, outcomes, 3)
		for i, url := range urls {
			assert.Equal(t, i, outcomes[i].Position)
			assert.Equal(t, url, outcomes[i].URL)
			require.NoError(t, outcomes[i].Err)
			require.NotNil(t, outcomes[i].Result)
			assert.Equal(t, url, outcomes[i].Result.Page.URL)
		}
		assert.Empty(t, extract.Failed(outcomes))
	})

	t.Run("one URL failing does not affect the others", func(t *testing.T) {
		t.Parallel()

		p := &extract.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*webscraper.FetchedPage, error) {
					if url == "https://example.com/bad" {
						return nil, webscraper.Errorf(webscraper.EUNAVAILABLE, "fetch %s: HTTP 503", url)
					}
					return fetchedPage(url), nil
				},
			},
			Parser: okParser(),
		}

		urls := []string{"https://example.com/good", "https://example.com/bad"}
		outcomes := p.Run(context.Background(), urls, nil)

		require.Len(t, outcomes, 2)
		assert.NoError(t, outcomes[0].Err)
		require.NotNil(t, outcomes[0].Result)

		require.Error(t, outcomes[1].Err)
		assert.Equal(t, webscraper.EUNAVAILABLE, webscraper.ErrorCode(outcomes[1].Err))
		assert.Nil(t, outcomes[1].Result)

		assert.Equal(t, []string{"https://example.com/bad"}, extract.Failed(outcomes))
	})

	t.Run("parse failure yields a degraded result that keeps page info", func(t *testing.T) {
		t.Parallel()

		p := &extract.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*webscraper.FetchedPage, error) {
					return fetchedPage(url), nil
				},
			},
			Parser: &stubParser{
				ParseFn: func(_, _, _ string, _ *webscraper.ExtractResult) (*webscraper.Content, error) {
					return nil, webscraper.Errorf(webscraper.EINVALID, "empty HTML input")
				},
			},
		}

		outcomes := p.Run(context.Background(), []string{"https://example.com/a"}, nil)

		require.Len(t, outcomes, 1)
		require.Error(t, outcomes[0].Err)
		require.NotNil(t, outcomes[0].Result)
		assert.Equal(t, 200, outcomes[0].Result.Page.StatusCode)
		assert.Equal(t, webscraper.SourceNone, outcomes[0].Result.Content.Article.Body.Source)
		assert.Equal(t, 0.0, outcomes[0].Result.Content.Article.Stats.Confidence)
	})

	t.Run("cache hit skips the fetch", func(t *testing.T) {
		t.Parallel()

		p := &extract.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*webscraper.FetchedPage, error) {
					t.Errorf("fetch called for cached URL %s", url)
					return nil, webscraper.Errorf(webscraper.EINTERNAL, "unexpected fetch")
				},
			},
			Parser: okParser(),
			Cache: &mock.PageCache{
				GetFn: func(_ context.Context, url string) (*webscraper.FetchedPage, bool, error) {
					return fetchedPage(url), true, nil
				},
				PutFn: func(_ context.Context, url string, _ *webscraper.FetchedPage) error {
					t.Errorf("put called for cached URL %s", url)
					return nil
				},
			},
		}

		outcomes := p.Run(context.Background(), []string{"https://example.com/a"}, nil)

		require.Len(t, outcomes, 1)
		assert.NoError(t, outcomes[0].Err)
		require.NotNil(t, outcomes[0].Result)
	})

	t.Run("fetched pages are stored in the cache", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		stored := map[string]bool{}

		p := &extract.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*webscraper.FetchedPage, error) {
					return fetchedPage(url), nil
				},
			},
			Parser: okParser(),
			Cache: &mock.PageCache{
				GetFn: func(_ context.Context, _ string) (*webscraper.FetchedPage, bool, error) {
					return nil, false, nil
				},
				PutFn: func(_ context.Context, url string, _ *webscraper.FetchedPage) error {
					mu.Lock()
					stored[url] = true
					mu.Unlock()
					return nil
				},
			},
		}

		p.Run(context.Background(), []string{"https://example.com/a"}, nil)

		mu.Lock()
		defer mu.Unlock()
		assert.True(t, stored["https://example.com/a"])
	})

	t.Run("alternate engine failure is non-fatal", func(t *testing.T) {
		t.Parallel()

		var gotAltName string
		var gotAlt *webscraper.ExtractResult

		p := &extract.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*webscraper.FetchedPage, error) {
					return fetchedPage(url), nil
				},
			},
			Alternate: &mock.Extractor{
				NameFn: func() string { return "readability" },
				ExtractFn: func(_ string) (*webscraper.ExtractResult, error) {
					return nil, webscraper.Errorf(webscraper.EINTERNAL, "engine blew up")
				},
			},
			Parser: &stubParser{
				ParseFn: func(_, pageURL, altName string, alt *webscraper.ExtractResult) (*webscraper.Content, error) {
					gotAltName = altName
					gotAlt = alt
					content := webscraper.DegradedContent(pageURL)
					return &content, nil
				},
			},
		}

		outcomes := p.Run(context.Background(), []string{"https://example.com/a"}, nil)

		require.Len(t, outcomes, 1)
		assert.NoError(t, outcomes[0].Err)
		assert.Equal(t, "readability", gotAltName)
		assert.Nil(t, gotAlt)
	})

	t.Run("successful alternate output reaches the parser", func(t *testing.T) {
		t.Parallel()

		var gotAlt *webscraper.ExtractResult

		p := &extract.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*webscraper.FetchedPage, error) {
					return fetchedPage(url), nil
				},
			},
			Alternate: &mock.Extractor{
				ExtractFn: func(_ string) (*webscraper.ExtractResult, error) {
					return &webscraper.ExtractResult{Title: "Alt Title", Text: "alt text"}, nil
				},
			},
			Parser: &stubParser{
				ParseFn: func(_, pageURL, _ string, alt *webscraper.ExtractResult) (*webscraper.Content, error) {
					gotAlt = alt
					content := webscraper.DegradedContent(pageURL)
					return &content, nil
				},
			},
		}

		p.Run(context.Background(), []string{"https://example.com/a"}, nil)

		require.NotNil(t, gotAlt)
		assert.Equal(t, "Alt Title", gotAlt.Title)
	})

	t.Run("writer paths are recorded per outcome", func(t *testing.T) {
		t.Parallel()

		p := &extract.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*webscraper.FetchedPage, error) {
					return fetchedPage(url), nil
				},
			},
			Parser: okParser(),
			Writer: &mock.ResultWriter{
				WriteResultFn: func(_ context.Context, res *webscraper.Result, index int) (string, error) {
					return "results/out.json", nil
				},
			},
		}

		outcomes := p.Run(context.Background(), []string{"https://example.com/a"}, nil)

		require.Len(t, outcomes, 1)
		assert.Equal(t, "results/out.json", outcomes[0].Path)
	})

	t.Run("reports progress events", func(t *testing.T) {
		t.Parallel()

		p := &extract.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*webscraper.FetchedPage, error) {
					if url == "https://example.com/bad" {
						return nil, webscraper.Errorf(webscraper.EUNAVAILABLE, "down")
					}
					return fetchedPage(url), nil
				},
			},
			Parser: okParser(),
		}

		var events []extract.ProgressEvent
		p.Run(context.Background(), []string{"https://example.com/a", "https://example.com/bad"}, func(e extract.ProgressEvent) {
			events = append(events, e)
		})

		require.Len(t, events, 4)
		assert.Equal(t, extract.ProgressStarted, events[0].Type)
		assert.Equal(t, 2, events[0].Total)
		assert.Equal(t, extract.ProgressFinished, events[3].Type)

		var completed, failed int
		for _, e := range events[1:3] {
			switch e.Type {
			case extract.ProgressCompleted:
				completed++
			case extract.ProgressFailed:
				failed++
				assert.Error(t, e.Error)
			}
		}
		assert.Equal(t, 1, completed)
		assert.Equal(t, 1, failed)
	})
}
