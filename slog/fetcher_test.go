package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emqnuele/webscraper"
	"github.com/emqnuele/webscraper/mock"
	wslog "github.com/emqnuele/webscraper/slog"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with status and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*webscraper.FetchedPage, error) {
				return &webscraper.FetchedPage{
					Page: webscraper.Page{URL: url, StatusCode: 200, SizeReadable: "1.0 KB"},
					HTML: "<html>content</html>",
				}, nil
			},
		}

		fetcher := wslog.NewLoggingFetcher(inner, logger)
		page, err := fetcher.Fetch(context.Background(), "https://example.com/story")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", page.HTML)
		output := buf.String()
		assert.Contains(t, output, "page fetch")
		assert.Contains(t, output, "url=https://example.com/story")
		assert.Contains(t, output, "status=200")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (*webscraper.FetchedPage, error) {
				return nil, webscraper.Errorf(webscraper.EUNAVAILABLE, "network error")
			},
		}

		fetcher := wslog.NewLoggingFetcher(inner, logger)
		_, err := fetcher.Fetch(context.Background(), "https://example.com/story")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "page fetch")
		assert.Contains(t, output, "network error")
	})

	t.Run("delegates close", func(t *testing.T) {
		t.Parallel()

		closed := false
		inner := &mock.Fetcher{
			CloseFn: func() error {
				closed = true
				return nil
			},
		}

		fetcher := wslog.NewLoggingFetcher(inner, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
		require.NoError(t, fetcher.Close())
		assert.True(t, closed)
	})
}
