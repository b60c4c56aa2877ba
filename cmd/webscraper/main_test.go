package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emqnuele/webscraper"
)

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("returns error with no arguments", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		err := NewMain().Run(context.Background(), nil, &stdout, &stderr)
		assert.Error(t, err)
	})

	t.Run("help succeeds", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		err := NewMain().Run(context.Background(), []string{"--help"}, &stdout, &stderr)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "webscraper")
		assert.Contains(t, stdout.String(), "urls")
	})

	t.Run("rejects invalid URLs before any work", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		err := NewMain().Run(context.Background(), []string{"not-a-url"}, &stdout, &stderr)

		require.Error(t, err)
		assert.Equal(t, webscraper.EINVALID, webscraper.ErrorCode(err))
		assert.Contains(t, webscraper.ErrorMessage(err), "not-a-url")
	})

	t.Run("rejects non-http schemes", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		err := NewMain().Run(context.Background(), []string{"ftp://example.com/file"}, &stdout, &stderr)

		require.Error(t, err)
		assert.Equal(t, webscraper.EINVALID, webscraper.ErrorCode(err))
	})
}

func TestInvalidURLs(t *testing.T) {
	t.Parallel()

	invalid := invalidURLs([]string{
		"https://example.com/ok",
		"http://example.com/ok",
		"example.com/no-scheme",
		"ftp://example.com/file",
	})

	assert.Equal(t, []string{"example.com/no-scheme", "ftp://example.com/file"}, invalid)
}
