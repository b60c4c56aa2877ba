package mock

import (
	"context"

	"github.com/emqnuele/webscraper"
)

var _ webscraper.PageCache = (*PageCache)(nil)

// PageCache is a mock implementation of webscraper.PageCache.
type PageCache struct {
	GetFn   func(ctx context.Context, url string) (*webscraper.FetchedPage, bool, error)
	PutFn   func(ctx context.Context, url string, page *webscraper.FetchedPage) error
	CloseFn func() error
}

func (c *PageCache) Get(ctx context.Context, url string) (*webscraper.FetchedPage, bool, error) {
	return c.GetFn(ctx, url)
}

func (c *PageCache) Put(ctx context.Context, url string, page *webscraper.FetchedPage) error {
	return c.PutFn(ctx, url, page)
}

func (c *PageCache) Close() error {
	if c.CloseFn == nil {
		return nil
	}
	return c.CloseFn()
}
