package webscraper

import "context"

// PageCache stores fetched pages so repeated runs can skip the network.
// A miss is reported with ok=false, not an error.
type PageCache interface {
	Get(ctx context.Context, url string) (page *FetchedPage, ok bool, err error)
	Put(ctx context.Context, url string, page *FetchedPage) error
	Close() error
}
