// Package bolt provides a BoltDB-backed page cache so repeated runs against
// the same URLs can skip the network.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	bolt "go.etcd.io/bbolt"

	"github.com/emqnuele/webscraper"
)

const (
	pageBucket       = "pages"
	expiryValueBytes = 8
)

// DefaultTTL is how long cached pages stay valid when no TTL is specified.
const DefaultTTL = time.Hour

// Ensure Cache implements webscraper.PageCache at compile time.
var _ webscraper.PageCache = (*Cache)(nil)

// Cache stores fetched pages keyed by URL hash, each value prefixed with
// its expiry so stale entries are dropped on access.
type Cache struct {
	db  *bolt.DB
	ttl time.Duration
}

// Open initializes a page cache at path, creating parent directories as
// needed. ttl <= 0 falls back to DefaultTTL.
func Open(path string, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, webscraper.Errorf(webscraper.EINTERNAL, "create cache directory: %v", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, webscraper.Errorf(webscraper.EINTERNAL, "open page cache: %v", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(pageBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, webscraper.Errorf(webscraper.EINTERNAL, "init cache bucket: %v", err)
	}

	return &Cache{db: db, ttl: ttl}, nil
}

// Get returns the cached page for url, reporting a miss for absent or
// expired entries. Expired entries are deleted on the way out.
func (c *Cache) Get(ctx context.Context, url string) (*webscraper.FetchedPage, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var page *webscraper.FetchedPage
	err := c.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(pageBucket))
		if bucket == nil {
			return webscraper.Errorf(webscraper.EINTERNAL, "page bucket missing")
		}

		key := keyFor(url)
		value := bucket.Get(key)
		if value == nil || len(value) < expiryValueBytes {
			return nil
		}

		expiry := time.Unix(int64(binary.BigEndian.Uint64(value[:expiryValueBytes])), 0)
		if !expiry.After(time.Now()) {
			return bucket.Delete(key)
		}

		var cached webscraper.FetchedPage
		if err := json.Unmarshal(value[expiryValueBytes:], &cached); err != nil {
			// Unreadable entries are dropped, not surfaced.
			return bucket.Delete(key)
		}
		page = &cached
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return page, page != nil, nil
}

// Put stores the fetched page for url with the cache's TTL.
func (c *Cache) Put(ctx context.Context, url string, page *webscraper.FetchedPage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded, err := json.Marshal(page)
	if err != nil {
		return webscraper.Errorf(webscraper.EINTERNAL, "encode cached page: %v", err)
	}

	value := make([]byte, expiryValueBytes, expiryValueBytes+len(encoded))
	binary.BigEndian.PutUint64(value, uint64(time.Now().Add(c.ttl).Unix()))
	value = append(value, encoded...)

	return c.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(pageBucket))
		if bucket == nil {
			return webscraper.Errorf(webscraper.EINTERNAL, "page bucket missing")
		}
		return bucket.Put(keyFor(url), value)
	})
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// keyFor hashes a URL into a fixed-size bucket key.
func keyFor(url string) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, xxhash.Sum64String(url))
	return key
}
