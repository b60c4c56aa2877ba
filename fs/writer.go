// Package fs provides file-based output for result documents.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/emqnuele/webscraper"
)

var slugPattern = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Ensure Writer implements webscraper.ResultWriter at compile time.
var _ webscraper.ResultWriter = (*Writer)(nil)

// Writer writes result documents as JSON files. With an explicit Path set
// it writes there (single-URL runs); otherwise files land in Dir under a
// generated name.
type Writer struct {
	Dir    string
	Path   string
	Pretty bool
}

// NewWriter creates a Writer targeting the given output directory with
// pretty formatting on.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir, Pretty: true}
}

// WriteResult writes one result document and returns the path it was
// written to.
func (w *Writer) WriteResult(ctx context.Context, res *webscraper.Result, index int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := w.Path
	if path == "" {
		path = filepath.Join(w.Dir, w.filename(res, index))
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", webscraper.Errorf(webscraper.EINTERNAL, "create output directory: %v", err)
		}
	}

	data, err := Encode(res, w.Pretty)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", webscraper.Errorf(webscraper.EINTERNAL, "write result: %v", err)
	}
	return path, nil
}

// Encode serializes a result document, pretty or compact. HTML fragments
// are written as-is, not entity-escaped.
func Encode(res *webscraper.Result, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(res); err != nil {
		return nil, webscraper.Errorf(webscraper.EINTERNAL, "encode result: %v", err)
	}
	return buf.Bytes(), nil
}

// filename builds scrape_<domain>_<slug>_<timestamp>_<index>.json.
func (w *Writer) filename(res *webscraper.Result, index int) string {
	domain := res.Content.Domain
	slug := ""
	if u, err := url.Parse(res.Page.URL); err == nil {
		if domain == "" {
			domain = u.Host
		}
		slug = sanitizeSlug(u.Path)
	}
	if domain == "" {
		domain = "output"
	}
	if slug == "" {
		slug = "page"
	}

	ts := time.Now().Format("20060102_150405")
	return "scrape_" + sanitizeSlug(domain) + "_" + slug + "_" + ts + "_" + strconv.Itoa(index) + ".json"
}

// sanitizeSlug reduces a URL path to a filesystem-safe token.
func sanitizeSlug(value string) string {
	trimmed := strings.Trim(value, "/")
	if trimmed == "" {
		return ""
	}
	normalized := slugPattern.ReplaceAllString(trimmed, "_")
	return strings.Trim(normalized, "_")
}
