package goquery

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"

	"github.com/emqnuele/webscraper"
)

// articleMetadata holds article fields resolved from head metadata and DOM
// heuristics. Unresolved fields stay nil/empty; they never abort sibling
// fields.
type articleMetadata struct {
	Title       *string
	Subtitle    *string
	Section     *string
	Authors     []string
	PublishedAt *string
	UpdatedAt   *string
	Excerpt     string
	Keywords    []string
	Tags        []string
}

// extractMeta maps every meta tag in the document head to its content,
// keyed by name or property (charset is kept under its own key).
func extractMeta(doc *goquery.Document) map[string]string {
	meta := make(map[string]string)
	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		content, hasContent := sel.Attr("content")
		if name, ok := sel.Attr("name"); ok && hasContent {
			meta[name] = content
		} else if prop, ok := sel.Attr("property"); ok && hasContent {
			meta[prop] = content
		} else if charset, ok := sel.Attr("charset"); ok {
			meta["charset"] = charset
		}
	})
	return meta
}

// extractArticleMetadata resolves each article field from a fixed priority
// order: JSON-LD blocks first, then open-graph-style meta tags, then DOM
// heuristics. rawDoc is the unmodified document (it still has its scripts);
// doc is the cleaned tree used for DOM heuristics.
func extractArticleMetadata(rawDoc, doc *goquery.Document, meta map[string]string) articleMetadata {
	ld := findJSONLD(rawDoc)

	md := articleMetadata{
		Title:    firstValue(ldString(ld, "headline"), meta["og:title"], meta["twitter:title"], meta["title"]),
		Section:  firstValue(ldString(ld, "articleSection"), meta["article:section"], meta["category-label"]),
		Excerpt:  firstNonEmpty(ldString(ld, "description"), meta["description"], meta["og:description"]),
		Keywords: firstList(ldStrings(ld, "keywords"), splitMetaValues(firstNonEmpty(meta["news_keywords"], meta["keywords"]))),
		Tags:     splitMetaValues(firstNonEmpty(meta["article:tag"], meta["parsely-tags"])),
	}

	if sub := ldString(ld, "alternativeHeadline"); sub != "" {
		md.Subtitle = &sub
	} else {
		md.Subtitle = findSubtitle(doc)
	}

	md.Authors = ldAuthors(ld)
	if len(md.Authors) == 0 {
		md.Authors = findAuthors(doc, meta)
	}

	md.PublishedAt, md.UpdatedAt = findDates(doc, meta, ld)
	return md
}

// findJSONLD returns the first JSON-LD object describing an article, or nil.
// Malformed blocks are skipped; a metadata failure never aborts extraction.
func findJSONLD(doc *goquery.Document) map[string]any {
	var found map[string]any
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var parsed any
		if err := json.Unmarshal([]byte(sel.Text()), &parsed); err != nil {
			return true
		}
		if m := articleObject(parsed); m != nil {
			found = m
			return false
		}
		return true
	})
	return found
}

// articleObject digs an Article-typed object out of a decoded JSON-LD
// value, looking through top-level arrays and @graph containers.
func articleObject(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		if isArticleType(t["@type"]) {
			return t
		}
		if graph, ok := t["@graph"]; ok {
			return articleObject(graph)
		}
	case []any:
		for _, item := range t {
			if m := articleObject(item); m != nil {
				return m
			}
		}
	}
	return nil
}

func isArticleType(v any) bool {
	switch t := v.(type) {
	case string:
		return strings.Contains(t, "Article") || t == "BlogPosting"
	case []any:
		for _, item := range t {
			if isArticleType(item) {
				return true
			}
		}
	}
	return false
}

// ldString reads a string-ish field from a JSON-LD object. List values
// collapse to their first string element.
func ldString(ld map[string]any, key string) string {
	if ld == nil {
		return ""
	}
	switch v := ld[key].(type) {
	case string:
		return webscraper.CleanText(v)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				return webscraper.CleanText(s)
			}
		}
	}
	return ""
}

// ldStrings reads a list-ish field: JSON arrays are flattened, single
// strings are split on commas.
func ldStrings(ld map[string]any, key string) []string {
	if ld == nil {
		return nil
	}
	switch v := ld[key].(type) {
	case string:
		return splitMetaValues(v)
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				if s = webscraper.CleanText(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	}
	return nil
}

// ldAuthors reads the author field, which may be a name, a Person object,
// or a list of either.
func ldAuthors(ld map[string]any) []string {
	if ld == nil {
		return nil
	}
	var out []string
	var collect func(any)
	collect = func(v any) {
		switch t := v.(type) {
		case string:
			if name := webscraper.CleanText(t); name != "" {
				out = append(out, name)
			}
		case map[string]any:
			collect(t["name"])
		case []any:
			for _, item := range t {
				collect(item)
			}
		}
	}
	collect(ld["author"])
	return dedupe(out)
}

// findSubtitle looks for a standfirst below the headline.
func findSubtitle(doc *goquery.Document) *string {
	var subtitle string
	doc.Find("h2, p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(sel.AttrOr("class", "")), "subtitle") {
			subtitle = webscraper.CleanText(sel.Text())
			return subtitle == ""
		}
		return true
	})
	if subtitle == "" {
		if sel := doc.Find(`[data-testid*="subtitle"], .article-subtitle, .story__summary, .lead`).First(); sel.Length() > 0 {
			subtitle = webscraper.CleanText(sel.Text())
		}
	}
	if subtitle == "" {
		return nil
	}
	return &subtitle
}

// findAuthors resolves bylines from meta tags first, then DOM markers.
func findAuthors(doc *goquery.Document, meta map[string]string) []string {
	var authors []string
	for _, key := range []string{"author", "article:author", "parsely-author"} {
		if v := meta[key]; v != "" {
			authors = append(authors, splitMetaValues(v)...)
		}
	}
	if len(authors) > 0 {
		return dedupe(authors)
	}

	doc.Find(`[itemprop="author"], .author-name, .byline, [rel="author"]`).Each(func(_ int, sel *goquery.Selection) {
		text := webscraper.CleanText(sel.Text())
		lower := strings.ToLower(text)
		if text != "" && lower != "di" && lower != "by" {
			authors = append(authors, text)
		}
	})
	return dedupe(authors)
}

// findDates resolves publish/update timestamps, normalized to RFC 3339.
// Values that cannot be parsed as dates resolve to nil rather than leaking
// arbitrary strings into an ISO-8601 field.
func findDates(doc *goquery.Document, meta map[string]string, ld map[string]any) (published, updated *string) {
	rawPublished := firstNonEmpty(
		ldString(ld, "datePublished"),
		meta["article:published_time"], meta["pubdate"], meta["parsely-pub-date"],
	)
	rawUpdated := firstNonEmpty(
		ldString(ld, "dateModified"),
		meta["article:modified_time"], meta["last-modified"],
	)

	if rawPublished == "" {
		if sel := doc.Find("time[datetime]").First(); sel.Length() > 0 {
			rawPublished = firstNonEmpty(sel.AttrOr("datetime", ""), webscraper.CleanText(sel.Text()))
		}
	}
	if rawUpdated == "" {
		if sel := doc.Find(`time[itemprop="dateModified"]`).First(); sel.Length() > 0 {
			rawUpdated = firstNonEmpty(sel.AttrOr("datetime", ""), webscraper.CleanText(sel.Text()))
		}
	}

	return normalizeDate(rawPublished), normalizeDate(rawUpdated)
}

// normalizeDate parses a loosely formatted timestamp into RFC 3339.
func normalizeDate(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil
	}
	formatted := t.Format("2006-01-02T15:04:05Z07:00")
	return &formatted
}

// splitMetaValues splits a comma-separated meta value into trimmed parts.
func splitMetaValues(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// firstValue returns a pointer to the first non-empty string, or nil.
func firstValue(values ...string) *string {
	if v := firstNonEmpty(values...); v != "" {
		return &v
	}
	return nil
}

// firstList returns the first non-empty list.
func firstList(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return nil
}
