package goquery

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/emqnuele/webscraper"
)

// parseFragment parses an HTML fragment (a selected subtree or an alternate
// engine's output) into its own document for structured extraction.
func parseFragment(fragment string) *goquery.Document {
	if strings.TrimSpace(fragment) == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil
	}
	return doc
}

// fragmentParagraphs emits the fragment's ordered non-empty trimmed
// paragraphs. Alternate engines flatten list items into paragraphs too;
// heuristic blocks count only p elements.
func fragmentParagraphs(doc *goquery.Document, includeListItems bool) []string {
	if doc == nil {
		return nil
	}
	selector := "p"
	if includeListItems {
		selector = "p, li"
	}
	var paragraphs []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if len(sel.Nodes) == 0 {
			return
		}
		if t := webscraper.CleanText(nodeText(sel.Nodes[0])); t != "" {
			paragraphs = append(paragraphs, t)
		}
	})
	return paragraphs
}

// extractLinks collects outbound links with their anchor text, resolved
// against the page URL, up to limit.
func extractLinks(doc *goquery.Document, base *url.URL, limit int) []webscraper.Link {
	if doc == nil {
		return nil
	}
	var links []webscraper.Link
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href := absolutize(base, sel.AttrOr("href", ""))
		if href == "" {
			return true
		}
		links = append(links, webscraper.Link{
			Text:       webscraper.CleanText(sel.Text()),
			Href:       href,
			IsExternal: isExternal(base, href),
			Title:      sel.AttrOr("title", ""),
		})
		return len(links) < limit
	})
	return links
}

// buildMedia classifies the article's images and collects embedded video
// references. The hero image comes from social meta tags when present;
// otherwise the earliest inline image above the size threshold is promoted.
// Remaining images form the gallery.
func buildMedia(doc *goquery.Document, meta map[string]string, base *url.URL, cfg webscraper.Config) webscraper.Media {
	media := webscraper.Media{Gallery: []webscraper.GalleryImage{}, Videos: []string{}}

	if hero := firstNonEmpty(meta["og:image"], meta["twitter:image"], meta["image_thumb_src"]); hero != "" {
		if abs := absolutize(base, hero); abs != "" {
			media.HeroImage = &abs
		}
	}

	if doc == nil {
		return media
	}

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src := firstNonEmpty(sel.AttrOr("src", ""), sel.AttrOr("data-src", ""))
		if src == "" {
			return
		}
		abs := absolutize(base, src)
		if abs == "" {
			return
		}
		if media.HeroImage == nil && imageDimension(sel) >= cfg.HeroMinDimension {
			media.HeroImage = &abs
			return
		}
		if len(media.Gallery) < cfg.GalleryLimit {
			media.Gallery = append(media.Gallery, webscraper.GalleryImage{
				Src:   abs,
				Alt:   webscraper.CleanText(sel.AttrOr("alt", "")),
				Title: webscraper.CleanText(sel.AttrOr("title", "")),
			})
		}
	})

	doc.Find("video").Each(func(_ int, sel *goquery.Selection) {
		src := sel.AttrOr("src", "")
		if source := sel.Find("source").First(); source.Length() > 0 {
			src = firstNonEmpty(source.AttrOr("src", ""), src)
		}
		if abs := absolutize(base, src); abs != "" && len(media.Videos) < cfg.VideoLimit {
			media.Videos = append(media.Videos, abs)
		}
	})
	doc.Find("iframe[src]").Each(func(_ int, sel *goquery.Selection) {
		if abs := absolutize(base, sel.AttrOr("src", "")); abs != "" && len(media.Videos) < cfg.VideoLimit {
			media.Videos = append(media.Videos, abs)
		}
	})

	return media
}

// imageDimension returns the larger of the declared width/height attributes,
// 0 when neither is a plain number.
func imageDimension(sel *goquery.Selection) int {
	max := 0
	for _, attr := range []string{"width", "height"} {
		if n, err := strconv.Atoi(strings.TrimSpace(sel.AttrOr(attr, ""))); err == nil && n > max {
			max = n
		}
	}
	return max
}

// extractLists separates the fragment's list elements into unordered and
// ordered groups of item text.
func extractLists(doc *goquery.Document) webscraper.Lists {
	lists := webscraper.Lists{UL: [][]string{}, OL: [][]string{}}
	if doc == nil {
		return lists
	}
	collect := func(sel *goquery.Selection) []string {
		var items []string
		sel.Find("li").Each(func(_ int, li *goquery.Selection) {
			if len(li.Nodes) == 0 {
				return
			}
			if t := webscraper.CleanText(nodeText(li.Nodes[0])); t != "" {
				items = append(items, t)
			}
		})
		return items
	}
	doc.Find("ul").Each(func(_ int, sel *goquery.Selection) {
		if items := collect(sel); len(items) > 0 {
			lists.UL = append(lists.UL, items)
		}
	})
	doc.Find("ol").Each(func(_ int, sel *goquery.Selection) {
		if items := collect(sel); len(items) > 0 {
			lists.OL = append(lists.OL, items)
		}
	})
	return lists
}

// extractTables converts the fragment's table elements into row/column
// grids of cell text.
func extractTables(doc *goquery.Document) []webscraper.Table {
	tables := []webscraper.Table{}
	if doc == nil {
		return tables
	}
	doc.Find("table").Each(func(i int, sel *goquery.Selection) {
		table := webscraper.Table{ID: i, Headers: []string{}, Rows: [][]string{}}
		sel.Find("th").Each(func(_ int, th *goquery.Selection) {
			table.Headers = append(table.Headers, webscraper.CleanText(th.Text()))
		})
		sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var row []string
			tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				row = append(row, webscraper.CleanText(cell.Text()))
			})
			if len(row) > 0 {
				table.Rows = append(table.Rows, row)
			}
		})
		tables = append(tables, table)
	})
	return tables
}

// linkDensityOf measures the ratio of anchor-wrapped text to total text in
// a parsed fragment.
func linkDensityOf(doc *goquery.Document) float64 {
	if doc == nil {
		return 0
	}
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return 0
	}
	total := webscraper.CleanText(nodeText(body.Nodes[0]))
	if total == "" {
		return 0
	}
	var linkText strings.Builder
	body.Find("a").Each(func(_ int, a *goquery.Selection) {
		if len(a.Nodes) == 0 {
			return
		}
		linkText.WriteString(webscraper.CleanText(nodeText(a.Nodes[0])))
		linkText.WriteString(" ")
	})
	density := float64(len(strings.TrimSpace(linkText.String()))) / float64(len(total))
	if density > 1 {
		density = 1
	}
	return density
}

// absolutize resolves href against the page URL. Unresolvable or empty
// references collapse to "".
func absolutize(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

// isExternal reports whether href points off the page's host.
func isExternal(base *url.URL, href string) bool {
	if base == nil {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return !strings.EqualFold(u.Host, base.Host)
}

// normalizeURL produces the dedup key for related links: lowercased host,
// no fragment, no trailing slash.
func normalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}
