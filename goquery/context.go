package goquery

import (
	"math"
	"net/url"
	"sort"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"github.com/emqnuele/webscraper"
)

// buildContext derives the page-level context: a heading-level map over the
// whole cleaned document, related links found outside the selected subtree,
// and the top-scoring candidate summaries for diagnostics.
func buildContext(doc *goquery.Document, base *url.URL, articleLinks []webscraper.Link, cands []*Candidate, cfg webscraper.Config) webscraper.Context {
	return webscraper.Context{
		Headings:     extractHeadings(doc),
		RelatedLinks: relatedLinks(doc, base, articleLinks, cfg),
		Candidates:   summarizeCandidates(cands, cfg.TopCandidates),
	}
}

// extractHeadings maps each heading level to its texts in document order.
func extractHeadings(doc *goquery.Document) map[string][]string {
	headings := make(map[string][]string, 6)
	for level := 1; level <= 6; level++ {
		tag := "h" + strconv.Itoa(level)
		texts := []string{}
		doc.Find(tag).Each(func(_ int, sel *goquery.Selection) {
			if len(sel.Nodes) == 0 {
				return
			}
			texts = append(texts, webscraper.CleanText(nodeText(sel.Nodes[0])))
		})
		headings[tag] = texts
	}
	return headings
}

// relatedLinks collects links from the whole document that do not already
// appear inside the article, deduplicated by normalized target.
func relatedLinks(doc *goquery.Document, base *url.URL, articleLinks []webscraper.Link, cfg webscraper.Config) []webscraper.Link {
	seen := make(map[string]struct{}, len(articleLinks))
	for _, l := range articleLinks {
		seen[normalizeURL(l.Href)] = struct{}{}
	}

	related := []webscraper.Link{}
	for _, link := range extractLinks(doc, base, cfg.LinkScanLimit) {
		if link.Text == "" {
			continue
		}
		key := normalizeURL(link.Href)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		related = append(related, link)
		if len(related) >= cfg.RelatedLinkLimit {
			break
		}
	}
	return related
}

// summarizeCandidates emits the top-k candidates by score, ties broken by
// document order so identical input yields identical output.
func summarizeCandidates(cands []*Candidate, k int) []webscraper.CandidateSummary {
	ranked := make([]*Candidate, len(cands))
	copy(ranked, cands)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].order < ranked[j].order
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	summaries := []webscraper.CandidateSummary{}
	for _, c := range ranked {
		summaries = append(summaries, webscraper.CandidateSummary{
			ID:        c.ID,
			Heading:   c.Heading,
			WordCount: c.WordCount,
			Score:     round2(c.Score),
			Path:      c.Path,
		})
	}
	return summaries
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
