// Package goquery implements the content extraction core: candidate
// scanning, scoring and selection over a parsed document tree, plus the
// metadata, structured-content and context builders layered on top of the
// selected subtree.
package goquery

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/emqnuele/webscraper"
)

// Candidate is a block-level subtree considered a possible article-body
// container. Candidates are created during scanning, scored once and
// immutable afterward; Node is a non-owning anchor into the document tree.
type Candidate struct {
	ID          string
	Node        *html.Node
	Heading     string
	Text        string
	WordCount   int
	Paragraphs  []string
	LinkDensity float64
	Score       float64
	Path        string
	HTML        string

	headingCount int
	schema       bool
	positive     bool
	negative     bool
	order        int
}

// Scanner enumerates block-level candidate subtrees in document order.
type Scanner struct {
	cfg webscraper.Config
}

// NewScanner creates a Scanner with the given tuning.
func NewScanner(cfg webscraper.Config) *Scanner {
	return &Scanner{cfg: cfg}
}

// Clean strips excluded subtrees (scripts, styles, navigation chrome) and
// boilerplate elements from the document in place. Scanning, metadata DOM
// heuristics and context building all operate on the cleaned tree.
func (s *Scanner) Clean(doc *goquery.Document) {
	doc.Find(strings.Join(s.cfg.ExcludeTags, ", ")).Remove()
	doc.Find("[role]").Each(func(_ int, sel *goquery.Selection) {
		role := strings.ToLower(sel.AttrOr("role", ""))
		for _, r := range s.cfg.ExcludeRoles {
			if role == r {
				sel.Remove()
				return
			}
		}
	})
	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		if s.isNoise(sel) {
			sel.Remove()
		}
	})
}

// isNoise reports whether an element's class/id/aria attributes mark it as
// page furniture. A noise keyword match is vetoed when an article hint is
// also present, so containers like "article-footer-note" survive only if
// they carry an article hint.
func (s *Scanner) isNoise(sel *goquery.Selection) bool {
	var tokens []string
	for _, attr := range []string{"class", "id", "name", "aria-label", "data-track-label", "data-component", "data-testid"} {
		if v, ok := sel.Attr(attr); ok && v != "" {
			tokens = append(tokens, strings.ToLower(v))
		}
	}
	if len(tokens) == 0 {
		return false
	}
	attrs := strings.Join(tokens, " ")
	for _, kw := range s.cfg.NoiseKeywords {
		if strings.Contains(attrs, kw) {
			for _, hint := range s.cfg.ArticleHints {
				if strings.Contains(attrs, hint) {
					return false
				}
			}
			return true
		}
	}
	return false
}

// Scan collects candidate subtrees from the cleaned document. Candidates
// are returned in document order with ids block_0, block_1, ... assigned in
// that order. An empty slice means no container qualified; the caller falls
// back to treating the document body as the sole candidate.
func (s *Scanner) Scan(doc *goquery.Document) []*Candidate {
	var cands []*Candidate
	doc.Find(strings.Join(s.cfg.BlockTags, ", ")).Each(func(_ int, sel *goquery.Selection) {
		if s.isNoise(sel) {
			return
		}
		if c := s.build(sel, len(cands)); c != nil {
			cands = append(cands, c)
		}
	})
	return cands
}

// Fallback builds a candidate from the document body, used when Scan found
// nothing. Returns nil when the body has no visible text at all.
func (s *Scanner) Fallback(doc *goquery.Document) *Candidate {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return nil
	}
	text := webscraper.CleanText(nodeText(body.Nodes[0]))
	if text == "" {
		return nil
	}
	c := s.describe(body, 0)
	return c
}

// build constructs a candidate for a qualifying block, or nil when the
// block's aggregated text is below the minimum length.
func (s *Scanner) build(sel *goquery.Selection, order int) *Candidate {
	c := s.describe(sel, order)
	if c == nil || c.WordCount < s.cfg.MinBlockWords {
		return nil
	}
	return c
}

// describe measures a selection into a candidate without applying the
// minimum-length threshold.
func (s *Scanner) describe(sel *goquery.Selection, order int) *Candidate {
	if len(sel.Nodes) == 0 {
		return nil
	}
	node := sel.Nodes[0]
	text := webscraper.CleanText(nodeText(node))

	var linkText strings.Builder
	sel.Find("a").Each(func(_ int, a *goquery.Selection) {
		if len(a.Nodes) == 0 {
			return
		}
		linkText.WriteString(webscraper.CleanText(nodeText(a.Nodes[0])))
		linkText.WriteString(" ")
	})
	density := 0.0
	if len(text) > 0 {
		density = float64(len(strings.TrimSpace(linkText.String()))) / float64(len(text))
		if density > 1 {
			density = 1
		}
	}

	var paragraphs []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		if len(p.Nodes) == 0 {
			return
		}
		if t := webscraper.CleanText(nodeText(p.Nodes[0])); t != "" {
			paragraphs = append(paragraphs, t)
		}
	})

	heading := ""
	headings := sel.Find("h1, h2, h3")
	if headings.Length() > 0 {
		heading = webscraper.CleanText(nodeText(headings.Nodes[0]))
	}

	blockHTML, _ := goquery.OuterHtml(sel)

	return &Candidate{
		ID:           "block_" + strconv.Itoa(order),
		Node:         node,
		Heading:      heading,
		Text:         text,
		WordCount:    webscraper.CountWords(text),
		Paragraphs:   paragraphs,
		LinkDensity:  density,
		Path:         domPath(node, s.cfg.MaxDOMPathDepth),
		HTML:         blockHTML,
		headingCount: headings.Length(),
		schema:       isSchemaBlock(sel),
		positive:     matchesAny(sel, s.cfg.PositiveKeywords),
		negative:     matchesAny(sel, s.cfg.NegativeKeywords),
		order:        order,
	}
}

// isSchemaBlock reports whether the element explicitly marks itself as an
// article container through semantic markup.
func isSchemaBlock(sel *goquery.Selection) bool {
	if len(sel.Nodes) == 0 {
		return false
	}
	if sel.Nodes[0].Data == "article" {
		return true
	}
	if strings.Contains(strings.ToLower(sel.AttrOr("itemprop", "")), "articlebody") {
		return true
	}
	if strings.Contains(sel.AttrOr("itemtype", ""), "Article") {
		return true
	}
	return strings.EqualFold(sel.AttrOr("role", ""), "main")
}

// matchesAny reports whether the element's class or id contains any of the
// given keyword tokens.
func matchesAny(sel *goquery.Selection, keywords []string) bool {
	attrs := strings.ToLower(sel.AttrOr("class", "") + " " + sel.AttrOr("id", ""))
	if strings.TrimSpace(attrs) == "" {
		return false
	}
	for _, kw := range keywords {
		if strings.Contains(attrs, kw) {
			return true
		}
	}
	return false
}

// nodeText aggregates the visible text of a subtree, separating text nodes
// with single spaces the way a renderer would separate block boundaries.
func nodeText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}

// domPath renders a short CSS-like path for a node, element first, bounded
// to maxDepth ancestor levels.
func domPath(n *html.Node, maxDepth int) string {
	var parts []string
	current := n
	for depth := 0; current != nil && current.Type == html.ElementNode && depth < maxDepth; depth++ {
		descriptor := current.Data
		if id := attrValue(current, "id"); id != "" {
			descriptor += "#" + id
		} else if cls := attrValue(current, "class"); cls != "" {
			fields := strings.Fields(cls)
			if len(fields) > 2 {
				fields = fields[:2]
			}
			descriptor += "." + strings.Join(fields, ".")
		}
		descriptor += "[" + strconv.Itoa(siblingIndex(current)) + "]"
		parts = append(parts, descriptor)
		current = current.Parent
	}
	return strings.Join(parts, " > ")
}

// siblingIndex returns the node's position among same-tag siblings.
func siblingIndex(n *html.Node) int {
	if n.Parent == nil {
		return 0
	}
	idx := 0
	for sib := n.Parent.FirstChild; sib != nil; sib = sib.NextSibling {
		if sib == n {
			return idx
		}
		if sib.Type == html.ElementNode && sib.Data == n.Data {
			idx++
		}
	}
	return idx
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
