package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/emqnuele/webscraper"
)

// Parser derives a complete Content document from raw HTML. It is safe for
// concurrent use; the configuration is copied in and never mutated.
type Parser struct {
	cfg     webscraper.Config
	scanner *Scanner
	scorer  *Scorer
}

// NewParser creates a Parser with the given tuning.
func NewParser(cfg webscraper.Config) *Parser {
	return &Parser{
		cfg:     cfg,
		scanner: NewScanner(cfg),
		scorer:  NewScorer(cfg),
	}
}

// pick is the resolved selection: either the heuristic winner, the
// alternate engine's result, or nothing (degraded).
type pick struct {
	source      string
	title       string
	paragraphs  []string
	text        string
	html        string
	linkDensity float64
	confidence  float64
}

// Parse analyzes raw HTML and assembles the content section of the result
// document. alt optionally carries an alternate extraction engine's output,
// tagged with the engine name; the selection policy decides which side
// becomes the article body. A nil error with a degraded article (confidence
// 0, empty body) means no usable candidate was found; an error means the
// input itself was unusable.
func (p *Parser) Parse(rawHTML, pageURL, altName string, alt *webscraper.ExtractResult) (*webscraper.Content, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, webscraper.Errorf(webscraper.EINVALID, "empty HTML input")
	}

	rawDoc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, webscraper.Errorf(webscraper.EINVALID, "parse HTML: %v", err)
	}
	contentDoc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, webscraper.Errorf(webscraper.EINVALID, "parse HTML: %v", err)
	}
	p.scanner.Clean(contentDoc)

	base, _ := url.Parse(pageURL)
	meta := extractMeta(rawDoc)
	pageTitle := webscraper.CleanText(rawDoc.Find("title").First().Text())

	// Scan and score. An empty scan falls back to the document body as the
	// sole candidate before degrading entirely.
	cands := p.scanner.Scan(contentDoc)
	fallback := false
	if len(cands) == 0 {
		if fb := p.scanner.Fallback(contentDoc); fb != nil {
			cands = []*Candidate{fb}
			fallback = true
		}
	}
	p.scorer.Score(cands)
	selected := p.scorer.Resolve(cands)

	chosen := p.selectPick(selected, fallback, altName, alt)

	// Build article metadata and structured content from the winner.
	md := extractArticleMetadata(rawDoc, contentDoc, meta)
	fragDoc := parseFragment(chosen.html)
	links := extractLinks(fragDoc, base, p.cfg.ArticleLinkLimit)
	media := buildMedia(fragDoc, meta, base, p.cfg)

	excerpt := md.Excerpt
	if excerpt == "" && len(chosen.paragraphs) > 0 {
		excerpt = chosen.paragraphs[0]
	}

	wordCount := webscraper.CountWords(chosen.text)
	body := webscraper.Body{
		Text:               chosen.text,
		Paragraphs:         emptyIfNil(chosen.paragraphs),
		WordCount:          wordCount,
		ReadingTimeMinutes: webscraper.ReadingTime(wordCount, p.cfg.WordsPerMinute),
		Source:             chosen.source,
		HTML:               chosen.html,
	}

	article := webscraper.Article{
		Title:       firstNonEmpty(chosen.title, deref(md.Title), pageTitle),
		Subtitle:    md.Subtitle,
		Section:     md.Section,
		Authors:     emptyIfNil(md.Authors),
		PublishedAt: md.PublishedAt,
		UpdatedAt:   md.UpdatedAt,
		Excerpt:     webscraper.CleanText(excerpt),
		Keywords:    emptyIfNil(md.Keywords),
		Tags:        emptyIfNil(md.Tags),
		Body:        body,
		Media:       media,
		Links:       emptyLinksIfNil(links),
		Lists:       extractLists(fragDoc),
		Tables:      extractTables(fragDoc),
		Stats: webscraper.Stats{
			Confidence:     round2(chosen.confidence),
			ParagraphCount: len(chosen.paragraphs),
			HasMedia:       media.HeroImage != nil || len(media.Videos) > 0,
			HasLinks:       len(links) > 0,
		},
	}

	return &webscraper.Content{
		Title:   pageTitle,
		BaseURL: pageURL,
		Domain:  domainOf(base),
		Meta:    meta,
		Article: article,
		Context: buildContext(contentDoc, base, links, cands, p.cfg),
	}, nil
}

// selectPick applies the comparison policy between the heuristic winner and
// the alternate engine's result. The heuristic is primary; the alternate
// wins only when it clears the minimum-words floor and either the heuristic
// confidence sits under the gate or the alternate found far more paragraphs.
func (p *Parser) selectPick(selected *Candidate, fallback bool, altName string, alt *webscraper.ExtractResult) pick {
	var heur *pick
	if selected != nil {
		text := strings.Join(selected.Paragraphs, "\n\n")
		if text == "" {
			text = selected.Text
		}
		source := webscraper.SourceHeuristic
		if fallback {
			source = webscraper.SourceFallback
		}
		heur = &pick{
			source:      source,
			title:       selected.Heading,
			paragraphs:  selected.Paragraphs,
			text:        text,
			html:        selected.HTML,
			linkDensity: selected.LinkDensity,
		}
		heur.confidence = p.scorer.Confidence(len(heur.paragraphs), webscraper.CountWords(text), heur.linkDensity)
	}

	var altPick *pick
	if alt != nil {
		fragDoc := parseFragment(alt.ContentHTML)
		paragraphs := fragmentParagraphs(fragDoc, true)
		text := strings.Join(paragraphs, "\n\n")
		if text == "" {
			text = webscraper.CleanText(alt.Text)
		}
		if webscraper.CountWords(text) >= p.cfg.AlternateMinWords {
			density := linkDensityOf(fragDoc)
			altPick = &pick{
				source:      altName,
				title:       webscraper.CleanText(alt.Title),
				paragraphs:  paragraphs,
				text:        text,
				html:        alt.ContentHTML,
				linkDensity: density,
			}
			altPick.confidence = p.scorer.Confidence(len(paragraphs), webscraper.CountWords(text), density)
		}
	}

	switch {
	case heur == nil && altPick == nil:
		return pick{source: webscraper.SourceNone}
	case heur == nil:
		return *altPick
	case altPick == nil:
		return *heur
	case heur.confidence < p.cfg.AlternateConfidenceGate || len(altPick.paragraphs) > 2*len(heur.paragraphs):
		return *altPick
	default:
		return *heur
	}
}

func domainOf(base *url.URL) string {
	if base == nil {
		return ""
	}
	return base.Host
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptyLinksIfNil(links []webscraper.Link) []webscraper.Link {
	if links == nil {
		return []webscraper.Link{}
	}
	return links
}
