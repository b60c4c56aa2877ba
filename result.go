package webscraper

import "net/url"

// Result is the complete output document for one URL: transport-level page
// information plus the extracted content.
type Result struct {
	Page    Page    `json:"page"`
	Content Content `json:"content"`
}

// Page describes the fetched page at the transport level.
type Page struct {
	URL          string            `json:"url"`
	StatusCode   int               `json:"status_code"`
	Encoding     string            `json:"encoding"`
	SizeBytes    int               `json:"size_bytes"`
	SizeReadable string            `json:"size_readable"`
	Headers      map[string]string `json:"headers"`
}

// Content holds everything derived from the document tree.
type Content struct {
	Title   string            `json:"title"`
	BaseURL string            `json:"base_url"`
	Domain  string            `json:"domain"`
	Meta    map[string]string `json:"meta"`
	Article Article           `json:"article"`
	Context Context           `json:"context"`
}

// Article is the extracted main article. Every field is always present;
// absent data is null or empty, never a missing key.
type Article struct {
	Title       string   `json:"title"`
	Subtitle    *string  `json:"subtitle"`
	Section     *string  `json:"section"`
	Authors     []string `json:"authors"`
	PublishedAt *string  `json:"published_at"`
	UpdatedAt   *string  `json:"updated_at"`
	Excerpt     string   `json:"excerpt"`
	Keywords    []string `json:"keywords"`
	Tags        []string `json:"tags"`
	Body        Body     `json:"body"`
	Media       Media    `json:"media"`
	Links       []Link   `json:"links"`
	Lists       Lists    `json:"lists"`
	Tables      []Table  `json:"tables"`
	Stats       Stats    `json:"stats"`
}

// Body source tags recorded in Body.Source.
const (
	SourceHeuristic = "heuristic" // block scoring picked the winner
	SourceFallback  = "fallback"  // no block qualified, document body used
	SourceNone      = "none"      // terminal degraded state, nothing selected
)

// Body is the article body derived from the selected subtree (or from the
// alternate extraction engine, per Source).
type Body struct {
	Text               string   `json:"text"`
	Paragraphs         []string `json:"paragraphs"`
	WordCount          int      `json:"word_count"`
	ReadingTimeMinutes float64  `json:"reading_time_minutes"`
	Source             string   `json:"source"`
	HTML               string   `json:"html"`
}

// Media summarizes images and videos found for the article.
type Media struct {
	HeroImage *string        `json:"hero_image"`
	Gallery   []GalleryImage `json:"gallery"`
	Videos    []string       `json:"videos"`
}

// GalleryImage is one image in the article gallery.
type GalleryImage struct {
	Src   string `json:"src"`
	Alt   string `json:"alt"`
	Title string `json:"title"`
}

// Link is an anchor found in the article (or, for related links, outside it).
type Link struct {
	Text       string `json:"text"`
	Href       string `json:"href"`
	IsExternal bool   `json:"is_external"`
	Title      string `json:"title"`
}

// Lists groups the article's list elements by kind.
type Lists struct {
	UL [][]string `json:"ul"`
	OL [][]string `json:"ol"`
}

// Table is a row/column grid of cell text extracted from a table element.
type Table struct {
	ID      int        `json:"id"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Stats scores the quality of the extraction.
type Stats struct {
	Confidence     float64 `json:"confidence"`
	ParagraphCount int     `json:"paragraph_count"`
	HasMedia       bool    `json:"has_media"`
	HasLinks       bool    `json:"has_links"`
}

// Context carries page-level information surrounding the article.
type Context struct {
	Headings     map[string][]string `json:"headings"`
	RelatedLinks []Link              `json:"related_links"`
	Candidates   []CandidateSummary  `json:"candidates"`
}

// DegradedContent is the terminal degraded content section: every field
// present with its empty default, confidence 0. Used when the document was
// unusable but page-level information is still worth reporting.
func DegradedContent(pageURL string) Content {
	domain := ""
	if u, err := url.Parse(pageURL); err == nil {
		domain = u.Host
	}
	headings := make(map[string][]string, 6)
	for _, level := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		headings[level] = []string{}
	}
	return Content{
		BaseURL: pageURL,
		Domain:  domain,
		Meta:    map[string]string{},
		Article: Article{
			Authors:  []string{},
			Keywords: []string{},
			Tags:     []string{},
			Body: Body{
				Paragraphs: []string{},
				Source:     SourceNone,
			},
			Media:  Media{Gallery: []GalleryImage{}, Videos: []string{}},
			Links:  []Link{},
			Lists:  Lists{UL: [][]string{}, OL: [][]string{}},
			Tables: []Table{},
		},
		Context: Context{
			Headings:     headings,
			RelatedLinks: []Link{},
			Candidates:   []CandidateSummary{},
		},
	}
}

// CandidateSummary is the diagnostic view of one content-block candidate.
type CandidateSummary struct {
	ID        string  `json:"id"`
	Heading   string  `json:"heading"`
	WordCount int     `json:"word_count"`
	Score     float64 `json:"score"`
	Path      string  `json:"dom_path"`
}
