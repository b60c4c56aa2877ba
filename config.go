package webscraper

// Config holds every tuning parameter for one extraction. It is passed by
// value into each run so concurrent extractions cannot interfere with each
// other's tuning. The zero value is not usable; start from DefaultConfig.
type Config struct {
	// Scanning.
	BlockTags     []string // block-level containers considered as candidates
	ExcludeTags   []string // subtrees removed before scanning
	ExcludeRoles  []string // ARIA roles removed before scanning
	NoiseKeywords []string // class/id/aria tokens that mark boilerplate
	ArticleHints  []string // tokens that veto a noise-keyword match
	MinBlockWords int      // minimum aggregated words for a candidate

	// Scoring.
	TextWeight      float64  // weight on log1p(word count)
	ParagraphWeight float64  // weight per paragraph, up to ParagraphCap
	ParagraphCap    int      // paragraphs counted toward the bonus
	HeadingBonus    float64  // bonus for a single dominant h1-h3
	ClassBonus      float64  // bonus when class/id matches PositiveKeywords
	ClassPenalty    float64  // penalty when class/id matches NegativeKeywords
	SchemaBonus     float64  // bonus for explicit article markers
	LinkPenalty     float64  // link-density penalty, scaled by log1p(words)
	PositiveKeywords []string
	NegativeKeywords []string

	// Ancestor score propagation and wrapper resolution.
	AncestorDecay       float64 // fraction of a score passed to each ancestor
	MaxPropagationDepth int     // ancestor levels the propagation may climb
	WrapperEpsilon      float64 // relative slack when descending into wrappers

	// Heuristic vs alternate selection.
	AlternateMinWords       int     // floor for the alternate result to compete
	AlternateConfidenceGate float64 // heuristic confidence below this yields

	// Body and confidence.
	WordsPerMinute       int
	ParagraphSaturation  float64 // paragraph count at half confidence
	WordSaturation       float64 // word count at half confidence
	MaxDOMPathDepth      int     // levels rendered into a candidate's path

	// Media.
	HeroMinDimension int // min width or height for an inline hero image
	GalleryLimit     int
	VideoLimit       int

	// Links and context.
	ArticleLinkLimit int
	RelatedLinkLimit int
	LinkScanLimit    int // anchors examined when collecting related links
	TopCandidates    int // candidate summaries emitted in context
}

// DefaultConfig returns the tuning used when the caller has no opinion.
// The coefficients are calibrated against the scenario suite, not derived
// from any fixed contract; override freely.
func DefaultConfig() Config {
	return Config{
		BlockTags:    []string{"article", "main", "section", "div"},
		ExcludeTags:  []string{"script", "style", "noscript", "svg", "canvas", "nav", "header", "footer", "aside", "form"},
		ExcludeRoles: []string{"navigation", "banner", "complementary", "contentinfo", "search"},
		NoiseKeywords: []string{
			"nav", "menu", "footer", "header", "subscribe", "metered", "paywall",
			"share", "social", "toolbar", "breadcrumbs", "breadcrumb", "cookie",
			"banner", "popup", "modal", "adv", "advert", "ads", "sponsor",
			"related", "recommend", "newsletter", "comment", "comments", "form-",
			"promo", "utility", "widget", "sidebar", "login", "signup", "consent",
			"gdpr", "tracking", "notification", "overlay", "player-controls",
			"gallery", "carousel", "slider", "tags", "taglist", "pagination",
		},
		ArticleHints: []string{
			"article", "story", "content", "body", "post", "entry", "main",
			"text", "read", "news", "detail",
		},
		MinBlockWords: 40,

		TextWeight:       10,
		ParagraphWeight:  4,
		ParagraphCap:     5,
		HeadingBonus:     8,
		ClassBonus:       10,
		ClassPenalty:     15,
		SchemaBonus:      12,
		LinkPenalty:      12,
		PositiveKeywords: []string{"article", "content", "story", "post", "main"},
		NegativeKeywords: []string{"sidebar", "nav", "footer", "comment", "ad", "promo", "related"},

		AncestorDecay:       0.2,
		MaxPropagationDepth: 6,
		WrapperEpsilon:      0.1,

		AlternateMinWords:       80,
		AlternateConfidenceGate: 0.5,

		WordsPerMinute:      200,
		ParagraphSaturation: 5,
		WordSaturation:      400,
		MaxDOMPathDepth:     5,

		HeroMinDimension: 300,
		GalleryLimit:     5,
		VideoLimit:       3,

		ArticleLinkLimit: 40,
		RelatedLinkLimit: 15,
		LinkScanLimit:    60,
		TopCandidates:    10,
	}
}
