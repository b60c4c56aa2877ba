package goquery

import (
	"math"

	"golang.org/x/net/html"

	"github.com/emqnuele/webscraper"
)

// maxClimb bounds any parent walk so pathologically nested markup cannot
// stall propagation or ancestry checks; levels beyond it are treated as an
// anomaly and skipped.
const maxClimb = 256

// Confidence combination weights: fixed shares of paragraph signal, word
// signal and inverse link density.
const (
	confParagraphShare = 0.4
	confWordShare      = 0.4
	confLinkShare      = 0.2
)

// Scorer assigns each candidate an unbounded relative score and resolves
// the winning subtree.
type Scorer struct {
	cfg webscraper.Config
}

// NewScorer creates a Scorer with the given tuning.
func NewScorer(cfg webscraper.Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes every candidate's score in place. Each candidate gets a
// base score from its own signals; a decayed fraction of that base then
// propagates to its candidate ancestors so a thin wrapper around the true
// article block is not starved of signal.
func (s *Scorer) Score(cands []*Candidate) {
	bases := make([]float64, len(cands))
	for i, c := range cands {
		bases[i] = s.base(c)
		c.Score = bases[i]
	}

	byNode := make(map[*html.Node]*Candidate, len(cands))
	for _, c := range cands {
		byNode[c.Node] = c
	}

	for i, c := range cands {
		contribution := bases[i] * s.cfg.AncestorDecay
		hops := 0
		for n, climbed := c.Node.Parent, 0; n != nil && climbed < maxClimb; n, climbed = n.Parent, climbed+1 {
			ancestor, ok := byNode[n]
			if !ok {
				continue
			}
			ancestor.Score += contribution
			contribution *= s.cfg.AncestorDecay
			if hops++; hops >= s.cfg.MaxPropagationDepth {
				break
			}
		}
	}
}

// base computes a candidate's own score: a saturating function of text
// length, a capped paragraph bonus, class/id keyword signals, a bonus for a
// single dominant heading and for explicit article markup, minus a link
// density penalty scaled with the same saturation so a fully anchor-wrapped
// block always loses to its anchor-free twin.
func (s *Scorer) base(c *Candidate) float64 {
	sat := math.Log1p(float64(c.WordCount))
	score := s.cfg.TextWeight * sat

	paras := len(c.Paragraphs)
	if paras > s.cfg.ParagraphCap {
		paras = s.cfg.ParagraphCap
	}
	score += s.cfg.ParagraphWeight * float64(paras)

	if c.headingCount == 1 {
		score += s.cfg.HeadingBonus
	}
	if c.positive {
		score += s.cfg.ClassBonus
	}
	if c.negative {
		score -= s.cfg.ClassPenalty
	}
	if c.schema {
		score += s.cfg.SchemaBonus
	}

	score -= s.cfg.LinkPenalty * c.LinkDensity * sat
	return score
}

// Resolve picks the winning candidate: the maximum score, ties broken by
// earliest document order. When the winner wraps a descendant candidate
// whose score is within WrapperEpsilon of its own, the deepest such
// descendant wins instead, so an overly broad wrapper is not selected over
// the block that actually carries the signal.
func (s *Scorer) Resolve(cands []*Candidate) *Candidate {
	if len(cands) == 0 {
		return nil
	}

	best := cands[0]
	for _, c := range cands[1:] {
		if c.Score > best.Score {
			best = c
		}
	}

	threshold := best.Score - math.Abs(best.Score)*s.cfg.WrapperEpsilon
	winner, winnerDepth := best, 0
	for _, c := range cands {
		if c == best || c.Score < threshold {
			continue
		}
		depth, ok := descendantDepth(best.Node, c.Node)
		if !ok {
			continue
		}
		switch {
		case depth > winnerDepth:
			winner, winnerDepth = c, depth
		case depth == winnerDepth && (c.Score > winner.Score ||
			(c.Score == winner.Score && c.order < winner.order)):
			winner = c
		}
	}
	return winner
}

// descendantDepth returns how many levels below ancestor the node sits, and
// whether ancestor actually contains it.
func descendantDepth(ancestor, n *html.Node) (int, bool) {
	depth := 0
	for cur := n.Parent; cur != nil && depth < maxClimb; cur = cur.Parent {
		depth++
		if cur == ancestor {
			return depth, true
		}
	}
	return 0, false
}

// Confidence normalizes extraction quality to [0,1] from the selected
// body's paragraph count, word count and link density. More paragraphs and
// words raise it with diminishing returns; link-heavy bodies lower it.
func (s *Scorer) Confidence(paragraphs, words int, linkDensity float64) float64 {
	if words <= 0 {
		return 0
	}
	if linkDensity < 0 {
		linkDensity = 0
	} else if linkDensity > 1 {
		linkDensity = 1
	}
	satP := float64(paragraphs) / (float64(paragraphs) + s.cfg.ParagraphSaturation)
	satW := float64(words) / (float64(words) + s.cfg.WordSaturation)
	c := confParagraphShare*satP + confWordShare*satW + confLinkShare*(1-linkDensity)
	return math.Min(1, math.Max(0, c))
}
