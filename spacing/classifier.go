package spacing

import (
	"math"

	"github.com/tsawler/reflow/model"
)

// DecisionType classifies the boundary between two adjacent glyph runs
type DecisionType int

const (
	// Join merges the runs with no separator
	Join DecisionType = iota
	// Space merges the runs with one word space between them
	Space
	// BreakLine starts a new line at the boundary
	BreakLine
)

// String returns a string representation of the decision type
func (t DecisionType) String() string {
	switch t {
	case Space:
		return "space"
	case BreakLine:
		return "break_line"
	default:
		return "join"
	}
}

// Decision is the outcome for one adjacent glyph-run pair. It is produced
// once, consumed to build merged-run output, and either discarded or kept
// for diagnostics.
type Decision struct {
	Type DecisionType

	// Confidence in [0, 1]: how far the observed gap sits from the
	// effective threshold, relative to that threshold
	Confidence float64

	// GapPx is the raw horizontal gap in page units (never negative)
	GapPx float64

	// GapByChar is the gap normalized by the estimated character width
	GapByChar float64

	// ThresholdByChar is the effective threshold after rule adjustments
	ThresholdByChar float64

	// Rule names the adjustment that decided the bound, if any
	Rule string
}

// Classifier decides whether adjacent glyph runs are separated by a word
// space. Decisions are deterministic functions of the two runs and the line
// model; running the same input twice yields the same decision.
type Classifier struct {
	config  Config
	builder *ModelBuilder
	rules   []Rule
}

// NewClassifier creates a classifier sharing the builder's calibration.
// The builder doubles as the per-pair char-width estimator when a caller
// has no line model available.
func NewClassifier(builder *ModelBuilder) *Classifier {
	return &Classifier{
		config:  builder.Config(),
		builder: builder,
		rules:   defaultRules(),
	}
}

// ShouldInsertSpace reports whether a word space belongs between prev and
// next. Runs must already be sorted left to right on one line.
func (c *Classifier) ShouldInsertSpace(prev, next model.GlyphRun, lineModel LineGeometryModel) bool {
	return c.Classify(prev, next, lineModel).Type == Space
}

// Classify produces the full boundary decision for an adjacent pair.
func (c *Classifier) Classify(prev, next model.GlyphRun, lineModel LineGeometryModel) Decision {
	if c.isLineBreak(prev, next) {
		return Decision{Type: BreakLine, Confidence: 1}
	}

	avgFontSize := (prev.FontSize + next.FontSize) / 2
	if avgFontSize <= 0 {
		avgFontSize = math.Max(prev.Height, next.Height)
	}

	rawGap := next.X - prev.Right()

	// A small negative overlap is rendering noise; beyond the tolerance the
	// glyphs genuinely overlap and no break is possible.
	if rawGap < 0 {
		if rawGap < -c.config.OverlapTolerance*avgFontSize {
			return Decision{Type: Join, Confidence: 1, GapPx: rawGap}
		}
		rawGap = 0
	}

	charWidth := lineModel.EstimatedCharWidth
	base := lineModel.WordBreakThresholdByChar
	if charWidth <= 0 || base <= 0 {
		pair := c.builder.Build([]model.GlyphRun{prev, next})
		charWidth = pair.EstimatedCharWidth
		base = pair.WordBreakThresholdByChar
	}

	gapByChar := 0.0
	if charWidth > 0 {
		gapByChar = rawGap / charWidth
	}

	prevTok := boundaryTokens{full: prev.Text, token: trailingToken(prev.Text)}
	nextTok := boundaryTokens{full: next.Text, token: leadingToken(next.Text)}

	// Scripts written without word spaces never receive one
	if isCJKBoundary(prevTok, nextTok) {
		return Decision{Type: Join, Confidence: 1, GapPx: rawGap, GapByChar: gapByChar, ThresholdByChar: base, Rule: "cjk"}
	}

	// URL context short-circuits, except immediately before a URL's first
	// token when the preceding text ends in an alnum/closing-paren and the
	// gap clears a raised bound.
	if inURLContext(prevTok, nextTok) {
		if startsURL(prevTok, nextTok) && gapByChar >= base*0.9 {
			return Decision{Type: Space, Confidence: 1, GapPx: rawGap, GapByChar: gapByChar, ThresholdByChar: base * 0.9, Rule: "url-start"}
		}
		return Decision{Type: Join, Confidence: 1, GapPx: rawGap, GapByChar: gapByChar, ThresholdByChar: base, Rule: "url"}
	}

	// Never insert a space directly before closing punctuation
	if isClosingPunct(firstRune(nextTok.token)) {
		return Decision{Type: Join, Confidence: 1, GapPx: rawGap, GapByChar: gapByChar, ThresholdByChar: base, Rule: "closing-punct"}
	}

	effective, ruleName := c.foldRules(prevTok, nextTok, base)

	d := Decision{
		Type:            Join,
		GapPx:           rawGap,
		GapByChar:       gapByChar,
		ThresholdByChar: effective,
		Rule:            ruleName,
	}
	if gapByChar >= effective {
		d.Type = Space
	}
	if effective > 0 {
		d.Confidence = math.Min(1, math.Abs(gapByChar-effective)/effective)
	}
	return d
}

// foldRules evaluates the cascade in order and composes the results.
// Loosening rules propose lower thresholds and compete for the lowest one;
// tightening rules impose floors that guard against catastrophic splits
// (numeric IDs, email addresses, initials) and always bind over loosening
// proposals. The most restrictive bound that fired wins.
func (c *Classifier) foldRules(prev, next boundaryTokens, base float64) (float64, string) {
	effective := base
	floor := 0.0
	name := ""
	floorName := ""

	for _, rule := range c.rules {
		adj, ok := rule(prev, next)
		if !ok {
			continue
		}
		proposed := base * adj.Factor
		if adj.Factor < 1 {
			if proposed < effective {
				effective = proposed
				name = adj.Name
			}
		} else if proposed > floor {
			floor = proposed
			floorName = adj.Name
		}
	}

	if floor > effective {
		return floor, floorName
	}
	return math.Max(effective, 0.01), name
}

// isLineBreak reports whether the pair sits on different lines: the
// vertical offset between the runs exceeds half the larger height.
func (c *Classifier) isLineBreak(prev, next model.GlyphRun) bool {
	maxHeight := math.Max(prev.Height, next.Height)
	if maxHeight <= 0 {
		return false
	}
	return math.Abs(next.Y-prev.Y) > maxHeight*0.5
}
