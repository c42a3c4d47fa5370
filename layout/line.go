// Package layout groups normalized glyph runs into lines, paragraphs and
// flow regions, and detects secondary structure such as column bands.
package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/reflow/fontmetrics"
	"github.com/tsawler/reflow/model"
	"github.com/tsawler/reflow/spacing"
)

// Line represents a single reconstructed line of text
type Line struct {
	// Items are the glyph runs on this line, sorted left to right
	Items []model.GlyphRun

	// MergedRuns coalesce adjacent same-style items whose boundaries were
	// classified Join or Space into single styled runs
	MergedRuns []model.TextRun

	// Text is the assembled text content of the line
	Text string

	// Rect is the bounding rectangle of the line
	Rect model.Rect

	// MinX and MaxX are the horizontal extents
	MinX, MaxX float64

	// AvgFontSize is the average font size of items on this line
	AvgFontSize float64

	// DominantFont is the most frequent font family on this line
	DominantFont string

	// HasRotation is true if any item on the line is rotated
	HasRotation bool

	// Baseline is the Y coordinate of the dominant baseline
	Baseline float64

	// Index is the line's position on the page (0-based, top to bottom)
	Index int

	// SpacingBefore is the vertical space from the previous line
	SpacingBefore float64

	// SpacingAfter is the vertical space to the next line
	SpacingAfter float64

	// Geometry is the calibration model derived for this line
	Geometry spacing.LineGeometryModel
}

// LineConfig holds configuration for line grouping
type LineConfig struct {
	// YTolerance is the absolute vertical tolerance for clustering items
	// into one line (default: 2.5 units)
	YTolerance float64

	// AdaptiveTolerance widens YTolerance up to half the item height for
	// large type (default: true)
	AdaptiveTolerance bool
}

// DefaultLineConfig returns sensible default configuration
func DefaultLineConfig() LineConfig {
	return LineConfig{
		YTolerance:        2.5,
		AdaptiveTolerance: true,
	}
}

// LineGrouper clusters glyph runs into lines and merges their runs
type LineGrouper struct {
	config     LineConfig
	builder    *spacing.ModelBuilder
	classifier *spacing.Classifier
}

// NewLineGrouper creates a line grouper with default configuration. The
// resolver is optional and improves character-width calibration.
func NewLineGrouper(resolver fontmetrics.Resolver) *LineGrouper {
	builder := spacing.NewModelBuilder(resolver)
	return &LineGrouper{
		config:     DefaultLineConfig(),
		builder:    builder,
		classifier: spacing.NewClassifier(builder),
	}
}

// NewLineGrouperWithConfig creates a line grouper with custom configuration
func NewLineGrouperWithConfig(resolver fontmetrics.Resolver, config LineConfig, spacingConfig spacing.Config) *LineGrouper {
	builder := spacing.NewModelBuilderWithConfig(resolver, spacingConfig)
	return &LineGrouper{
		config:     config,
		builder:    builder,
		classifier: spacing.NewClassifier(builder),
	}
}

// GroupIntoLines clusters glyph runs into lines by vertical proximity,
// orders each line left to right and lines top to bottom, then assembles
// merged runs and text. The input slice is not modified. Grouping is
// idempotent: re-running it on a flat item list derived from its own output
// yields the same partition.
func (g *LineGrouper) GroupIntoLines(items []model.GlyphRun) []Line {
	if len(items) == 0 {
		return nil
	}

	sorted := make([]model.GlyphRun, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var groups [][]model.GlyphRun
	current := []model.GlyphRun{sorted[0]}

	for _, item := range sorted[1:] {
		if math.Abs(item.Y-averageY(current)) <= g.tolerance(current) {
			current = append(current, item)
		} else {
			groups = append(groups, current)
			current = []model.GlyphRun{item}
		}
	}
	groups = append(groups, current)

	lines := make([]Line, 0, len(groups))
	for i, group := range groups {
		sort.SliceStable(group, func(a, b int) bool { return group[a].X < group[b].X })
		line := g.buildLine(group)
		line.Index = i
		lines = append(lines, line)
	}

	g.calculateSpacing(lines)
	return lines
}

// tolerance returns the vertical clustering tolerance for the current group
func (g *LineGrouper) tolerance(group []model.GlyphRun) float64 {
	tol := g.config.YTolerance
	if g.config.AdaptiveTolerance {
		avgHeight := 0.0
		for _, item := range group {
			avgHeight += item.Height
		}
		avgHeight /= float64(len(group))
		if adaptive := avgHeight * 0.5; adaptive > tol {
			tol = adaptive
		}
	}
	return tol
}

// buildLine assembles one Line from left-to-right sorted items
func (g *LineGrouper) buildLine(items []model.GlyphRun) Line {
	line := Line{
		Items:    items,
		Rect:     model.RunsBounds(items),
		Geometry: g.builder.Build(items),
	}
	line.MinX = line.Rect.Left()
	line.MaxX = line.Rect.Right()

	totalSize := 0.0
	families := make(map[string]int)
	baseline := 0.0
	for _, item := range items {
		totalSize += item.FontSize
		families[item.FontFamily]++
		if item.BaselineY > baseline {
			baseline = item.BaselineY
		}
		if item.IsRotated() {
			line.HasRotation = true
		}
	}
	line.AvgFontSize = totalSize / float64(len(items))
	line.Baseline = baseline

	best := 0
	for family, count := range families {
		if count > best {
			best = count
			line.DominantFont = family
		}
	}

	line.MergedRuns, line.Text = g.mergeRuns(items, line.Geometry)
	return line
}

// mergeRuns walks adjacent pairs, classifies each boundary, and coalesces
// same-style neighbors into merged styled runs.
func (g *LineGrouper) mergeRuns(items []model.GlyphRun, geo spacing.LineGeometryModel) ([]model.TextRun, string) {
	var runs []model.TextRun
	var text strings.Builder

	current := newTextRun(items[0])
	text.WriteString(items[0].Text)

	for i := 1; i < len(items); i++ {
		prev, next := items[i-1], items[i]
		decision := g.classifier.Classify(prev, next, geo)

		separator := ""
		if decision.Type == spacing.Space {
			separator = " "
		}
		text.WriteString(separator)
		text.WriteString(next.Text)

		if decision.Type != spacing.BreakLine && prev.SameStyle(next) {
			current.Text += separator + next.Text
			current.Rect = current.Rect.Union(next.Rect())
			continue
		}

		runs = append(runs, current)
		current = newTextRun(next)
	}
	runs = append(runs, current)

	return runs, text.String()
}

// newTextRun starts a merged run from a single glyph run
func newTextRun(item model.GlyphRun) model.TextRun {
	return model.TextRun{
		Text:       item.Text,
		Rect:       item.Rect(),
		FontSize:   item.FontSize,
		FontFamily: item.FontFamily,
		FontWeight: item.FontWeight,
		FontStyle:  item.FontStyle,
		Color:      item.Color,
	}
}

// calculateSpacing fills SpacingBefore/SpacingAfter between consecutive lines
func (g *LineGrouper) calculateSpacing(lines []Line) {
	for i := 1; i < len(lines); i++ {
		gap := lines[i].Rect.Top() - lines[i-1].Rect.Bottom()
		lines[i].SpacingBefore = gap
		lines[i-1].SpacingAfter = gap
	}
}

// averageY returns the mean Y coordinate of a group
func averageY(group []model.GlyphRun) float64 {
	total := 0.0
	for _, item := range group {
		total += item.Y
	}
	return total / float64(len(group))
}

// WordCount returns an approximate word count for the line
func (line *Line) WordCount() int {
	if line == nil || line.Text == "" {
		return 0
	}
	return len(strings.Fields(line.Text))
}

// IsEmpty returns true if the line has no visible text content
func (line *Line) IsEmpty() bool {
	if line == nil {
		return true
	}
	return strings.TrimSpace(line.Text) == ""
}

// Height returns the height of the line's bounding rectangle
func (line *Line) Height() float64 {
	if line == nil {
		return 0
	}
	return line.Rect.Height
}
