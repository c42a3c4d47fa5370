package stats

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/reflow/fontmetrics"
	"github.com/tsawler/reflow/model"
)

// Fallbacks substituted when a page provides no evidence for a statistic.
const (
	// FallbackFontFamily is reported as the dominant family on pages with
	// no usable font information
	FallbackFontFamily = "Helvetica"

	// FallbackFontSize is reported as the dominant size on pages with no
	// usable font information
	FallbackFontSize = 12.0
)

// Distribution summarizes one gap population with robust statistics
type Distribution struct {
	Median float64
	P25    float64
	P75    float64
	Count  int
}

// GapStatistics aggregates the page's horizontal and vertical gap
// populations. The character-gap and word-gap bands deliberately overlap: a
// normalized gap in (0.25, 0.8) counts in both populations. The overlap is
// inherited calibration behavior; resolving it is a candidate for a future
// recalibration pass, not something to change silently.
type GapStatistics struct {
	// CharGaps are horizontal gaps below 0.8 of the pair's average font size
	CharGaps Distribution

	// WordGaps are horizontal gaps above 0.25 of the pair's average font size
	WordGaps Distribution

	// LineGaps are vertical deltas between consecutive lines within a
	// paragraph
	LineGaps Distribution

	// ParagraphGaps are vertical deltas larger than 1.5x the line height
	ParagraphGaps Distribution
}

// FontStatistics aggregates the page's font usage
type FontStatistics struct {
	// SizeHistogram counts runs per rounded font size
	SizeHistogram map[int]int

	// FamilyHistogram counts runs per font family
	FamilyHistogram map[string]int

	// DominantSize is the histogram mode of rounded sizes
	DominantSize float64

	// DominantFamily is the histogram mode of family names
	DominantFamily string

	// SizeVariance is the variance of raw font sizes
	SizeVariance float64

	// ExpectedSpaceWidth is the predicted width of a space character in the
	// dominant font at the dominant size, when a resolver is available
	ExpectedSpaceWidth float64
}

// XCluster is a cluster of x positions shared by multiple lines
type XCluster struct {
	Center float64
	Count  int
}

// LayoutStatistics aggregates the page's margin and alignment structure
type LayoutStatistics struct {
	// MedianLeftMargin and MedianRightMargin are per-line extents
	MedianLeftMargin  float64
	MedianRightMargin float64

	// XClusters are left-edge positions shared by at least two lines,
	// candidates for column bands and indentation stops
	XClusters []XCluster

	// IndentationLevels are cluster centers expressed relative to the
	// median left margin, ascending
	IndentationLevels []float64
}

// DocumentStatistics is the page-level calibration context consumed by
// every later stage. It is computed once per page from all non-empty glyph
// runs and read-only afterwards.
type DocumentStatistics struct {
	Gaps   GapStatistics
	Fonts  FontStatistics
	Layout LayoutStatistics

	MedianHeight   float64
	MedianFontSize float64

	PageWidth  float64
	PageHeight float64

	// TextDensity is the fraction of the page area covered by glyph runs
	TextDensity float64

	// AverageWordsPerLine estimates words per line from word-sized gaps
	AverageWordsPerLine float64
}

// Config holds the gap-classification bands
type Config struct {
	// CharGapMax is the normalized gap below which a gap counts as a
	// character gap (default: 0.8)
	CharGapMax float64

	// WordGapMin is the normalized gap above which a gap counts as a word
	// gap (default: 0.25; overlaps CharGapMax intentionally)
	WordGapMin float64

	// ParagraphGapRatio is the multiple of line height above which a
	// vertical delta counts as a paragraph gap (default: 1.5)
	ParagraphGapRatio float64

	// XClusterTolerance is the merge distance for x-position clustering
	// (default: 5 units)
	XClusterTolerance float64
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		CharGapMax:        0.8,
		WordGapMin:        0.25,
		ParagraphGapRatio: 1.5,
		XClusterTolerance: 5.0,
	}
}

// Analyzer computes page-level aggregate distributions
type Analyzer struct {
	config   Config
	resolver fontmetrics.Resolver
}

// NewAnalyzer creates an analyzer with default configuration. The resolver
// is optional and only enriches the font statistics.
func NewAnalyzer(resolver fontmetrics.Resolver) *Analyzer {
	return &Analyzer{config: DefaultConfig(), resolver: resolver}
}

// NewAnalyzerWithConfig creates an analyzer with custom configuration
func NewAnalyzerWithConfig(resolver fontmetrics.Resolver, config Config) *Analyzer {
	return &Analyzer{config: config, resolver: resolver}
}

// Analyze computes page statistics from normalized glyph runs and a
// pre-grouped line set (each inner slice one line, items in any order).
// Pass nil lines to let the analyzer bootstrap a coarse grouping.
// Empty input yields zero-valued distributions and fallback dominants; it
// never fails.
func (a *Analyzer) Analyze(runs []model.GlyphRun, lines [][]model.GlyphRun, pageWidth, pageHeight float64) DocumentStatistics {
	stats := DocumentStatistics{
		PageWidth:  pageWidth,
		PageHeight: pageHeight,
	}
	stats.Fonts = a.fontStatistics(runs)

	if len(runs) == 0 {
		return stats
	}

	if lines == nil {
		lines = CoarseLines(runs)
	}

	stats.Gaps, stats.AverageWordsPerLine = a.gapStatistics(lines)
	stats.Layout = a.layoutStatistics(lines)

	heights := make([]float64, 0, len(runs))
	sizes := make([]float64, 0, len(runs))
	area := 0.0
	for _, r := range runs {
		heights = append(heights, r.Height)
		sizes = append(sizes, r.FontSize)
		area += r.Width * r.Height
	}
	sort.Float64s(heights)
	sort.Float64s(sizes)
	stats.MedianHeight = median(heights)
	stats.MedianFontSize = median(sizes)

	if pageWidth > 0 && pageHeight > 0 {
		stats.TextDensity = area / (pageWidth * pageHeight)
	}

	return stats
}

// CoarseLines groups runs into lines with a simple vertical tolerance pass,
// suitable for bootstrapping statistics before the real line grouper runs.
func CoarseLines(runs []model.GlyphRun) [][]model.GlyphRun {
	if len(runs) == 0 {
		return nil
	}

	sorted := make([]model.GlyphRun, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines [][]model.GlyphRun
	current := []model.GlyphRun{sorted[0]}
	for _, run := range sorted[1:] {
		tolerance := math.Max(2.5, current[0].Height*0.5)
		if math.Abs(run.Y-current[0].Y) <= tolerance {
			current = append(current, run)
		} else {
			lines = append(lines, current)
			current = []model.GlyphRun{run}
		}
	}
	return append(lines, current)
}

// gapStatistics classifies horizontal gaps within lines and vertical deltas
// between lines.
func (a *Analyzer) gapStatistics(lines [][]model.GlyphRun) (GapStatistics, float64) {
	var charGaps, wordGaps, lineGaps, paraGaps []float64
	totalWords := 0

	for _, line := range lines {
		items := make([]model.GlyphRun, len(line))
		copy(items, line)
		sort.SliceStable(items, func(i, j int) bool { return items[i].X < items[j].X })

		words := 1
		for i := 1; i < len(items); i++ {
			gap := items[i].X - items[i-1].Right()
			if gap <= 0 {
				continue
			}
			avgSize := (items[i].FontSize + items[i-1].FontSize) / 2
			if avgSize <= 0 {
				continue
			}
			normalized := gap / avgSize

			// Overlapping bands: a mid-sized gap lands in both populations
			if normalized < a.config.CharGapMax {
				charGaps = append(charGaps, normalized)
			}
			if normalized > a.config.WordGapMin {
				wordGaps = append(wordGaps, normalized)
				words++
			}
		}
		if len(items) > 0 {
			totalWords += words
		}
	}

	// Vertical deltas between consecutive line tops
	for i := 1; i < len(lines); i++ {
		prev := model.RunsBounds(lines[i-1])
		cur := model.RunsBounds(lines[i])
		delta := cur.Top() - prev.Top()
		if delta <= 0 {
			continue
		}
		lineHeight := math.Max(prev.Height, cur.Height)
		if lineHeight > 0 && delta > lineHeight*a.config.ParagraphGapRatio {
			paraGaps = append(paraGaps, delta)
		} else {
			lineGaps = append(lineGaps, delta)
		}
	}

	stats := GapStatistics{
		CharGaps:      distribution(charGaps),
		WordGaps:      distribution(wordGaps),
		LineGaps:      distribution(lineGaps),
		ParagraphGaps: distribution(paraGaps),
	}

	avgWords := 0.0
	if len(lines) > 0 {
		avgWords = float64(totalWords) / float64(len(lines))
	}
	return stats, avgWords
}

// fontStatistics builds the size and family histograms
func (a *Analyzer) fontStatistics(runs []model.GlyphRun) FontStatistics {
	stats := FontStatistics{
		SizeHistogram:   make(map[int]int),
		FamilyHistogram: make(map[string]int),
		DominantSize:    FallbackFontSize,
		DominantFamily:  FallbackFontFamily,
	}

	sizes := make([]float64, 0, len(runs))
	for _, r := range runs {
		if r.FontSize > 0 {
			stats.SizeHistogram[int(math.Round(r.FontSize))]++
			sizes = append(sizes, r.FontSize)
		}
		if r.FontFamily != "" {
			stats.FamilyHistogram[r.FontFamily]++
		}
	}

	if best, ok := intMode(stats.SizeHistogram); ok {
		stats.DominantSize = float64(best)
	}
	if best, ok := stringMode(stats.FamilyHistogram); ok {
		stats.DominantFamily = best
	}
	stats.SizeVariance = variance(sizes)

	if a.resolver != nil {
		m, _ := a.resolver.ResolveByName(stats.DominantFamily)
		stats.ExpectedSpaceWidth = a.resolver.EstimateCharWidth(' ', m, stats.DominantSize)
	}

	return stats
}

// layoutStatistics computes margins and x-position clusters
func (a *Analyzer) layoutStatistics(lines [][]model.GlyphRun) LayoutStatistics {
	stats := LayoutStatistics{}

	lefts := make([]float64, 0, len(lines))
	rights := make([]float64, 0, len(lines))
	for _, line := range lines {
		bounds := model.RunsBounds(line)
		if bounds.IsEmpty() {
			continue
		}
		lefts = append(lefts, bounds.Left())
		rights = append(rights, bounds.Right())
	}
	if len(lefts) == 0 {
		return stats
	}

	sortedLefts := append([]float64(nil), lefts...)
	sort.Float64s(sortedLefts)
	sortedRights := append([]float64(nil), rights...)
	sort.Float64s(sortedRights)
	stats.MedianLeftMargin = median(sortedLefts)
	stats.MedianRightMargin = median(sortedRights)

	stats.XClusters = clusterPositions(sortedLefts, a.config.XClusterTolerance)
	for _, c := range stats.XClusters {
		stats.IndentationLevels = append(stats.IndentationLevels, c.Center-stats.MedianLeftMargin)
	}
	sort.Float64s(stats.IndentationLevels)

	return stats
}

// clusterPositions merges sorted 1-D points within tolerance of the running
// cluster mean and keeps clusters with at least two members.
func clusterPositions(sorted []float64, tolerance float64) []XCluster {
	var clusters []XCluster
	var members []float64

	flush := func() {
		if len(members) >= 2 {
			sum := 0.0
			for _, v := range members {
				sum += v
			}
			clusters = append(clusters, XCluster{
				Center: sum / float64(len(members)),
				Count:  len(members),
			})
		}
		members = members[:0]
	}

	for _, v := range sorted {
		if len(members) > 0 {
			mean := 0.0
			for _, m := range members {
				mean += m
			}
			mean /= float64(len(members))
			if v-mean > tolerance {
				flush()
			}
		}
		members = append(members, v)
	}
	flush()

	return clusters
}

// distribution summarizes values with median and quartiles; values need not
// be pre-sorted. Empty input yields the zero Distribution.
func distribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return Distribution{
		Median: median(sorted),
		P25:    sorted[int(0.25*float64(len(sorted)-1))],
		P75:    sorted[int(0.75*float64(len(sorted)-1))],
		Count:  len(sorted),
	}
}

// median returns the middle value of a sorted slice, 0 when empty
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// intMode returns the most frequent key of an integer histogram. Ties are
// broken toward the smaller key so results are deterministic.
func intMode(hist map[int]int) (int, bool) {
	best, bestCount := 0, 0
	for k, count := range hist {
		if count > bestCount || (count == bestCount && k < best) {
			best, bestCount = k, count
		}
	}
	return best, bestCount > 0
}

// stringMode returns the most frequent key of a string histogram. Ties are
// broken lexicographically.
func stringMode(hist map[string]int) (string, bool) {
	best, bestCount := "", 0
	for k, count := range hist {
		if count > bestCount || (count == bestCount && k < best) {
			best, bestCount = k, count
		}
	}
	return best, bestCount > 0
}

// variance returns the population variance, 0 for fewer than two values
func variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}

// WordCount is a cheap helper for words-per-line diagnostics on assembled
// text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
