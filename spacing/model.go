package spacing

import (
	"math"
	"sort"

	"github.com/tsawler/reflow/fontmetrics"
	"github.com/tsawler/reflow/model"
)

// LineGeometryModel holds the per-line calibration used for word-break
// decisions: an estimated character width and the gap-by-char value above
// which a boundary is treated as a word space rather than kerning.
//
// Models are derived per line and never persisted across lines, because font
// and size context changes between lines.
type LineGeometryModel struct {
	EstimatedCharWidth       float64
	WordBreakThresholdByChar float64
}

// Config holds the calibration constants for line-geometry estimation and
// boundary classification. Constants were tuned empirically against mixed
// word-level and character-level decoder output; alternate profiles (for
// example per-script) can be supplied without code changes.
type Config struct {
	// FallbackThresholdByChar is used when a line provides no gap evidence
	// (default: 0.95)
	FallbackThresholdByChar float64

	// MinThresholdByChar and MaxThresholdByChar clamp every derived
	// threshold to representable bounds (defaults: 0.2 and 1.6)
	MinThresholdByChar float64
	MaxThresholdByChar float64

	// CharWidthMinRatio and CharWidthMaxRatio clamp per-item char-width
	// candidates as fractions of the font size (defaults: 0.25 and 1.2)
	CharWidthMinRatio float64
	CharWidthMaxRatio float64

	// SingleGapBreakMin is the smallest single normalized gap treated as a
	// deliberate break rather than kerning (default: 0.18)
	SingleGapBreakMin float64

	// WordTokenizedP25 is the 25th-percentile gap above which a line is
	// considered already word-tokenized (default: 0.32)
	WordTokenizedP25 float64

	// ClusterMinSeparation and ClusterMinRatio decide whether the two gap
	// clusters found by k-means are clearly separated (defaults: 0.12, 1.5)
	ClusterMinSeparation float64
	ClusterMinRatio      float64

	// KMeansIterations bounds the 1-D k-means refinement (default: 12)
	KMeansIterations int

	// LargeMedianGap is the median normalized gap above which the quantile
	// fallback trusts the median instead of the conservative p90 bound
	// (default: 0.35)
	LargeMedianGap float64

	// OverlapTolerance is the negative-gap tolerance, as a fraction of the
	// pair's average font size, treated as zero (default: 0.25)
	OverlapTolerance float64
}

// DefaultConfig returns the calibration used for Latin-script documents
func DefaultConfig() Config {
	return Config{
		FallbackThresholdByChar: 0.95,
		MinThresholdByChar:      0.2,
		MaxThresholdByChar:      1.6,
		CharWidthMinRatio:       0.25,
		CharWidthMaxRatio:       1.2,
		SingleGapBreakMin:       0.18,
		WordTokenizedP25:        0.32,
		ClusterMinSeparation:    0.12,
		ClusterMinRatio:         1.5,
		KMeansIterations:        12,
		LargeMedianGap:          0.35,
		OverlapTolerance:        0.25,
	}
}

// ModelBuilder derives LineGeometryModels from runs of glyphs being joined
// into one line. The resolver is optional; without it char widths fall back
// to measured width per visible character.
type ModelBuilder struct {
	config   Config
	resolver fontmetrics.Resolver
}

// NewModelBuilder creates a model builder with default configuration
func NewModelBuilder(resolver fontmetrics.Resolver) *ModelBuilder {
	return &ModelBuilder{config: DefaultConfig(), resolver: resolver}
}

// NewModelBuilderWithConfig creates a model builder with custom configuration
func NewModelBuilderWithConfig(resolver fontmetrics.Resolver, config Config) *ModelBuilder {
	return &ModelBuilder{config: config, resolver: resolver}
}

// Config returns the builder's calibration constants
func (b *ModelBuilder) Config() Config {
	return b.config
}

// Build estimates the character width and word-break threshold for one line
// of glyph runs. Items must already be sorted left to right. Degenerate
// input never fails: every statistic has a documented fallback.
func (b *ModelBuilder) Build(items []model.GlyphRun) LineGeometryModel {
	charWidth := b.estimateCharWidth(items)

	gaps := b.normalizedGaps(items, charWidth)
	threshold := b.thresholdFromGaps(gaps)

	return LineGeometryModel{
		EstimatedCharWidth:       charWidth,
		WordBreakThresholdByChar: threshold,
	}
}

// estimateCharWidth returns the median per-item character width candidate.
// Candidates prefer resolver-predicted advances for the item's style and
// fall back to measured width per visible character, clamped to a plausible
// fraction of the font size.
func (b *ModelBuilder) estimateCharWidth(items []model.GlyphRun) float64 {
	candidates := make([]float64, 0, len(items))
	fontSize := 0.0

	for _, item := range items {
		if item.FontSize > fontSize {
			fontSize = item.FontSize
		}

		w := b.predictedCharWidth(item)
		if w <= 0 {
			if n := item.VisibleCharCount(); n > 0 && item.Width > 0 {
				w = item.Width / float64(n)
			}
		}
		if w <= 0 {
			continue
		}

		if item.FontSize > 0 {
			lo := b.config.CharWidthMinRatio * item.FontSize
			hi := b.config.CharWidthMaxRatio * item.FontSize
			w = clamp(w, lo, hi)
		}
		candidates = append(candidates, w)
	}

	if len(candidates) == 0 {
		if fontSize <= 0 {
			fontSize = 12
		}
		return fontmetrics.DefaultCharWidthRatio * fontSize
	}

	sort.Float64s(candidates)
	return median(candidates)
}

// predictedCharWidth asks the resolver for the average advance across the
// item's visible runes, keyed by the item's family and rounded size.
func (b *ModelBuilder) predictedCharWidth(item model.GlyphRun) float64 {
	if b.resolver == nil || item.FontSize <= 0 {
		return 0
	}

	m, _ := b.resolver.ResolveByName(item.FontFamily)
	size := math.Round(item.FontSize)

	total := 0.0
	count := 0
	for _, r := range item.Text {
		if r == ' ' || r == '\t' {
			continue
		}
		total += b.resolver.EstimateCharWidth(r, m, size)
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// normalizedGaps computes positive inter-item gaps divided by charWidth
func (b *ModelBuilder) normalizedGaps(items []model.GlyphRun, charWidth float64) []float64 {
	if len(items) < 2 || charWidth <= 0 {
		return nil
	}

	gaps := make([]float64, 0, len(items)-1)
	for i := 1; i < len(items); i++ {
		gap := items[i].X - items[i-1].Right()
		if gap > 0 {
			gaps = append(gaps, gap/charWidth)
		}
	}
	return gaps
}

// thresholdFromGaps derives the word-break threshold from the distribution
// of normalized gaps observed on the line.
func (b *ModelBuilder) thresholdFromGaps(gaps []float64) float64 {
	cfg := b.config

	switch len(gaps) {
	case 0:
		return cfg.FallbackThresholdByChar
	case 1:
		g := gaps[0]
		if g >= cfg.SingleGapBreakMin {
			// A lone visible gap of this size is a deliberate break; place
			// the threshold just under it.
			return clamp(g*0.85, cfg.MinThresholdByChar, cfg.FallbackThresholdByChar)
		}
		// Treat a lone tiny gap conservatively as kerning
		return clamp(g*1.25, cfg.FallbackThresholdByChar, cfg.MaxThresholdByChar)
	}

	sorted := make([]float64, len(gaps))
	copy(sorted, gaps)
	sort.Float64s(sorted)

	p25 := percentile(sorted, 0.25)
	p50 := percentile(sorted, 0.50)
	p75 := percentile(sorted, 0.75)
	p90 := percentile(sorted, 0.90)

	if p25 >= cfg.WordTokenizedP25 {
		// Even the smallest quartile of gaps is word-sized: the line is
		// already word-tokenized.
		return clamp(p25*0.85, cfg.MinThresholdByChar, cfg.MaxThresholdByChar)
	}

	small, large := kmeans2(sorted, cfg.KMeansIterations)

	separated := large-small >= cfg.ClusterMinSeparation &&
		(small <= 0 || large/small >= cfg.ClusterMinRatio)

	if !separated {
		// Unimodal gap distribution. Trust the median when it is already
		// word-sized, otherwise sit above p90 to avoid intra-word splits.
		if p50 >= cfg.LargeMedianGap {
			return clamp(p50*0.8, cfg.MinThresholdByChar, cfg.MaxThresholdByChar)
		}
		return clamp(math.Max(p90*1.2, cfg.FallbackThresholdByChar),
			cfg.MinThresholdByChar, cfg.MaxThresholdByChar)
	}

	// Bimodal: split between the kerning cluster and the word-gap cluster,
	// but never below a large fraction of observed real gaps.
	threshold := (small + large) / 2
	if guard := 0.9 * p75; threshold < guard {
		threshold = guard
	}
	return clamp(threshold, cfg.MinThresholdByChar, cfg.MaxThresholdByChar)
}

// kmeans2 runs a bounded 1-D 2-means over sorted values, seeding the
// centroids at the min and max. Returns the small and large centroids.
func kmeans2(sorted []float64, iterations int) (small, large float64) {
	small = sorted[0]
	large = sorted[len(sorted)-1]

	for iter := 0; iter < iterations; iter++ {
		sumSmall, nSmall := 0.0, 0
		sumLarge, nLarge := 0.0, 0

		for _, v := range sorted {
			if math.Abs(v-small) <= math.Abs(v-large) {
				sumSmall += v
				nSmall++
			} else {
				sumLarge += v
				nLarge++
			}
		}

		newSmall, newLarge := small, large
		if nSmall > 0 {
			newSmall = sumSmall / float64(nSmall)
		}
		if nLarge > 0 {
			newLarge = sumLarge / float64(nLarge)
		}

		if newSmall == small && newLarge == large {
			break
		}
		small, large = newSmall, newLarge
	}

	return small, large
}

// percentile returns the value at fraction p of a sorted slice
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}

// median returns the middle value of a sorted slice
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

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
