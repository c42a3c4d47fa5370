// Package stats computes page-level aggregate distributions (gap
// populations, font histograms, margin and indentation structure) that the
// rest of the engine consumes as calibration context.
//
// Statistics are computed once per page over all non-empty glyph runs; every
// distributional field is derived via median/percentile over sorted copies
// and the source runs are never mutated. All reductions treat empty input
// gracefully: medians and variances default to 0, dominant values default to
// fixed fallbacks, and no input ever raises an error.
//
// Note the deliberately overlapping gap bands: a horizontal gap between 0.25
// and 0.8 of the pair's average font size is counted as both a character gap
// and a word gap, preserving the calibration behavior this engine was tuned
// against.
package stats
