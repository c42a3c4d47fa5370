// Package spacing decides where inter-glyph gaps represent word spaces.
//
// Word-break detection cannot rely on a single universal threshold: font,
// kerning and the producing renderer vary per document, and sometimes per
// line. The package therefore calibrates locally. ModelBuilder derives a
// LineGeometryModel for each line being reconstructed: an estimated
// character width (resolver-predicted advances when a font-metrics resolver
// is available, measured width per visible character otherwise) and a
// word-break threshold in gap-by-char units, computed from the line's own
// gap distribution with robust statistics: percentiles, a bounded 1-D
// 2-means split, and clamped fallbacks for degenerate lines.
//
// Classifier then judges each adjacent pair against that model through an
// ordered cascade of pure token rules (digit sequences, email-like pairs,
// initials, long words, separators, case boundaries, connector words), each
// proposing a tightened or loosened bound on the calibrated threshold.
// URL context, glyph overlap, closing punctuation and no-word-space scripts
// (Han, Kana, Hangul) short-circuit to a definite answer.
//
// All decisions are deterministic: the same pair and model always yield the
// same Decision.
package spacing
