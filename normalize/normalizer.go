// Package normalize cleans and canonicalizes raw glyph runs from the external
// page decoder into the uniform representation the rest of the engine expects.
package normalize

import (
	"math"

	"github.com/tsawler/reflow/model"
)

// Config holds configuration for glyph-run normalization
type Config struct {
	// OriginTopLeft indicates the decoder already uses a top-left origin
	// with Y increasing downward. When false, Y coordinates are flipped
	// using PageHeight (default: true)
	OriginTopLeft bool

	// PageHeight is the page height in page units, required to flip Y
	// coordinates when OriginTopLeft is false
	PageHeight float64

	// SwapRotatedExtents controls whether width and height are swapped for
	// runs rotated 90 or 270 degrees. Decoders that pre-swap extents should
	// disable this (default: true)
	SwapRotatedExtents bool

	// RotationTolerance is the tolerance in degrees when matching the 90/270
	// rotations (default: 1.0)
	RotationTolerance float64
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		OriginTopLeft:      true,
		SwapRotatedExtents: true,
		RotationTolerance:  1.0,
	}
}

// Normalizer canonicalizes decoder output before analysis
type Normalizer struct {
	config Config
}

// New creates a normalizer with default configuration
func New() *Normalizer {
	return &Normalizer{config: DefaultConfig()}
}

// NewWithConfig creates a normalizer with custom configuration
func NewWithConfig(config Config) *Normalizer {
	return &Normalizer{config: config}
}

// Normalize filters and canonicalizes raw glyph runs. Malformed runs (empty
// or whitespace-only text, non-finite coordinates, negative dimensions) are
// silently dropped; they never surface as errors. The input slice is not
// modified.
func (n *Normalizer) Normalize(runs []model.GlyphRun) []model.GlyphRun {
	if len(runs) == 0 {
		return nil
	}

	out := make([]model.GlyphRun, 0, len(runs))
	for _, run := range runs {
		if !n.isWellFormed(run) {
			continue
		}

		if !n.config.OriginTopLeft {
			// Decoder Y is the distance from the page bottom; convert to
			// distance from the top so Y increases downward.
			run.Y = n.config.PageHeight - run.Y - run.Height
			if run.BaselineY != 0 {
				run.BaselineY = n.config.PageHeight - run.BaselineY
			}
		}

		if n.config.SwapRotatedExtents && n.isQuarterRotated(run.Rotation) {
			run.Width, run.Height = run.Height, run.Width
		}

		if run.BaselineY == 0 {
			run.BaselineY = run.Y + run.Height
		}

		out = append(out, run)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// isWellFormed reports whether a run survives the malformation filter
func (n *Normalizer) isWellFormed(run model.GlyphRun) bool {
	if model.IsWhitespaceOnly(run.Text) {
		return false
	}
	for _, v := range []float64{run.X, run.Y, run.Width, run.Height, run.FontSize} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	if run.Width < 0 || run.Height < 0 || run.FontSize < 0 {
		return false
	}
	return true
}

// isQuarterRotated reports whether rotation is within tolerance of 90 or 270
func (n *Normalizer) isQuarterRotated(rotation float64) bool {
	rot := math.Mod(math.Abs(rotation), 360)
	tol := n.config.RotationTolerance
	return math.Abs(rot-90) <= tol || math.Abs(rot-270) <= tol
}
