package model

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/bidi"
)

// FontWeight represents the weight of a font
type FontWeight int

const (
	WeightNormal FontWeight = iota
	WeightBold
)

// String returns a string representation of the font weight
func (w FontWeight) String() string {
	if w == WeightBold {
		return "bold"
	}
	return "normal"
}

// FontStyle represents the slant style of a font
type FontStyle int

const (
	StyleUpright FontStyle = iota
	StyleItalic
)

// String returns a string representation of the font style
func (s FontStyle) String() string {
	if s == StyleItalic {
		return "italic"
	}
	return "upright"
}

// Color represents an RGB color
type Color struct {
	R, G, B uint8
}

// GlyphRun is one contiguous positioned span of extracted text with a single
// font and style, as produced by the external page decoder. Coordinates use
// the engine convention: top-left origin, Y increasing downward, X is the
// left edge of the run. GlyphRun values are never mutated after
// normalization; every later stage produces new derived records.
type GlyphRun struct {
	Text       string
	X, Y       float64
	Width      float64
	Height     float64
	FontSize   float64
	FontFamily string
	FontWeight FontWeight
	FontStyle  FontStyle
	Color      Color
	Rotation   float64 // degrees
	BaselineY  float64
}

// Rect returns the bounding rectangle of the run
func (g GlyphRun) Rect() Rect {
	return Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
}

// Right returns the right edge X coordinate of the run
func (g GlyphRun) Right() float64 {
	return g.X + g.Width
}

// IsRotated returns true if the run is rotated away from horizontal
func (g GlyphRun) IsRotated() bool {
	rot := math.Mod(math.Abs(g.Rotation), 360)
	return rot > 0.5 && rot < 359.5
}

// SameStyle reports whether two runs share font family, size, weight, style
// and color, and can therefore be merged into a single styled text run.
func (g GlyphRun) SameStyle(other GlyphRun) bool {
	return g.FontFamily == other.FontFamily &&
		math.Abs(g.FontSize-other.FontSize) < 0.1 &&
		g.FontWeight == other.FontWeight &&
		g.FontStyle == other.FontStyle &&
		g.Color == other.Color
}

// VisibleCharCount returns the number of non-space runes in the run's text
func (g GlyphRun) VisibleCharCount() int {
	count := 0
	for _, r := range g.Text {
		if r != ' ' && r != '\t' {
			count++
		}
	}
	return count
}

// TextRun is a merged styled run of text within a line: adjacent glyph runs
// with identical style whose boundaries were classified as Join or Space are
// coalesced into one TextRun with the space characters inserted.
type TextRun struct {
	Text       string
	Rect       Rect
	FontSize   float64
	FontFamily string
	FontWeight FontWeight
	FontStyle  FontStyle
	Color      Color
}

// Obstacle is an externally supplied bounding box (image or vector graphic)
// that blocks text-flow continuity. Hard obstacles make an overlapping
// region non-flowable; soft obstacles only contribute proximity information.
type Obstacle struct {
	Rect Rect
	Hard bool
}

// Direction represents the writing direction of text.
type Direction int

const (
	// LTR (Left-to-Right) for Latin, Cyrillic, etc.
	LTR Direction = iota
	// RTL (Right-to-Left) for Arabic, Hebrew, etc.
	RTL
	// Neutral for numbers, punctuation, etc.
	Neutral
)

// String returns a string representation of the direction ("LTR", "RTL", or "Neutral").
func (d Direction) String() string {
	switch d {
	case LTR:
		return "LTR"
	case RTL:
		return "RTL"
	case Neutral:
		return "Neutral"
	default:
		return "Unknown"
	}
}

// DetectDirection analyzes a string and returns its dominant text direction
// based on Unicode bidi character classes. It counts strong directional
// characters and returns the direction with the higher count, or Neutral if
// no strong directional characters are present.
func DetectDirection(text string) Direction {
	if text == "" {
		return Neutral
	}

	ltrCount := 0
	rtlCount := 0

	s := text
	for len(s) > 0 {
		props, size := bidi.LookupString(s)
		if size == 0 {
			break
		}
		switch props.Class() {
		case bidi.L:
			ltrCount++
		case bidi.R, bidi.AL:
			rtlCount++
		}
		s = s[size:]
	}

	if ltrCount == 0 && rtlCount == 0 {
		return Neutral
	}
	if rtlCount > ltrCount {
		return RTL
	}
	return LTR
}

// RunsBounds returns the union rectangle of a slice of glyph runs.
// Returns the zero Rect for an empty slice.
func RunsBounds(runs []GlyphRun) Rect {
	if len(runs) == 0 {
		return Rect{}
	}
	bounds := runs[0].Rect()
	for _, r := range runs[1:] {
		bounds = bounds.Union(r.Rect())
	}
	return bounds
}

// IsWhitespaceOnly reports whether a string contains no visible characters
func IsWhitespaceOnly(s string) bool {
	return strings.TrimSpace(s) == ""
}
