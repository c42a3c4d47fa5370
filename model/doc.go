// Package model defines the shared value types used throughout the
// reconstruction engine: glyph runs as supplied by the external page decoder,
// merged text runs, obstacle rectangles, and the geometric primitives they
// are built on.
//
// # Coordinate convention
//
// All geometry uses a top-left origin with Y increasing downward. Decoders
// that produce bottom-left PDF coordinates must be normalized (see the
// normalize package) before their output enters the engine.
//
// # Immutability
//
// GlyphRun values are produced once by the decoder/normalizer and never
// mutated in place. Lines, regions and statistics hold value copies or
// indices, never back-pointers into mutable page state.
package model
