package model

import "math"

// Point represents a 2D point in page coordinates
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect represents a rectangle in the engine's page coordinate convention:
// origin at the top-left corner of the page, Y increasing downward.
type Rect struct {
	X      float64 // Left
	Y      float64 // Top
	Width  float64
	Height float64
}

// NewRect creates a rectangle from coordinates
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Left returns the left edge X coordinate
func (r Rect) Left() float64 {
	return r.X
}

// Right returns the right edge X coordinate
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Top returns the top edge Y coordinate
func (r Rect) Top() float64 {
	return r.Y
}

// Bottom returns the bottom edge Y coordinate
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Center returns the center point
func (r Rect) Center() Point {
	return Point{
		X: r.X + r.Width/2,
		Y: r.Y + r.Height/2,
	}
}

// Contains checks if a point is inside the rectangle
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X <= r.Right() &&
		p.Y >= r.Top() && p.Y <= r.Bottom()
}

// Intersects checks if two rectangles intersect
func (r Rect) Intersects(other Rect) bool {
	return !(r.Right() < other.Left() ||
		r.Left() > other.Right() ||
		r.Bottom() < other.Top() ||
		r.Top() > other.Bottom())
}

// Intersection returns the intersection of two rectangles
func (r Rect) Intersection(other Rect) Rect {
	if !r.Intersects(other) {
		return Rect{}
	}

	x := math.Max(r.Left(), other.Left())
	y := math.Max(r.Top(), other.Top())
	right := math.Min(r.Right(), other.Right())
	bottom := math.Min(r.Bottom(), other.Bottom())

	return Rect{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: bottom - y,
	}
}

// Union returns the union of two rectangles
func (r Rect) Union(other Rect) Rect {
	x := math.Min(r.Left(), other.Left())
	y := math.Min(r.Top(), other.Top())
	right := math.Max(r.Right(), other.Right())
	bottom := math.Max(r.Bottom(), other.Bottom())

	return Rect{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: bottom - y,
	}
}

// Area returns the area of the rectangle
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Expand expands the rectangle by a margin on all sides
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		X:      r.X - margin,
		Y:      r.Y - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// OverlapRatio calculates the overlap ratio with another rectangle
// Returns value between 0 and 1
func (r Rect) OverlapRatio(other Rect) float64 {
	if !r.Intersects(other) {
		return 0
	}

	intersection := r.Intersection(other)
	minArea := math.Min(r.Area(), other.Area())

	if minArea == 0 {
		return 0
	}

	return intersection.Area() / minArea
}

// NearestDistance returns the shortest distance between the edges of two
// rectangles, or 0 if they intersect. Used for obstacle proximity tracking.
func (r Rect) NearestDistance(other Rect) float64 {
	if r.Intersects(other) {
		return 0
	}

	dx := 0.0
	if other.Left() > r.Right() {
		dx = other.Left() - r.Right()
	} else if r.Left() > other.Right() {
		dx = r.Left() - other.Right()
	}

	dy := 0.0
	if other.Top() > r.Bottom() {
		dy = other.Top() - r.Bottom()
	} else if r.Top() > other.Bottom() {
		dy = r.Top() - other.Bottom()
	}

	return math.Sqrt(dx*dx + dy*dy)
}

// IsEmpty returns true if the rectangle has zero area
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// IsValid returns true if the rectangle has positive dimensions
func (r Rect) IsValid() bool {
	return r.Width > 0 && r.Height > 0
}
