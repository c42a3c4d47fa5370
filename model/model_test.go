package model

import (
	"math"
	"testing"
)

func TestRect_Edges(t *testing.T) {
	r := NewRect(10, 20, 100, 50)

	if r.Left() != 10 {
		t.Errorf("Expected left 10, got %f", r.Left())
	}
	if r.Right() != 110 {
		t.Errorf("Expected right 110, got %f", r.Right())
	}
	if r.Top() != 20 {
		t.Errorf("Expected top 20, got %f", r.Top())
	}
	if r.Bottom() != 70 {
		t.Errorf("Expected bottom 70, got %f", r.Bottom())
	}
}

func TestRect_Center(t *testing.T) {
	r := NewRect(0, 0, 100, 50)
	c := r.Center()

	if c.X != 50 || c.Y != 25 {
		t.Errorf("Expected center (50, 25), got (%f, %f)", c.X, c.Y)
	}
}

func TestRect_Intersects(t *testing.T) {
	a := NewRect(0, 0, 50, 50)
	b := NewRect(25, 25, 50, 50)
	c := NewRect(100, 100, 10, 10)

	if !a.Intersects(b) {
		t.Error("Expected a and b to intersect")
	}
	if a.Intersects(c) {
		t.Error("Expected a and c not to intersect")
	}
}

func TestRect_Union(t *testing.T) {
	a := NewRect(0, 0, 50, 50)
	b := NewRect(100, 100, 20, 20)

	u := a.Union(b)
	if u.X != 0 || u.Y != 0 || u.Width != 120 || u.Height != 120 {
		t.Errorf("Unexpected union: %+v", u)
	}
}

func TestRect_NearestDistance(t *testing.T) {
	a := NewRect(0, 0, 10, 10)

	// Intersecting rectangles have zero distance
	if d := a.NearestDistance(NewRect(5, 5, 10, 10)); d != 0 {
		t.Errorf("Expected 0 distance for intersecting rects, got %f", d)
	}

	// Horizontally separated by 10 units
	if d := a.NearestDistance(NewRect(20, 0, 10, 10)); d != 10 {
		t.Errorf("Expected distance 10, got %f", d)
	}

	// Diagonal separation: 3 across, 4 down
	if d := a.NearestDistance(NewRect(13, 14, 10, 10)); math.Abs(d-5) > 1e-9 {
		t.Errorf("Expected distance 5, got %f", d)
	}
}

func TestRect_OverlapRatio(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(5, 0, 10, 10)

	ratio := a.OverlapRatio(b)
	if math.Abs(ratio-0.5) > 1e-9 {
		t.Errorf("Expected overlap ratio 0.5, got %f", ratio)
	}

	if a.OverlapRatio(NewRect(50, 50, 5, 5)) != 0 {
		t.Error("Expected 0 overlap for disjoint rects")
	}
}

func TestGlyphRun_Rect(t *testing.T) {
	g := GlyphRun{Text: "Hello", X: 10, Y: 20, Width: 40, Height: 12}
	r := g.Rect()

	if r.X != 10 || r.Y != 20 || r.Width != 40 || r.Height != 12 {
		t.Errorf("Unexpected rect: %+v", r)
	}
	if g.Right() != 50 {
		t.Errorf("Expected right 50, got %f", g.Right())
	}
}

func TestGlyphRun_IsRotated(t *testing.T) {
	tests := []struct {
		rotation float64
		want     bool
	}{
		{0, false},
		{360, false},
		{90, true},
		{270, true},
		{-90, true},
		{0.1, false},
	}

	for _, tt := range tests {
		g := GlyphRun{Rotation: tt.rotation}
		if got := g.IsRotated(); got != tt.want {
			t.Errorf("IsRotated(%f) = %v, want %v", tt.rotation, got, tt.want)
		}
	}
}

func TestGlyphRun_SameStyle(t *testing.T) {
	a := GlyphRun{FontFamily: "Helvetica", FontSize: 12, FontWeight: WeightBold}
	b := GlyphRun{FontFamily: "Helvetica", FontSize: 12, FontWeight: WeightBold}
	c := GlyphRun{FontFamily: "Helvetica", FontSize: 14, FontWeight: WeightBold}
	d := GlyphRun{FontFamily: "Times", FontSize: 12, FontWeight: WeightBold}

	if !a.SameStyle(b) {
		t.Error("Expected identical styles to match")
	}
	if a.SameStyle(c) {
		t.Error("Expected different sizes not to match")
	}
	if a.SameStyle(d) {
		t.Error("Expected different families not to match")
	}
}

func TestGlyphRun_VisibleCharCount(t *testing.T) {
	g := GlyphRun{Text: "a b\tc"}
	if got := g.VisibleCharCount(); got != 3 {
		t.Errorf("Expected 3 visible chars, got %d", got)
	}
}

func TestDetectDirection(t *testing.T) {
	tests := []struct {
		text string
		want Direction
	}{
		{"Hello", LTR},
		{"", Neutral},
		{"123 !?", Neutral},
		{"שלום", RTL},     // Hebrew
		{"مرحبا", RTL}, // Arabic
		{"Hello ש", LTR},
	}

	for _, tt := range tests {
		if got := DetectDirection(tt.text); got != tt.want {
			t.Errorf("DetectDirection(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestRunsBounds(t *testing.T) {
	if b := RunsBounds(nil); !b.IsEmpty() {
		t.Error("Expected empty bounds for no runs")
	}

	runs := []GlyphRun{
		{X: 10, Y: 10, Width: 20, Height: 10},
		{X: 50, Y: 5, Width: 30, Height: 12},
	}
	b := RunsBounds(runs)
	if b.X != 10 || b.Y != 5 || b.Right() != 80 || b.Bottom() != 20 {
		t.Errorf("Unexpected bounds: %+v", b)
	}
}
