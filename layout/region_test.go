package layout

import (
	"math"
	"testing"

	"github.com/tsawler/reflow/model"
)

func makeTestLine(text string, x, y, w, h float64) Line {
	return Line{
		Text:        text,
		Rect:        model.Rect{X: x, Y: y, Width: w, Height: h},
		AvgFontSize: 10,
	}
}

func TestRegionGrouper_EmptyInput(t *testing.T) {
	grouper := NewRegionGrouper()
	if regions := grouper.GroupIntoRegions(nil, nil); regions != nil {
		t.Errorf("expected nil for empty input, got %d regions", len(regions))
	}
}

func TestRegionGrouper_ParagraphContinuation(t *testing.T) {
	lines := []Line{
		makeTestLine("first line", 10, 0, 200, 10),
		makeTestLine("second line", 10, 12, 200, 10),
		makeTestLine("third line", 10, 24, 200, 10),
	}

	grouper := NewRegionGrouper()
	regions := grouper.GroupIntoRegions(lines, nil)

	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	region := regions[0]
	if len(region.Paragraphs) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(region.Paragraphs))
	}
	if region.Kind != KindParagraph {
		t.Errorf("expected paragraph kind, got %s", region.Kind)
	}
	if got := region.Paragraphs[0].Text; got != "first line second line third line" {
		t.Errorf("unexpected paragraph text: %q", got)
	}
	if !region.FlowAllowed {
		t.Error("region with no obstacles should be flowable")
	}
}

func TestRegionGrouper_ParagraphBreakOnLargeGap(t *testing.T) {
	// gap of 30 exceeds lineHeight*1.5 = 15
	lines := []Line{
		makeTestLine("intro", 10, 0, 200, 10),
		makeTestLine("body", 10, 40, 200, 10),
	}

	grouper := NewRegionGrouper()
	regions := grouper.GroupIntoRegions(lines, nil)

	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	region := regions[0]
	if len(region.Paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(region.Paragraphs))
	}
	// wide paragraphs this close still cluster spatially
	if region.Kind != KindBlock {
		t.Errorf("expected block kind for clustered paragraphs, got %s", region.Kind)
	}
	if region.Paragraphs[1].SpacingBefore != 30 {
		t.Errorf("expected paragraph spacing 30, got %.1f", region.Paragraphs[1].SpacingBefore)
	}
	if region.Paragraphs[0].SpacingAfter != 30 {
		t.Errorf("expected spacing after 30, got %.1f", region.Paragraphs[0].SpacingAfter)
	}
}

func TestRegionGrouper_DistantParagraphsSeparateRegions(t *testing.T) {
	// narrow lines 400 units apart: beyond 2*max(50,10) = 100
	lines := []Line{
		makeTestLine("caption one", 10, 0, 50, 10),
		makeTestLine("caption two", 10, 400, 50, 10),
	}

	grouper := NewRegionGrouper()
	regions := grouper.GroupIntoRegions(lines, nil)

	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(regions))
	}
	for i, region := range regions {
		if region.Kind != KindLine {
			t.Errorf("region %d: expected line kind, got %s", i, region.Kind)
		}
	}
	if regions[0].Rect.Top() > regions[1].Rect.Top() {
		t.Error("regions not in reading order")
	}
}

func TestRegionGrouper_HardObstacleBlocksFlow(t *testing.T) {
	lines := []Line{makeTestLine("wrapped", 10, 0, 100, 10)}
	obstacles := []model.Obstacle{
		{Rect: model.Rect{X: 50, Y: 5, Width: 100, Height: 100}, Hard: true},
	}

	grouper := NewRegionGrouper()
	regions := grouper.GroupIntoRegions(lines, obstacles)

	region := regions[0]
	if !region.OverlapsObstacle {
		t.Error("expected obstacle overlap")
	}
	if region.FlowAllowed {
		t.Error("hard obstacle overlap must block flow")
	}
	if region.NearestObstacleDistance != 0 {
		t.Errorf("intersecting obstacle distance should be 0, got %.2f", region.NearestObstacleDistance)
	}
}

func TestRegionGrouper_SoftObstacleKeepsFlow(t *testing.T) {
	lines := []Line{makeTestLine("near image", 10, 0, 100, 10)}
	obstacles := []model.Obstacle{
		{Rect: model.Rect{X: 50, Y: 5, Width: 100, Height: 100}, Hard: false},
	}

	grouper := NewRegionGrouper()
	regions := grouper.GroupIntoRegions(lines, obstacles)

	region := regions[0]
	if !region.OverlapsObstacle {
		t.Error("expected obstacle overlap")
	}
	if !region.FlowAllowed {
		t.Error("soft obstacle must not block flow")
	}
}

func TestRegionGrouper_ObstacleDistance(t *testing.T) {
	lines := []Line{makeTestLine("text", 0, 0, 10, 10)}
	// nearest corner offset by (3, 4)
	obstacles := []model.Obstacle{
		{Rect: model.Rect{X: 13, Y: 14, Width: 10, Height: 10}},
	}

	grouper := NewRegionGrouper()
	regions := grouper.GroupIntoRegions(lines, obstacles)

	if d := regions[0].NearestObstacleDistance; math.Abs(d-5) > 1e-9 {
		t.Errorf("expected distance 5, got %.2f", d)
	}
}

func TestRegionGrouper_NoObstaclesInfiniteDistance(t *testing.T) {
	lines := []Line{makeTestLine("text", 0, 0, 10, 10)}

	grouper := NewRegionGrouper()
	regions := grouper.GroupIntoRegions(lines, nil)

	if !math.IsInf(regions[0].NearestObstacleDistance, 1) {
		t.Errorf("expected +Inf distance, got %.2f", regions[0].NearestObstacleDistance)
	}
}

func TestRegion_Text(t *testing.T) {
	var nilRegion *Region
	if nilRegion.Text() != "" {
		t.Error("nil region should have empty text")
	}

	region := &Region{Paragraphs: []Paragraph{
		{Text: "first paragraph"},
		{Text: "second paragraph"},
	}}
	want := "first paragraph\n\nsecond paragraph"
	if got := region.Text(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRegionKind_String(t *testing.T) {
	if KindLine.String() != "line" || KindParagraph.String() != "paragraph" || KindBlock.String() != "block" {
		t.Error("unexpected kind strings")
	}
}
