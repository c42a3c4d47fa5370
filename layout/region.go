package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/reflow/model"
)

// RegionKind classifies the structural relationship between a region's lines
type RegionKind int

const (
	// KindLine is a region holding a single isolated line
	KindLine RegionKind = iota

	// KindParagraph is a tight multi-line stack with uniform line gaps
	KindParagraph

	// KindBlock is a loosely connected set of paragraphs grouped by spatial
	// proximity rather than line-gap continuity
	KindBlock
)

// String returns a string representation of the region kind
func (k RegionKind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindBlock:
		return "block"
	default:
		return "line"
	}
}

// Paragraph is a run of consecutive lines whose vertical gaps stay within
// the paragraph continuation threshold
type Paragraph struct {
	// Lines are the text lines in this paragraph (in reading order)
	Lines []Line

	// Rect is the bounding rectangle of the paragraph
	Rect model.Rect

	// Text is the assembled text content
	Text string

	// Index is the paragraph's position in reading order (0-based)
	Index int

	// Kind is KindLine for single-line paragraphs, KindParagraph otherwise
	Kind RegionKind

	// Style is the detected paragraph style (see StyleDetector)
	Style ParagraphStyle

	// AverageFontSize is the average font size across all lines
	AverageFontSize float64

	// SpacingBefore is the space before this paragraph
	SpacingBefore float64

	// SpacingAfter is the space after this paragraph
	SpacingAfter float64
}

// Region is a spatially coherent group of paragraphs, the unit handed to
// flow layout. A region overlapping a hard obstacle is not flowable and
// must be positioned independently of surrounding text.
type Region struct {
	// Lines are all text lines in the region, in reading order
	Lines []Line

	// Paragraphs are the paragraph groups within the region
	Paragraphs []Paragraph

	// Rect is the bounding rectangle of the region
	Rect model.Rect

	// Kind is the structural classification of the region
	Kind RegionKind

	// FlowAllowed reports whether the region may join continuous text flow
	FlowAllowed bool

	// OverlapsObstacle is true if the region's rect intersects any obstacle
	OverlapsObstacle bool

	// NearestObstacleDistance is the distance to the closest obstacle edge,
	// +Inf when the page has no obstacles
	NearestObstacleDistance float64
}

// Text returns the region's assembled text, paragraphs separated by blank
// lines.
func (r *Region) Text() string {
	if r == nil {
		return ""
	}
	parts := make([]string, 0, len(r.Paragraphs))
	for _, p := range r.Paragraphs {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, "\n\n")
}

// RegionConfig holds configuration for region grouping
type RegionConfig struct {
	// ParagraphGapRatio is the multiplier of line height below which the
	// next line continues the current paragraph (default: 1.5)
	ParagraphGapRatio float64

	// ProximityFactor scales the seed paragraph's larger dimension to form
	// the center-distance threshold for block clustering (default: 2.0)
	ProximityFactor float64
}

// DefaultRegionConfig returns sensible default configuration
func DefaultRegionConfig() RegionConfig {
	return RegionConfig{
		ParagraphGapRatio: 1.5,
		ProximityFactor:   2.0,
	}
}

// RegionGrouper groups lines into paragraphs and flow regions
type RegionGrouper struct {
	config RegionConfig
}

// NewRegionGrouper creates a region grouper with default configuration
func NewRegionGrouper() *RegionGrouper {
	return &RegionGrouper{config: DefaultRegionConfig()}
}

// NewRegionGrouperWithConfig creates a region grouper with custom configuration
func NewRegionGrouperWithConfig(config RegionConfig) *RegionGrouper {
	return &RegionGrouper{config: config}
}

// GroupIntoRegions groups lines into paragraphs by gap continuity, then
// clusters paragraphs into regions by spatial proximity, and finally marks
// each region's relationship to the supplied obstacles. Lines are expected
// in reading order as produced by GroupIntoLines.
func (g *RegionGrouper) GroupIntoRegions(lines []Line, obstacles []model.Obstacle) []Region {
	if len(lines) == 0 {
		return nil
	}

	paragraphs := g.groupIntoParagraphs(lines)
	clusters := g.clusterParagraphs(paragraphs)

	regions := make([]Region, 0, len(clusters))
	for _, cluster := range clusters {
		regions = append(regions, buildRegion(cluster))
	}
	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].Rect.Top() != regions[j].Rect.Top() {
			return regions[i].Rect.Top() < regions[j].Rect.Top()
		}
		return regions[i].Rect.Left() < regions[j].Rect.Left()
	})

	for i := range regions {
		g.markObstacles(&regions[i], obstacles)
	}
	return regions
}

// groupIntoParagraphs absorbs each next line while its gap from the previous
// line stays within ParagraphGapRatio times the line height
func (g *RegionGrouper) groupIntoParagraphs(lines []Line) []Paragraph {
	var paragraphs []Paragraph
	current := []Line{lines[0]}

	for _, line := range lines[1:] {
		prev := current[len(current)-1]
		gap := line.Rect.Top() - prev.Rect.Bottom()
		height := math.Max(prev.Rect.Height, line.Rect.Height)
		if gap <= height*g.config.ParagraphGapRatio {
			current = append(current, line)
		} else {
			paragraphs = append(paragraphs, buildParagraph(current, len(paragraphs)))
			current = []Line{line}
		}
	}
	paragraphs = append(paragraphs, buildParagraph(current, len(paragraphs)))

	for i := 1; i < len(paragraphs); i++ {
		gap := paragraphs[i].Rect.Top() - paragraphs[i-1].Rect.Bottom()
		paragraphs[i].SpacingBefore = gap
		paragraphs[i-1].SpacingAfter = gap
	}
	return paragraphs
}

// buildParagraph assembles one Paragraph from consecutive lines
func buildParagraph(lines []Line, index int) Paragraph {
	p := Paragraph{
		Lines: lines,
		Index: index,
		Kind:  KindParagraph,
	}
	if len(lines) == 1 {
		p.Kind = KindLine
	}

	var text strings.Builder
	totalSize := 0.0
	for i, line := range lines {
		if i == 0 {
			p.Rect = line.Rect
		} else {
			p.Rect = p.Rect.Union(line.Rect)
			text.WriteString(" ")
		}
		text.WriteString(line.Text)
		totalSize += line.AvgFontSize
	}
	p.Text = text.String()
	p.AverageFontSize = totalSize / float64(len(lines))
	return p
}

// clusterParagraphs groups paragraphs whose center distance from any member
// stays within ProximityFactor times the seed paragraph's larger dimension.
// Clusters grow transitively until no unassigned paragraph is close enough.
func (g *RegionGrouper) clusterParagraphs(paragraphs []Paragraph) [][]Paragraph {
	assigned := make([]bool, len(paragraphs))
	var clusters [][]Paragraph

	for seed := range paragraphs {
		if assigned[seed] {
			continue
		}
		assigned[seed] = true
		cluster := []Paragraph{paragraphs[seed]}
		threshold := g.config.ProximityFactor * math.Max(paragraphs[seed].Rect.Width, paragraphs[seed].Rect.Height)

		grown := true
		for grown {
			grown = false
			for i := range paragraphs {
				if assigned[i] {
					continue
				}
				for _, member := range cluster {
					if centerDistance(member.Rect, paragraphs[i].Rect) <= threshold {
						assigned[i] = true
						cluster = append(cluster, paragraphs[i])
						grown = true
						break
					}
				}
			}
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}

// buildRegion assembles one Region from a proximity cluster of paragraphs
func buildRegion(cluster []Paragraph) Region {
	sort.SliceStable(cluster, func(i, j int) bool {
		if cluster[i].Rect.Top() != cluster[j].Rect.Top() {
			return cluster[i].Rect.Top() < cluster[j].Rect.Top()
		}
		return cluster[i].Rect.Left() < cluster[j].Rect.Left()
	})

	region := Region{
		Paragraphs:  cluster,
		Rect:        cluster[0].Rect,
		FlowAllowed: true,
	}
	for i, p := range cluster {
		if i > 0 {
			region.Rect = region.Rect.Union(p.Rect)
		}
		region.Lines = append(region.Lines, p.Lines...)
	}

	switch {
	case len(cluster) > 1:
		region.Kind = KindBlock
	default:
		region.Kind = cluster[0].Kind
	}
	return region
}

// markObstacles records the region's relationship to the page obstacles.
// Intersecting a hard obstacle makes the region non-flowable; soft obstacles
// only register the overlap.
func (g *RegionGrouper) markObstacles(region *Region, obstacles []model.Obstacle) {
	region.NearestObstacleDistance = math.Inf(1)
	for _, obstacle := range obstacles {
		if d := region.Rect.NearestDistance(obstacle.Rect); d < region.NearestObstacleDistance {
			region.NearestObstacleDistance = d
		}
		if region.Rect.Intersects(obstacle.Rect) {
			region.OverlapsObstacle = true
			if obstacle.Hard {
				region.FlowAllowed = false
			}
		}
	}
}

// centerDistance returns the Euclidean distance between two rect centers
func centerDistance(a, b model.Rect) float64 {
	ca, cb := a.Center(), b.Center()
	dx := ca.X - cb.X
	dy := ca.Y - cb.Y
	return math.Sqrt(dx*dx + dy*dy)
}
