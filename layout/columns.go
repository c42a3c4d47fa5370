package layout

import (
	"math"
	"sort"

	"github.com/tsawler/reflow/model"
)

// Column represents a detected text column on a page
type Column struct {
	// Rect is the bounding rectangle of the column's content
	Rect model.Rect

	// Items are the glyph runs assigned to this column
	Items []model.GlyphRun

	// Index of the column (0-based, left to right)
	Index int
}

// ColumnLayout represents the detected column structure of a page
type ColumnLayout struct {
	// Columns are the detected columns (sorted left to right)
	Columns []Column

	// Page dimensions
	PageWidth  float64
	PageHeight float64

	// Config is the configuration used for detection
	Config ColumnConfig
}

// ColumnCount returns the number of detected columns
func (l *ColumnLayout) ColumnCount() int {
	if l == nil {
		return 0
	}
	return len(l.Columns)
}

// IsMultiColumn returns true if more than one column was detected
func (l *ColumnLayout) IsMultiColumn() bool {
	return l.ColumnCount() > 1
}

// GetColumn returns the column at the given index, or nil if out of range
func (l *ColumnLayout) GetColumn(index int) *Column {
	if l == nil || index < 0 || index >= len(l.Columns) {
		return nil
	}
	return &l.Columns[index]
}

// ColumnConfig holds configuration for column detection
type ColumnConfig struct {
	// GapRatio is the minimum horizontal gap between rounded x-extents,
	// as a fraction of page width, to split column bands (default: 0.10)
	GapRatio float64
}

// DefaultColumnConfig returns sensible default configuration
func DefaultColumnConfig() ColumnConfig {
	return ColumnConfig{
		GapRatio: 0.10,
	}
}

// ColumnDetector detects multi-column layouts from glyph run extents
type ColumnDetector struct {
	config ColumnConfig
}

// NewColumnDetector creates a column detector with default configuration
func NewColumnDetector() *ColumnDetector {
	return &ColumnDetector{config: DefaultColumnConfig()}
}

// NewColumnDetectorWithConfig creates a column detector with custom configuration
func NewColumnDetectorWithConfig(config ColumnConfig) *ColumnDetector {
	return &ColumnDetector{config: config}
}

// Detect merges the rounded horizontal extents of the items into coverage
// spans, splits them where the uncovered gap between spans exceeds GapRatio
// of the page width, and assigns items to the resulting bands (widened to
// the page edges). It returns nil unless at least two bands receive
// content; column detection is best-effort enrichment and never an error.
func (d *ColumnDetector) Detect(items []model.GlyphRun, pageWidth, pageHeight float64) *ColumnLayout {
	if len(items) == 0 || pageWidth <= 0 {
		return nil
	}

	spans := mergeSpans(collectSpans(items))
	bounds := d.bandBounds(spans, pageWidth)
	columns := d.assignItems(items, bounds)
	if len(columns) < 2 {
		return nil
	}

	return &ColumnLayout{
		Columns:    columns,
		PageWidth:  pageWidth,
		PageHeight: pageHeight,
		Config:     d.config,
	}
}

// span is a horizontal interval covered by text
type span struct {
	left, right float64
}

// collectSpans returns each item's rounded horizontal extent, sorted by
// left edge
func collectSpans(items []model.GlyphRun) []span {
	spans := make([]span, 0, len(items))
	for _, item := range items {
		spans = append(spans, span{
			left:  math.Round(item.X),
			right: math.Round(item.Right()),
		})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].left < spans[j].left })
	return spans
}

// mergeSpans coalesces overlapping or touching sorted spans
func mergeSpans(spans []span) []span {
	if len(spans) == 0 {
		return nil
	}
	merged := []span{spans[0]}
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.left <= last.right {
			if s.right > last.right {
				last.right = s.right
			}
		} else {
			merged = append(merged, s)
		}
	}
	return merged
}

// band is a horizontal slice of the page holding one column
type band struct {
	left, right float64
}

// bandBounds groups coverage spans separated by less than GapRatio of the
// page width into bands; the page edges close the outermost bands
func (d *ColumnDetector) bandBounds(spans []span, pageWidth float64) []band {
	minGap := d.config.GapRatio * pageWidth

	var bands []band
	for _, s := range spans {
		if len(bands) > 0 && s.left-bands[len(bands)-1].right <= minGap {
			if s.right > bands[len(bands)-1].right {
				bands[len(bands)-1].right = s.right
			}
			continue
		}
		bands = append(bands, band{left: s.left, right: s.right})
	}
	if len(bands) > 0 {
		bands[0].left = 0
		bands[len(bands)-1].right = pageWidth
	}
	return bands
}

// assignItems places each item into the band containing its center,
// falling back to the nearest band when extent rounding pushed the center
// just outside every band, and drops bands with no content
func (d *ColumnDetector) assignItems(items []model.GlyphRun, bounds []band) []Column {
	buckets := make([][]model.GlyphRun, len(bounds))
	for _, item := range items {
		center := item.X + item.Width/2
		best := -1
		for i, b := range bounds {
			if center >= b.left && center <= b.right {
				best = i
				break
			}
		}
		if best < 0 {
			nearest := math.Inf(1)
			for i, b := range bounds {
				dist := math.Min(math.Abs(center-b.left), math.Abs(center-b.right))
				if dist < nearest {
					nearest = dist
					best = i
				}
			}
		}
		if best >= 0 {
			buckets[best] = append(buckets[best], item)
		}
	}

	var columns []Column
	for _, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		sort.SliceStable(bucket, func(i, j int) bool {
			if bucket[i].Y != bucket[j].Y {
				return bucket[i].Y < bucket[j].Y
			}
			return bucket[i].X < bucket[j].X
		})
		columns = append(columns, Column{
			Rect:  model.RunsBounds(bucket),
			Items: bucket,
			Index: len(columns),
		})
	}
	return columns
}
