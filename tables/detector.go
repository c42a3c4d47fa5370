// Package tables detects tabular structure in reconstructed lines by
// checking whether item counts and x-positions repeat consistently across
// rows. Detection is best-effort: insufficient or badly aligned data yields
// no detection, never an error.
package tables

import (
	"github.com/tsawler/reflow/layout"
	"github.com/tsawler/reflow/model"
)

// Cell is a single table cell
type Cell struct {
	// Text is the cell's text content
	Text string

	// Rect is the bounding rectangle of the cell
	Rect model.Rect
}

// Row is one table row, cells ordered left to right
type Row struct {
	// Cells are the row's cells
	Cells []Cell

	// Rect is the bounding rectangle of the row
	Rect model.Rect
}

// Detection represents a detected table
type Detection struct {
	// Rows are the table rows, top to bottom
	Rows []Row

	// ColumnCount is the number of columns (the per-row cell count)
	ColumnCount int

	// AlignmentScore is the averaged per-column alignment score in (0, 1]
	AlignmentScore float64

	// Rect is the bounding rectangle of the table
	Rect model.Rect
}

// RowCount returns the number of rows in the detection
func (d *Detection) RowCount() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// CellText returns the text of the cell at (row, col), or "" if out of range
func (d *Detection) CellText(row, col int) string {
	if d == nil || row < 0 || row >= len(d.Rows) {
		return ""
	}
	cells := d.Rows[row].Cells
	if col < 0 || col >= len(cells) {
		return ""
	}
	return cells[col].Text
}

// Config holds configuration for table detection
type Config struct {
	// MinRows is the minimum number of aligned rows required (default: 2)
	MinRows int

	// MinItemsPerLine is the minimum cell count for a line to be a
	// candidate row (default: 2)
	MinItemsPerLine int

	// AlignmentTolerance scales how much x-position jitter is forgiven:
	// per-column variance is divided by its square before scoring
	// (default: 1.0)
	AlignmentTolerance float64

	// MinAlignmentScore is the averaged column score required to accept
	// the table (default: 0.5)
	MinAlignmentScore float64
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		MinRows:            2,
		MinItemsPerLine:    2,
		AlignmentTolerance: 1.0,
		MinAlignmentScore:  0.5,
	}
}

// Detector detects tables from reconstructed lines
type Detector struct {
	config Config
}

// NewDetector creates a table detector with default configuration
func NewDetector() *Detector {
	return &Detector{config: DefaultConfig()}
}

// NewDetectorWithConfig creates a table detector with custom configuration
func NewDetectorWithConfig(config Config) *Detector {
	return &Detector{config: config}
}

// Detect keeps lines with enough items, takes the mode of item count per
// line, drops lines off the mode, and requires the surviving rows' columns
// to align: per column, the variance of the x-position across rows is
// scored 1/(1+variance) and the average score must clear the configured
// minimum. Returns nil when no table is present.
func (d *Detector) Detect(lines []layout.Line) *Detection {
	var candidates []layout.Line
	for _, line := range lines {
		if len(line.Items) >= d.config.MinItemsPerLine {
			candidates = append(candidates, line)
		}
	}
	if len(candidates) < d.config.MinRows {
		return nil
	}

	columnCount := d.itemCountMode(candidates)
	var rows []layout.Line
	for _, line := range candidates {
		if len(line.Items) == columnCount {
			rows = append(rows, line)
		}
	}
	if len(rows) < d.config.MinRows {
		return nil
	}

	score := d.alignmentScore(rows, columnCount)
	if score <= d.config.MinAlignmentScore {
		return nil
	}

	return d.buildDetection(rows, columnCount, score)
}

// itemCountMode returns the most frequent item count among candidate
// lines, preferring the smaller count on ties
func (d *Detector) itemCountMode(lines []layout.Line) int {
	counts := make(map[int]int)
	for _, line := range lines {
		counts[len(line.Items)]++
	}
	mode, best := 0, 0
	for count, freq := range counts {
		if freq > best || (freq == best && count < mode) {
			mode, best = count, freq
		}
	}
	return mode
}

// alignmentScore averages the per-column alignment scores across rows
func (d *Detector) alignmentScore(rows []layout.Line, columnCount int) float64 {
	tolerance := d.config.AlignmentTolerance
	if tolerance <= 0 {
		tolerance = 1.0
	}

	total := 0.0
	for col := 0; col < columnCount; col++ {
		mean := 0.0
		for _, row := range rows {
			mean += row.Items[col].X
		}
		mean /= float64(len(rows))

		variance := 0.0
		for _, row := range rows {
			dev := row.Items[col].X - mean
			variance += dev * dev
		}
		variance /= float64(len(rows))

		total += 1 / (1 + variance/(tolerance*tolerance))
	}
	return total / float64(columnCount)
}

// buildDetection assembles the Detection from accepted rows
func (d *Detector) buildDetection(rows []layout.Line, columnCount int, score float64) *Detection {
	detection := &Detection{
		ColumnCount:    columnCount,
		AlignmentScore: score,
	}

	for i, line := range rows {
		row := Row{Rect: line.Rect}
		for _, item := range line.Items {
			row.Cells = append(row.Cells, Cell{Text: item.Text, Rect: item.Rect()})
		}
		detection.Rows = append(detection.Rows, row)
		if i == 0 {
			detection.Rect = line.Rect
		} else {
			detection.Rect = detection.Rect.Union(line.Rect)
		}
	}
	return detection
}
