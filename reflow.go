// Package reflow reconstructs logical text structure from flat positioned
// glyph runs: words from run fragments, lines from vertical clusters,
// paragraphs and flow regions from line gaps, plus column and table
// annotations. Input geometry uses a top-left origin with Y increasing
// downward; the normalizer converts other conventions.
package reflow

import (
	"fmt"

	"github.com/tsawler/reflow/fontmetrics"
	"github.com/tsawler/reflow/layout"
	"github.com/tsawler/reflow/model"
	"github.com/tsawler/reflow/normalize"
	"github.com/tsawler/reflow/spacing"
	"github.com/tsawler/reflow/stats"
	"github.com/tsawler/reflow/tables"
)

// Page is the input to reconstruction: one page worth of glyph runs plus
// optional obstacle rectangles (images, vector graphics)
type Page struct {
	// Number is the page number, carried through to the Result
	Number int

	// Width and Height are the page dimensions
	Width  float64
	Height float64

	// Runs are the raw glyph runs on the page
	Runs []model.GlyphRun

	// Obstacles are externally supplied rectangles that affect text flow
	Obstacles []model.Obstacle
}

// Result holds everything reconstructed for one page
type Result struct {
	// Page is the page number of the input page
	Page int

	// Regions are the flow regions in reading order
	Regions []layout.Region

	// Lines are all reconstructed lines in reading order
	Lines []layout.Line

	// Columns is the column annotation, nil when fewer than two columns
	// were found
	Columns *layout.ColumnLayout

	// Table is the table annotation, nil when no table was found
	Table *tables.Detection

	// Stats are the page-global document statistics
	Stats stats.DocumentStatistics

	// Warnings records degradations encountered during reconstruction
	Warnings []string
}

// Text returns the page's assembled text, regions separated by blank lines
func (r *Result) Text() string {
	if r == nil {
		return ""
	}
	out := ""
	for i := range r.Regions {
		if i > 0 {
			out += "\n\n"
		}
		out += r.Regions[i].Text()
	}
	return out
}

// Options configures an Engine
type Options struct {
	// Normalizer configures input geometry normalization
	Normalizer normalize.Config

	// Spacing configures word-break calibration
	Spacing spacing.Config

	// LineGrouping configures vertical line clustering
	LineGrouping layout.LineConfig

	// RegionGrouping configures paragraph and region grouping
	RegionGrouping layout.RegionConfig

	// Style configures heading and list-item detection
	Style layout.StyleConfig

	// Columns configures column band detection
	Columns layout.ColumnConfig

	// Tables configures table detection
	Tables tables.Config

	// Resolver supplies font metrics for character width prediction.
	// Optional; geometry-only estimation is used when nil.
	Resolver fontmetrics.Resolver

	// Workers bounds page-level concurrency in ReconstructPages.
	// Zero or negative means runtime.NumCPU().
	Workers int
}

// DefaultOptions returns the default engine configuration
func DefaultOptions() Options {
	return Options{
		Normalizer:     normalize.DefaultConfig(),
		Spacing:        spacing.DefaultConfig(),
		LineGrouping:   layout.DefaultLineConfig(),
		RegionGrouping: layout.DefaultRegionConfig(),
		Style:          layout.DefaultStyleConfig(),
		Columns:        layout.DefaultColumnConfig(),
		Tables:         tables.DefaultConfig(),
	}
}

// Engine runs the reconstruction pipeline. An Engine is safe for
// concurrent use; page reconstructions share no mutable state.
type Engine struct {
	options        Options
	normalizer     *normalize.Normalizer
	analyzer       *stats.Analyzer
	lineGrouper    *layout.LineGrouper
	regionGrouper  *layout.RegionGrouper
	styleDetector  *layout.StyleDetector
	columnDetector *layout.ColumnDetector
	tableDetector  *tables.Detector
}

// NewEngine creates an engine with default options
func NewEngine() *Engine {
	return NewEngineWithOptions(DefaultOptions())
}

// NewEngineWithOptions creates an engine with custom options
func NewEngineWithOptions(options Options) *Engine {
	return &Engine{
		options:        options,
		normalizer:     normalize.NewWithConfig(options.Normalizer),
		analyzer:       stats.NewAnalyzer(options.Resolver),
		lineGrouper:    layout.NewLineGrouperWithConfig(options.Resolver, options.LineGrouping, options.Spacing),
		regionGrouper:  layout.NewRegionGrouperWithConfig(options.RegionGrouping),
		styleDetector:  layout.NewStyleDetectorWithConfig(options.Style),
		columnDetector: layout.NewColumnDetectorWithConfig(options.Columns),
		tableDetector:  tables.NewDetectorWithConfig(options.Tables),
	}
}

// ReconstructPage runs the full pipeline for a single page: normalize,
// analyze page-global statistics, group lines, group regions, apply
// paragraph styles, and annotate columns and tables. It never returns an
// error; degraded input surfaces as warnings on the Result.
func (e *Engine) ReconstructPage(page Page) *Result {
	result := &Result{Page: page.Number}

	runs := e.normalizer.Normalize(page.Runs)
	if dropped := len(page.Runs) - len(runs); dropped > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("page %d: dropped %d invalid or whitespace-only runs", page.Number, dropped))
	}
	result.Stats = e.analyzer.Analyze(runs, nil, page.Width, page.Height)
	if len(runs) == 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("page %d: no visible text", page.Number))
		return result
	}

	result.Lines = e.lineGrouper.GroupIntoLines(runs)
	result.Regions = e.regionGrouper.GroupIntoRegions(result.Lines, page.Obstacles)
	e.styleDetector.ApplyStyles(result.Regions, result.Stats.Fonts.DominantSize)

	result.Columns = e.columnDetector.Detect(runs, page.Width, page.Height)
	result.Table = e.tableDetector.Detect(result.Lines)

	if rotated := countRotated(runs); rotated > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("page %d: %d rotated runs grouped by position only", page.Number, rotated))
	}
	return result
}

// countRotated returns the number of rotated runs
func countRotated(runs []model.GlyphRun) int {
	n := 0
	for _, run := range runs {
		if run.IsRotated() {
			n++
		}
	}
	return n
}
