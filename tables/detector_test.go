package tables

import (
	"testing"

	"github.com/tsawler/reflow/layout"
	"github.com/tsawler/reflow/model"
)

// makeTableLine builds a line with one item per (text, x) pair at the
// given vertical position.
func makeTableLine(y float64, cells ...struct {
	text string
	x    float64
}) layout.Line {
	line := layout.Line{}
	for _, cell := range cells {
		line.Items = append(line.Items, model.GlyphRun{
			Text:     cell.text,
			X:        cell.x,
			Y:        y,
			Width:    40,
			Height:   10,
			FontSize: 10,
		})
	}
	line.Rect = model.RunsBounds(line.Items)
	return line
}

type cell = struct {
	text string
	x    float64
}

func TestDetector_AlignedGrid(t *testing.T) {
	// three rows, three columns, x jitter of at most one unit
	lines := []layout.Line{
		makeTableLine(0, cell{"Name", 10}, cell{"Qty", 110}, cell{"Price", 210}),
		makeTableLine(20, cell{"Apples", 11}, cell{"3", 110}, cell{"1.50", 211}),
		makeTableLine(40, cell{"Pears", 10}, cell{"7", 111}, cell{"2.10", 210}),
	}

	detector := NewDetector()
	detection := detector.Detect(lines)

	if detection == nil {
		t.Fatal("expected a table detection")
	}
	if detection.ColumnCount != 3 {
		t.Errorf("expected 3 columns, got %d", detection.ColumnCount)
	}
	if detection.RowCount() != 3 {
		t.Errorf("expected 3 rows, got %d", detection.RowCount())
	}
	if detection.AlignmentScore <= 0.5 {
		t.Errorf("expected alignment score above 0.5, got %.3f", detection.AlignmentScore)
	}
	if got := detection.CellText(1, 0); got != "Apples" {
		t.Errorf("expected cell (1,0) %q, got %q", "Apples", got)
	}
}

func TestDetector_DropsOffModeLines(t *testing.T) {
	lines := []layout.Line{
		makeTableLine(0, cell{"A", 10}, cell{"B", 110}),
		makeTableLine(20, cell{"C", 10}, cell{"D", 110}),
		makeTableLine(40, cell{"E", 10}, cell{"F", 110}, cell{"extra", 210}),
	}

	detector := NewDetector()
	detection := detector.Detect(lines)

	if detection == nil {
		t.Fatal("expected a table detection")
	}
	if detection.ColumnCount != 2 {
		t.Errorf("expected mode column count 2, got %d", detection.ColumnCount)
	}
	if detection.RowCount() != 2 {
		t.Errorf("expected off-mode row dropped, got %d rows", detection.RowCount())
	}
}

func TestDetector_SingleRowIsNotATable(t *testing.T) {
	lines := []layout.Line{
		makeTableLine(0, cell{"only", 10}, cell{"row", 110}),
	}

	detector := NewDetector()
	if detection := detector.Detect(lines); detection != nil {
		t.Error("expected no detection for a single row")
	}
}

func TestDetector_SingleItemLinesIgnored(t *testing.T) {
	lines := []layout.Line{
		makeTableLine(0, cell{"prose", 10}),
		makeTableLine(20, cell{"more prose", 10}),
	}

	detector := NewDetector()
	if detection := detector.Detect(lines); detection != nil {
		t.Error("expected no detection for single-item lines")
	}
}

func TestDetector_MisalignedColumnsRejected(t *testing.T) {
	// both columns drift 60 units between rows
	lines := []layout.Line{
		makeTableLine(0, cell{"a", 10}, cell{"b", 110}),
		makeTableLine(20, cell{"c", 70}, cell{"d", 170}),
		makeTableLine(40, cell{"e", 130}, cell{"f", 230}),
	}

	detector := NewDetector()
	if detection := detector.Detect(lines); detection != nil {
		t.Errorf("expected rejection, got score %.3f", detection.AlignmentScore)
	}
}

func TestDetector_EmptyInput(t *testing.T) {
	detector := NewDetector()
	if detection := detector.Detect(nil); detection != nil {
		t.Error("expected nil for empty input")
	}
}

func TestDetection_NilSafety(t *testing.T) {
	var detection *Detection
	if detection.RowCount() != 0 {
		t.Error("nil detection should report zero rows")
	}
	if detection.CellText(0, 0) != "" {
		t.Error("nil detection should return empty cell text")
	}
}
