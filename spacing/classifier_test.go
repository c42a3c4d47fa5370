package spacing

import (
	"testing"

	"github.com/tsawler/reflow/model"
)

// testModel is a pre-calibrated line model: 5-unit characters, standard
// fallback threshold.
var testModel = LineGeometryModel{
	EstimatedCharWidth:       5,
	WordBreakThresholdByChar: 0.95,
}

func newTestClassifier() *Classifier {
	return NewClassifier(NewModelBuilder(nil))
}

// pair builds two runs on one line with the given pixel gap between them
func pair(prevText, nextText string, gapPx float64) (model.GlyphRun, model.GlyphRun) {
	prev := makeRun(prevText, 0, 30)
	next := makeRun(nextText, 30+gapPx, 30)
	return prev, next
}

func TestClassifier_LargeGapInsertsSpace(t *testing.T) {
	c := newTestClassifier()
	// Gap of 20 units = 4.0 by-char, far above any rule-adjusted threshold
	prev, next := pair("alpha", "beta", 20)

	if !c.ShouldInsertSpace(prev, next, testModel) {
		t.Error("Expected space for a gap far above threshold")
	}
}

func TestClassifier_TinyGapJoins(t *testing.T) {
	c := newTestClassifier()
	// Gap of 0.1 units = 0.02 by-char, far below any threshold
	prev, next := pair("ab", "cd", 0.1)

	if c.ShouldInsertSpace(prev, next, testModel) {
		t.Error("Expected join for a near-zero gap")
	}
}

func TestClassifier_Monotonic(t *testing.T) {
	c := newTestClassifier()

	inserted := false
	for gap := 0.0; gap <= 30; gap += 0.25 {
		prev, next := pair("Boarding", "Time", gap)
		got := c.ShouldInsertSpace(prev, next, testModel)
		if inserted && !got {
			t.Fatalf("Decision flipped true->false at gap %f", gap)
		}
		if got {
			inserted = true
		}
	}
	if !inserted {
		t.Error("Expected a space at some gap size")
	}
}

func TestClassifier_DigitSequencesNotSplit(t *testing.T) {
	c := newTestClassifier()
	// 0.8 by-char gap: enough for a normal word break, not for digits
	prev, next := pair("123", "456", 4)

	if c.ShouldInsertSpace(prev, next, testModel) {
		t.Error("Expected digit sequence to stay joined")
	}
}

func TestClassifier_CaseBoundaryNearZeroGap(t *testing.T) {
	c := newTestClassifier()
	// 0.1 by-char gap: far below the base threshold, but the
	// lowercase-to-uppercase boundary loosens it sharply
	prev, next := pair("Gate", "Boarding", 0.5)

	if !c.ShouldInsertSpace(prev, next, testModel) {
		t.Error("Expected case-boundary rule to insert a space")
	}
}

func TestClassifier_LongWordsSmallGap(t *testing.T) {
	c := newTestClassifier()
	// 0.2 by-char gap between two real words
	prev, next := pair("window", "seat", 1)

	if !c.ShouldInsertSpace(prev, next, testModel) {
		t.Error("Expected long-word rule to insert a space")
	}
}

func TestClassifier_ShortFragmentsNotSplit(t *testing.T) {
	c := newTestClassifier()
	// 1.0 by-char gap would break normally, but both sides are short
	// alphabetic fragments
	prev, next := pair("ab", "cd", 5)

	if c.ShouldInsertSpace(prev, next, testModel) {
		t.Error("Expected short fragments to stay joined")
	}
}

func TestClassifier_InitialsNotSplit(t *testing.T) {
	c := newTestClassifier()
	prev, next := pair("J", "R", 5)

	if c.ShouldInsertSpace(prev, next, testModel) {
		t.Error("Expected single-character pair to stay joined")
	}
}

func TestClassifier_EmailPairNotSplit(t *testing.T) {
	c := newTestClassifier()
	prev, next := pair("user@example", "com", 5)

	if c.ShouldInsertSpace(prev, next, testModel) {
		t.Error("Expected email-like pair to stay joined")
	}
}

func TestClassifier_TLDPairNotSplit(t *testing.T) {
	c := newTestClassifier()
	// dotted host meets its TLD at 1.0 by-char: validation tightens the bound
	prev, next := pair("www.example", "com", 5)

	if c.ShouldInsertSpace(prev, next, testModel) {
		t.Error("Expected domain/TLD pair to stay joined")
	}
}

func TestClassifier_TLDWordsInProseStillSplit(t *testing.T) {
	c := newTestClassifier()
	// many gTLDs are ordinary English words; without a dotted host on the
	// left they must not tighten the boundary
	pairs := [][2]string{
		{"window", "seat"},
		{"Hello", "world"},
		{"sponsored", "link"},
	}

	for _, p := range pairs {
		prev, next := pair(p[0], p[1], 1)
		if !c.ShouldInsertSpace(prev, next, testModel) {
			t.Errorf("Expected space between %q and %q", p[0], p[1])
		}
	}
}

func TestClassifier_AfterSeparatorLoosens(t *testing.T) {
	c := newTestClassifier()
	// 0.3 by-char after a colon: separators are followed by spaces
	prev, next := pair("Destination:", "Rome", 1.5)

	if !c.ShouldInsertSpace(prev, next, testModel) {
		t.Error("Expected separator rule to insert a space")
	}
}

func TestClassifier_ConnectorWordLoosens(t *testing.T) {
	c := newTestClassifier()
	// 0.25 by-char before a connective
	prev, next := pair("flight", "to", 1.25)

	if !c.ShouldInsertSpace(prev, next, testModel) {
		t.Error("Expected connector-word rule to insert a space")
	}
}

func TestClassifier_ClosingPunctuationNeverPreceded(t *testing.T) {
	c := newTestClassifier()
	prev, next := pair("done", ",", 20)

	if c.ShouldInsertSpace(prev, next, testModel) {
		t.Error("Expected no space before closing punctuation")
	}
}

func TestClassifier_URLInteriorNeverSplit(t *testing.T) {
	c := newTestClassifier()
	prev, next := pair("https://example", "/path?q=1", 10)

	if c.ShouldInsertSpace(prev, next, testModel) {
		t.Error("Expected URL interior to stay joined")
	}
}

func TestClassifier_SpaceBeforeURLStart(t *testing.T) {
	c := newTestClassifier()
	// Ordinary text followed by a URL's first token with a word-sized gap
	prev, next := pair("visit", "https://example.com", 6)

	if !c.ShouldInsertSpace(prev, next, testModel) {
		t.Error("Expected space immediately before a URL start")
	}
}

func TestClassifier_DeepOverlapJoins(t *testing.T) {
	c := newTestClassifier()
	prev := makeRun("over", 0, 30)
	next := makeRun("lap", 20, 30) // 10-unit overlap at 10pt font

	d := c.Classify(prev, next, testModel)
	if d.Type != Join {
		t.Errorf("Expected join for overlapping glyphs, got %v", d.Type)
	}
}

func TestClassifier_SmallOverlapTreatedAsZeroGap(t *testing.T) {
	c := newTestClassifier()
	prev := makeRun("Gate", 0, 30)
	next := makeRun("Boarding", 29, 30) // 1-unit overlap, within tolerance

	d := c.Classify(prev, next, testModel)
	if d.GapPx != 0 {
		t.Errorf("Expected overlap clamped to zero gap, got %f", d.GapPx)
	}
}

func TestClassifier_CJKNeverSpaced(t *testing.T) {
	c := newTestClassifier()
	prev, next := pair("東京", "駅", 8)

	if c.ShouldInsertSpace(prev, next, testModel) {
		t.Error("Expected CJK boundary to stay joined")
	}
}

func TestClassifier_LineBreakDetected(t *testing.T) {
	c := newTestClassifier()
	prev := makeRun("first", 0, 30)
	next := makeRun("second", 0, 30)
	next.Y = 15

	d := c.Classify(prev, next, testModel)
	if d.Type != BreakLine {
		t.Errorf("Expected break_line, got %v", d.Type)
	}
}

func TestClassifier_ZeroModelRecalibratesPerPair(t *testing.T) {
	c := newTestClassifier()
	prev, next := pair("Boarding", "Time", 12)

	d := c.Classify(prev, next, LineGeometryModel{})
	if d.Type != Space {
		t.Errorf("Expected space with per-pair calibration, got %v", d.Type)
	}
	if d.ThresholdByChar <= 0 {
		t.Errorf("Expected positive effective threshold, got %f", d.ThresholdByChar)
	}
}

func TestClassifier_DecisionFields(t *testing.T) {
	c := newTestClassifier()
	prev, next := pair("alpha", "beta", 10)

	d := c.Classify(prev, next, testModel)
	if d.GapPx != 10 {
		t.Errorf("Expected gap 10, got %f", d.GapPx)
	}
	if d.GapByChar != 2 {
		t.Errorf("Expected gap-by-char 2, got %f", d.GapByChar)
	}
	if d.Confidence < 0 || d.Confidence > 1 {
		t.Errorf("Confidence out of range: %f", d.Confidence)
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	c := newTestClassifier()
	prev, next := pair("Gate", "Boarding", 0.5)

	first := c.Classify(prev, next, testModel)
	for i := 0; i < 10; i++ {
		if got := c.Classify(prev, next, testModel); got != first {
			t.Fatalf("Classification is not deterministic")
		}
	}
}

func TestDecisionType_String(t *testing.T) {
	tests := []struct {
		t    DecisionType
		want string
	}{
		{Join, "join"},
		{Space, "space"},
		{BreakLine, "break_line"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
