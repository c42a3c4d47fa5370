// Package fontmetrics provides character-width estimation for glyph runs.
//
// The engine needs predicted glyph widths to convert raw horizontal gaps into
// the script-size-invariant gap-by-char unit. Widths come from parsed font
// programs when the host registered them, from the embedded Go Regular face
// when the document font is unknown, and from a fixed fraction of the font
// size as the final fallback.
//
// Resolvers are explicitly constructed and injected into the statistics
// analyzer and line-geometry builder; the package has no global state.
package fontmetrics

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// DefaultCharWidthRatio is the character width assumed, as a fraction of the
// font size, when no font program is available for a family.
const DefaultCharWidthRatio = 0.55

// Metrics holds the parsed font program for one font family
type Metrics struct {
	Family string

	font *sfnt.Font
}

// Resolver estimates character widths for a font family and size.
// Implementations must be safe for concurrent use; pages are reconstructed
// in parallel against a shared resolver.
type Resolver interface {
	// ResolveByName returns the metrics for a font family, or false if the
	// family is unknown and no substitution is available
	ResolveByName(family string) (*Metrics, bool)

	// EstimateCharWidth returns the predicted advance width of a single
	// character in page units at the given font size. A nil Metrics falls
	// back to DefaultCharWidthRatio times the font size.
	EstimateCharWidth(r rune, m *Metrics, fontSize float64) float64
}

// SfntResolver resolves character widths from registered sfnt font programs,
// substituting the embedded Go Regular face for unknown families.
type SfntResolver struct {
	mu       sync.Mutex
	buf      sfnt.Buffer
	fonts    map[string]*Metrics
	fallback *Metrics

	// widthCache caches average advances keyed by family and rounded size
	widthCache map[widthKey]float64
}

type widthKey struct {
	family string
	r      rune
	size   int
}

// NewSfntResolver creates a resolver with the Go Regular substitution face
// pre-registered as the fallback for unknown families.
func NewSfntResolver() (*SfntResolver, error) {
	f, err := sfnt.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded fallback face: %w", err)
	}

	return &SfntResolver{
		fonts:      make(map[string]*Metrics),
		fallback:   &Metrics{Family: "Go Regular", font: f},
		widthCache: make(map[widthKey]float64),
	}, nil
}

// RegisterFont parses a TrueType/OpenType font program and registers it
// under the given family name.
func (s *SfntResolver) RegisterFont(family string, data []byte) error {
	f, err := sfnt.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %q: %w", family, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fonts[normalizeFamily(family)] = &Metrics{Family: family, font: f}
	return nil
}

// ResolveByName returns metrics for a family, falling back to the embedded
// substitution face. The boolean reports whether the family itself was
// registered (the substitution face still yields usable metrics when false).
func (s *SfntResolver) ResolveByName(family string) (*Metrics, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.fonts[normalizeFamily(family)]; ok {
		return m, true
	}
	return s.fallback, false
}

// EstimateCharWidth returns the predicted advance width of r at fontSize.
func (s *SfntResolver) EstimateCharWidth(r rune, m *Metrics, fontSize float64) float64 {
	if m == nil || m.font == nil || fontSize <= 0 {
		return DefaultCharWidthRatio * fontSize
	}

	key := widthKey{family: m.Family, r: r, size: int(fontSize + 0.5)}

	s.mu.Lock()
	defer s.mu.Unlock()

	if w, ok := s.widthCache[key]; ok {
		return w
	}

	w := s.advanceLocked(m, r, fontSize)
	s.widthCache[key] = w
	return w
}

// advanceLocked looks up a glyph advance; callers hold s.mu
func (s *SfntResolver) advanceLocked(m *Metrics, r rune, fontSize float64) float64 {
	ppem := fixed.Int26_6(fontSize * 64)
	gi, err := m.font.GlyphIndex(&s.buf, r)
	if err != nil || gi == 0 {
		return DefaultCharWidthRatio * fontSize
	}

	adv, err := m.font.GlyphAdvance(&s.buf, gi, ppem, font.HintingNone)
	if err != nil {
		return DefaultCharWidthRatio * fontSize
	}
	return float64(adv) / 64
}

// normalizeFamily canonicalizes a family name for lookup. Decoder-supplied
// names often carry subset prefixes ("ABCDEF+Helvetica") and style suffixes.
func normalizeFamily(family string) string {
	name := family
	if i := strings.IndexByte(name, '+'); i >= 0 && i == 6 {
		name = name[i+1:]
	}
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "")
	name = strings.ReplaceAll(name, "-", "")
	return name
}

// EstimateStringWidth sums predicted advances for every rune in s using the
// given resolver, metrics and size.
func EstimateStringWidth(resolver Resolver, s string, m *Metrics, fontSize float64) float64 {
	total := 0.0
	for _, r := range s {
		total += resolver.EstimateCharWidth(r, m, fontSize)
	}
	return total
}
