package spacing

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/width"
)

// Adjustment is a threshold bound proposed by one boundary rule, expressed
// as a factor applied to the line model's base threshold. Factors below 1
// loosen the boundary (more likely to insert a space); factors above 1
// tighten it.
type Adjustment struct {
	// Name identifies the rule for diagnostics
	Name string

	// Factor scales the base word-break threshold
	Factor float64
}

// Rule inspects the tokens at a boundary and optionally proposes a
// threshold adjustment. Rules are pure functions of the boundary tokens;
// they are evaluated in a fixed order and their proposals composed by the
// classifier.
type Rule func(prev, next boundaryTokens) (Adjustment, bool)

// boundaryTokens carries the token context on each side of a boundary:
// the full run text and the token immediately adjacent to the gap.
type boundaryTokens struct {
	full  string
	token string
}

// Rule factors, as multiples of the calibrated base threshold.
const (
	digitPairFactor  = 1.35
	emailPairFactor  = 2.2
	singleCharFactor = 2.2
	longWordsFactor  = 0.15
	shortAlphaFactor = 1.85
	afterSepFactor   = 0.28
	caseSplitFactor  = 0.08
	connectorFactor  = 0.18
)

// connectorWords are short function words that almost always stand alone;
// a boundary touching one is very likely a genuine word break.
var connectorWords = map[string]bool{
	"to": true, "of": true, "in": true, "on": true, "at": true,
	"by": true, "or": true, "an": true, "as": true, "if": true,
	"is": true,
}

var urlPattern = regexp.MustCompile(`(?i)^(?:https?|ftp|file|mailto):|://`)

// defaultRules is the ordered cascade evaluated at every boundary. Order
// matters only for the long-word/short-fragment pair: the short-fragment
// rule yields when the long-word rule has already matched.
func defaultRules() []Rule {
	return []Rule{
		ruleDigitPair,
		ruleEmailPair,
		ruleSingleCharPair,
		ruleLongWords,
		ruleShortAlphaFragments,
		ruleAfterSeparator,
		ruleCaseBoundary,
		ruleConnectorWord,
	}
}

// ruleDigitPair tightens digit-to-digit boundaries so numeric sequences
// (ticket numbers, IDs) are not split.
func ruleDigitPair(prev, next boundaryTokens) (Adjustment, bool) {
	if endsWithDigit(prev.token) && startsWithDigit(next.token) {
		return Adjustment{Name: "digit-pair", Factor: digitPairFactor}, true
	}
	return Adjustment{}, false
}

// ruleEmailPair tightens boundaries that look like the inside of an email
// address or domain name: an '@' on either side, or a dotted alnum token
// (a plausible host like "www.example") meeting a TLD token. The left side
// must already contain a dot; many registered gTLDs are ordinary English
// words ("seat", "world", "link"), so a bare word on the right is not
// enough domain context on its own.
func ruleEmailPair(prev, next boundaryTokens) (Adjustment, bool) {
	if strings.ContainsRune(prev.token, '@') || strings.ContainsRune(next.token, '@') {
		return Adjustment{Name: "email-pair", Factor: emailPairFactor}, true
	}
	if strings.ContainsRune(prev.token, '.') && isAlnumDotToken(prev.token) && isTLDLike(next.token) {
		return Adjustment{Name: "email-pair", Factor: emailPairFactor}, true
	}
	return Adjustment{}, false
}

// ruleSingleCharPair tightens single-alnum-to-single-alnum boundaries to
// avoid splitting initials and abbreviations.
func ruleSingleCharPair(prev, next boundaryTokens) (Adjustment, bool) {
	if isSingleAlnum(prev.token) && isSingleAlnum(next.token) {
		return Adjustment{Name: "single-char-pair", Factor: singleCharFactor}, true
	}
	return Adjustment{}, false
}

// ruleLongWords loosens boundaries between two multi-character alphabetic
// tokens: long real words separated by even a small rendering gap are very
// likely a genuine word boundary.
func ruleLongWords(prev, next boundaryTokens) (Adjustment, bool) {
	if alphaLen(prev.token) >= 3 && alphaLen(next.token) >= 3 {
		return Adjustment{Name: "long-words", Factor: longWordsFactor}, true
	}
	return Adjustment{}, false
}

// ruleShortAlphaFragments tightens boundaries between short alphabetic
// fragments (1-3 chars on both sides) to avoid fragmenting abbreviations.
// It yields to ruleLongWords, which runs earlier in the cascade.
func ruleShortAlphaFragments(prev, next boundaryTokens) (Adjustment, bool) {
	pl, nl := alphaLen(prev.token), alphaLen(next.token)
	if pl >= 1 && pl <= 3 && nl >= 1 && nl <= 3 {
		if pl >= 3 && nl >= 3 {
			return Adjustment{}, false // long-word rule already covered this
		}
		return Adjustment{Name: "short-alpha", Factor: shortAlphaFactor}, true
	}
	return Adjustment{}, false
}

// ruleAfterSeparator loosens boundaries immediately after ':', ';' or ','
// followed by an alphanumeric: separators are almost always followed by a
// space.
func ruleAfterSeparator(prev, next boundaryTokens) (Adjustment, bool) {
	if prev.full == "" || next.token == "" {
		return Adjustment{}, false
	}
	last := lastRune(prev.full)
	if (last == ':' || last == ';' || last == ',') && startsWithAlnum(next.token) {
		return Adjustment{Name: "after-separator", Factor: afterSepFactor}, true
	}
	return Adjustment{}, false
}

// ruleCaseBoundary loosens lowercase-to-uppercase boundaries between two
// words of at least 2 letters: a strong signal of a missing space between
// concatenated words.
func ruleCaseBoundary(prev, next boundaryTokens) (Adjustment, bool) {
	if alphaLen(prev.token) < 2 || alphaLen(next.token) < 2 {
		return Adjustment{}, false
	}
	if unicode.IsLower(lastRune(prev.token)) && unicode.IsUpper(firstRune(next.token)) {
		return Adjustment{Name: "case-boundary", Factor: caseSplitFactor}, true
	}
	return Adjustment{}, false
}

// ruleConnectorWord loosens alpha boundaries touching a common short
// connector word on either side.
func ruleConnectorWord(prev, next boundaryTokens) (Adjustment, bool) {
	if !isAlphaToken(prev.token) || !isAlphaToken(next.token) {
		return Adjustment{}, false
	}
	if connectorWords[strings.ToLower(prev.token)] || connectorWords[strings.ToLower(next.token)] {
		return Adjustment{Name: "connector-word", Factor: connectorFactor}, true
	}
	return Adjustment{}, false
}

// inURLContext reports whether the boundary sits inside a URL: either side
// matches a scheme pattern, or a slash boundary joins the two sides.
func inURLContext(prev, next boundaryTokens) bool {
	if urlPattern.MatchString(prev.token) || urlPattern.MatchString(next.token) {
		return true
	}
	if strings.HasSuffix(prev.token, "/") || strings.HasPrefix(next.token, "/") {
		return true
	}
	if strings.HasSuffix(prev.token, "://") || strings.Contains(prev.token, "://") {
		return true
	}
	return false
}

// startsURL reports whether next begins a URL while prev is ordinary text,
// the one situation where a space is allowed next to a URL.
func startsURL(prev, next boundaryTokens) bool {
	if !urlPattern.MatchString(next.token) {
		return false
	}
	if prev.token == "" {
		return false
	}
	last := lastRune(prev.token)
	return unicode.IsLetter(last) || unicode.IsDigit(last) || last == ')'
}

// isCJKBoundary reports whether either side of the boundary ends/starts in
// a script written without word spaces (Han, Kana, Hangul, or East Asian
// wide forms). Such boundaries never receive an inserted space.
func isCJKBoundary(prev, next boundaryTokens) bool {
	return isCJKRune(lastRune(prev.token)) || isCJKRune(firstRune(next.token))
}

func isCJKRune(r rune) bool {
	if r == 0 {
		return false
	}
	if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) {
		return true
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}

// isTLDLike reports whether a short alphabetic token is a real top-level
// domain, validated against the public suffix list.
func isTLDLike(tok string) bool {
	tok = strings.TrimRight(tok, ".,;:!?)")
	if len(tok) < 2 || len(tok) > 6 || !isAlphaToken(tok) {
		return false
	}
	lower := strings.ToLower(tok)
	suffix, icann := publicsuffix.PublicSuffix(lower)
	return icann && suffix == lower
}

// Token helpers

// trailingToken returns the token adjacent to the gap on the left side
func trailingToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// leadingToken returns the token adjacent to the gap on the right side
func leadingToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}

func startsWithDigit(s string) bool {
	return unicode.IsDigit(firstRune(s))
}

func endsWithDigit(s string) bool {
	return unicode.IsDigit(lastRune(s))
}

func startsWithAlnum(s string) bool {
	r := firstRune(s)
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isSingleAlnum(s string) bool {
	runes := []rune(s)
	if len(runes) != 1 {
		return false
	}
	return unicode.IsLetter(runes[0]) || unicode.IsDigit(runes[0])
}

func isAlphaToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// alphaLen counts the letters in a token, ignoring punctuation
func alphaLen(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

func isAlnumDotToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' {
			return false
		}
	}
	return true
}

func isClosingPunct(r rune) bool {
	switch r {
	case ',', '.', ';', ':', '!', '?', ')':
		return true
	}
	return false
}
