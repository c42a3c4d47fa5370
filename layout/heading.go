package layout

import (
	"regexp"
	"strings"
)

// ParagraphStyle represents the detected style of a paragraph
type ParagraphStyle int

const (
	StyleNormal ParagraphStyle = iota
	StyleHeading1
	StyleHeading2
	StyleHeading3
	StyleListItem
)

// String returns a string representation of the paragraph style
func (s ParagraphStyle) String() string {
	switch s {
	case StyleHeading1:
		return "heading1"
	case StyleHeading2:
		return "heading2"
	case StyleHeading3:
		return "heading3"
	case StyleListItem:
		return "list-item"
	default:
		return "normal"
	}
}

// HeadingLevel returns the heading level (1-3), or 0 for non-headings
func (s ParagraphStyle) HeadingLevel() int {
	switch s {
	case StyleHeading1:
		return 1
	case StyleHeading2:
		return 2
	case StyleHeading3:
		return 3
	default:
		return 0
	}
}

// StyleConfig holds configuration for paragraph style detection
type StyleConfig struct {
	// Heading1Ratio is the font size ratio (paragraph / dominant) at or
	// above which a paragraph is a top-level heading (default: 2.0)
	Heading1Ratio float64

	// Heading2Ratio marks second-level headings (default: 1.5)
	Heading2Ratio float64

	// Heading3Ratio marks third-level headings (default: 1.2)
	Heading3Ratio float64

	// ListItemPatterns are regex patterns that indicate list items
	ListItemPatterns []string
}

// DefaultStyleConfig returns sensible default configuration
func DefaultStyleConfig() StyleConfig {
	return StyleConfig{
		Heading1Ratio: 2.0,
		Heading2Ratio: 1.5,
		Heading3Ratio: 1.2,
		ListItemPatterns: []string{
			`^[•\-\*→►◦‣]\s`, // bullet points
			`^\d+[\.\)]\s`,        // numbered: 1. or 1)
			`^[a-zA-Z][\.\)]\s`,   // lettered: a. or a)
			`^[ivxIVX]+[\.\)]\s`,  // roman numerals
		},
	}
}

// StyleDetector assigns paragraph styles using font size ratios relative to
// the page's dominant size and list-marker pattern matching
type StyleDetector struct {
	config       StyleConfig
	listPatterns []*regexp.Regexp
}

// NewStyleDetector creates a style detector with default configuration
func NewStyleDetector() *StyleDetector {
	return NewStyleDetectorWithConfig(DefaultStyleConfig())
}

// NewStyleDetectorWithConfig creates a style detector with custom configuration
func NewStyleDetectorWithConfig(config StyleConfig) *StyleDetector {
	d := &StyleDetector{config: config}
	for _, pattern := range config.ListItemPatterns {
		if re, err := regexp.Compile(pattern); err == nil {
			d.listPatterns = append(d.listPatterns, re)
		}
	}
	return d
}

// ApplyStyles classifies every paragraph in the given regions. The dominant
// font size is the page-wide mode as computed by the statistics analyzer;
// a non-positive value disables heading detection.
func (d *StyleDetector) ApplyStyles(regions []Region, dominantFontSize float64) {
	for r := range regions {
		for p := range regions[r].Paragraphs {
			para := &regions[r].Paragraphs[p]
			para.Style = d.classify(para, dominantFontSize)
		}
	}
}

// classify returns the style of a single paragraph. List markers win over
// heading ratios: an enumerated item in large type is still a list item.
func (d *StyleDetector) classify(para *Paragraph, dominantFontSize float64) ParagraphStyle {
	if d.isListItem(para.Text) {
		return StyleListItem
	}
	if dominantFontSize <= 0 || para.AverageFontSize <= 0 {
		return StyleNormal
	}

	ratio := para.AverageFontSize / dominantFontSize
	switch {
	case ratio >= d.config.Heading1Ratio:
		return StyleHeading1
	case ratio >= d.config.Heading2Ratio:
		return StyleHeading2
	case ratio >= d.config.Heading3Ratio:
		return StyleHeading3
	default:
		return StyleNormal
	}
}

// isListItem reports whether the text starts with a list marker
func (d *StyleDetector) isListItem(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	for _, re := range d.listPatterns {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}
