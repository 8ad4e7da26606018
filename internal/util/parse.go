package util

import (
	"regexp"
	"strings"
)

var priceRegex = regexp.MustCompile(`Deal Price\s*:\s*₹\s*(\d+)`)

// ExtractPrice finds the first "Deal Price : ₹<digits>" marker in text and
// returns it formatted as "₹<digits>". ok is false when no price marker
// matches; malformed price text never causes an error, only a miss.
func ExtractPrice(text string) (price string, ok bool) {
	m := priceRegex.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return "₹" + m[1], true
}

// StripMarkers removes decorative fire emoji and surrounding whitespace from
// a product name line.
func StripMarkers(line string) string {
	return strings.TrimSpace(strings.ReplaceAll(line, "🔥", ""))
}

// FirstLine returns the first line of text, without the trailing newline.
func FirstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}
