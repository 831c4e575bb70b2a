package services

import (
	"defects-register/models"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Ellipsis is appended to cell text that had to be shortened
const Ellipsis = "..."

// CellPlaceholder replaces the content of a cell that failed to render
const CellPlaceholder = "-"

var unsafeCellChars = regexp.MustCompile(`[^A-Za-z0-9 .,;:!?'"()\[\]/\\&%+#@*=<>_-]`)

// SanitizeCellText prepares free text for a core-font table cell: every kind of
// whitespace becomes a space, non-printable and non-ASCII runes are dropped, anything
// outside the safe character set is dropped, and space runs collapse to one.
func SanitizeCellText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case r > unicode.MaxASCII || !unicode.IsPrint(r):
		default:
			b.WriteRune(r)
		}
	}
	cleaned := unsafeCellChars.ReplaceAllString(b.String(), "")
	return strings.Join(strings.Fields(cleaned), " ")
}

// TruncateToWidth shortens text so that it measures no wider than maxWidth, appending
// Ellipsis only when characters were removed. Character widths are accumulated until
// the budget left after the ellipsis is exceeded; the joined result is then measured
// again so kerning or rounding in measure can never push it past maxWidth.
func TruncateToWidth(text string, maxWidth float64, measure func(string) float64) (string, error) {
	if measure(text) <= maxWidth {
		return text, nil
	}

	ellipsisWidth := measure(Ellipsis)
	if ellipsisWidth > maxWidth {
		return "", fmt.Errorf("%w: width %.2f cannot hold an ellipsis (%.2f)", models.ErrRender, maxWidth, ellipsisWidth)
	}
	budget := maxWidth - ellipsisWidth

	used := 0.0
	cut := 0
	for i, r := range text {
		w := measure(string(r))
		if used+w > budget {
			break
		}
		used += w
		cut = i + utf8.RuneLen(r)
	}

	kept := text[:cut]
	for kept != "" && measure(kept+Ellipsis) > maxWidth {
		_, size := utf8.DecodeLastRuneInString(kept)
		kept = kept[:len(kept)-size]
	}
	return strings.TrimRight(kept, " ") + Ellipsis, nil
}
