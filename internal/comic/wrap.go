package comic

import (
	"strings"
	"unicode/utf8"
)

// WrapColumns is the line width, in characters, used for every text block.
const WrapColumns = 70

// Wrap splits text into lines greedily: words are appended while the joined
// line stays within width characters; the overflowing word starts the next
// line. A single word longer than width gets a line of its own, and when that
// word opens the text it is preceded by an empty line. Width counts runes,
// not glyph widths.
func Wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var (
		lines   []string
		current []string
		length  int // rune length of strings.Join(current, " ")
	)
	for _, w := range words {
		wl := utf8.RuneCountInString(w)
		next := wl
		if len(current) > 0 {
			next = length + 1 + wl
		}
		if next > width {
			lines = append(lines, strings.Join(current, " "))
			current = current[:0]
			next = wl
		}
		current = append(current, w)
		length = next
	}
	return append(lines, strings.Join(current, " "))
}
