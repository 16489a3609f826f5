package styler

import (
	"math"
	"strings"
)

// Line is one line of text together with its region of the style buffer.
// Offsets are byte offsets into Text; the line terminator is not part of it.
type Line struct {
	Text   string
	buf    []byte
	locked bool
}

// SetLock turns first-writer-wins painting on or off for this line.
func (l *Line) SetLock(on bool) { l.locked = on }

func limit(count int) int {
	if count <= 0 {
		return math.MaxInt
	}
	return count
}

// paint writes tag over [start, end). Callers pass in-bounds offsets.
func (l *Line) paint(start, end int, tag Tag) {
	for i := start; i < end; i++ {
		if l.locked && l.buf[i] != byte(Default) {
			continue
		}
		l.buf[i] = byte(tag)
	}
}

// PaintRange paints the inclusive offsets [start, stop], clamped to the line.
func (l *Line) PaintRange(start, stop int, tag Tag) {
	if start < 0 {
		start = 0
	}
	if stop >= len(l.Text) {
		stop = len(l.Text) - 1
	}
	if start > stop {
		return
	}
	l.paint(start, stop+1, tag)
}

// PaintDigits paints up to count ASCII digits, left to right.
func (l *Line) PaintDigits(tag Tag, count int) {
	n := limit(count)
	for i := 0; i < len(l.Text) && n > 0; i++ {
		c := l.Text[i]
		if c >= '0' && c <= '9' {
			l.paint(i, i+1, tag)
			n--
		}
	}
}

// PaintString paints up to count non-overlapping occurrences of word,
// searching from the start of the line.
func (l *Line) PaintString(word string, tag Tag, count int) {
	if word == "" {
		return
	}
	n := limit(count)
	for pos := 0; n > 0; n-- {
		i := strings.Index(l.Text[pos:], word)
		if i < 0 {
			return
		}
		i += pos
		pos = i + len(word)
		l.paint(i, pos, tag)
	}
}

// PaintRString is PaintString searching backwards from the end of the line.
func (l *Line) PaintRString(word string, tag Tag, count int) {
	if word == "" {
		return
	}
	n := limit(count)
	for end := len(l.Text); n > 0; n-- {
		i := strings.LastIndex(l.Text[:end], word)
		if i < 0 {
			return
		}
		l.paint(i, i+len(word), tag)
		end = i
	}
}

// PaintPairs paints up to count word1...word2 pairs. Inclusive pairs cover
// both needles; otherwise only the text between them, skipping empty gaps.
func (l *Line) PaintPairs(word1, word2 string, inclusive bool, tag Tag, count int) {
	if word1 == "" || word2 == "" {
		return
	}
	n := limit(count)
	for pos := 0; n > 0; n-- {
		i := strings.Index(l.Text[pos:], word1)
		if i < 0 {
			return
		}
		i += pos
		open := i + len(word1)
		j := strings.Index(l.Text[open:], word2)
		if j < 0 {
			return
		}
		j += open
		pos = j + len(word2)
		if inclusive {
			l.paint(i, pos, tag)
		} else if j > open {
			l.paint(open, j, tag)
		}
	}
}

// PaintFirstLast paints from the first word1 to the last word2 on the line.
// Nothing is painted unless word1 ends at or before the start of word2.
func (l *Line) PaintFirstLast(word1, word2 string, inclusive bool, tag Tag) {
	if word1 == "" || word2 == "" {
		return
	}
	i := strings.Index(l.Text, word1)
	j := strings.LastIndex(l.Text, word2)
	if i < 0 || j < 0 || i+len(word1) > j {
		return
	}
	if inclusive {
		l.paint(i, j+len(word2), tag)
	} else {
		l.paint(i+len(word1), j, tag)
	}
}
