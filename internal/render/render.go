// Package render turns text plus a style buffer into terminal output.
package render

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"MarketLens/internal/styler"
)

// ANSI color numbers for each hue, in styler hue order. FOREGROUND has none.
var hueColors = [styler.HueCount]lipgloss.Color{"", "8", "1", "2", "4", "5", "3", "6"}

// Theme maps every styler.Tag to a lipgloss style. Themes are plain values;
// build one per output and pass it where rendering happens.
type Theme struct {
	styles [styler.TagCount]lipgloss.Style
}

// NewTheme builds the default theme on renderer r. A nil r uses lipgloss'
// default renderer, which detects the color profile of stdout.
func NewTheme(r *lipgloss.Renderer) *Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	th := &Theme{}
	for i := 0; i < styler.TagCount; i++ {
		tag := styler.Default + styler.Tag(i)
		color := hueColors[int(tag.Hue()-styler.Default)]
		st := r.NewStyle()

		switch tag.Variant() {
		case styler.Background, styler.BackgroundBold, styler.BackgroundItalic:
			if color == "" {
				st = st.Reverse(true)
			} else {
				st = st.Background(color).Foreground(lipgloss.Color("0"))
			}
		default:
			if color != "" {
				st = st.Foreground(color)
			}
		}
		switch tag.Variant() {
		case styler.Bold, styler.BackgroundBold:
			st = st.Bold(true)
		case styler.Italic, styler.BackgroundItalic:
			st = st.Italic(true)
		}
		th.styles[i] = st
	}
	return th
}

// Set overrides the style of one tag.
func (th *Theme) Set(tag styler.Tag, st lipgloss.Style) {
	if tag.Valid() {
		th.styles[tag-styler.Default] = st
	}
}

// Style returns the style for tag; invalid tags get the default style.
func (th *Theme) Style(tag styler.Tag) lipgloss.Style {
	if !tag.Valid() {
		tag = styler.Default
	}
	return th.styles[tag-styler.Default]
}

// Render writes text with each run of equal tags styled. buf must be the
// style buffer for text; bytes past its end render unstyled. Newlines are
// always written raw so lipgloss never pads lines into a block.
func (th *Theme) Render(text string, buf []byte) string {
	var b strings.Builder
	b.Grow(len(text))

	tagAt := func(i int) styler.Tag {
		if i < len(buf) {
			return styler.Tag(buf[i])
		}
		return styler.Default
	}

	for start := 0; start < len(text); {
		if text[start] == '\n' {
			b.WriteByte('\n')
			start++
			continue
		}
		tag := tagAt(start)
		_, size := utf8.DecodeRuneInString(text[start:])
		end := start + size
		for end < len(text) && text[end] != '\n' && tagAt(end) == tag {
			_, size = utf8.DecodeRuneInString(text[end:])
			end += size
		}
		run := text[start:end]
		if tag == styler.Default {
			b.WriteString(run)
		} else {
			b.WriteString(th.Style(tag).Render(run))
		}
		start = end
	}
	return b.String()
}
