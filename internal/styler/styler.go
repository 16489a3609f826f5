// Package styler computes per-byte color tags for text from an ordered set
// of rules. The result is a style buffer the same length as the text which a
// renderer overlays on the text in one pass.
package styler

import (
	"strings"

	"MarketLens/internal/logger"
)

// LineFunc paints one line directly with the Line primitives. row is 0-based.
type LineFunc func(l *Line, row int)

// CustomFunc implements Custom rules.
type CustomFunc func(l *Line, row int, rule Custom)

// Styler applies Rules to text. With no Rules, Fallback (if set) is called
// for every line instead. A Styler holds no per-pass state and may be used
// from several goroutines.
type Styler struct {
	Rules    []Rule
	Custom   CustomFunc
	Fallback LineFunc
	Logger   *logger.Logger
}

// New parses config into a Styler. A malformed config is logged and leaves
// the Styler without rules, so styling falls back to Fallback or does nothing.
// The parse error is still returned for callers that want to surface it.
func New(config string, log *logger.Logger) (*Styler, error) {
	s := &Styler{Logger: log}
	rules, err := ParseRules(config)
	if err != nil {
		log.WithFields(map[string]any{"error": err.Error()}).Warn("style rules rejected, styling disabled")
		return s, err
	}
	s.Rules = rules
	log.WithFields(map[string]any{"rules": len(rules)}).Debug("style rules loaded")
	return s, nil
}

// Style returns a style buffer with one tag per byte of text.
func (s *Styler) Style(text string) []byte {
	buf := make([]byte, len(text))
	for i := range buf {
		buf[i] = byte(Default)
	}
	if len(s.Rules) == 0 && s.Fallback == nil {
		return buf
	}

	start, row := 0, 0
	for start <= len(text) {
		end := strings.IndexByte(text[start:], '\n')
		next := 0
		if end < 0 {
			end = len(text)
			next = len(text) + 1
		} else {
			end += start
			next = end + 1
		}
		if end > start || next <= len(text) {
			s.styleLine(&Line{Text: text[start:end], buf: buf[start:end]}, row)
		}
		start = next
		row++
	}
	return buf
}

// StyleLines styles lines joined with '\n'.
func (s *Styler) StyleLines(lines []string) []byte {
	return s.Style(strings.Join(lines, "\n"))
}

func (s *Styler) styleLine(l *Line, row int) {
	if len(s.Rules) == 0 {
		s.Fallback(l, row)
		return
	}
	for _, r := range s.Rules {
		r.apply(l, row, s)
	}
}
