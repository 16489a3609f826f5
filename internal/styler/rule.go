package styler

// Rule is one coloring instruction. The set of implementations is closed:
// Lock, LineRange, Num, String, RString, Range, Between and Custom.
type Rule interface {
	Kind() string
	apply(l *Line, row int, s *Styler)
}

// Lock switches first-writer-wins painting on or off for the rest of the line.
type Lock struct {
	On bool
}

// LineRange paints the inclusive byte offsets [Start, Stop].
type LineRange struct {
	Start, Stop int
	Color       Tag
}

// Num paints ASCII digits.
type Num struct {
	Color Tag
	Count int
}

// String paints occurrences of Word scanning left to right.
type String struct {
	Word  string
	Color Tag
	Count int
}

// RString paints occurrences of Word scanning right to left.
type RString struct {
	Word  string
	Color Tag
	Count int
}

// Range paints successive Word1...Word2 pairs.
type Range struct {
	Word1, Word2 string
	Inclusive    bool
	Color        Tag
	Count        int
}

// Between paints from the first Word1 to the last Word2 on the line.
type Between struct {
	Word1, Word2 string
	Inclusive    bool
	Color        Tag
}

// Custom carries parameters for the caller's CustomFunc.
type Custom struct {
	Word1, Word2 string
	Color        Tag
	Inclusive    bool
	Start, Stop  int
	Count        int
}

func (Lock) Kind() string      { return "lock" }
func (LineRange) Kind() string { return "line" }
func (Num) Kind() string       { return "num" }
func (String) Kind() string    { return "string" }
func (RString) Kind() string   { return "rstring" }
func (Range) Kind() string     { return "range" }
func (Between) Kind() string   { return "between" }
func (Custom) Kind() string    { return "custom" }

func (r Lock) apply(l *Line, _ int, _ *Styler)      { l.SetLock(r.On) }
func (r LineRange) apply(l *Line, _ int, _ *Styler) { l.PaintRange(r.Start, r.Stop, r.Color) }
func (r Num) apply(l *Line, _ int, _ *Styler)       { l.PaintDigits(r.Color, r.Count) }
func (r String) apply(l *Line, _ int, _ *Styler)    { l.PaintString(r.Word, r.Color, r.Count) }
func (r RString) apply(l *Line, _ int, _ *Styler)   { l.PaintRString(r.Word, r.Color, r.Count) }

func (r Range) apply(l *Line, _ int, _ *Styler) {
	l.PaintPairs(r.Word1, r.Word2, r.Inclusive, r.Color, r.Count)
}

func (r Between) apply(l *Line, _ int, _ *Styler) {
	l.PaintFirstLast(r.Word1, r.Word2, r.Inclusive, r.Color)
}

func (r Custom) apply(l *Line, row int, s *Styler) {
	if s.Custom != nil {
		s.Custom(l, row, r)
	}
}
