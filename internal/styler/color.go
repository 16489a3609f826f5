package styler

import "strings"

// Tag is a single-byte symbolic color stored per byte of styled text.
type Tag byte

// Hues, in tag order. Each hue exists in six variants (see variantPrefixes).
var hueNames = [...]string{"FOREGROUND", "GRAY", "RED", "GREEN", "BLUE", "MAGENTA", "YELLOW", "CYAN"}

var variantPrefixes = [...]string{"", "BOLD_", "ITALIC_", "BG_", "BG_BOLD_", "BG_ITALIC_"}

// HueCount and VariantCount describe the layout of the tag table.
const (
	HueCount     = len(hueNames)
	VariantCount = len(variantPrefixes)
	TagCount     = HueCount * VariantCount
)

// Default is the tag every byte holds before any rule paints it.
const Default Tag = 'A'

const (
	Foreground Tag = Default + iota
	Gray
	Red
	Green
	Blue
	Magenta
	Yellow
	Cyan
)

// Variant offsets.
const (
	Plain = iota
	Bold
	Italic
	Background
	BackgroundBold
	BackgroundItalic
)

// MakeTag combines a base hue (Foreground..Cyan) with a variant.
func MakeTag(hue Tag, variant int) Tag {
	h := int(hue - Default)
	if h < 0 || h >= HueCount || variant < 0 || variant >= VariantCount {
		return Default
	}
	return Default + Tag(variant*HueCount+h)
}

// Hue returns the base hue of t.
func (t Tag) Hue() Tag {
	if !t.Valid() {
		return Default
	}
	return Default + Tag(int(t-Default)%HueCount)
}

// Variant returns the variant offset of t.
func (t Tag) Variant() int {
	if !t.Valid() {
		return Plain
	}
	return int(t-Default) / HueCount
}

func (t Tag) Valid() bool {
	return t >= Default && int(t-Default) < TagCount
}

func (t Tag) String() string {
	if !t.Valid() {
		return "INVALID"
	}
	return variantPrefixes[t.Variant()] + hueNames[int(t.Hue()-Default)]
}

var tagsByName = func() map[string]Tag {
	m := make(map[string]Tag, TagCount)
	for i := 0; i < TagCount; i++ {
		t := Default + Tag(i)
		m[t.String()] = t
	}
	return m
}()

// ParseTag looks up a tag by name, case-insensitively ("red", "BG_BOLD_CYAN").
func ParseTag(name string) (Tag, bool) {
	t, ok := tagsByName[strings.ToUpper(strings.TrimSpace(name))]
	return t, ok
}
