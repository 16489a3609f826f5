package styler

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// ParseError reports a malformed rule document. Line and Column are 1-based;
// Column is 0 when the parser could not tell. Offset is the byte offset of
// the reported position within the document.
type ParseError struct {
	Line    int
	Column  int
	Offset  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Column > 0 {
		return fmt.Sprintf("rules: line %d, column %d (byte %d): %s", e.Line, e.Column, e.Offset, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("rules: line %d (byte %d): %s", e.Line, e.Offset, e.Message)
	}
	return "rules: " + e.Message
}

// Unwrap exposes the underlying yaml error, if any.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// section holds every field any rule kind understands; unknown fields are dropped.
type section struct {
	On        bool   `yaml:"on"`
	Start     int    `yaml:"start"`
	Stop      int    `yaml:"stop"`
	Color     string `yaml:"color"`
	Count     int    `yaml:"count"`
	Word1     string `yaml:"word1"`
	Word2     string `yaml:"word2"`
	Inclusive bool   `yaml:"inclusive"`
}

var yamlLineRe = regexp.MustCompile(`line (\d+)(?:, column (\d+))?: (.*)`)

// ParseRules parses a rule document. The document is YAML or JSON; its top
// level is a mapping of sections (or a sequence of such mappings) applied in
// document order. A section's kind is the leading letters of its key, so
// "string" and "string2" are both string rules. Unknown kinds and fields are
// ignored. On error the returned rule set is nil.
func ParseRules(config string) ([]Rule, error) {
	if strings.TrimSpace(config) == "" {
		return nil, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(config), &doc); err != nil {
		return nil, syntaxError(config, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	var rules []Rule
	switch root.Kind {
	case yaml.MappingNode:
		if err := appendSections(&rules, config, root); err != nil {
			return nil, err
		}
	case yaml.SequenceNode:
		for _, item := range root.Content {
			if item.Kind != yaml.MappingNode {
				return nil, nodeError(config, item, "sequence items must be mappings of rule sections", nil)
			}
			if err := appendSections(&rules, config, item); err != nil {
				return nil, err
			}
		}
	default:
		return nil, nodeError(config, root, "top level must be a mapping of rule sections", nil)
	}
	return rules, nil
}

func appendSections(rules *[]Rule, config string, m *yaml.Node) error {
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, value := m.Content[i], m.Content[i+1]
		kind := sectionKind(key.Value)
		if !knownKind(kind) {
			continue
		}
		if value.Kind != yaml.MappingNode {
			return nodeError(config, value, fmt.Sprintf("section %q must be a mapping", key.Value), nil)
		}
		var s section
		if err := value.Decode(&s); err != nil {
			return nodeError(config, value, fmt.Sprintf("section %q: %v", key.Value, err), err)
		}
		*rules = append(*rules, s.rule(kind))
	}
	return nil
}

func sectionKind(key string) string {
	end := strings.IndexFunc(key, func(r rune) bool { return !unicode.IsLetter(r) })
	if end < 0 {
		end = len(key)
	}
	return strings.ToLower(key[:end])
}

func knownKind(kind string) bool {
	switch kind {
	case "lock", "line", "num", "string", "rstring", "range", "between", "custom":
		return true
	}
	return false
}

func (s section) rule(kind string) Rule {
	color, ok := ParseTag(s.Color)
	if !ok {
		color = Default
	}
	switch kind {
	case "lock":
		return Lock{On: s.On}
	case "line":
		return LineRange{Start: s.Start, Stop: s.Stop, Color: color}
	case "num":
		return Num{Color: color, Count: s.Count}
	case "string":
		return String{Word: s.Word1, Color: color, Count: s.Count}
	case "rstring":
		return RString{Word: s.Word1, Color: color, Count: s.Count}
	case "range":
		return Range{Word1: s.Word1, Word2: s.Word2, Inclusive: s.Inclusive, Color: color, Count: s.Count}
	case "between":
		return Between{Word1: s.Word1, Word2: s.Word2, Inclusive: s.Inclusive, Color: color}
	default:
		return Custom{
			Word1: s.Word1, Word2: s.Word2, Color: color, Inclusive: s.Inclusive,
			Start: s.Start, Stop: s.Stop, Count: s.Count,
		}
	}
}

func syntaxError(config string, err error) *ParseError {
	pe := &ParseError{Message: strings.TrimPrefix(err.Error(), "yaml: "), Err: err}
	var te *yaml.TypeError
	if errors.As(err, &te) && len(te.Errors) > 0 {
		pe.Message = te.Errors[0]
	}
	if m := yamlLineRe.FindStringSubmatch(pe.Message); m != nil {
		pe.Line, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			pe.Column, _ = strconv.Atoi(m[2])
		}
		pe.Message = m[3]
	}
	pe.Offset = offsetOf(config, pe.Line, pe.Column)
	return pe
}

func nodeError(config string, n *yaml.Node, msg string, err error) *ParseError {
	return &ParseError{
		Line:    n.Line,
		Column:  n.Column,
		Offset:  offsetOf(config, n.Line, n.Column),
		Message: msg,
		Err:     err,
	}
}

// offsetOf converts a 1-based line/column into a byte offset.
func offsetOf(config string, line, column int) int {
	if line <= 0 {
		return 0
	}
	off := 0
	for l := 1; l < line; l++ {
		i := strings.IndexByte(config[off:], '\n')
		if i < 0 {
			return len(config)
		}
		off += i + 1
	}
	if column > 1 {
		off += column - 1
	}
	if off > len(config) {
		off = len(config)
	}
	return off
}
