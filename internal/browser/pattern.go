package browser

import (
	"regexp"
	"strings"
)

// regexLiteral matches user input written as /body/flags.
var regexLiteral = regexp.MustCompile(`^/(.+)/([a-z]*)$`)

// PatternKind tags the variant held by a Pattern.
type PatternKind int

const (
	// Literal matches the text verbatim.
	Literal PatternKind = iota
	// Regex matches with a compiled regular expression.
	Regex
)

// Pattern is a filter pattern: either literal text or a compiled regex.
type Pattern struct {
	kind PatternKind
	text string
	re   *regexp.Regexp
}

// LiteralPattern returns a literal pattern for text.
func LiteralPattern(text string) Pattern {
	return Pattern{kind: Literal, text: text}
}

// ParsePattern builds a pattern from raw user input. When regex is allowed and
// the input looks like /body/flags, the body is compiled; anything that fails
// to compile is matched literally instead.
func ParsePattern(raw string, allowRegex bool) Pattern {
	if !allowRegex {
		return LiteralPattern(raw)
	}
	m := regexLiteral.FindStringSubmatch(raw)
	if m == nil {
		return LiteralPattern(raw)
	}
	prefix, ok := regexFlags(m[2])
	if !ok {
		return LiteralPattern(raw)
	}
	re, err := regexp.Compile(prefix + m[1])
	if err != nil {
		return LiteralPattern(raw)
	}
	return Pattern{kind: Regex, text: raw, re: re}
}

// regexFlags maps trailing flags to Go inline flags. Flags with no
// meaning for a single-string test (g, u, y) are accepted and dropped.
func regexFlags(flags string) (string, bool) {
	var inline strings.Builder
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			if !strings.ContainsRune(inline.String(), f) {
				inline.WriteRune(f)
			}
		case 'g', 'u', 'y':
		default:
			return "", false
		}
	}
	if inline.Len() == 0 {
		return "", true
	}
	return "(?" + inline.String() + ")", true
}

// Kind reports which variant the pattern holds.
func (p Pattern) Kind() PatternKind {
	return p.kind
}

// Text returns the literal text, or the raw input for a regex.
func (p Pattern) Text() string {
	return p.text
}

// IsEmpty reports whether the pattern filters nothing.
func (p Pattern) IsEmpty() bool {
	return p.kind == Literal && p.text == ""
}

// Contains matches label by substring, or by regex for a regex pattern.
func (p Pattern) Contains(label string) bool {
	if p.kind == Regex {
		return p.re.MatchString(label)
	}
	return strings.Contains(label, p.text)
}
