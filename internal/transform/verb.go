package transform

import (
	"strings"
	"unicode/utf8"
)

// Rule names reported on records
const (
	RuleTheyIs    = "they-is"
	RuleTheyHas   = "they-has"
	RuleTheyDoes  = "they-does"
	RuleTheyVerbS = "they-verb-s"
)

// Rule is one verb agreement rewrite. Apply reports whether the rule
// matched; a matched rule stops evaluation of later rules.
type Rule struct {
	Name        string
	Description string
	Apply       func(text string) (string, bool)
}

// DefaultVerbRules returns the verb rules in precedence order
func DefaultVerbRules() []Rule {
	return []Rule{
		literalRule(RuleTheyIs, "they is", "they are"),
		literalRule(RuleTheyHas, "they has", "they have"),
		literalRule(RuleTheyDoes, "they does", "they do"),
		{
			Name:        RuleTheyVerbS,
			Description: `"they <verb>s" -> "they <verb>"`,
			Apply:       stripVerbS,
		},
	}
}

// literalRule matches a plain substring, not a whole word
func literalRule(name, from, to string) Rule {
	return Rule{
		Name:        name,
		Description: `"` + from + `" -> "` + to + `"`,
		Apply: func(text string) (string, bool) {
			if !strings.Contains(text, from) {
				return text, false
			}
			return strings.ReplaceAll(text, from, to), true
		},
	}
}

// stripVerbS rewrites every "they <token>s" to "they <token>", where
// "they" starts a word, at least one whitespace character follows it, and
// the candidate runs up to the first "s" that ends a word. Word and
// whitespace classes are Unicode-aware.
func stripVerbS(text string) (string, bool) {
	var buf strings.Builder
	matched := false
	last := 0

	for from := 0; from < len(text); {
		i := strings.Index(text[from:], "they")
		if i < 0 {
			break
		}
		start := from + i

		candStart, candEnd, ok := matchVerbS(text, start)
		if !ok {
			from = start + 1
			continue
		}

		if !matched {
			buf.Grow(len(text))
			matched = true
		}
		buf.WriteString(text[last:start])
		buf.WriteString("they ")
		buf.WriteString(text[candStart : candEnd-1])
		last = candEnd
		from = candEnd
	}

	if !matched {
		return text, false
	}
	buf.WriteString(text[last:])
	return buf.String(), true
}

// matchVerbS checks for a match starting at the "they" at start and returns
// the byte range of the candidate token, which always ends in "s".
func matchVerbS(text string, start int) (int, int, bool) {
	if start > 0 {
		if prev, _ := utf8.DecodeLastRuneInString(text[:start]); isWord(prev) {
			return 0, 0, false
		}
	}

	// Whitespace gap of at least one character
	pos := start + len("they")
	gap := pos
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if !isSpace(r) {
			break
		}
		pos += size
	}
	if pos == gap {
		return 0, 0, false
	}

	// Shortest run of non-space characters ending in "s" at a word boundary
	candStart := pos
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if isSpace(r) {
			break
		}
		pos += size
		if r != 's' {
			continue
		}
		if pos == len(text) {
			return candStart, pos, true
		}
		if next, _ := utf8.DecodeRuneInString(text[pos:]); !isWord(next) {
			return candStart, pos, true
		}
	}

	return 0, 0, false
}

// VerbCorrector pluralizes verbs following "they"
type VerbCorrector struct {
	rules []Rule
}

// NewVerbCorrector creates a corrector over the given rules, or
// DefaultVerbRules when none are given
func NewVerbCorrector(rules ...Rule) *VerbCorrector {
	if len(rules) == 0 {
		rules = DefaultVerbRules()
	}
	return &VerbCorrector{rules: rules}
}

// Correct applies the first matching rule and returns the rewritten text
// with the rule's name. Text no rule matches is returned unchanged with an
// empty name.
func (v *VerbCorrector) Correct(text string) (string, string) {
	for _, rule := range v.rules {
		if out, ok := rule.Apply(text); ok {
			return out, rule.Name
		}
	}
	return text, ""
}

// Rules returns the rules in precedence order
func (v *VerbCorrector) Rules() []Rule {
	return v.rules
}
