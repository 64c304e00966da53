package transform

import "strings"

// Substitution is a literal pronoun rewrite
type Substitution struct {
	From string
	To   string
}

// DefaultSubstitutions are the binary pronoun idioms, in application order
var DefaultSubstitutions = []Substitution{
	{From: "he/she", To: "they"},
	{From: "his/her", To: "their"},
	{From: "him/her", To: "them"},
	{From: "his/hers", To: "theirs"},
}

// PronounSubstitutor rewrites binary pronoun idioms to singular they
type PronounSubstitutor struct {
	subs []Substitution
}

// NewPronounSubstitutor creates a substitutor using DefaultSubstitutions
func NewPronounSubstitutor() *PronounSubstitutor {
	return &PronounSubstitutor{subs: DefaultSubstitutions}
}

// Rewrite applies every substitution in order, each to all occurrences
func (p *PronounSubstitutor) Rewrite(text string) string {
	for _, s := range p.subs {
		text = strings.ReplaceAll(text, s.From, s.To)
	}
	return text
}

// Substitutions returns the substitutions in application order
func (p *PronounSubstitutor) Substitutions() []Substitution {
	return p.subs
}
