// Package language decides whether a document language is one the model was
// trained for.
package language

import (
	"fmt"

	"golang.org/x/text/language"
)

type Matcher struct {
	tags    []language.Tag
	matcher language.Matcher
}

// New parses the configured BCP 47 codes. An empty list supports every language.
func New(codes []string) (*Matcher, error) {
	tags := make([]language.Tag, 0, len(codes))
	for _, code := range codes {
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("invalid language %q: %w", code, err)
		}
		tags = append(tags, tag)
	}

	m := &Matcher{tags: tags}
	if len(tags) > 0 {
		m.matcher = language.NewMatcher(tags)
	}
	return m, nil
}

// Supported reports whether code matches a configured language with at least high
// confidence, so "de-AT" matches "de" but "nl" does not. An empty code means the
// caller did not say and is accepted.
func (m *Matcher) Supported(code string) bool {
	if m.matcher == nil || code == "" {
		return true
	}
	tag, err := language.Parse(code)
	if err != nil {
		return false
	}
	_, _, confidence := m.matcher.Match(tag)
	return confidence >= language.High
}

// Languages returns the configured languages in canonical form.
func (m *Matcher) Languages() []string {
	codes := make([]string, len(m.tags))
	for i, tag := range m.tags {
		codes[i] = tag.String()
	}
	return codes
}
