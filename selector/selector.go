// Package selector parses selector groups of element names, such as "script, style", into a set of tags that can be matched per element.
package selector

import (
	"bytes"
	"math/bits"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/sanitize/tag"
)

// EscapeWorthy matches the elements whose text content must be dropped together with the element.
var EscapeWorthy = MustParse(tag.EscapeWorthySelector)

// Set is a set of tags, indexed by ordinal. The zero value is the empty set.
type Set [(tag.Count + 63) / 64]uint64

// Of returns the set holding the given tags.
func Of(tags ...tag.Tag) Set {
	s := Set{}
	for _, t := range tags {
		s.Add(t)
	}
	return s
}

// Parse parses a comma-separated list of element names. Names are case-insensitive and surrounding whitespace is ignored.
// Empty items, unknown element names and other selectors than type selectors return a *parse.Error.
func Parse(expr string) (Set, error) {
	s := Set{}
	start := 0
	for i := 0; i <= len(expr); i++ {
		if i < len(expr) && expr[i] != ',' {
			continue
		}

		item := expr[start:i]
		offset := start + len(item) - len(strings.TrimLeft(item, " \t\n\r\f"))
		item = strings.Trim(item, " \t\n\r\f")
		if len(item) == 0 {
			return Set{}, newError(expr, offset, "empty selector")
		}
		for j := 0; j < len(item); j++ {
			if c := item[j]; !isNameChar(c) {
				return Set{}, newError(expr, offset+j, "unexpected %q in type selector", c)
			}
		}
		t := tag.LookupFold(item)
		if t == tag.Unknown {
			return Set{}, newError(expr, offset, "unknown element %s", item)
		}
		s.Add(t)
		start = i + 1
	}
	return s, nil
}

// MustParse is like Parse but panics on error.
func MustParse(expr string) Set {
	s, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return s
}

// Add adds t to the set, Unknown is never added.
func (s *Set) Add(t tag.Tag) {
	if t.Known() {
		s[t/64] |= 1 << (t % 64)
	}
}

// Remove removes t from the set.
func (s *Set) Remove(t tag.Tag) {
	if t.Known() {
		s[t/64] &^= 1 << (t % 64)
	}
}

// Match returns true if t is in the set.
func (s Set) Match(t tag.Tag) bool {
	return t.Known() && s[t/64]&(1<<(t%64)) != 0
}

// Union returns the tags in either s or o.
func (s Set) Union(o Set) Set {
	for i := range s {
		s[i] |= o[i]
	}
	return s
}

// Len returns the number of tags in the set.
func (s Set) Len() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// Tags returns the tags in the set in ordinal order.
func (s Set) Tags() []tag.Tag {
	tags := make([]tag.Tag, 0, s.Len())
	for _, t := range tag.All() {
		if s.Match(t) {
			tags = append(tags, t)
		}
	}
	return tags
}

// String returns the set as a selector group in ordinal order.
func (s Set) String() string {
	sb := strings.Builder{}
	for i, t := range s.Tags() {
		if i != 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(t.String())
	}
	return sb.String()
}

func isNameChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '-'
}

func newError(expr string, offset int, format string, a ...interface{}) *parse.Error {
	return parse.NewError(bytes.NewBufferString(expr), offset, format, a...)
}
