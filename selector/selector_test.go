package selector

import (
	"strings"
	"testing"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/sanitize/tag"
	"github.com/tdewolff/test"
)

func TestParse(t *testing.T) {
	var tests = []struct {
		expr     string
		expected []tag.Tag
	}{
		{"script", []tag.Tag{tag.Script}},
		{"script,style", []tag.Tag{tag.Style, tag.Script}},
		{"  b ,\ti\n, u  ", []tag.Tag{tag.I, tag.B, tag.U}},
		{"DIV, Span", []tag.Tag{tag.Div, tag.Span}},
		{"h1,h1,h1", []tag.Tag{tag.H1}},
		{"foreignObject", []tag.Tag{tag.ForeignObject}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			s, err := Parse(tt.expr)
			test.Error(t, err)
			test.T(t, s.Tags(), tt.expected)
			test.T(t, s.Len(), len(tt.expected))
			for _, tg := range tt.expected {
				test.That(t, s.Match(tg), tg.String()+" must match")
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	var tests = []struct {
		expr   string
		column int
		msg    string
	}{
		{"", 1, "empty selector"},
		{"script,", 8, "empty selector"},
		{"a,,b", 3, "empty selector"},
		{"  ,b", 3, "empty selector"},
		{"script, foobar", 9, "unknown element foobar"},
		{"unknown", 1, "unknown element unknown"},
		{"div.class", 4, "unexpected '.' in type selector"},
		{"div > p", 4, "unexpected ' ' in type selector"},
		{"<script>", 1, "unexpected '<' in type selector"},
		{"*", 1, "unexpected '*' in type selector"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := Parse(tt.expr)
			test.That(t, err != nil, "must return error")
			perr, ok := err.(*parse.Error)
			test.That(t, ok, "must return *parse.Error")
			_, column, _ := perr.Position()
			test.T(t, column, tt.column, "column")
			test.That(t, strings.HasPrefix(perr.Error(), tt.msg), perr.Error())
		})
	}
}

func TestMustParse(t *testing.T) {
	defer func() {
		test.That(t, recover() != nil, "must panic on invalid selector")
	}()
	MustParse("script,,style")
}

func TestEscapeWorthy(t *testing.T) {
	test.T(t, EscapeWorthy.Len(), 12)
	for _, tg := range tag.All() {
		test.T(t, EscapeWorthy.Match(tg), tag.IsEscapeWorthy(tg), tg.String())
	}
	test.That(t, !EscapeWorthy.Match(tag.Unknown))

	// round trip through the selector syntax
	s, err := Parse(EscapeWorthy.String())
	test.Error(t, err)
	test.T(t, s, EscapeWorthy)
}

func TestSet(t *testing.T) {
	s := Of(tag.Html, tag.Dialog, tag.Unknown)
	test.T(t, s.Len(), 2)
	test.That(t, s.Match(tag.Html))
	test.That(t, s.Match(tag.Dialog))
	test.That(t, !s.Match(tag.Unknown), "Unknown is never a member")
	test.That(t, !s.Match(tag.Tag(200)))

	s.Remove(tag.Html)
	test.That(t, !s.Match(tag.Html))
	test.T(t, s.String(), "dialog")

	u := s.Union(Of(tag.A, tag.B))
	test.T(t, u.String(), "a, b, dialog")
	test.T(t, s.Len(), 1, "union must not modify its receiver")

	test.T(t, Set{}.Len(), 0)
	test.T(t, Set{}.String(), "")

	all := Of(tag.All()...)
	test.T(t, all.Len(), tag.Count-1)
}
