// Package tag resolves HTML element names to a closed set of known tags and classifies them for sanitization.
package tag

import "strconv"

// Tag identifies a known HTML element, its value is the ordinal of the element and is stable for the lifetime of the program.
type Tag uint8

// Identifiers for the known elements, in ordinal order. Unknown is the sentinel for every other name.
const (
	Html Tag = iota
	Head
	Title
	Base
	Link
	Meta
	Style
	Script
	Noscript
	Template
	Body
	Article
	Section
	Nav
	Aside
	H1
	H2
	H3
	H4
	H5
	H6
	Hgroup
	Header
	Footer
	Address
	P
	Hr
	Pre
	Blockquote
	Ol
	Ul
	Li
	Dl
	Dt
	Dd
	Figure
	Figcaption
	Main
	Div
	A
	Em
	Strong
	Small
	S
	Cite
	Q
	Dfn
	Abbr
	Data
	Time
	Code
	Var
	Samp
	Kbd
	Sub
	Sup
	I
	B
	U
	Mark
	Ruby
	Rt
	Rp
	Bdi
	Bdo
	Span
	Br
	Wbr
	Ins
	Del
	Image
	Img
	Iframe
	Embed
	Object
	Param
	Video
	Audio
	Source
	Track
	Canvas
	Map
	Area
	Math
	Mi
	Mo
	Mn
	Ms
	Mtext
	Mglyph
	Malignmark
	Annotation
	Svg
	ForeignObject
	Desc
	Table
	Caption
	Colgroup
	Col
	Tbody
	Thead
	Tfoot
	Tr
	Td
	Th
	Form
	Fieldset
	Legend
	Label
	Input
	Button
	Select
	Datalist
	Optgroup
	Option
	Textarea
	Keygen
	Output
	Progress
	Meter
	Details
	Summary
	Menu
	Menuitem
	Applet
	Acronym
	Bgsound
	Dir
	Frame
	Frameset
	Noframes
	Listing
	Xmp
	Nextid
	Noembed
	Plaintext
	Rb
	Strike
	Basefont
	Big
	Blink
	Center
	Font
	Marquee
	Multicol
	Nobr
	Spacer
	Tt
	Rtc
	Dialog
	Unknown
)

// Count is the number of tags including the Unknown sentinel.
const Count = 151

// the table, the constants and Count must agree, any mismatch fails to compile
var (
	_ [Count - len(table)]struct{}
	_ [len(table) - Count]struct{}
	_ [Count - 1 - int(Unknown)]struct{}
	_ [int(Unknown) - (Count - 1)]struct{}
)

var (
	lookup = make(map[string]Tag, Count-1)
	maxLen = 0
)

func init() {
	for i := 0; i < int(Unknown); i++ {
		name := table[i].name
		if name == "" {
			panic("tag: missing name for ordinal " + strconv.Itoa(i))
		} else if prev, ok := lookup[name]; ok {
			panic("tag: duplicate name " + name + " for ordinals " + strconv.Itoa(int(prev)) + " and " + strconv.Itoa(i))
		}
		lookup[name] = Tag(i)
		if maxLen < len(name) {
			maxLen = len(name)
		}
	}
	if table[Unknown].name != "unknown" || table[Unknown].traits != 0 {
		panic("tag: unknown sentinel must be named unknown and have no traits")
	}
}

// Lookup returns the tag for a lowercase element name, or Unknown if the name is not known. Matching is exact.
func Lookup(name string) Tag {
	if t, ok := lookup[name]; ok {
		return t
	}
	return Unknown
}

// ToTag returns the tag for a lowercase element name, or Unknown if the name is not known. It does not allocate.
func ToTag(b []byte) Tag {
	if len(b) == 0 || maxLen < len(b) {
		return Unknown
	} else if t, ok := lookup[string(b)]; ok {
		return t
	}
	return Unknown
}

// LookupFold is like Lookup but lowercases ASCII letters in name first.
func LookupFold(name string) Tag {
	var buf [32]byte
	if len(name) == 0 || maxLen < len(name) || len(buf) < len(name) {
		return Unknown
	}
	b := buf[:len(name)]
	for i := 0; i < len(name); i++ {
		c := name[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		b[i] = c
	}
	return ToTag(b)
}

// All returns the known tags in ordinal order, excluding Unknown.
func All() []Tag {
	tags := make([]Tag, Unknown)
	for i := range tags {
		tags[i] = Tag(i)
	}
	return tags
}

// String returns the canonical lowercase name of the tag.
func (t Tag) String() string {
	if int(t) < len(table) {
		return table[t].name
	}
	return table[Unknown].name
}

// Bytes returns the canonical lowercase name of the tag.
func (t Tag) Bytes() []byte {
	return []byte(t.String())
}

// Ordinal returns the index of the tag in the table.
func (t Tag) Ordinal() int {
	if int(t) < len(table) {
		return int(t)
	}
	return int(Unknown)
}

// Known returns false for Unknown and any value outside the table.
func (t Tag) Known() bool {
	return t < Unknown
}

// SelfClosing returns true if the element is void by definition, regardless of how it was written.
func (t Tag) SelfClosing() bool {
	return t.is(void)
}
