// Package html sanitizes HTML5 in a single streaming pass, using the tag package to decide per element whether to keep, strip or drop it.
package html

import (
	"bytes"
	"io"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
	"github.com/tdewolff/sanitize/selector"
	"github.com/tdewolff/sanitize/tag"
)

var (
	gtBytes         = []byte(">")
	endBytes        = []byte("</")
	commentBytes    = []byte("<!--")
	commentEndBytes = []byte("-->")
	escLtBytes      = []byte("&lt;")
	escGtBytes      = []byte("&gt;")
)

// Attr is an attribute with its value unquoted, passed to an AttrFunc.
type Attr struct {
	Key, Val string
}

// AttrFunc inspects the attributes of an allowed iframe or meta element, duplicates included, and returns false to drop the element.
type AttrFunc func(t tag.Tag, attrs []Attr) bool

////////////////////////////////////////////////////////////////

// Sanitizer is an HTML sanitizer. It must not be modified after the first call to Sanitize.
type Sanitizer struct {
	AllowedTags    selector.Set
	AllowedAttrs   map[string]bool
	AllowedSchemes map[string]bool
	DropUnknown    bool
	KeepComments   bool

	FrameFunc AttrFunc // consulted for allowed iframe elements
	MetaFunc  AttrFunc // consulted for allowed meta elements
}

// DefaultSanitizer returns a sanitizer that keeps common content markup and drops everything that can execute or load documents.
func DefaultSanitizer() *Sanitizer {
	return &Sanitizer{
		AllowedTags: selector.MustParse("h1, h2, h3, h4, h5, h6, p, br, hr, pre, blockquote, div, span, " +
			"a, b, i, u, s, em, strong, small, mark, cite, q, dfn, abbr, code, kbd, samp, var, sub, sup, del, ins, " +
			"ul, ol, li, dl, dt, dd, figure, figcaption, img, " +
			"table, caption, colgroup, col, thead, tbody, tfoot, tr, th, td, " +
			"article, section, header, footer, aside, nav, main, address, details, summary, time, data, ruby, rt, rp"),
		AllowedAttrs: map[string]bool{
			"href": true, "src": true, "alt": true, "title": true, "width": true, "height": true,
			"cite": true, "datetime": true, "colspan": true, "rowspan": true, "scope": true,
			"id": true, "class": true, "lang": true, "dir": true, "open": true, "value": true,
		},
		AllowedSchemes: map[string]bool{"http": true, "https": true, "mailto": true},
		MetaFunc:       NoRefresh,
	}
}

// Sanitize sanitizes HTML5 from r to w using the default sanitizer.
func Sanitize(w io.Writer, r io.Reader) error {
	return defaultSanitizer.Sanitize(w, r)
}

var defaultSanitizer = DefaultSanitizer()

type action int

const (
	strip action = iota // remove tags, keep content
	keep
	drop // remove tags and content
)

// Sanitize sanitizes HTML5 from r to w.
// Elements in AllowedTags are kept with their allowed attributes. Escape-worthy elements that are not allowed are removed together with all their content, as is any element with opaque content. Other elements lose their tags but keep their content.
func (s *Sanitizer) Sanitize(w io.Writer, r io.Reader) error {
	var open []tag.Tag   // kept elements that await an end tag
	var dropName []byte  // name of the element whose content is being dropped
	var dropDepth int    // nesting of dropName elements
	var attrs []Attr     // attributes for FrameFunc and MetaFunc
	var tagBuffer []byte // kept start tag, written once it is complete
	var seen [][]byte    // attribute names of the current start tag

	l := html.NewLexer(parse.NewInput(r))
	tb := NewTokenBuffer(l)
	for {
		t := *tb.Shift()
		if dropDepth != 0 {
			switch t.TokenType {
			case html.ErrorToken:
				if err := tb.Err(); err != io.EOF {
					return err
				}
				return closeAll(w, open)
			case html.StartTagToken:
				// a trailing slash does not close a non-void element
				if bytes.Equal(t.Text, dropName) {
					dropDepth++
				}
			case html.EndTagToken:
				if bytes.Equal(t.Text, dropName) {
					dropDepth--
				}
			}
			continue
		}

		switch t.TokenType {
		case html.ErrorToken:
			if err := tb.Err(); err != io.EOF {
				return err
			}
			return closeAll(w, open)
		case html.CommentToken:
			if s.KeepComments {
				if err := writeComment(w, t.Text); err != nil {
					return err
				}
			}
		case html.TextToken:
			if 0 < len(open) && open[len(open)-1].OpaqueText() {
				// allowed script or style, the payload is trusted by the policy
				if _, err := w.Write(t.Text); err != nil {
					return err
				}
			} else if err := writeText(w, t.Text); err != nil {
				return err
			}
		case html.SvgToken, html.MathToken:
			if s.AllowedTags.Match(t.Tag) {
				if _, err := w.Write(t.Data); err != nil {
					return err
				}
			}
		case html.StartTagToken:
			act := s.action(t.Tag)
			if act == strip {
				skipStartTag(tb)
				break
			} else if act == drop {
				skipStartTag(tb)
				if !t.Tag.SelfClosing() {
					dropName = parse.Copy(t.Text)
					dropDepth = 1
				}
				break
			}

			hook := s.hook(t.Tag)
			attrs = attrs[:0]
			seen = seen[:0]
			tagBuffer = append(append(tagBuffer[:0], '<'), t.Text...)
			closer := html.ErrorToken
			for closer == html.ErrorToken {
				a := tb.Peek(0)
				switch a.TokenType {
				case html.AttributeToken:
					tb.Shift()
					if hook != nil {
						attrs = append(attrs, Attr{string(a.Text), string(unquote(a.AttrVal))})
					}
					if hasAttr(seen, a.Text) {
						// only the first of duplicate attributes is used by browsers
						break
					}
					seen = append(seen, a.Text)
					if s.attrAllowed(a.Text, a.AttrVal) {
						tagBuffer = appendAttr(tagBuffer, a.Text, a.AttrVal)
					}
				case html.StartTagCloseToken, html.StartTagVoidToken:
					tb.Shift()
					closer = a.TokenType
				default:
					// unterminated start tag at EOF, the error is handled by the next iteration
					closer = html.StartTagCloseToken
				}
			}

			if hook != nil && !hook(t.Tag, attrs) {
				if !t.Tag.SelfClosing() {
					dropName = parse.Copy(t.Text)
					dropDepth = 1
				}
				break
			}
			tagBuffer = append(tagBuffer, '>')
			if _, err := w.Write(tagBuffer); err != nil {
				return err
			}
			if !t.Tag.SelfClosing() {
				if closer == html.StartTagVoidToken {
					// foreign-style self-closing syntax is ignored for HTML elements
					if err := writeEndTag(w, t.Tag); err != nil {
						return err
					}
				} else {
					open = append(open, t.Tag)
				}
			}
		case html.EndTagToken:
			// close every element opened after the matching one, stray end tags are dropped
			for i := len(open) - 1; 0 <= i; i-- {
				if open[i] == t.Tag {
					if err := closeAll(w, open[i:]); err != nil {
						return err
					}
					open = open[:i]
					break
				}
			}
		}
	}
}

func (s *Sanitizer) action(t tag.Tag) action {
	if s.AllowedTags.Match(t) {
		return keep
	} else if selector.EscapeWorthy.Match(t) || tag.HasOpaqueTextContent(t) || s.DropUnknown && t == tag.Unknown {
		return drop
	}
	return strip
}

func (s *Sanitizer) hook(t tag.Tag) AttrFunc {
	if tag.IsFrame(t) {
		return s.FrameFunc
	} else if tag.IsMetadata(t) {
		return s.MetaFunc
	}
	return nil
}

func hasAttr(seen [][]byte, key []byte) bool {
	for _, k := range seen {
		if bytes.Equal(k, key) {
			return true
		}
	}
	return false
}

// skipStartTag skips the attributes of a start tag and returns how the tag was closed.
func skipStartTag(tb *TokenBuffer) html.TokenType {
	for {
		switch tb.Peek(0).TokenType {
		case html.AttributeToken:
			tb.Shift()
		case html.StartTagCloseToken, html.StartTagVoidToken:
			return tb.Shift().TokenType
		default:
			return html.ErrorToken
		}
	}
}

func closeAll(w io.Writer, open []tag.Tag) error {
	for i := len(open) - 1; 0 <= i; i-- {
		if err := writeEndTag(w, open[i]); err != nil {
			return err
		}
	}
	return nil
}

func writeEndTag(w io.Writer, t tag.Tag) error {
	if _, err := w.Write(endBytes); err != nil {
		return err
	} else if _, err := io.WriteString(w, t.String()); err != nil {
		return err
	} else if _, err := w.Write(gtBytes); err != nil {
		return err
	}
	return nil
}

// writeText writes text with < and > escaped, entities are left as is.
func writeText(w io.Writer, b []byte) error {
	for {
		i := bytes.IndexAny(b, "<>")
		if i == -1 {
			break
		}
		if _, err := w.Write(b[:i]); err != nil {
			return err
		}
		esc := escLtBytes
		if b[i] == '>' {
			esc = escGtBytes
		}
		if _, err := w.Write(esc); err != nil {
			return err
		}
		b = b[i+1:]
	}
	_, err := w.Write(b)
	return err
}

func writeComment(w io.Writer, b []byte) error {
	b = bytes.ReplaceAll(b, []byte("--"), []byte("- -"))
	b = bytes.TrimLeft(b, ">-")
	if _, err := w.Write(commentBytes); err != nil {
		return err
	} else if err := writeText(w, b); err != nil {
		return err
	} else if _, err := w.Write(commentEndBytes); err != nil {
		return err
	}
	return nil
}
