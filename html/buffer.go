package html

import (
	"github.com/tdewolff/parse/v2/html"
	"github.com/tdewolff/sanitize/tag"
)

// Token is a single token unit with its text, attribute value (if given) and the tag it resolves to.
type Token struct {
	html.TokenType
	Tag     tag.Tag
	Data    []byte
	Text    []byte
	AttrVal []byte
}

// TokenBuffer is a buffer that allows for token look-ahead.
type TokenBuffer struct {
	l *html.Lexer

	buf []Token
	pos int
}

// NewTokenBuffer returns a new TokenBuffer.
func NewTokenBuffer(l *html.Lexer) *TokenBuffer {
	return &TokenBuffer{
		l:   l,
		buf: make([]Token, 0, 8),
	}
}

func (z *TokenBuffer) read(t *Token) {
	tt, data := z.l.Next()
	t.TokenType = tt
	t.Data = data
	t.Text = z.l.Text()
	t.AttrVal = nil
	t.Tag = tag.Unknown
	if tt == html.AttributeToken {
		t.AttrVal = z.l.AttrVal()
	} else if tt == html.StartTagToken || tt == html.EndTagToken {
		t.Tag = tag.ToTag(t.Text)
	} else if tt == html.SvgToken {
		t.Tag = tag.Svg
	} else if tt == html.MathToken {
		t.Tag = tag.Math
	}
}

// Peek returns the ith element and possibly does an allocation.
// Peeking past an error will panic.
func (z *TokenBuffer) Peek(pos int) *Token {
	pos += z.pos
	if pos >= len(z.buf) {
		if len(z.buf) > 0 && z.buf[len(z.buf)-1].TokenType == html.ErrorToken {
			return &z.buf[len(z.buf)-1]
		}

		c := cap(z.buf)
		d := len(z.buf) - z.pos
		p := pos - z.pos + 1 // required peek length
		var buf []Token
		if 2*p > c {
			buf = make([]Token, 0, 2*c+p)
		} else {
			buf = z.buf
		}
		copy(buf[:d], z.buf[z.pos:])

		buf = buf[:p]
		pos -= z.pos
		for i := d; i < p; i++ {
			z.read(&buf[i])
			if buf[i].TokenType == html.ErrorToken {
				buf = buf[:i+1]
				pos = i
				break
			}
		}
		z.pos, z.buf = 0, buf
	}
	return &z.buf[pos]
}

// Shift returns the first element and advances position.
func (z *TokenBuffer) Shift() *Token {
	if z.pos >= len(z.buf) {
		t := &z.buf[:1][0]
		z.read(t)
		return t
	}
	t := &z.buf[z.pos]
	z.pos++
	return t
}

// Err returns the error of the underlying lexer, io.EOF when the input was fully consumed.
func (z *TokenBuffer) Err() error {
	return z.l.Err()
}
