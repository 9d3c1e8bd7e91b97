// Package sanitize removes markup from untrusted HTML that could execute scripts or load documents, using the tag classification of the tag package.
//
// The html package holds the configurable sanitizer, this package wraps its default configuration for strings and byte slices.
package sanitize

import (
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/buffer"
	"github.com/tdewolff/sanitize/html"
)

// Default is the sanitizer used by HTML and Bytes.
var Default = html.DefaultSanitizer()

// HTML sanitizes a string using the default sanitizer.
func HTML(s string) (string, error) {
	b, err := sanitize([]byte(s))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Bytes sanitizes a byte slice using the default sanitizer. The input is not modified.
func Bytes(b []byte) ([]byte, error) {
	return sanitize(parse.Copy(b))
}

// sanitize may modify b, the lexer lowercases tag names in place.
func sanitize(b []byte) ([]byte, error) {
	out := buffer.NewWriter(make([]byte, 0, len(b)))
	if err := Default.Sanitize(out, buffer.NewReader(b)); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
