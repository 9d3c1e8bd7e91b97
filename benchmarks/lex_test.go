package benchmarks

import (
	"io"
	"testing"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
	"github.com/tdewolff/sanitize/tag"
)

var n int // prevent compiler from optimizing away

// BenchmarkHTMLLex measures lexing together with resolving every tag name, the lower bound for sanitizing.
func BenchmarkHTMLLex(b *testing.B) {
	for _, name := range sampleNames() {
		in := samples[name]
		b.Run(name, func(b *testing.B) {
			b.SetBytes(int64(len(in)))
			for i := 0; i < b.N; i++ {
				l := html.NewLexer(parse.NewInputBytes(parse.Copy(in)))
				for {
					tt, _ := l.Next()
					if tt == html.ErrorToken {
						if l.Err() != io.EOF {
							b.Fatal(l.Err())
						}
						break
					} else if tt == html.StartTagToken || tt == html.EndTagToken {
						if tag.IsEscapeWorthy(tag.ToTag(l.Text())) {
							n++
						}
					}
				}
			}
		})
	}
}
