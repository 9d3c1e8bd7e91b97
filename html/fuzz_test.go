package html

import (
	"bytes"
	"io"
	"testing"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/sanitize/tag"
	nethtml "golang.org/x/net/html"
)

func FuzzSanitize(f *testing.F) {
	f.Add([]byte(`<p>a<script>alert(1)</script></p>`))
	f.Add([]byte(`<a href="java&#9;script:x" onclick=y>z</a>`))
	f.Add([]byte(`<svg><foreignObject><iframe srcdoc="<script>"></iframe></foreignObject></svg>`))
	f.Add([]byte(`<noscript><p title="</noscript><img src=x onerror=alert(1)>">`))
	f.Add([]byte(`<b><i>x</b></i><!--c--><plaintext>`))

	s := DefaultSanitizer()
	f.Fuzz(func(t *testing.T, data []byte) {
		w := &bytes.Buffer{}
		if err := s.Sanitize(w, bytes.NewBuffer(parse.Copy(data))); err != nil {
			if _, ok := err.(*parse.Error); !ok && err != io.EOF {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			return
		}

		z := nethtml.NewTokenizer(bytes.NewReader(w.Bytes()))
		for {
			tt := z.Next()
			if tt == nethtml.ErrorToken {
				return
			} else if tt == nethtml.StartTagToken || tt == nethtml.SelfClosingTagToken {
				name, _ := z.TagName()
				if tag.IsEscapeWorthy(tag.ToTag(name)) {
					t.Fatalf("escape-worthy element %s in %q", name, w.String())
				}
			}
		}
	})
}
