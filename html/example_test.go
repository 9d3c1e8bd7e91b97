package html_test

import (
	"bytes"
	"os"

	"github.com/tdewolff/sanitize/html"
	"github.com/tdewolff/sanitize/selector"
)

func ExampleSanitizer() {
	s := html.DefaultSanitizer()
	r := bytes.NewBufferString(`<p onclick="steal()">Hi <b>there</b><script>alert(1)</script></p>`)
	if err := s.Sanitize(os.Stdout, r); err != nil {
		panic(err)
	}
	// Output: <p>Hi <b>there</b></p>
}

func ExampleSameHost() {
	s := html.DefaultSanitizer()
	s.AllowedTags = s.AllowedTags.Union(selector.MustParse("iframe"))
	s.FrameFunc = html.SameHost("www.youtube.com")

	r := bytes.NewBufferString(`<iframe src="https://www.youtube.com/embed/x"></iframe><iframe src="https://evil.com/"></iframe>`)
	if err := s.Sanitize(os.Stdout, r); err != nil {
		panic(err)
	}
	// Output: <iframe src="https://www.youtube.com/embed/x"></iframe>
}
