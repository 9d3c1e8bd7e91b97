package sanitize

import (
	"testing"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/test"
)

func TestSanitize(t *testing.T) {
	s, err := HTML(`<P>Hello <SCRIPT>alert(1)</SCRIPT><a href="javascript:x()">world</a></P>`)
	test.Error(t, err)
	test.String(t, s, `<p>Hello <a>world</a></p>`)

	in := []byte(`<DIV title=x>y</DIV>`)
	b, err := Bytes(in)
	test.Error(t, err)
	test.Bytes(t, b, []byte(`<div title="x">y</div>`))
	test.Bytes(t, in, []byte(`<DIV title=x>y</DIV>`), "input must not be modified")

	b, err = Bytes(nil)
	test.Error(t, err)
	test.T(t, len(b), 0)

	_, err = HTML("<svg>\x00</svg>")
	_, ok := err.(*parse.Error)
	test.That(t, ok, "must return *parse.Error")
}
