//go:build cgo

package main

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/tdewolff/sanitize/handle"
	"github.com/tdewolff/sanitize/html"
	"github.com/tdewolff/test"
)

func TestHostBytes(t *testing.T) {
	b := []byte("abc")
	p := unsafe.Pointer(&b[0])

	v, err := hostBytes(p, 3)
	test.Error(t, err)
	test.String(t, string(v), "abc")

	v, err = hostBytes(nil, 0)
	test.Error(t, err)
	test.T(t, len(v), 0)

	_, err = hostBytes(p, -1)
	test.That(t, err != nil, "negative length must fail")

	_, err = hostBytes(nil, 3)
	test.T(t, err, errNilPointer)
}

func TestSanitizeInto(t *testing.T) {
	h := roots.New(html.DefaultSanitizer())
	defer roots.Release(h)

	input := []byte(`<P>a<script/>alert(1)</script></P>`)
	output := make([]byte, 64)
	n, err := sanitizeInto(h, input, output)
	test.Error(t, err)
	test.String(t, string(output[:n]), `<p>a</p>`)
	test.String(t, string(input), `<P>a<script/>alert(1)</script></P>`, "input must not be modified")

	n, err = sanitizeInto(h, input, output[:2])
	test.That(t, err != nil, "short output must fail")
	test.T(t, n, 8)

	_, err = sanitizeInto(handle.Handle(0), input, output)
	test.That(t, errors.Is(err, handle.ErrInvalidHandle))
}

func TestMarkLive(t *testing.T) {
	a := roots.New(html.DefaultSanitizer())
	b := roots.New(html.DefaultSanitizer())
	test.Error(t, roots.Release(b))

	marked := map[handle.Handle]bool{}
	markLive(func(h handle.Handle) {
		marked[h] = true
	})
	test.That(t, marked[a], "live handle must be marked")
	test.That(t, !marked[b], "released handle must not be marked")
	test.Error(t, roots.Release(a))
}
