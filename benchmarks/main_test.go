package benchmarks

import (
	"strings"
)

// samples are synthetic documents, each stressing another path of the sanitizer.
var samples = map[string][]byte{
	"blogpost": repeat(`<article><h1 class="title">Title</h1><p>Some <b>bold</b> and <em>emphasized</em> text with a <a href="https://example.com/post?id=1">link</a> and an <img src="/img/a.png" alt="image">.</p><ul><li>one</li><li>two</li></ul></article>`, 200),
	"scripts":  repeat(`<div><script>var x = "<p>" + a < b;</script><style>p > a { color: red }</style><noscript><img src="pixel.gif"></noscript><p>text</p></div>`, 200),
	"hostile":  repeat(`<a href="javascript:alert(1)" onclick="x()">a</a><img src=x onerror=alert(1)><svg><script>alert(1)</script></svg><iframe srcdoc="<script>"></iframe><foo-bar><b>x</b></foo-bar>`, 200),
	"table":    repeat(`<table><thead><tr><th scope="col">A</th><th>B</th></tr></thead><tbody><tr><td colspan="2">x &amp; y</td></tr></tbody></table>`, 200),
}

func repeat(s string, n int) []byte {
	return []byte(strings.Repeat(s, n))
}
