package html

import (
	stdhtml "html"
	"net/url"
	"strings"

	"github.com/tdewolff/sanitize/tag"
)

// urlAttrMap holds the attributes whose value is a URL and whose scheme must be allowed.
var urlAttrMap = map[string]bool{
	"action":     true,
	"background": true,
	"cite":       true,
	"formaction": true,
	"href":       true,
	"longdesc":   true,
	"poster":     true,
	"src":        true,
	"xlink:href": true,
}

func (s *Sanitizer) attrAllowed(key, val []byte) bool {
	if len(key) == 0 || !s.AllowedAttrs[string(key)] {
		return false
	} else if 2 < len(key) && key[0] == 'o' && key[1] == 'n' {
		// event handlers are never allowed, even when listed
		return false
	}
	for _, c := range key {
		if !('a' <= c && c <= 'z' || '0' <= c && c <= '9' || c == '-' || c == '_' || c == ':') {
			return false
		}
	}
	if urlAttrMap[string(key)] {
		return s.schemeAllowed(unquote(val))
	}
	return true
}

// schemeAllowed returns true for relative URLs and URLs with an allowed scheme. Entities are decoded and control characters removed first, as browsers do.
func (s *Sanitizer) schemeAllowed(val []byte) bool {
	raw := stdhtml.UnescapeString(string(val))
	raw = strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return -1
		}
		return r
	}, raw)

	u, err := url.Parse(raw)
	if err != nil {
		return false
	} else if u.Scheme == "" {
		// a colon before any slash would still be taken as a scheme by a browser
		if i := strings.IndexByte(raw, ':'); i != -1 && strings.IndexAny(raw[:i], "/?#") == -1 {
			return false
		}
		return true
	}
	return s.AllowedSchemes[strings.ToLower(u.Scheme)]
}

func unquote(val []byte) []byte {
	if 0 < len(val) && (val[0] == '"' || val[0] == '\'') {
		if 1 < len(val) && val[len(val)-1] == val[0] {
			return val[1 : len(val)-1]
		}
		return val[1:]
	}
	return val
}

// appendAttr appends the attribute with its value double quoted, quotes and angle brackets in the value are escaped while other entities are kept.
func appendAttr(b, key, val []byte) []byte {
	b = append(b, ' ')
	b = append(b, key...)
	if v := unquote(val); 0 < len(v) {
		b = append(b, '=', '"')
		for _, c := range v {
			switch c {
			case '"':
				b = append(b, "&#34;"...)
			case '<':
				b = append(b, "&lt;"...)
			case '>':
				b = append(b, "&gt;"...)
			default:
				b = append(b, c)
			}
		}
		b = append(b, '"')
	}
	return b
}

// NoRefresh is an AttrFunc that drops meta elements that redirect or set the charset.
func NoRefresh(t tag.Tag, attrs []Attr) bool {
	if t != tag.Meta {
		return true
	}
	for _, attr := range attrs {
		if attr.Key == "charset" {
			return false
		} else if attr.Key == "http-equiv" {
			equiv := strings.ToLower(strings.TrimSpace(attr.Val))
			if equiv == "refresh" || equiv == "set-cookie" || equiv == "content-type" {
				return false
			}
		}
	}
	return true
}

// SameHost returns an AttrFunc that only allows frames with a single src that is an https URL on one of the given hosts.
func SameHost(hosts ...string) AttrFunc {
	allowed := make(map[string]bool, len(hosts))
	for _, host := range hosts {
		allowed[strings.ToLower(host)] = true
	}
	return func(t tag.Tag, attrs []Attr) bool {
		if !tag.IsFrame(t) {
			return true
		}
		ok, srcs := false, 0
		for _, attr := range attrs {
			switch attr.Key {
			case "srcdoc":
				return false
			case "src":
				if srcs++; 1 < srcs {
					return false
				}
				u, err := url.Parse(strings.TrimSpace(stdhtml.UnescapeString(attr.Val)))
				ok = err == nil && u.Scheme == "https" && allowed[strings.ToLower(u.Hostname())]
			}
		}
		return ok
	}
}
