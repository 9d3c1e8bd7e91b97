package tag

// EscapeWorthySelector lists exactly the escape-worthy elements as a selector group, to be matched in bulk by a rewriter.
const EscapeWorthySelector = "title, textarea, style, xmp, iframe, noembed, noframes, noscript, script, plaintext, math, svg"

func (t Tag) is(tr traits) bool {
	return int(t) < len(table) && table[t].traits&tr != 0
}

// HasOpaqueTextContent returns true for script, style, math and svg. Their content is a payload that must be removed between the start and end tag, not sanitized recursively.
func HasOpaqueTextContent(t Tag) bool {
	return t.is(opaque)
}

// IsFrame returns true for iframe only.
func IsFrame(t Tag) bool {
	return t.is(frame)
}

// IsMetadata returns true for meta only.
func IsMetadata(t Tag) bool {
	return t.is(metadata)
}

// IsEscapeWorthy returns true for elements whose text content could be reinterpreted by a renderer even when escaped. When such an element is removed, its text must be dropped too.
func IsEscapeWorthy(t Tag) bool {
	return t.is(escapeWorthy)
}

// OpaqueText is the method form of HasOpaqueTextContent.
func (t Tag) OpaqueText() bool {
	return t.is(opaque)
}

// Frame is the method form of IsFrame.
func (t Tag) Frame() bool {
	return t.is(frame)
}

// Metadata is the method form of IsMetadata.
func (t Tag) Metadata() bool {
	return t.is(metadata)
}

// EscapeWorthy is the method form of IsEscapeWorthy.
func (t Tag) EscapeWorthy() bool {
	return t.is(escapeWorthy)
}
