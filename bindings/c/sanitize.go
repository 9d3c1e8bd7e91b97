// Command c exports the sanitizer over the C ABI, build it with go build -buildmode=c-shared.
//
// Sanitizers created by the host are kept alive by handles until the host releases them, sanitizerMark reports them to a host collector. Functions return NULL on success and an error message otherwise, which the host must free.
package main

/*
#include <stdlib.h>

typedef void (*markFunc)(unsigned long long handle, void *data);

static inline void callMark(markFunc fn, unsigned long long handle, void *data) {
	fn(handle, data);
}
*/
import "C"
import (
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/buffer"
	"github.com/tdewolff/sanitize/handle"
	"github.com/tdewolff/sanitize/html"
	"github.com/tdewolff/sanitize/selector"
	"github.com/tdewolff/sanitize/tag"
)

var errNilPointer = errors.New("unexpected NULL pointer")

var roots = handle.NewRoots()

// hostBytes returns the n bytes at p without copying them.
func hostBytes(p unsafe.Pointer, n int64) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative length %d", n)
	} else if n == 0 {
		return nil, nil
	} else if p == nil {
		return nil, errNilPointer
	} else if uint64(math.MaxInt) < uint64(n) {
		return nil, fmt.Errorf("length %d too large", n)
	}
	return unsafe.Slice((*byte)(p), int(n)), nil
}

func cError(err error) *C.char {
	if err == nil {
		return nil
	}
	return C.CString(err.Error())
}

// sanitizeInto sanitizes input with the sanitizer of h into output and returns the length of the sanitized result, also when it does not fit.
func sanitizeInto(h handle.Handle, input, output []byte) (int, error) {
	input = parse.Copy(input) // the lexer modifies its input
	n := 0
	err := handle.Use(roots, h, func(s *html.Sanitizer) error {
		w := buffer.NewWriter(make([]byte, 0, len(input)))
		if err := s.Sanitize(w, buffer.NewReader(input)); err != nil {
			return err
		}
		n = w.Len()
		if len(output) < n {
			return fmt.Errorf("output buffer too small: need %d bytes", n)
		}
		copy(output, w.Bytes())
		return nil
	})
	return n, err
}

// markLive calls fn for every sanitizer that is kept alive by a handle.
func markLive(fn func(handle.Handle)) {
	roots.Mark(func(h handle.Handle, _ interface{}) {
		fn(h)
	})
}

//export sanitizerNew
func sanitizerNew(callow *C.char, dropUnknown, keepComments C.int, h *C.ulonglong) *C.char {
	if h == nil {
		return cError(errNilPointer)
	}
	s := html.DefaultSanitizer()
	if callow != nil {
		allowed, err := selector.Parse(C.GoString(callow))
		if err != nil {
			return cError(err)
		}
		s.AllowedTags = s.AllowedTags.Union(allowed)
	}
	s.DropUnknown = dropUnknown != 0
	s.KeepComments = keepComments != 0
	*h = C.ulonglong(roots.New(s))
	return nil
}

//export sanitizerRelease
func sanitizerRelease(h C.ulonglong) *C.char {
	return cError(roots.Release(handle.Handle(h)))
}

//export sanitizerLive
func sanitizerLive() C.longlong {
	return C.longlong(roots.Len())
}

// sanitizerString writes into output, which has a capacity of output_length. If the output does not fit, output_length is set to the required length and an error is returned.
//
//export sanitizerString
func sanitizerString(h C.ulonglong, cinput *C.char, input_length C.longlong, coutput *C.char, output_length *C.longlong) *C.char {
	if output_length == nil {
		return cError(errNilPointer)
	}
	input, err := hostBytes(unsafe.Pointer(cinput), int64(input_length))
	if err != nil {
		return cError(fmt.Errorf("input: %w", err))
	}
	output, err := hostBytes(unsafe.Pointer(coutput), int64(*output_length))
	if err != nil {
		return cError(fmt.Errorf("output: %w", err))
	}

	n, err := sanitizeInto(handle.Handle(h), input, output)
	if err == nil || n != 0 {
		*output_length = C.longlong(n)
	}
	return cError(err)
}

// sanitizerMark calls fn with every live handle and data, for hosts whose collector must mark what the library keeps alive.
//
//export sanitizerMark
func sanitizerMark(fn C.markFunc, data unsafe.Pointer) *C.char {
	if fn == nil {
		return cError(errNilPointer)
	}
	markLive(func(h handle.Handle) {
		C.callMark(fn, C.ulonglong(h), data)
	})
	return nil
}

//export tagLookup
func tagLookup(cname *C.char) C.int {
	return C.int(tag.LookupFold(C.GoString(cname)))
}

//export tagIsEscapeWorthy
func tagIsEscapeWorthy(t C.int) C.int {
	if 0 <= t && t < tag.Count && tag.IsEscapeWorthy(tag.Tag(t)) {
		return 1
	}
	return 0
}

//export freeString
func freeString(s *C.char) {
	C.free(unsafe.Pointer(s))
}

func main() {}
