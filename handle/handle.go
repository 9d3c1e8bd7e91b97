// Package handle keeps Go values alive while a foreign host refers to them by number.
//
// Values registered with Roots stay reachable until their last reference is released. A host with its own collector calls Mark during its mark phase to visit every value that is still referenced.
package handle

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Handle refers to a value in Roots, the zero Handle is never valid.
type Handle uint64

var (
	ErrInvalidHandle = errors.New("invalid handle")
	ErrReleased      = errors.New("handle released")
)

// TypeError is returned when the value of a handle has a different type than requested.
type TypeError struct {
	Handle Handle
	Have   string
	Want   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("handle %d: no implicit conversion of %s into %s", e.Handle, e.Have, e.Want)
}

type root struct {
	v    interface{}
	refs int
}

// Roots is a registry of reference counted values. It is safe for concurrent use.
type Roots struct {
	mu    sync.Mutex
	last  Handle
	roots map[Handle]*root
}

// NewRoots returns an empty registry.
func NewRoots() *Roots {
	return &Roots{
		roots: map[Handle]*root{},
	}
}

// New registers v and returns its handle with a reference count of one.
func (r *Roots) New(v interface{}) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.last++
	r.roots[r.last] = &root{v, 1}
	return r.last
}

// lookup must be called with the lock held.
func (r *Roots) lookup(h Handle) (*root, error) {
	if h == 0 || r.last < h {
		return nil, ErrInvalidHandle
	} else if rt, ok := r.roots[h]; ok {
		return rt, nil
	}
	return nil, ErrReleased
}

// Acquire adds a reference to h.
func (r *Roots) Acquire(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, err := r.lookup(h)
	if err != nil {
		return err
	}
	rt.refs++
	return nil
}

// Release removes a reference to h, the value is forgotten when no references remain.
func (r *Roots) Release(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, err := r.lookup(h)
	if err != nil {
		return err
	}
	rt.refs--
	if rt.refs == 0 {
		delete(r.roots, h)
	}
	return nil
}

func (r *Roots) value(h Handle) (interface{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, err := r.lookup(h)
	if err != nil {
		return nil, err
	}
	return rt.v, nil
}

// Len returns the number of live handles.
func (r *Roots) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.roots)
}

// Mark calls fn for every live handle in the order they were created. The registry is not locked while fn runs, so fn may acquire or release handles.
func (r *Roots) Mark(fn func(Handle, interface{})) {
	r.mu.Lock()
	hs := make([]Handle, 0, len(r.roots))
	vs := make(map[Handle]interface{}, len(r.roots))
	for h, rt := range r.roots {
		hs = append(hs, h)
		vs[h] = rt.v
	}
	r.mu.Unlock()

	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })
	for _, h := range hs {
		fn(h, vs[h])
	}
}

// Get returns the value of h as a T.
func Get[T any](r *Roots, h Handle) (T, error) {
	var zero T
	v, err := r.value(h)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, &TypeError{h, typeName(v), fmt.Sprintf("%T", &zero)[1:]}
	}
	return t, nil
}

// Use holds a reference to h while fn runs with its value, the reference is released even when fn returns an error or panics.
func Use[T any](r *Roots, h Handle, fn func(T) error) (err error) {
	if err := r.Acquire(h); err != nil {
		return err
	}
	defer func() {
		if errRelease := r.Release(h); err == nil {
			err = errRelease
		}
	}()

	t, err := Get[T](r, h)
	if err != nil {
		return err
	}
	return fn(t)
}

func typeName(v interface{}) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
