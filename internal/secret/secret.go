// Package secret provides scoped handles for private scalar material. A
// handle's backing value is overwritten by an explicit Zero call or, failing
// that, by a finalizer run at garbage collection; Reveal always returns a
// detached copy so the caller's lifetime decisions never reach back into the
// handle's own storage.
package secret

import (
	"runtime"

	"github.com/shadowpurse/wallet-core/internal/curve"
)

// Scalar is a scoped handle around a single private scalar.
type Scalar struct {
	value  curve.Scalar
	zeroed bool
}

// NewScalar wraps v in a handle that erases itself on Zero or finalization.
func NewScalar(v curve.Scalar) *Scalar {
	s := &Scalar{value: v}
	runtime.SetFinalizer(s, (*Scalar).Zero)
	return s
}

// Reveal returns a copy of the wrapped scalar, or the zero scalar once the
// handle has been erased.
func (s *Scalar) Reveal() curve.Scalar {
	if s == nil || s.zeroed {
		return curve.Scalar{}
	}
	return s.value
}

// Zero overwrites the backing scalar and marks the handle erased. Safe to
// call more than once.
func (s *Scalar) Zero() {
	if s == nil {
		return
	}
	s.value = curve.Scalar{}
	s.zeroed = true
}

// IsZeroed reports whether the handle has already been erased.
func (s *Scalar) IsZeroed() bool {
	return s == nil || s.zeroed
}
