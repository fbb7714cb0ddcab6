// Package curve binds the abstract prime-order group used throughout the
// wallet core to a concrete realization: BN254 G1 from gnark-crypto. Every
// other package (commitment, rangeproof, stealth, txbuilder) works only
// through Scalar and Point so the binding stays in one place.
package curve

import (
	"errors"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/crypto/blake2b"
)

// ErrBadEncoding is returned when a byte string does not decode to a valid
// curve point.
var ErrBadEncoding = errors.New("curve: bad point encoding")

// ScalarSize is the canonical byte length of a Scalar.
const ScalarSize = 32

// PointSize is the canonical byte length of a compressed Point.
const PointSize = 32

// Scalar is an element of the BN254 scalar field (the group order of G1).
type Scalar struct {
	inner fr.Element
}

// RandomScalar draws a uniformly random scalar from the field.
func RandomScalar() (Scalar, error) {
	var e fr.Element
	if _, err := e.SetRandom(); err != nil {
		return Scalar{}, err
	}
	return Scalar{inner: e}, nil
}

// ScalarFromUint64 embeds a small integer as a scalar.
func ScalarFromUint64(v uint64) Scalar {
	var e fr.Element
	e.SetUint64(v)
	return Scalar{inner: e}
}

// scalarFromWideBytes reduces an arbitrary-length big-endian byte string
// modulo the field order. Used both for the 32-byte canonical encoding and
// the 64-byte wide reduction spec'd for hash-to-scalar: reducing through
// big.Int keeps the two cases identical and avoids relying on undocumented
// chunking behavior for inputs longer than the field size.
func scalarFromWideBytes(b []byte) Scalar {
	i := new(big.Int).SetBytes(b)
	var e fr.Element
	e.SetBigInt(i)
	return Scalar{inner: e}
}

// ScalarFromBytes decodes a scalar from its big-endian byte representation,
// reducing modulo the field order if the encoding is non-canonical.
func ScalarFromBytes(b []byte) Scalar {
	return scalarFromWideBytes(b)
}

// HashToScalar hashes data with BLAKE2b-512 and reduces the full 512-bit
// digest modulo the field order (a "wide" reduction). Every place a hash
// output is turned into a scalar in this module goes through this function;
// reducing a single 256-bit digest instead would bias the distribution.
func HashToScalar(data []byte) Scalar {
	digest := blake2b.Sum512(data)
	return scalarFromWideBytes(digest[:])
}

// Add returns s + o.
func (s Scalar) Add(o Scalar) Scalar {
	var r Scalar
	r.inner.Add(&s.inner, &o.inner)
	return r
}

// Sub returns s - o.
func (s Scalar) Sub(o Scalar) Scalar {
	var r Scalar
	r.inner.Sub(&s.inner, &o.inner)
	return r
}

// Mul returns s * o.
func (s Scalar) Mul(o Scalar) Scalar {
	var r Scalar
	r.inner.Mul(&s.inner, &o.inner)
	return r
}

// Neg returns -s.
func (s Scalar) Neg() Scalar {
	var r Scalar
	r.inner.Neg(&s.inner)
	return r
}

// Inverse returns s^-1. For a zero s it returns zero, as fr.Element's own
// Inverse does; callers in this module never invert a zero scalar.
func (s Scalar) Inverse() Scalar {
	var r Scalar
	r.inner.Inverse(&s.inner)
	return r
}

// IsZero reports whether s is the additive identity.
func (s Scalar) IsZero() bool {
	return s.inner.IsZero()
}

// Equal reports whether s and o represent the same field element.
func (s Scalar) Equal(o Scalar) bool {
	return s.inner.Equal(&o.inner)
}

// Bytes returns the canonical big-endian encoding of s.
func (s Scalar) Bytes() [32]byte {
	return s.inner.Bytes()
}

// BigInt returns s as a big.Int in [0, order).
func (s Scalar) BigInt() *big.Int {
	return s.inner.BigInt(new(big.Int))
}

// Point is an element of the BN254 G1 group.
type Point struct {
	inner bn254.G1Affine
}

var (
	genOnce  sync.Once
	genPoint Point

	secondaryOnce  sync.Once
	secondaryPoint Point
)

// G is the group's standard base generator.
func G() Point {
	genOnce.Do(func() {
		_, _, g1Aff, _ := bn254.Generators()
		genPoint = Point{inner: g1Aff}
	})
	return genPoint
}

// H is the commitment layer's secondary generator. It is derived by mapping
// the compressed encoding of G onto the curve with gnark-crypto's
// hash-to-curve (bn254.HashToG1) under a fixed domain-separation tag: a
// nothing-up-my-sleeve construction, not a trusted setup, and the point is
// never computed as a known multiple of G, so its discrete log relative to
// G is unknown.
func H() Point {
	secondaryOnce.Do(func() {
		dst := []byte("wallet-core/pedersen-H/v1")
		h, err := bn254.HashToG1(G().Bytes(), dst)
		if err != nil {
			// HashToG1 fails only for a tag longer than 255 bytes.
			panic("curve: deriving H: " + err.Error())
		}
		secondaryPoint = Point{inner: h}
	})
	return secondaryPoint
}

// Identity returns the group identity (point at infinity).
func Identity() Point {
	var p bn254.G1Affine
	p.SetInfinity()
	return Point{inner: p}
}

// Add returns p + o.
func (p Point) Add(o Point) Point {
	var r bn254.G1Affine
	r.Add(&p.inner, &o.inner)
	return Point{inner: r}
}

// Sub returns p - o.
func (p Point) Sub(o Point) Point {
	var neg bn254.G1Affine
	neg.Neg(&o.inner)
	var r bn254.G1Affine
	r.Add(&p.inner, &neg)
	return Point{inner: r}
}

// Neg returns -p.
func (p Point) Neg() Point {
	var r bn254.G1Affine
	r.Neg(&p.inner)
	return Point{inner: r}
}

// ScalarMul returns s*p.
func (p Point) ScalarMul(s Scalar) Point {
	var r bn254.G1Affine
	r.ScalarMultiplication(&p.inner, s.BigInt())
	return Point{inner: r}
}

// Equal reports whether p and o are the same point.
func (p Point) Equal(o Point) bool {
	return p.inner.Equal(&o.inner)
}

// IsIdentity reports whether p is the point at infinity.
func (p Point) IsIdentity() bool {
	return p.Equal(Identity())
}

// Bytes returns the compressed encoding of p.
func (p Point) Bytes() []byte {
	return p.inner.Marshal()
}

// PointFromBytes decodes a compressed point, failing with ErrBadEncoding on
// any malformed input (including points not on the curve or outside the
// prime-order subgroup).
func PointFromBytes(b []byte) (Point, error) {
	var inner bn254.G1Affine
	if err := inner.Unmarshal(b); err != nil {
		return Point{}, ErrBadEncoding
	}
	return Point{inner: inner}, nil
}
