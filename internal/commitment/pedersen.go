// Package commitment implements Pedersen commitments over the group bound
// in internal/curve: C = v*H + r*G, homomorphic under addition, with the
// usual commitment-to-zero test for balance closure. Adapted from the
// teacher's internal/zkp/pedersen.go, with an H obtained by hashing G onto
// the curve in place of the teacher's placeholder XOR-based generator
// derivation.
package commitment

import (
	"fmt"

	"github.com/shadowpurse/wallet-core/internal/corerr"
	"github.com/shadowpurse/wallet-core/internal/curve"
)

// Commitment is a Pedersen commitment to a single value.
type Commitment struct {
	Point curve.Point
}

// Commit computes C = value*H + blinding*G.
func Commit(value uint64, blinding curve.Scalar) Commitment {
	vH := curve.H().ScalarMul(curve.ScalarFromUint64(value))
	rG := curve.G().ScalarMul(blinding)
	return Commitment{Point: vH.Add(rG)}
}

// CommitRandom commits to value with a freshly drawn blinding factor,
// returning the blinding so the caller can track it for later balance
// bookkeeping.
func CommitRandom(value uint64) (Commitment, curve.Scalar, error) {
	r, err := curve.RandomScalar()
	if err != nil {
		return Commitment{}, curve.Scalar{}, fmt.Errorf("%w: %v", corerr.ErrCrypto, err)
	}
	return Commit(value, r), r, nil
}

// Add returns the homomorphic sum of two commitments: a commitment to the
// sum of their values under the sum of their blinding factors.
func (c Commitment) Add(o Commitment) Commitment {
	return Commitment{Point: c.Point.Add(o.Point)}
}

// Sub returns the homomorphic difference of two commitments.
func (c Commitment) Sub(o Commitment) Commitment {
	return Commitment{Point: c.Point.Sub(o.Point)}
}

// IsIdentity reports whether c is a commitment to zero with a zero blinding
// factor, i.e. the group identity. This is the test a balanced transaction's
// commitment difference must pass.
func (c Commitment) IsIdentity() bool {
	return c.Point.IsIdentity()
}

// Verify reports whether c opens to (value, blinding).
func (c Commitment) Verify(value uint64, blinding curve.Scalar) bool {
	return c.Point.Equal(Commit(value, blinding).Point)
}

// Equal reports whether two commitments are the same point. Distinct
// openings essentially never collide onto the same point.
func (c Commitment) Equal(o Commitment) bool {
	return c.Point.Equal(o.Point)
}

// Bytes returns the compressed encoding of the commitment.
func (c Commitment) Bytes() []byte {
	return c.Point.Bytes()
}

// FromBytes decodes a commitment from its compressed encoding.
func FromBytes(data []byte) (Commitment, error) {
	p, err := curve.PointFromBytes(data)
	if err != nil {
		return Commitment{}, err
	}
	return Commitment{Point: p}, nil
}

// Sum folds a slice of commitments into their homomorphic sum, returning the
// group identity for an empty slice.
func Sum(cs []Commitment) Commitment {
	acc := curve.Identity()
	for _, c := range cs {
		acc = acc.Add(c.Point)
	}
	return Commitment{Point: acc}
}
