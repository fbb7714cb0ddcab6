// Package rangeproof proves that a committed value lies in [0, 2^n) without
// revealing it. The construction decomposes the value into n Pedersen bit
// commitments, bonds each to a Schnorr OR-proof (Cramer-Damgard-Schoenmakers
// disjunctive Sigma protocol, Fiat-Shamir via BLAKE2b) showing the bit opens
// to 0 or 1, and links the bits back to the original commitment by a public
// weighted-sum check. This is a real, sound zero-knowledge range proof; it
// is linear in n rather than the logarithmic Bulletproof construction, a
// deliberate size/complexity tradeoff grounded in the bit-decomposition
// sketch in the retrieval pack's confidential transaction example.
package rangeproof

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/shadowpurse/wallet-core/internal/commitment"
	"github.com/shadowpurse/wallet-core/internal/corerr"
	"github.com/shadowpurse/wallet-core/internal/curve"
)

// DefaultBits is the bit width used when a wallet does not need a narrower
// range.
const DefaultBits = 64

// MaxBits is the largest bit width supported; proofs scale linearly with it.
const MaxBits = 64

var (
	// ErrInvalidBitCount is returned when n is outside [1, MaxBits].
	ErrInvalidBitCount = errors.New("rangeproof: bit count out of range")

	// ErrInvalidEncoding is returned when a serialized proof is malformed.
	ErrInvalidEncoding = errors.New("rangeproof: invalid encoding")
)

const bitProofSize = curve.PointSize*3 + curve.ScalarSize*4

// bitProof is an OR-proof that commitment opens to 0 or to 1.
type bitProof struct {
	commitment curve.Point
	a0, a1     curve.Point
	c0, s0     curve.Scalar
	c1, s1     curve.Scalar
}

// Proof is a range proof over a Pedersen commitment.
type Proof struct {
	bits []bitProof
}

// Prove builds a proof that commit(value, blinding) opens to a value in
// [0, 2^n). Per the baseline contract, this fails only on a malformed n; an
// out-of-range value instead yields a proof that simply will not verify
// against the commitment, since the bit decomposition cannot reconstruct a
// value wider than n bits.
func Prove(value uint64, blinding curve.Scalar, n int) (*Proof, error) {
	if n <= 0 || n > MaxBits {
		return nil, fmt.Errorf("%w: n=%d", ErrInvalidBitCount, n)
	}

	bitBlindings := make([]curve.Scalar, n)
	weighted := curve.Scalar{}
	for i := 0; i < n-1; i++ {
		r, err := curve.RandomScalar()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", corerr.ErrCrypto, err)
		}
		bitBlindings[i] = r
		weighted = weighted.Add(r.Mul(pow2(i)))
	}
	inv := pow2(n - 1).Inverse()
	bitBlindings[n-1] = blinding.Sub(weighted).Mul(inv)

	bits := make([]bitProof, n)
	for i := 0; i < n; i++ {
		bit := (value >> uint(i)) & 1
		bp, err := proveBit(bit, bitBlindings[i])
		if err != nil {
			return nil, err
		}
		bits[i] = bp
	}
	return &Proof{bits: bits}, nil
}

// Verify reports whether p proves that c opens to a value in [0, 2^n) for
// the n the proof was built with.
func (p *Proof) Verify(c commitment.Commitment) bool {
	if p == nil || len(p.bits) == 0 {
		return false
	}
	acc := curve.Identity()
	for i, bp := range p.bits {
		if !verifyBit(bp) {
			return false
		}
		acc = acc.Add(bp.commitment.ScalarMul(pow2(i)))
	}
	return acc.Equal(c.Point)
}

// Bits reports the bit width this proof was constructed for.
func (p *Proof) Bits() int {
	if p == nil {
		return 0
	}
	return len(p.bits)
}

func pow2(i int) curve.Scalar {
	return curve.ScalarFromUint64(uint64(1) << uint(i))
}

// proveBit constructs an OR-proof that commit(bit, blinding) opens to 0 or
// 1, where bit is actually the prover's known value.
func proveBit(bit uint64, blinding curve.Scalar) (bitProof, error) {
	c := commitment.Commit(bit, blinding)
	p0 := c.Point                // the "bit is 0" hypothesis: p0 = blinding*G iff true
	p1 := c.Point.Sub(curve.H()) // the "bit is 1" hypothesis: p1 = blinding*G iff true

	switch bit {
	case 0:
		k, err := curve.RandomScalar()
		if err != nil {
			return bitProof{}, fmt.Errorf("%w: %v", corerr.ErrCrypto, err)
		}
		a0 := curve.G().ScalarMul(k)

		c1, err := curve.RandomScalar()
		if err != nil {
			return bitProof{}, fmt.Errorf("%w: %v", corerr.ErrCrypto, err)
		}
		s1, err := curve.RandomScalar()
		if err != nil {
			return bitProof{}, fmt.Errorf("%w: %v", corerr.ErrCrypto, err)
		}
		a1 := curve.G().ScalarMul(s1).Sub(p1.ScalarMul(c1))

		ch := fiatShamirChallenge(c.Point, a0, a1)
		c0 := ch.Sub(c1)
		s0 := k.Add(c0.Mul(blinding))
		return bitProof{commitment: c.Point, a0: a0, a1: a1, c0: c0, s0: s0, c1: c1, s1: s1}, nil

	case 1:
		k, err := curve.RandomScalar()
		if err != nil {
			return bitProof{}, fmt.Errorf("%w: %v", corerr.ErrCrypto, err)
		}
		a1 := curve.G().ScalarMul(k)

		c0, err := curve.RandomScalar()
		if err != nil {
			return bitProof{}, fmt.Errorf("%w: %v", corerr.ErrCrypto, err)
		}
		s0, err := curve.RandomScalar()
		if err != nil {
			return bitProof{}, fmt.Errorf("%w: %v", corerr.ErrCrypto, err)
		}
		a0 := curve.G().ScalarMul(s0).Sub(p0.ScalarMul(c0))

		ch := fiatShamirChallenge(c.Point, a0, a1)
		c1 := ch.Sub(c0)
		s1 := k.Add(c1.Mul(blinding))
		return bitProof{commitment: c.Point, a0: a0, a1: a1, c0: c0, s0: s0, c1: c1, s1: s1}, nil

	default:
		return bitProof{}, fmt.Errorf("%w: bit value %d is not 0 or 1", corerr.ErrInvalidParameter, bit)
	}
}

func verifyBit(bp bitProof) bool {
	p0 := bp.commitment
	p1 := bp.commitment.Sub(curve.H())

	ch := fiatShamirChallenge(bp.commitment, bp.a0, bp.a1)
	if !ch.Equal(bp.c0.Add(bp.c1)) {
		return false
	}
	lhs0 := curve.G().ScalarMul(bp.s0)
	rhs0 := bp.a0.Add(p0.ScalarMul(bp.c0))
	if !lhs0.Equal(rhs0) {
		return false
	}
	lhs1 := curve.G().ScalarMul(bp.s1)
	rhs1 := bp.a1.Add(p1.ScalarMul(bp.c1))
	return lhs1.Equal(rhs1)
}

func fiatShamirChallenge(c, a0, a1 curve.Point) curve.Scalar {
	var buf bytes.Buffer
	buf.WriteString("wallet-core/rangeproof-bit/v1:")
	buf.Write(c.Bytes())
	buf.Write(a0.Bytes())
	buf.Write(a1.Bytes())
	return curve.HashToScalar(buf.Bytes())
}

// Bytes serializes the proof: one byte bit count, followed by that many
// fixed-size bit-proof entries.
func (p *Proof) Bytes() []byte {
	buf := make([]byte, 0, 1+len(p.bits)*bitProofSize)
	buf = append(buf, byte(len(p.bits)))
	for _, bp := range p.bits {
		buf = append(buf, bp.commitment.Bytes()...)
		buf = append(buf, bp.a0.Bytes()...)
		buf = append(buf, bp.a1.Bytes()...)
		c0b, s0b := bp.c0.Bytes(), bp.s0.Bytes()
		c1b, s1b := bp.c1.Bytes(), bp.s1.Bytes()
		buf = append(buf, c0b[:]...)
		buf = append(buf, s0b[:]...)
		buf = append(buf, c1b[:]...)
		buf = append(buf, s1b[:]...)
	}
	return buf
}

// Parse decodes a proof previously produced by Bytes.
func Parse(data []byte) (*Proof, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("%w: empty proof", ErrInvalidEncoding)
	}
	n := int(data[0])
	if n <= 0 || n > MaxBits {
		return nil, fmt.Errorf("%w: n=%d", ErrInvalidBitCount, n)
	}
	want := 1 + n*bitProofSize
	if len(data) != want {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidEncoding, want, len(data))
	}

	r := bytes.NewReader(data[1:])
	bits := make([]bitProof, n)
	for i := 0; i < n; i++ {
		var bp bitProof
		var err error
		if bp.commitment, err = readPoint(r); err != nil {
			return nil, err
		}
		if bp.a0, err = readPoint(r); err != nil {
			return nil, err
		}
		if bp.a1, err = readPoint(r); err != nil {
			return nil, err
		}
		bp.c0 = readScalar(r)
		bp.s0 = readScalar(r)
		bp.c1 = readScalar(r)
		bp.s1 = readScalar(r)
		bits[i] = bp
	}
	return &Proof{bits: bits}, nil
}

func readPoint(r io.Reader) (curve.Point, error) {
	buf := make([]byte, curve.PointSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return curve.Point{}, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	p, err := curve.PointFromBytes(buf)
	if err != nil {
		return curve.Point{}, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return p, nil
}

func readScalar(r io.Reader) curve.Scalar {
	buf := make([]byte, curve.ScalarSize)
	_, _ = io.ReadFull(r, buf)
	return curve.ScalarFromBytes(buf)
}
