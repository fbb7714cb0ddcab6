package rangeproof

import (
	"testing"

	"github.com/shadowpurse/wallet-core/internal/commitment"
	"github.com/shadowpurse/wallet-core/internal/curve"
)

func randScalar(t *testing.T) curve.Scalar {
	t.Helper()
	s, err := curve.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	return s
}

func TestProveVerifyRoundTrip(t *testing.T) {
	r := randScalar(t)
	c := commitment.Commit(1000, r)
	proof, err := Prove(1000, r, DefaultBits)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if !proof.Verify(c) {
		t.Fatal("valid range proof failed to verify")
	}
}

func TestVerifyRejectsWrongCommitment(t *testing.T) {
	r := randScalar(t)
	proof, err := Prove(1000, r, DefaultBits)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	other := commitment.Commit(1000, randScalar(t))
	if proof.Verify(other) {
		t.Fatal("proof verified against a commitment with a different blinding factor")
	}
}

func TestBoundaryValues(t *testing.T) {
	for _, n := range []int{1, 8, 16} {
		max := uint64(1)<<uint(n) - 1
		for _, v := range []uint64{0, max} {
			r := randScalar(t)
			c := commitment.Commit(v, r)
			proof, err := Prove(v, r, n)
			if err != nil {
				t.Fatalf("Prove(%d,%d): %v", v, n, err)
			}
			if !proof.Verify(c) {
				t.Fatalf("boundary value %d at n=%d did not verify", v, n)
			}
		}
	}
}

func TestOutOfRangeValueFailsToVerify(t *testing.T) {
	const n = 8
	value := uint64(1) << n // exactly out of range for n bits
	r := randScalar(t)
	c := commitment.Commit(value, r)
	proof, err := Prove(value, r, n)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if proof.Verify(c) {
		t.Fatal("out-of-range value should not verify")
	}
}

func TestInvalidBitCount(t *testing.T) {
	r := randScalar(t)
	if _, err := Prove(1, r, 0); err == nil {
		t.Fatal("expected error for n=0")
	}
	if _, err := Prove(1, r, MaxBits+1); err == nil {
		t.Fatal("expected error for n too large")
	}
}

func TestSerializationRoundTrip(t *testing.T) {
	r := randScalar(t)
	c := commitment.Commit(777, r)
	proof, err := Prove(777, r, DefaultBits)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	encoded := proof.Bytes()
	decoded, err := Parse(encoded)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !decoded.Verify(c) {
		t.Fatal("round-tripped proof failed to verify")
	}
}

func TestParseRejectsTruncated(t *testing.T) {
	r := randScalar(t)
	proof, err := Prove(1, r, 8)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	encoded := proof.Bytes()
	if _, err := Parse(encoded[:len(encoded)-1]); err == nil {
		t.Fatal("expected error parsing truncated proof")
	}
}

func TestNilProofDoesNotVerify(t *testing.T) {
	var p *Proof
	if p.Verify(commitment.Commit(0, curve.Scalar{})) {
		t.Fatal("nil proof must not verify")
	}
}
