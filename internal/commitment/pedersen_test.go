package commitment

import (
	"testing"

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

func TestCommitVerify(t *testing.T) {
	r := randScalar(t)
	c := Commit(42, r)
	if !c.Verify(42, r) {
		t.Fatal("commitment did not verify against its own opening")
	}
	if c.Verify(43, r) {
		t.Fatal("commitment verified against a wrong value")
	}
	other := randScalar(t)
	if r.Equal(other) {
		t.Fatal("randomly drawn scalars collided")
	}
	if c.Verify(42, other) {
		t.Fatal("commitment verified against a wrong blinding factor")
	}
}

func TestHomomorphicAdd(t *testing.T) {
	r1, r2 := randScalar(t), randScalar(t)
	c1 := Commit(10, r1)
	c2 := Commit(32, r2)
	sum := c1.Add(c2)
	if !sum.Verify(42, r1.Add(r2)) {
		t.Fatal("C1+C2 did not open to v1+v2 under r1+r2")
	}
}

func TestSubToIdentity(t *testing.T) {
	r := randScalar(t)
	c := Commit(7, r)
	diff := c.Sub(Commit(7, r))
	if !diff.IsIdentity() {
		t.Fatal("commitment minus itself is not the identity")
	}
}

func TestSumMatchesBalance(t *testing.T) {
	rIn := randScalar(t)
	rOut1 := randScalar(t)
	rOut2 := rIn.Sub(rOut1)
	in := Commit(100, rIn)
	out1 := Commit(60, rOut1)
	out2 := Commit(40, rOut2)

	left := Sum([]Commitment{in})
	right := Sum([]Commitment{out1, out2})
	diff := left.Sub(right)
	if !diff.IsIdentity() {
		t.Fatal("balanced value sum did not collapse to identity")
	}
}

func TestSumEmpty(t *testing.T) {
	if !Sum(nil).IsIdentity() {
		t.Fatal("sum of no commitments should be the identity")
	}
}

func TestBytesRoundTrip(t *testing.T) {
	r := randScalar(t)
	c := Commit(123, r)
	decoded, err := FromBytes(c.Bytes())
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if !decoded.Equal(c) {
		t.Fatal("round-tripped commitment does not match original")
	}
}

func TestFromBytesRejectsGarbage(t *testing.T) {
	if _, err := FromBytes([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected decode error for undersized input")
	}
}

func TestGeneratorsDistinct(t *testing.T) {
	if curve.G().Equal(curve.H()) {
		t.Fatal("G and H must not coincide")
	}
}
