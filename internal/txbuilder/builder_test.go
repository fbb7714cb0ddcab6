package txbuilder

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

// TestSimpleTransaction mirrors scenario S1: one input, a payment output
// plus a change output whose blinding closes the balance, and a fee.
func TestSimpleTransaction(t *testing.T) {
	b := NewBuilder()
	inputBlinding := randScalar(t)
	b.AddInput([32]byte{}, 0, 100, inputBlinding)

	if _, err := b.AddOutput([]byte{1, 2, 3, 4}, 80); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}

	changeBlinding := b.CalculateChangeBlinding()
	b.AddOutputWithBlinding([]byte{5, 6, 7, 8}, 10, changeBlinding)
	b.SetFee(10)

	tx, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(tx.Inputs) != 1 || len(tx.Outputs) != 2 {
		t.Fatalf("unexpected shape: %d inputs, %d outputs", len(tx.Inputs), len(tx.Outputs))
	}

	valid, err := tx.Verify()
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !valid {
		t.Fatal("expected balanced transaction to verify")
	}
}

// TestMultiInputTransaction mirrors scenario S2: two inputs collapsing into
// one output plus a fee.
func TestMultiInputTransaction(t *testing.T) {
	b := NewBuilder()
	b.AddInput([32]byte{1}, 0, 50, randScalar(t))
	b.AddInput([32]byte{2}, 1, 75, randScalar(t))
	b.SetFee(5)

	outputBlinding := b.CalculateChangeBlinding()
	b.AddOutputWithBlinding([]byte{1, 2, 3, 4}, 120, outputBlinding)

	tx, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(tx.Inputs) != 2 || len(tx.Outputs) != 1 {
		t.Fatalf("unexpected shape: %d inputs, %d outputs", len(tx.Inputs), len(tx.Outputs))
	}
	valid, err := tx.Verify()
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !valid {
		t.Fatal("expected balanced multi-input transaction to verify")
	}
}

// TestUnbalancedTransactionFails mirrors scenario S3: spending more than the
// inputs provide must fail to build.
func TestUnbalancedTransactionFails(t *testing.T) {
	b := NewBuilder()
	b.AddInput([32]byte{}, 0, 100, randScalar(t))
	if _, err := b.AddOutput([]byte{1, 2, 3, 4}, 150); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}
	b.SetFee(0)

	if _, err := b.Build(); err == nil {
		t.Fatal("expected Build to fail for an unbalanced transaction")
	}
}

func TestChangeBlindingCalculation(t *testing.T) {
	b := NewBuilder()
	b.AddInput([32]byte{}, 0, 100, randScalar(t))
	if _, err := b.AddOutput([]byte{1, 2, 3, 4}, 90); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}
	changeBlinding := b.CalculateChangeBlinding()
	b.AddOutputWithBlinding([]byte{5, 6, 7, 8}, 5, changeBlinding)
	b.SetFee(5)

	tx, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	valid, err := tx.Verify()
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !valid {
		t.Fatal("expected transaction with calculated change blinding to verify")
	}
}

func TestEstimateSize(t *testing.T) {
	b := NewBuilder()
	b.AddInput([32]byte{}, 0, 100, randScalar(t))
	if _, err := b.AddOutput([]byte{1, 2, 3, 4}, 90); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}
	b.SetFee(10)

	size := b.EstimateSize()
	if size <= 800 || size >= 1100 {
		t.Fatalf("expected estimate in (800, 1100), got %d", size)
	}
}

func TestSerializationRoundTrip(t *testing.T) {
	b := NewBuilder()
	b.AddInput([32]byte{}, 0, 100, randScalar(t))
	b.AddOutputWithBlinding([]byte{1, 2, 3, 4}, 90, b.CalculateChangeBlinding())
	b.SetFee(10)
	b.SetMetadata([]byte("memo"))

	tx, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	encoded := tx.Serialize()
	decoded, err := Deserialize(encoded)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if len(decoded.Inputs) != len(tx.Inputs) || len(decoded.Outputs) != len(tx.Outputs) {
		t.Fatal("round-tripped transaction shape does not match")
	}
	if decoded.Fee != tx.Fee {
		t.Fatalf("fee mismatch: got %d, want %d", decoded.Fee, tx.Fee)
	}
	valid, err := decoded.Verify()
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !valid {
		t.Fatal("round-tripped transaction failed to verify")
	}
}

func TestVerifyBalanceEmptyInputsOrOutputs(t *testing.T) {
	tx := &PrivateTransaction{}
	valid, err := tx.VerifyBalance()
	if err != nil {
		t.Fatalf("VerifyBalance: %v", err)
	}
	if valid {
		t.Fatal("empty transaction must not verify as balanced")
	}
}

func TestVerifyRejectsRangeProofCountMismatch(t *testing.T) {
	b := NewBuilder()
	b.AddInput([32]byte{}, 0, 100, randScalar(t))
	if _, err := b.AddOutput([]byte{1, 2, 3, 4}, 100); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}
	tx, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	tx.RangeProofs = append(tx.RangeProofs, tx.RangeProofs[0])

	if _, err := tx.Verify(); err == nil {
		t.Fatal("expected structural error for mismatched range proof count")
	}
}

func TestVerifyStrictRejectsEmptySignature(t *testing.T) {
	b := NewBuilder()
	b.AddInput([32]byte{}, 0, 100, randScalar(t))
	if _, err := b.AddOutput([]byte{1, 2, 3, 4}, 100); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}
	tx, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := tx.VerifyStrict(); err == nil {
		t.Fatal("expected VerifyStrict to reject an empty input signature")
	}
}

func TestVerifyBatch(t *testing.T) {
	var txs []*PrivateTransaction
	for i := 0; i < 10; i++ {
		b := NewBuilder()
		b.AddInput([32]byte{byte(i)}, 0, 100, randScalar(t))
		outputBlinding := b.CalculateChangeBlinding()
		b.AddOutputWithBlinding([]byte{1, 2, 3, 4}, 100, outputBlinding)
		tx, err := b.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		txs = append(txs, tx)
	}

	sequential := VerifyBatch(txs, 1)
	parallel := VerifyBatch(txs, 4)
	for i := range txs {
		if !sequential[i].Valid || sequential[i].Err != nil {
			t.Fatalf("sequential verify %d: valid=%v err=%v", i, sequential[i].Valid, sequential[i].Err)
		}
		if !parallel[i].Valid || parallel[i].Err != nil {
			t.Fatalf("parallel verify %d: valid=%v err=%v", i, parallel[i].Valid, parallel[i].Err)
		}
	}
}
