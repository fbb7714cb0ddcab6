package disclosure

import (
	"context"
	"testing"
)

func TestRangeDisclosureProveVerify(t *testing.T) {
	m := NewManager()
	if err := m.CompileRange(); err != nil {
		t.Fatalf("CompileRange: %v", err)
	}

	ctx := context.Background()
	const value, blinding = int64(42), int64(7)
	commitment := value + blinding

	proof, err := m.ProveRange(ctx, value, blinding, commitment, 0, 100)
	if err != nil {
		t.Fatalf("ProveRange: %v", err)
	}

	ok, err := m.Verify(ctx, proof)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("expected range proof to verify")
	}
}

func TestRangeDisclosureRejectsOutOfRangeWitness(t *testing.T) {
	m := NewManager()
	if err := m.CompileRange(); err != nil {
		t.Fatalf("CompileRange: %v", err)
	}

	ctx := context.Background()
	if _, err := m.ProveRange(ctx, 500, 1, 501, 0, 100); err != ErrRequirementFailed {
		t.Fatalf("expected ErrRequirementFailed, got %v", err)
	}
}

func TestThresholdDisclosureAboveProveVerify(t *testing.T) {
	m := NewManager()
	if err := m.CompileThreshold(); err != nil {
		t.Fatalf("CompileThreshold: %v", err)
	}

	ctx := context.Background()
	const value, blinding = int64(1000), int64(3)
	commitment := value + blinding

	proof, err := m.ProveThreshold(ctx, value, blinding, commitment, 500, true)
	if err != nil {
		t.Fatalf("ProveThreshold: %v", err)
	}
	ok, err := m.Verify(ctx, proof)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("expected above-threshold proof to verify")
	}
}

func TestThresholdDisclosureBelowProveVerify(t *testing.T) {
	m := NewManager()
	if err := m.CompileThreshold(); err != nil {
		t.Fatalf("CompileThreshold: %v", err)
	}

	ctx := context.Background()
	const value, blinding = int64(10), int64(2)
	commitment := value + blinding

	proof, err := m.ProveThreshold(ctx, value, blinding, commitment, 500, false)
	if err != nil {
		t.Fatalf("ProveThreshold: %v", err)
	}
	ok, err := m.Verify(ctx, proof)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("expected below-threshold proof to verify")
	}
}

func TestThresholdDisclosureRejectsViolatingWitness(t *testing.T) {
	m := NewManager()
	if err := m.CompileThreshold(); err != nil {
		t.Fatalf("CompileThreshold: %v", err)
	}

	ctx := context.Background()
	if _, err := m.ProveThreshold(ctx, 10, 0, 10, 500, true); err != ErrRequirementFailed {
		t.Fatalf("expected ErrRequirementFailed, got %v", err)
	}
}

func TestProveBeforeCompileFails(t *testing.T) {
	m := NewManager()
	ctx := context.Background()
	if _, err := m.ProveRange(ctx, 1, 1, 2, 0, 10); err != ErrCircuitNotCompiled {
		t.Fatalf("expected ErrCircuitNotCompiled, got %v", err)
	}
}
