package disclosure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/shadowpurse/wallet-core/internal/corerr"
)

// Kind identifies which disclosure circuit a proof was produced for.
type Kind uint8

const (
	KindRange Kind = iota
	KindThreshold
)

var (
	ErrCircuitNotCompiled = errors.New("disclosure: circuit not compiled")
	ErrRequirementFailed  = errors.New("disclosure: requirement not met by the witness")
)

type compiledCircuit struct {
	ccs constraint.ConstraintSystem
	pk  groth16.ProvingKey
	vk  groth16.VerifyingKey
}

// Manager compiles disclosure circuits once and reuses the resulting
// proving/verifying keys for every proof of that kind, mirroring the
// teacher's CircuitManager.
type Manager struct {
	mu       sync.RWMutex
	circuits map[Kind]*compiledCircuit
}

// NewManager creates an empty manager. Call CompileRange/CompileThreshold
// (or both) before Prove/Verify for the corresponding kind.
func NewManager() *Manager {
	return &Manager{circuits: make(map[Kind]*compiledCircuit)}
}

// CompileRange compiles and runs the trusted setup for RangeCircuit.
func (m *Manager) CompileRange() error {
	return m.compile(KindRange, &RangeCircuit{})
}

// CompileThreshold compiles and runs the trusted setup for ThresholdCircuit.
func (m *Manager) CompileThreshold() error {
	return m.compile(KindThreshold, &ThresholdCircuit{})
}

func (m *Manager) compile(kind Kind, circuit frontend.Circuit) error {
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, circuit)
	if err != nil {
		return fmt.Errorf("%w: compile: %v", corerr.ErrCrypto, err)
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return fmt.Errorf("%w: setup: %v", corerr.ErrCrypto, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.circuits[kind] = &compiledCircuit{ccs: ccs, pk: pk, vk: vk}
	return nil
}

// Proof is a serialized disclosure proof alongside the public inputs it
// was verified against.
type Proof struct {
	Kind         Kind
	Proof        []byte
	PublicInputs []byte
}

// ProveRange proves minValue <= value <= maxValue for a value/blinding
// pair, binding them to commitment via the circuit's linear commitment
// check. It fails fast (before invoking the prover) if the witness does
// not actually satisfy the range.
func (m *Manager) ProveRange(ctx context.Context, value, blinding, commitment, minValue, maxValue int64) (*Proof, error) {
	if value < minValue || value > maxValue {
		return nil, ErrRequirementFailed
	}
	witness := &RangeCircuit{
		Commitment: commitment,
		MinValue:   minValue,
		MaxValue:   maxValue,
		Value:      value,
		Blinding:   blinding,
	}
	return m.prove(ctx, KindRange, witness)
}

// ProveThreshold proves value >= threshold (above = true) or value <=
// threshold (above = false).
func (m *Manager) ProveThreshold(ctx context.Context, value, blinding, commitment, threshold int64, above bool) (*Proof, error) {
	if above && value < threshold {
		return nil, ErrRequirementFailed
	}
	if !above && value > threshold {
		return nil, ErrRequirementFailed
	}
	aboveFlag := int64(0)
	if above {
		aboveFlag = 1
	}
	witness := &ThresholdCircuit{
		Commitment: commitment,
		Threshold:  threshold,
		Above:      aboveFlag,
		Value:      value,
		Blinding:   blinding,
	}
	return m.prove(ctx, KindThreshold, witness)
}

func (m *Manager) prove(_ context.Context, kind Kind, witness frontend.Circuit) (*Proof, error) {
	m.mu.RLock()
	compiled, ok := m.circuits[kind]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrCircuitNotCompiled
	}

	w, err := frontend.NewWitness(witness, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("%w: witness: %v", corerr.ErrCrypto, err)
	}

	proof, err := groth16.Prove(compiled.ccs, compiled.pk, w)
	if err != nil {
		return nil, fmt.Errorf("%w: prove: %v", corerr.ErrCrypto, err)
	}
	var proofBuf bytes.Buffer
	if _, err := proof.WriteTo(&proofBuf); err != nil {
		return nil, fmt.Errorf("%w: marshal proof: %v", corerr.ErrCrypto, err)
	}

	publicWitness, err := w.Public()
	if err != nil {
		return nil, fmt.Errorf("%w: public witness: %v", corerr.ErrCrypto, err)
	}
	publicBytes, err := publicWitness.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: marshal public witness: %v", corerr.ErrCrypto, err)
	}

	return &Proof{
		Kind:         kind,
		Proof:        proofBuf.Bytes(),
		PublicInputs: publicBytes,
	}, nil
}

// Verify checks a disclosure proof against the public inputs it carries.
func (m *Manager) Verify(_ context.Context, proof *Proof) (bool, error) {
	m.mu.RLock()
	compiled, ok := m.circuits[proof.Kind]
	m.mu.RUnlock()
	if !ok {
		return false, ErrCircuitNotCompiled
	}

	snarkProof := groth16.NewProof(ecc.BN254)
	if _, err := snarkProof.ReadFrom(bytes.NewReader(proof.Proof)); err != nil {
		return false, fmt.Errorf("%w: unmarshal proof: %v", corerr.ErrCrypto, err)
	}

	publicWitness, err := frontend.NewWitness(nil, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, fmt.Errorf("%w: public witness shell: %v", corerr.ErrCrypto, err)
	}
	if err := publicWitness.UnmarshalBinary(proof.PublicInputs); err != nil {
		return false, fmt.Errorf("%w: unmarshal public inputs: %v", corerr.ErrCrypto, err)
	}

	if err := groth16.Verify(snarkProof, compiled.vk, publicWitness); err != nil {
		return false, nil
	}
	return true, nil
}
