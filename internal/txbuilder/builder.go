package txbuilder

import (
	"fmt"

	"github.com/shadowpurse/wallet-core/internal/commitment"
	"github.com/shadowpurse/wallet-core/internal/corerr"
	"github.com/shadowpurse/wallet-core/internal/curve"
	"github.com/shadowpurse/wallet-core/internal/rangeproof"
	"github.com/shadowpurse/wallet-core/pkg/types"
)

type builderInput struct {
	prevTxHash types.Hash
	prevIndex  uint32
	value      uint64
	blinding   curve.Scalar
	commitment commitment.Commitment
}

type builderOutput struct {
	address    []byte
	value      uint64
	blinding   curve.Scalar
	commitment commitment.Commitment
}

// Builder accumulates inputs and outputs for a single transaction. It does
// not auto-correct the blinding balance: the caller is responsible for
// installing exactly one output (conventionally the change output) whose
// blinding factor comes from CalculateChangeBlinding, called after every
// other input and output has been added.
type Builder struct {
	inputs   []builderInput
	outputs  []builderOutput
	fee      uint64
	metadata []byte
}

// NewBuilder creates an empty transaction builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddInput adds a spend of a previous output with known (value, blinding).
func (b *Builder) AddInput(prevTxHash types.Hash, prevIndex uint32, value uint64, blinding curve.Scalar) *Builder {
	b.inputs = append(b.inputs, builderInput{
		prevTxHash: prevTxHash,
		prevIndex:  prevIndex,
		value:      value,
		blinding:   blinding,
		commitment: commitment.Commit(value, blinding),
	})
	return b
}

// AddOutput adds an output with a freshly drawn random blinding factor.
//
// For every output but one, this is the right call. Exactly one output
// (the change output) must instead go through AddOutputWithBlinding using
// the value returned by CalculateChangeBlinding, or the blinding balance
// will not close: Build still succeeds, but Verify reports the resulting
// transaction as invalid.
func (b *Builder) AddOutput(address []byte, value uint64) (*Builder, error) {
	r, err := curve.RandomScalar()
	if err != nil {
		return b, fmt.Errorf("%w: %v", corerr.ErrCrypto, err)
	}
	return b.AddOutputWithBlinding(address, value, r), nil
}

// AddOutputWithBlinding adds an output with a caller-supplied blinding
// factor. Used for the change output, paired with CalculateChangeBlinding.
func (b *Builder) AddOutputWithBlinding(address []byte, value uint64, blinding curve.Scalar) *Builder {
	b.outputs = append(b.outputs, builderOutput{
		address:    address,
		value:      value,
		blinding:   blinding,
		commitment: commitment.Commit(value, blinding),
	})
	return b
}

// SetFee sets the (publicly revealed) transaction fee.
func (b *Builder) SetFee(fee uint64) *Builder {
	b.fee = fee
	return b
}

// SetMetadata attaches opaque application-defined metadata to the
// transaction.
func (b *Builder) SetMetadata(metadata []byte) *Builder {
	b.metadata = metadata
	return b
}

// CalculateChangeBlinding returns the blinding factor a final output must
// use for the blinding-factor balance to close: sum(input blindings) minus
// sum(every output blinding added so far). It is a pure read of the
// builder's current state; it does not add an output itself, so calling it
// twice before adding the change output returns the same value.
func (b *Builder) CalculateChangeBlinding() curve.Scalar {
	inputSum := curve.Scalar{}
	for _, in := range b.inputs {
		inputSum = inputSum.Add(in.blinding)
	}
	outputSum := curve.Scalar{}
	for _, out := range b.outputs {
		outputSum = outputSum.Add(out.blinding)
	}
	return inputSum.Sub(outputSum)
}

// EstimateSize estimates the transaction's encoded size in bytes, for fee
// planning. Each input costs roughly 150 bytes (hash, index, commitment,
// signature), each output roughly 100 bytes plus a 650-byte range proof,
// plus a fixed 50-byte overhead.
func (b *Builder) EstimateSize() int {
	inputSize := len(b.inputs) * 150
	outputSize := len(b.outputs) * 100
	proofSize := len(b.outputs) * 650
	const overhead = 50
	return inputSize + outputSize + proofSize + overhead
}

// Build checks that the value balance closes (sum(inputs) ==
// sum(outputs) + fee, with overflow checked) and, if so, produces a
// PrivateTransaction with a fresh range proof attached to every output.
// It does not check the blinding-factor balance; that only becomes
// observable when the resulting transaction is verified.
func (b *Builder) Build() (*PrivateTransaction, error) {
	var inputSum uint64
	for _, in := range b.inputs {
		next := inputSum + in.value
		if next < inputSum {
			return nil, fmt.Errorf("%w: input value sum overflows", corerr.ErrInvalidParameter)
		}
		inputSum = next
	}

	var outputSum uint64
	for _, out := range b.outputs {
		next := outputSum + out.value
		if next < outputSum {
			return nil, fmt.Errorf("%w: output value sum overflows", corerr.ErrInvalidParameter)
		}
		outputSum = next
	}

	total := outputSum + b.fee
	if total < outputSum {
		return nil, fmt.Errorf("%w: output value plus fee overflows", corerr.ErrInvalidParameter)
	}
	if inputSum != total {
		return nil, fmt.Errorf("%w: unbalanced transaction: inputs=%d, outputs=%d, fee=%d",
			corerr.ErrInvalidParameter, inputSum, outputSum, b.fee)
	}

	inputs := make([]Input, len(b.inputs))
	for i, in := range b.inputs {
		inputs[i] = Input{
			PrevTxHash: in.prevTxHash,
			PrevIndex:  in.prevIndex,
			Commitment: in.commitment,
		}
	}

	outputs := make([]Output, len(b.outputs))
	proofs := make([]*rangeproof.Proof, len(b.outputs))
	for i, out := range b.outputs {
		outputs[i] = Output{Address: out.address, Commitment: out.commitment}
		proof, err := rangeproof.Prove(out.value, out.blinding, rangeproof.DefaultBits)
		if err != nil {
			return nil, fmt.Errorf("%w: range proof for output %d: %v", corerr.ErrCommitment, i, err)
		}
		proofs[i] = proof
	}

	return &PrivateTransaction{
		Inputs:      inputs,
		Outputs:     outputs,
		RangeProofs: proofs,
		Fee:         b.fee,
		Metadata:    b.metadata,
	}, nil
}
