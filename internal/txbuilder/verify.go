package txbuilder

import (
	"fmt"
	"sync"

	"github.com/shadowpurse/wallet-core/internal/commitment"
	"github.com/shadowpurse/wallet-core/internal/corerr"
	"github.com/shadowpurse/wallet-core/internal/curve"
)

// Verify checks a transaction's structure, range proofs, and value balance.
// A structural defect (a malformed shape the transaction could never
// satisfy, such as a range-proof count mismatch) is reported as an error, so
// callers can tell "ill-formed" apart from "cryptographically invalid": the
// latter is reported by a false return with a nil error.
func (tx *PrivateTransaction) Verify() (bool, error) {
	if len(tx.RangeProofs) != len(tx.Outputs) {
		return false, fmt.Errorf("%w: %d range proofs for %d outputs", corerr.ErrInvalidParameter, len(tx.RangeProofs), len(tx.Outputs))
	}

	for i, proof := range tx.RangeProofs {
		if !proof.Verify(tx.Outputs[i].Commitment) {
			return false, nil
		}
	}

	return tx.VerifyBalance()
}

// VerifyStrict additionally rejects inputs with an empty signature. Verify
// alone accepts empty signatures so unsigned transactions can still be
// balance-and-range-checked in tests; production callers should use
// VerifyStrict.
func (tx *PrivateTransaction) VerifyStrict() (bool, error) {
	for i, in := range tx.Inputs {
		if len(in.Signature) == 0 {
			return false, fmt.Errorf("%w: input %d has an empty signature", corerr.ErrInvalidParameter, i)
		}
	}
	return tx.Verify()
}

// VerifyBalance checks only the commitment-balance equation: sum(input
// commitments) == sum(output commitments) + commit(fee, 0). An empty input
// or output set is reported as unbalanced rather than as vacuously true.
func (tx *PrivateTransaction) VerifyBalance() (bool, error) {
	if len(tx.Inputs) == 0 || len(tx.Outputs) == 0 {
		return false, nil
	}

	inputs := make([]commitment.Commitment, len(tx.Inputs))
	for i, in := range tx.Inputs {
		inputs[i] = in.Commitment
	}

	outputs := make([]commitment.Commitment, len(tx.Outputs)+1)
	for i, out := range tx.Outputs {
		outputs[i] = out.Commitment
	}
	outputs[len(tx.Outputs)] = commitment.Commit(tx.Fee, curve.Scalar{})

	diff := commitment.Sum(inputs).Sub(commitment.Sum(outputs))
	return diff.IsIdentity(), nil
}

// BatchResult pairs a verified transaction's index with its outcome.
type BatchResult struct {
	Index int
	Valid bool
	Err   error
}

// VerifyBatch verifies many transactions, sharding the work across workers
// goroutines when workers > 1. Each goroutine verifies a contiguous slice
// of transactions into its own region of a preallocated results array, so
// there is no shared mutable state inside the parallel section.
func VerifyBatch(txs []*PrivateTransaction, workers int) []BatchResult {
	results := make([]BatchResult, len(txs))
	if workers <= 1 || len(txs) < workers {
		for i, tx := range txs {
			valid, err := tx.Verify()
			results[i] = BatchResult{Index: i, Valid: valid, Err: err}
		}
		return results
	}

	chunk := (len(txs) + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < len(txs); start += chunk {
		end := start + chunk
		if end > len(txs) {
			end = len(txs)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				valid, err := txs[i].Verify()
				results[i] = BatchResult{Index: i, Valid: valid, Err: err}
			}
		}(start, end)
	}
	wg.Wait()
	return results
}
