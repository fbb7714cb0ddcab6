// Package txbuilder builds and verifies private transactions: sets of
// Pedersen-committed inputs and outputs whose value balance closes under
// homomorphic addition while individual amounts stay hidden. Adapted from
// the algorithm in original_source/transaction_builder.rs (the literal
// reference this package is grounded on) using the Go struct/method shapes
// the teacher's internal/zkp/transaction.go establishes for this domain.
package txbuilder

import (
	"github.com/shadowpurse/wallet-core/internal/commitment"
	"github.com/shadowpurse/wallet-core/internal/curve"
	"github.com/shadowpurse/wallet-core/internal/rangeproof"
	"github.com/shadowpurse/wallet-core/pkg/types"
)

// Input references a previous output being spent, hiding its value behind
// a commitment and authorizing the spend with an opaque signature. The
// signature scheme itself is out of scope for this module; callers that
// need spend authorization supply their own bytes here.
type Input struct {
	PrevTxHash types.Hash
	PrevIndex  uint32
	Commitment commitment.Commitment
	Signature  []byte
}

// Output is a transaction output: a destination and a hidden amount.
// EncryptedAmount is a reserved extension point for delivering the amount
// to the recipient out of band; this module does not populate it, since
// amount encryption is out of scope here.
type Output struct {
	Address         []byte
	Commitment      commitment.Commitment
	EncryptedAmount []byte
}

// PrivateTransaction is a complete, balanced transaction with hidden
// amounts: the wire form a builder emits and a verifier checks.
type PrivateTransaction struct {
	Inputs      []Input
	Outputs     []Output
	RangeProofs []*rangeproof.Proof
	Fee         uint64
	Metadata    []byte
}

// UTXO is the wallet-side record of a spendable output: the full opening
// (value, blinding) that only the owner holds, alongside the public
// commitment and outpoint needed to spend it later.
type UTXO struct {
	TxHash     types.Hash
	Index      uint32
	Value      uint64
	Blinding   curve.Scalar
	Commitment commitment.Commitment
	Address    []byte
}
