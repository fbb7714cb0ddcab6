// Package corerr is the wallet core's error taxonomy: sentinel values
// wrapped with context via fmt.Errorf("%w: ...", ...), matching the
// teacher's own var ErrX = errors.New(...) convention rather than a custom
// enum-style error type.
package corerr

import "errors"

var (
	// ErrInvalidMnemonic marks a malformed or unsupported mnemonic phrase.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")

	// ErrKeyDerivation marks a failure deriving keys from seed material.
	ErrKeyDerivation = errors.New("key derivation failed")

	// ErrCommitment marks a failure in commitment or range-proof
	// construction or verification.
	ErrCommitment = errors.New("commitment error")

	// ErrStorage marks a persistence-layer failure.
	ErrStorage = errors.New("storage error")

	// ErrCrypto marks a generic cryptographic failure outside the more
	// specific categories above.
	ErrCrypto = errors.New("cryptographic error")

	// ErrSerialization marks a failure encoding or decoding wire data.
	ErrSerialization = errors.New("serialization error")

	// ErrInvalidParameter marks a caller-supplied argument that is
	// structurally invalid (as distinct from a value that is well-formed
	// but fails a cryptographic check).
	ErrInvalidParameter = errors.New("invalid parameter")
)
