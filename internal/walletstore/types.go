// Package walletstore persists wallet-side state: accounts, the stealth key
// material behind them, transaction history, and the UTXO set each account
// can spend from. Adapted from the teacher's internal/storage/postgres.go
// connection-pool and query idiom, with a table shape grounded in
// original_source/storage/encrypted_db.rs's schema (accounts,
// stealth_addresses, transactions, stealth_outputs) carried over to
// Postgres and re-keyed around stealth addresses and commitments instead
// of the original's multi-chain address columns.
package walletstore

import (
	"github.com/shadowpurse/wallet-core/internal/curve"
	"github.com/shadowpurse/wallet-core/internal/stealth"
	"github.com/shadowpurse/wallet-core/internal/txbuilder"
	"github.com/shadowpurse/wallet-core/pkg/types"
)

// Account is a named stealth identity the wallet controls.
type Account struct {
	Index     uint32
	Name      string
	Address   stealth.Address
	CreatedAt int64
}

// StealthKeyMaterial holds an account's private spend/view scalars, stored
// as raw 32-byte scalar encodings so the store has no dependency on the
// secret package's zeroizing wrapper. Callers are responsible for erasing
// any secret.Scalar they build from these bytes once done with it.
type StealthKeyMaterial struct {
	AccountIndex uint32
	SpendPrivate [32]byte
	ViewPrivate  [32]byte
}

// Scalars decodes the stored key material back into curve scalars.
func (k StealthKeyMaterial) Scalars() (spend, view curve.Scalar) {
	return curve.ScalarFromBytes(k.SpendPrivate[:]), curve.ScalarFromBytes(k.ViewPrivate[:])
}

// Direction classifies a transaction record from the owning account's
// point of view.
type Direction string

const (
	DirectionSend    Direction = "send"
	DirectionReceive Direction = "receive"
)

// TransactionRecord is a wallet-local history entry. Raw holds the
// transaction's wire encoding (txbuilder.PrivateTransaction.Serialize) so
// history can be replayed or re-verified without re-deriving it.
type TransactionRecord struct {
	TxHash       types.Hash
	AccountIndex uint32
	Direction    Direction
	Timestamp    int64
	Raw          []byte
}

// StoredUTXO is a spendable or spent output owned by an account.
type StoredUTXO struct {
	AccountIndex uint32
	UTXO         txbuilder.UTXO
	Spent        bool
}
