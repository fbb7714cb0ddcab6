package walletstore

import (
	"context"
	"errors"

	"github.com/shadowpurse/wallet-core/pkg/types"
)

// Sentinel errors for Store implementations. Both InMemoryStore and
// PostgresStore return ErrNotFound for missing key material or a missing
// UTXO; neither returns ErrDuplicate.
var (
	ErrNotFound  = errors.New("walletstore: not found")
	ErrDuplicate = errors.New("walletstore: duplicate entry")
)

// Store is the persistence contract the wallet core depends on. Both
// InMemoryStore and PostgresStore implement it, so callers (and tests) can
// swap the backing store without touching call sites.
type Store interface {
	PutAccount(ctx context.Context, account Account) error
	ListAccounts(ctx context.Context) ([]Account, error)

	PutStealthKeyMaterial(ctx context.Context, material StealthKeyMaterial) error
	GetStealthKeyMaterial(ctx context.Context, accountIndex uint32) (StealthKeyMaterial, error)

	AppendTransaction(ctx context.Context, record TransactionRecord) error
	ListTransactions(ctx context.Context, accountIndex uint32, limit int) ([]TransactionRecord, error)

	PutUTXO(ctx context.Context, utxo StoredUTXO) error
	ListUnspentOutputs(ctx context.Context, accountIndex uint32) ([]StoredUTXO, error)
	MarkSpent(ctx context.Context, txHash types.Hash, index uint32) error
}
