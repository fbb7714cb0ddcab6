package walletstore

import (
	"context"
	"sort"
	"sync"

	"github.com/shadowpurse/wallet-core/pkg/types"
)

type utxoKey struct {
	txHash types.Hash
	index  uint32
}

// InMemoryStore is a map-backed Store for tests and single-process use. All
// methods are safe for concurrent use.
type InMemoryStore struct {
	mu sync.Mutex

	accounts     map[uint32]Account
	keyMaterial  map[uint32]StealthKeyMaterial
	transactions map[uint32][]TransactionRecord
	utxos        map[utxoKey]StoredUTXO
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		accounts:     make(map[uint32]Account),
		keyMaterial:  make(map[uint32]StealthKeyMaterial),
		transactions: make(map[uint32][]TransactionRecord),
		utxos:        make(map[utxoKey]StoredUTXO),
	}
}

func (s *InMemoryStore) PutAccount(_ context.Context, account Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.Index] = account
	return nil
}

func (s *InMemoryStore) ListAccounts(_ context.Context) ([]Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (s *InMemoryStore) PutStealthKeyMaterial(_ context.Context, material StealthKeyMaterial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyMaterial[material.AccountIndex] = material
	return nil
}

func (s *InMemoryStore) GetStealthKeyMaterial(_ context.Context, accountIndex uint32) (StealthKeyMaterial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.keyMaterial[accountIndex]
	if !ok {
		return StealthKeyMaterial{}, ErrNotFound
	}
	return m, nil
}

func (s *InMemoryStore) AppendTransaction(_ context.Context, record TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[record.AccountIndex] = append(s.transactions[record.AccountIndex], record)
	return nil
}

func (s *InMemoryStore) ListTransactions(_ context.Context, accountIndex uint32, limit int) ([]TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.transactions[accountIndex]

	out := make([]TransactionRecord, len(records))
	copy(out, records)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) PutUTXO(_ context.Context, utxo StoredUTXO) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := utxoKey{txHash: utxo.UTXO.TxHash, index: utxo.UTXO.Index}
	s.utxos[key] = utxo
	return nil
}

func (s *InMemoryStore) ListUnspentOutputs(_ context.Context, accountIndex uint32) ([]StoredUTXO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []StoredUTXO
	for _, u := range s.utxos {
		if u.AccountIndex == accountIndex && !u.Spent {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UTXO.Index < out[j].UTXO.Index })
	return out, nil
}

func (s *InMemoryStore) MarkSpent(_ context.Context, txHash types.Hash, index uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := utxoKey{txHash: txHash, index: index}
	u, ok := s.utxos[key]
	if !ok {
		return ErrNotFound
	}
	u.Spent = true
	s.utxos[key] = u
	return nil
}
