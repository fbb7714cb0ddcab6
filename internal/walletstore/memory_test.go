package walletstore

import (
	"context"
	"testing"

	"github.com/shadowpurse/wallet-core/internal/commitment"
	"github.com/shadowpurse/wallet-core/internal/curve"
	"github.com/shadowpurse/wallet-core/internal/stealth"
	"github.com/shadowpurse/wallet-core/internal/txbuilder"
)

func newTestAccount(t *testing.T, index uint32) (Account, StealthKeyMaterial) {
	t.Helper()
	key, err := stealth.GenerateMasterKey()
	if err != nil {
		t.Fatalf("GenerateMasterKey: %v", err)
	}
	account := Account{Index: index, Name: "test", Address: key.Address(), CreatedAt: 1000}
	material := StealthKeyMaterial{
		AccountIndex: index,
		SpendPrivate: key.ExportSpendPrivate(),
		ViewPrivate:  key.ExportViewPrivate(),
	}
	return account, material
}

func TestInMemoryAccountRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	account, material := newTestAccount(t, 0)
	if err := store.PutAccount(ctx, account); err != nil {
		t.Fatalf("PutAccount: %v", err)
	}
	if err := store.PutStealthKeyMaterial(ctx, material); err != nil {
		t.Fatalf("PutStealthKeyMaterial: %v", err)
	}

	accounts, err := store.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("ListAccounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Index != 0 {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}

	got, err := store.GetStealthKeyMaterial(ctx, 0)
	if err != nil {
		t.Fatalf("GetStealthKeyMaterial: %v", err)
	}
	if got.SpendPrivate != material.SpendPrivate || got.ViewPrivate != material.ViewPrivate {
		t.Fatal("round-tripped key material does not match")
	}
}

func TestInMemoryGetMissingKeyMaterial(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	if _, err := store.GetStealthKeyMaterial(ctx, 42); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInMemoryTransactionHistoryOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	for i, ts := range []int64{100, 300, 200} {
		record := TransactionRecord{
			TxHash:       [32]byte{byte(i)},
			AccountIndex: 0,
			Direction:    DirectionReceive,
			Timestamp:    ts,
			Raw:          []byte("raw"),
		}
		if err := store.AppendTransaction(ctx, record); err != nil {
			t.Fatalf("AppendTransaction: %v", err)
		}
	}

	records, err := store.ListTransactions(ctx, 0, 0)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Timestamp != 300 || records[1].Timestamp != 200 || records[2].Timestamp != 100 {
		t.Fatalf("expected descending timestamp order, got %v", []int64{records[0].Timestamp, records[1].Timestamp, records[2].Timestamp})
	}
}

func TestInMemoryTransactionHistoryLimit(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	for i := 0; i < 5; i++ {
		record := TransactionRecord{TxHash: [32]byte{byte(i)}, AccountIndex: 1, Timestamp: int64(i)}
		if err := store.AppendTransaction(ctx, record); err != nil {
			t.Fatalf("AppendTransaction: %v", err)
		}
	}
	records, err := store.ListTransactions(ctx, 1, 2)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected limit to cap at 2, got %d", len(records))
	}
}

func randBlinding(t *testing.T) curve.Scalar {
	t.Helper()
	s, err := curve.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	return s
}

func TestInMemoryUTXOLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	blinding := randBlinding(t)
	utxo := StoredUTXO{
		AccountIndex: 0,
		UTXO: txbuilder.UTXO{
			TxHash:     [32]byte{1},
			Index:      0,
			Value:      100,
			Blinding:   blinding,
			Commitment: commitment.Commit(100, blinding),
			Address:    []byte("addr"),
		},
	}
	if err := store.PutUTXO(ctx, utxo); err != nil {
		t.Fatalf("PutUTXO: %v", err)
	}

	unspent, err := store.ListUnspentOutputs(ctx, 0)
	if err != nil {
		t.Fatalf("ListUnspentOutputs: %v", err)
	}
	if len(unspent) != 1 {
		t.Fatalf("expected 1 unspent output, got %d", len(unspent))
	}

	if err := store.MarkSpent(ctx, utxo.UTXO.TxHash, utxo.UTXO.Index); err != nil {
		t.Fatalf("MarkSpent: %v", err)
	}

	unspent, err = store.ListUnspentOutputs(ctx, 0)
	if err != nil {
		t.Fatalf("ListUnspentOutputs: %v", err)
	}
	if len(unspent) != 0 {
		t.Fatalf("expected spent output to disappear from unspent list, got %d", len(unspent))
	}
}

func TestInMemoryMarkSpentMissingReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	if err := store.MarkSpent(ctx, [32]byte{9}, 0); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

var _ Store = (*InMemoryStore)(nil)
var _ Store = (*PostgresStore)(nil)
