package walletstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shadowpurse/wallet-core/internal/commitment"
	"github.com/shadowpurse/wallet-core/internal/curve"
	"github.com/shadowpurse/wallet-core/internal/stealth"
	"github.com/shadowpurse/wallet-core/pkg/types"
)

// Config holds Postgres connection parameters, mirroring the teacher's
// storage.Config shape.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int32
}

// DefaultConfig returns sane local-development defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:     "localhost",
		Port:     5432,
		User:     "wallet",
		Database: "wallet_core",
		SSLMode:  "disable",
		MaxConns: 20,
	}
}

// PostgresStore implements Store on top of a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore opens a pool, verifies connectivity, and ensures the
// schema exists.
func NewPostgresStore(ctx context.Context, cfg *Config) (*PostgresStore, error) {
	connString := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode, cfg.MaxConns,
	)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("walletstore: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("walletstore: ping: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			account_index INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			spend_public BYTEA NOT NULL,
			view_public BYTEA NOT NULL,
			created_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS stealth_key_material (
			account_index INTEGER PRIMARY KEY REFERENCES accounts(account_index),
			spend_private BYTEA NOT NULL,
			view_private BYTEA NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			tx_hash BYTEA NOT NULL,
			account_index INTEGER NOT NULL REFERENCES accounts(account_index),
			direction TEXT NOT NULL,
			timestamp BIGINT NOT NULL,
			raw BYTEA NOT NULL,
			PRIMARY KEY (tx_hash, account_index)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account_index)`,
		`CREATE TABLE IF NOT EXISTS utxos (
			tx_hash BYTEA NOT NULL,
			output_index INTEGER NOT NULL,
			account_index INTEGER NOT NULL REFERENCES accounts(account_index),
			value BIGINT NOT NULL,
			blinding BYTEA NOT NULL,
			commitment BYTEA NOT NULL,
			address BYTEA NOT NULL,
			spent BOOLEAN NOT NULL DEFAULT FALSE,
			PRIMARY KEY (tx_hash, output_index)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_utxos_account ON utxos(account_index)`,
	}
	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("walletstore: schema init: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) PutAccount(ctx context.Context, account Account) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO accounts (account_index, name, spend_public, view_public, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_index) DO UPDATE SET name = EXCLUDED.name`,
		account.Index, account.Name,
		account.Address.SpendPublic.Bytes(), account.Address.ViewPublic.Bytes(),
		account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("walletstore: put account: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT account_index, name, spend_public, view_public, created_at
		FROM accounts ORDER BY account_index`)
	if err != nil {
		return nil, fmt.Errorf("walletstore: list accounts: %w", err)
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		var (
			a                      Account
			spendBytes, viewBytes  []byte
		)
		if err := rows.Scan(&a.Index, &a.Name, &spendBytes, &viewBytes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("walletstore: scan account: %w", err)
		}
		spend, err := curve.PointFromBytes(spendBytes)
		if err != nil {
			return nil, fmt.Errorf("walletstore: decode spend public: %w", err)
		}
		view, err := curve.PointFromBytes(viewBytes)
		if err != nil {
			return nil, fmt.Errorf("walletstore: decode view public: %w", err)
		}
		a.Address = stealth.Address{SpendPublic: spend, ViewPublic: view}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) PutStealthKeyMaterial(ctx context.Context, material StealthKeyMaterial) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO stealth_key_material (account_index, spend_private, view_private)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_index) DO UPDATE SET
			spend_private = EXCLUDED.spend_private,
			view_private = EXCLUDED.view_private`,
		material.AccountIndex, material.SpendPrivate[:], material.ViewPrivate[:],
	)
	if err != nil {
		return fmt.Errorf("walletstore: put key material: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetStealthKeyMaterial(ctx context.Context, accountIndex uint32) (StealthKeyMaterial, error) {
	var spendBytes, viewBytes []byte
	err := s.pool.QueryRow(ctx, `
		SELECT spend_private, view_private FROM stealth_key_material WHERE account_index = $1`,
		accountIndex,
	).Scan(&spendBytes, &viewBytes)
	if err == pgx.ErrNoRows {
		return StealthKeyMaterial{}, ErrNotFound
	}
	if err != nil {
		return StealthKeyMaterial{}, fmt.Errorf("walletstore: get key material: %w", err)
	}

	var m StealthKeyMaterial
	m.AccountIndex = accountIndex
	copy(m.SpendPrivate[:], spendBytes)
	copy(m.ViewPrivate[:], viewBytes)
	return m, nil
}

func (s *PostgresStore) AppendTransaction(ctx context.Context, record TransactionRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO transactions (tx_hash, account_index, direction, timestamp, raw)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tx_hash, account_index) DO NOTHING`,
		record.TxHash[:], record.AccountIndex, string(record.Direction), record.Timestamp, record.Raw,
	)
	if err != nil {
		return fmt.Errorf("walletstore: append transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListTransactions(ctx context.Context, accountIndex uint32, limit int) ([]TransactionRecord, error) {
	if limit <= 0 {
		limit = 1 << 30
	}
	rows, err := s.pool.Query(ctx, `
		SELECT tx_hash, account_index, direction, timestamp, raw
		FROM transactions WHERE account_index = $1
		ORDER BY timestamp DESC LIMIT $2`,
		accountIndex, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("walletstore: list transactions: %w", err)
	}
	defer rows.Close()

	var out []TransactionRecord
	for rows.Next() {
		var (
			r         TransactionRecord
			txHash    []byte
			direction string
		)
		if err := rows.Scan(&txHash, &r.AccountIndex, &direction, &r.Timestamp, &r.Raw); err != nil {
			return nil, fmt.Errorf("walletstore: scan transaction: %w", err)
		}
		copy(r.TxHash[:], txHash)
		r.Direction = Direction(direction)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) PutUTXO(ctx context.Context, utxo StoredUTXO) error {
	blinding := utxo.UTXO.Blinding.Bytes()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO utxos (tx_hash, output_index, account_index, value, blinding, commitment, address, spent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (tx_hash, output_index) DO UPDATE SET spent = EXCLUDED.spent`,
		utxo.UTXO.TxHash[:], utxo.UTXO.Index, utxo.AccountIndex, utxo.UTXO.Value,
		blinding[:], utxo.UTXO.Commitment.Bytes(), utxo.UTXO.Address, utxo.Spent,
	)
	if err != nil {
		return fmt.Errorf("walletstore: put utxo: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListUnspentOutputs(ctx context.Context, accountIndex uint32) ([]StoredUTXO, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT tx_hash, output_index, account_index, value, blinding, commitment, address, spent
		FROM utxos WHERE account_index = $1 AND spent = FALSE
		ORDER BY output_index`,
		accountIndex,
	)
	if err != nil {
		return nil, fmt.Errorf("walletstore: list unspent: %w", err)
	}
	defer rows.Close()

	var out []StoredUTXO
	for rows.Next() {
		var (
			u                          StoredUTXO
			txHash                     []byte
			blindingBytes, commitBytes []byte
		)
		if err := rows.Scan(&txHash, &u.UTXO.Index, &u.AccountIndex, &u.UTXO.Value,
			&blindingBytes, &commitBytes, &u.UTXO.Address, &u.Spent); err != nil {
			return nil, fmt.Errorf("walletstore: scan utxo: %w", err)
		}
		copy(u.UTXO.TxHash[:], txHash)
		u.UTXO.Blinding = curve.ScalarFromBytes(blindingBytes)
		commit, err := commitment.FromBytes(commitBytes)
		if err != nil {
			return nil, fmt.Errorf("walletstore: decode commitment: %w", err)
		}
		u.UTXO.Commitment = commit
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *PostgresStore) MarkSpent(ctx context.Context, txHash types.Hash, index uint32) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE utxos SET spent = TRUE WHERE tx_hash = $1 AND output_index = $2`,
		txHash[:], index,
	)
	if err != nil {
		return fmt.Errorf("walletstore: mark spent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
