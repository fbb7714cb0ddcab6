// walletctl is the command-line interface to the wallet core: generating
// stealth identities, building and verifying private transactions, and
// scanning for incoming stealth outputs. Dispatch style (banner, switch on
// os.Args[1], per-subcommand flag.FlagSet) follows cmd/ccoind and
// cmd/ccoin-cli in this module's history.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shadowpurse/wallet-core/internal/commitment"
	"github.com/shadowpurse/wallet-core/internal/curve"
	"github.com/shadowpurse/wallet-core/internal/stealth"
	"github.com/shadowpurse/wallet-core/internal/txbuilder"
	"github.com/shadowpurse/wallet-core/internal/walletstore"
	"github.com/shadowpurse/wallet-core/pkg/common"
	"github.com/shadowpurse/wallet-core/pkg/types"
)

const (
	version = "0.1.0"
	banner  = `
 __      __       .__  .__          __    _________ __
/  \    /  \_____ |  | |  |   _____/  |_  \_   ___ \  |_________
\   \/\/   /\__  \|  | |  | _/ __ \   __\ /    \  \/  |  \_  __ \
 \        /  / __ \|  |_|  |_\  ___/|  |   \     \___|  |  |  | \/
  \__/\  /  (____  /____/____/\___  >__|    \______  /__|__|  |
       \/        \/               \/               \/
  walletctl v%s
`
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	fmt.Printf(banner, version)

	switch os.Args[1] {
	case "keygen":
		cmdKeygen(os.Args[2:])
	case "address":
		cmdAddress(os.Args[2:])
	case "send":
		cmdSend(os.Args[2:])
	case "scan":
		cmdScan(os.Args[2:])
	case "verify":
		cmdVerify(os.Args[2:])
	case "version":
		fmt.Printf("walletctl v%s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: walletctl <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  keygen   Generate a new stealth identity and store it")
	fmt.Println("  address  Print an account's stealth address")
	fmt.Println("  send     Build, verify, and print a private transaction")
	fmt.Println("  scan     Scan stealth outputs for ones an account owns")
	fmt.Println("  verify   Verify a serialized private transaction")
	fmt.Println("  version  Show version information")
	fmt.Println("  help     Show this help message")
}

// storeFlags are the connection flags shared by every subcommand that
// touches persistence.
type storeFlags struct {
	backend  string
	dbHost   string
	dbPort   int
	dbUser   string
	dbPass   string
	dbName   string
}

func bindStoreFlags(fs *flag.FlagSet) *storeFlags {
	sf := &storeFlags{}
	fs.StringVar(&sf.backend, "store", "memory", "storage backend: memory or postgres")
	fs.StringVar(&sf.dbHost, "db-host", "localhost", "PostgreSQL host")
	fs.IntVar(&sf.dbPort, "db-port", 5432, "PostgreSQL port")
	fs.StringVar(&sf.dbUser, "db-user", "wallet", "PostgreSQL user")
	fs.StringVar(&sf.dbPass, "db-password", "", "PostgreSQL password")
	fs.StringVar(&sf.dbName, "db-name", "wallet_core", "PostgreSQL database name")
	return sf
}

func (sf *storeFlags) open(ctx context.Context) (walletstore.Store, func(), error) {
	switch sf.backend {
	case "memory":
		return walletstore.NewInMemoryStore(), func() {}, nil
	case "postgres":
		cfg := &walletstore.Config{
			Host:     sf.dbHost,
			Port:     sf.dbPort,
			User:     sf.dbUser,
			Password: sf.dbPass,
			Database: sf.dbName,
			SSLMode:  "disable",
			MaxConns: 20,
		}
		store, err := walletstore.NewPostgresStore(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", sf.backend)
	}
}

func cmdKeygen(args []string) {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	sf := bindStoreFlags(fs)
	name := fs.String("name", "default", "account name")
	index := fs.Uint("account", 0, "account index")
	fs.Parse(args)

	ctx := context.Background()
	store, closeStore, err := sf.open(ctx)
	if err != nil {
		fatalf("open store: %v", err)
	}
	defer closeStore()

	key, err := stealth.GenerateMasterKey()
	if err != nil {
		fatalf("generate master key: %v", err)
	}

	account := walletstore.Account{
		Index:     uint32(*index),
		Name:      *name,
		Address:   key.Address(),
		CreatedAt: common.Now(),
	}
	if err := store.PutAccount(ctx, account); err != nil {
		fatalf("store account: %v", err)
	}
	material := walletstore.StealthKeyMaterial{
		AccountIndex: account.Index,
		SpendPrivate: key.ExportSpendPrivate(),
		ViewPrivate:  key.ExportViewPrivate(),
	}
	if err := store.PutStealthKeyMaterial(ctx, material); err != nil {
		fatalf("store key material: %v", err)
	}
	key.Zero()

	fmt.Printf("Account %d (%s) created.\n", account.Index, account.Name)
	fmt.Printf("Address: %s\n", account.Address.Base58())
}

func cmdAddress(args []string) {
	fs := flag.NewFlagSet("address", flag.ExitOnError)
	sf := bindStoreFlags(fs)
	index := fs.Uint("account", 0, "account index")
	fs.Parse(args)

	ctx := context.Background()
	store, closeStore, err := sf.open(ctx)
	if err != nil {
		fatalf("open store: %v", err)
	}
	defer closeStore()

	accounts, err := store.ListAccounts(ctx)
	if err != nil {
		fatalf("list accounts: %v", err)
	}
	for _, a := range accounts {
		if a.Index == uint32(*index) {
			fmt.Printf("Account %d (%s): %s\n", a.Index, a.Name, a.Address.Base58())
			return
		}
	}
	fatalf("account %d not found", *index)
}

// parseUTXOSpec parses "txhash_hex:output_index:value:blinding_hex".
func parseUTXOSpec(spec string) (txbuilder.UTXO, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 4 {
		return txbuilder.UTXO{}, fmt.Errorf("expected txhash:index:value:blinding, got %q", spec)
	}
	txHashBytes, err := hex.DecodeString(parts[0])
	if err != nil {
		return txbuilder.UTXO{}, fmt.Errorf("tx hash: %w", err)
	}
	txHash := types.HashFromBytes(txHashBytes)

	index, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return txbuilder.UTXO{}, fmt.Errorf("output index: %w", err)
	}
	value, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return txbuilder.UTXO{}, fmt.Errorf("value: %w", err)
	}
	blindingBytes, err := hex.DecodeString(parts[3])
	if err != nil {
		return txbuilder.UTXO{}, fmt.Errorf("blinding: %w", err)
	}
	blinding := curve.ScalarFromBytes(blindingBytes)

	return txbuilder.UTXO{
		TxHash:     txHash,
		Index:      uint32(index),
		Value:      value,
		Blinding:   blinding,
		Commitment: commitment.Commit(value, blinding),
	}, nil
}

type repeatedFlag []string

func (r *repeatedFlag) String() string { return strings.Join(*r, ",") }
func (r *repeatedFlag) Set(v string) error {
	*r = append(*r, v)
	return nil
}

func cmdSend(args []string) {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	sf := bindStoreFlags(fs)
	from := fs.Uint("from", 0, "sending account index")
	to := fs.String("to", "", "recipient base58 stealth address")
	amount := fs.Uint64("amount", 0, "amount to send")
	fee := fs.Uint64("fee", 0, "transaction fee")
	var utxoSpecs repeatedFlag
	fs.Var(&utxoSpecs, "utxo", "input UTXO as txhash:index:value:blinding_hex (repeatable)")
	fs.Parse(args)

	if *to == "" || len(utxoSpecs) == 0 {
		fatalf("--to and at least one --utxo are required")
	}

	ctx := context.Background()
	store, closeStore, err := sf.open(ctx)
	if err != nil {
		fatalf("open store: %v", err)
	}
	defer closeStore()

	accounts, err := store.ListAccounts(ctx)
	if err != nil {
		fatalf("list accounts: %v", err)
	}
	var senderAddress *stealth.Address
	for _, a := range accounts {
		if a.Index == uint32(*from) {
			addr := a.Address
			senderAddress = &addr
		}
	}
	if senderAddress == nil {
		fatalf("account %d not found", *from)
	}

	recipient, err := stealth.AddressFromBase58(*to)
	if err != nil {
		fatalf("parse recipient address: %v", err)
	}

	builder := txbuilder.NewBuilder()
	var inputSum uint64
	for _, spec := range utxoSpecs {
		utxo, err := parseUTXOSpec(spec)
		if err != nil {
			fatalf("parse utxo: %v", err)
		}
		builder.AddInput(utxo.TxHash, utxo.Index, utxo.Value, utxo.Blinding)
		inputSum += utxo.Value
	}
	if inputSum < *amount+*fee {
		fatalf("inputs (%d) do not cover amount + fee (%d)", inputSum, *amount+*fee)
	}

	destination, err := recipient.GenerateOneTimeOutput()
	if err != nil {
		fatalf("generate stealth output: %v", err)
	}
	change := inputSum - *amount - *fee
	if change == 0 {
		// With no change output, the payment output closes the blinding balance.
		builder.AddOutputWithBlinding(destination.Bytes(), *amount, builder.CalculateChangeBlinding())
	} else if _, err := builder.AddOutput(destination.Bytes(), *amount); err != nil {
		fatalf("add output: %v", err)
	}

	if change > 0 {
		changeOutput, err := senderAddress.GenerateOneTimeOutput()
		if err != nil {
			fatalf("generate change output: %v", err)
		}
		changeBlinding := builder.CalculateChangeBlinding()
		builder.AddOutputWithBlinding(changeOutput.Bytes(), change, changeBlinding)
	}
	builder.SetFee(*fee)

	tx, err := builder.Build()
	if err != nil {
		fatalf("build transaction: %v", err)
	}
	valid, err := tx.Verify()
	if err != nil {
		fatalf("verify transaction: %v", err)
	}
	if !valid {
		fatalf("built transaction failed its own verification")
	}

	encoded := tx.Serialize()
	fmt.Printf("Transaction built: %d inputs, %d outputs, fee=%d\n", len(tx.Inputs), len(tx.Outputs), tx.Fee)
	fmt.Println(hex.EncodeToString(encoded))
}

func cmdScan(args []string) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	sf := bindStoreFlags(fs)
	index := fs.Uint("account", 0, "account index")
	var outputSpecs repeatedFlag
	fs.Var(&outputSpecs, "output", "hex-encoded stealth output (repeatable)")
	fs.Parse(args)

	ctx := context.Background()
	store, closeStore, err := sf.open(ctx)
	if err != nil {
		fatalf("open store: %v", err)
	}
	defer closeStore()

	material, err := store.GetStealthKeyMaterial(ctx, uint32(*index))
	if err != nil {
		fatalf("load key material: %v", err)
	}
	spend, view := material.Scalars()
	key := stealth.MasterKeyFromScalars(spend, view)
	defer key.Zero()

	scanner := stealth.NewScanner(key)

	var outputs []stealth.Output
	for _, spec := range outputSpecs {
		raw, err := hex.DecodeString(spec)
		if err != nil {
			fatalf("decode output: %v", err)
		}
		out, err := stealth.OutputFromBytes(raw)
		if err != nil {
			fatalf("parse output: %v", err)
		}
		outputs = append(outputs, out)
	}

	matches := scanner.ScanBatch(outputs, 4)
	if len(matches) == 0 {
		fmt.Println("No matching outputs found.")
		return
	}
	for _, m := range matches {
		fmt.Printf("Output %d belongs to this account. Spending scalar: %x\n", m.Index, m.Spend.Bytes())
	}
}

func cmdVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	strict := fs.Bool("strict", false, "require every input to carry a non-empty signature")
	txHex := fs.String("tx", "", "hex-encoded serialized transaction")
	fs.Parse(args)

	if *txHex == "" {
		fatalf("--tx is required")
	}
	raw, err := hex.DecodeString(*txHex)
	if err != nil {
		fatalf("decode transaction: %v", err)
	}
	tx, err := txbuilder.Deserialize(raw)
	if err != nil {
		fatalf("deserialize transaction: %v", err)
	}

	var valid bool
	if *strict {
		valid, err = tx.VerifyStrict()
	} else {
		valid, err = tx.Verify()
	}
	if err != nil {
		fatalf("verify: %v", err)
	}
	if valid {
		fmt.Println("Transaction is valid.")
	} else {
		fmt.Println("Transaction is INVALID.")
		os.Exit(1)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
