// Package stealth implements the dual-key stealth address protocol: a
// recipient publishes a (spend, view) public key pair, and any sender can
// derive a fresh one-time destination key for that recipient via ECDH
// without any interaction. Only the recipient's view key is needed to
// recognize which outputs are theirs; only the spend key derives the
// private key needed to actually move the funds. Adapted line-for-line in
// algorithm (not in source language) from original_source's
// crypto/stealth.rs, the literal reference this package is grounded on.
package stealth

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/shadowpurse/wallet-core/internal/corerr"
	"github.com/shadowpurse/wallet-core/internal/curve"
	"github.com/shadowpurse/wallet-core/internal/secret"
)

// AddressSize is the encoded length of a stealth Address: two compressed
// points.
const AddressSize = curve.PointSize * 2

// OutputSize is the encoded length of an Output: two compressed points.
const OutputSize = curve.PointSize * 2

var (
	// ErrBadEncoding marks a malformed address or output encoding.
	ErrBadEncoding = errors.New("stealth: bad encoding")
)

const hashToScalarLabel = "wallet-core/stealth-shared-secret/v1:"

func hashSharedSecret(shared curve.Point) curve.Scalar {
	return curve.HashToScalar(append([]byte(hashToScalarLabel), shared.Bytes()...))
}

// MasterKey holds a recipient's spend and view keypairs. The private
// scalars are held behind scoped secret.Scalar handles.
type MasterKey struct {
	spend *secret.Scalar
	view  *secret.Scalar

	SpendPublic curve.Point
	ViewPublic  curve.Point
}

// GenerateMasterKey draws a fresh random spend/view keypair.
func GenerateMasterKey() (*MasterKey, error) {
	s, err := curve.RandomScalar()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", corerr.ErrCrypto, err)
	}
	v, err := curve.RandomScalar()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", corerr.ErrCrypto, err)
	}
	return newMasterKey(s, v), nil
}

// MasterKeyFromScalars restores a master key from previously exported
// private scalars (wallet restoration).
func MasterKeyFromScalars(spendPrivate, viewPrivate curve.Scalar) *MasterKey {
	return newMasterKey(spendPrivate, viewPrivate)
}

func newMasterKey(spendPrivate, viewPrivate curve.Scalar) *MasterKey {
	return &MasterKey{
		spend:       secret.NewScalar(spendPrivate),
		view:        secret.NewScalar(viewPrivate),
		SpendPublic: curve.G().ScalarMul(spendPrivate),
		ViewPublic:  curve.G().ScalarMul(viewPrivate),
	}
}

// Address returns the public stealth address to share with senders.
func (m *MasterKey) Address() Address {
	return Address{SpendPublic: m.SpendPublic, ViewPublic: m.ViewPublic}
}

// ExportSpendPrivate returns a copy of the spend scalar's bytes, for backup.
func (m *MasterKey) ExportSpendPrivate() [32]byte {
	return m.spend.Reveal().Bytes()
}

// ExportViewPrivate returns a copy of the view scalar's bytes. The view
// private key alone can be handed to an auditor to grant read-only scanning
// without spending capability.
func (m *MasterKey) ExportViewPrivate() [32]byte {
	return m.view.Reveal().Bytes()
}

// Zero erases both private scalars held by this key.
func (m *MasterKey) Zero() {
	m.spend.Zero()
	m.view.Zero()
}

// Scan tests whether a one-time output belongs to this master key. On a
// match it returns the private scalar that spends the output.
//
// Algorithm: shared secret sigma = view_private * ephemeral_public; hash
// scalar h = H(sigma); if h*G + spend_public == one_time_public, the output
// is ours and its private key is h + spend_private.
func (m *MasterKey) Scan(ephemeral, oneTime curve.Point) (curve.Scalar, bool) {
	shared := ephemeral.ScalarMul(m.view.Reveal())
	h := hashSharedSecret(shared)
	expected := curve.G().ScalarMul(h).Add(m.SpendPublic)
	if !expected.Equal(oneTime) {
		return curve.Scalar{}, false
	}
	return h.Add(m.spend.Reveal()), true
}

// Address is a recipient's public stealth address: safe to publish and
// share with any sender.
type Address struct {
	SpendPublic curve.Point
	ViewPublic  curve.Point
}

// Bytes encodes the address as two compressed points.
func (a Address) Bytes() []byte {
	b := make([]byte, 0, AddressSize)
	b = append(b, a.SpendPublic.Bytes()...)
	b = append(b, a.ViewPublic.Bytes()...)
	return b
}

// AddressFromBytes decodes an address previously produced by Bytes.
func AddressFromBytes(b []byte) (Address, error) {
	if len(b) != AddressSize {
		return Address{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrBadEncoding, AddressSize, len(b))
	}
	spend, err := curve.PointFromBytes(b[:curve.PointSize])
	if err != nil {
		return Address{}, fmt.Errorf("%w: spend key: %v", ErrBadEncoding, err)
	}
	view, err := curve.PointFromBytes(b[curve.PointSize:])
	if err != nil {
		return Address{}, fmt.Errorf("%w: view key: %v", ErrBadEncoding, err)
	}
	return Address{SpendPublic: spend, ViewPublic: view}, nil
}

// Base58 encodes the address for display or out-of-band sharing.
func (a Address) Base58() string {
	return base58.Encode(a.Bytes())
}

// AddressFromBase58 decodes an address previously produced by Base58.
func AddressFromBase58(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrBadEncoding, err)
	}
	return AddressFromBytes(b)
}

// GenerateOneTimeOutput produces a fresh one-time destination for this
// address, to be included as a transaction output. The ephemeral private
// scalar r lives only on the call stack and is discarded once the output is
// assembled; nothing in the returned Output lets anyone but the recipient
// recover it.
func (a Address) GenerateOneTimeOutput() (Output, error) {
	r, err := curve.RandomScalar()
	if err != nil {
		return Output{}, fmt.Errorf("%w: %v", corerr.ErrCrypto, err)
	}
	ephemeralPublic := curve.G().ScalarMul(r)
	shared := a.ViewPublic.ScalarMul(r)
	h := hashSharedSecret(shared)
	oneTime := curve.G().ScalarMul(h).Add(a.SpendPublic)
	return Output{Ephemeral: ephemeralPublic, OneTime: oneTime}, nil
}

// Output is a stealth transaction output: the ephemeral public key the
// sender generated plus the one-time destination key. Both fields are
// public; nothing here reveals which recipient the output belongs to
// without that recipient's view key.
type Output struct {
	Ephemeral curve.Point
	OneTime   curve.Point
}

// Bytes encodes the output as two compressed points.
func (o Output) Bytes() []byte {
	b := make([]byte, 0, OutputSize)
	b = append(b, o.Ephemeral.Bytes()...)
	b = append(b, o.OneTime.Bytes()...)
	return b
}

// OutputFromBytes decodes an output previously produced by Bytes.
func OutputFromBytes(b []byte) (Output, error) {
	if len(b) != OutputSize {
		return Output{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrBadEncoding, OutputSize, len(b))
	}
	ephemeral, err := curve.PointFromBytes(b[:curve.PointSize])
	if err != nil {
		return Output{}, fmt.Errorf("%w: ephemeral key: %v", ErrBadEncoding, err)
	}
	oneTime, err := curve.PointFromBytes(b[curve.PointSize:])
	if err != nil {
		return Output{}, fmt.Errorf("%w: one-time key: %v", ErrBadEncoding, err)
	}
	return Output{Ephemeral: ephemeral, OneTime: oneTime}, nil
}

// DestinationKey returns the one-time public key funds are sent to.
func (o Output) DestinationKey() curve.Point {
	return o.OneTime
}
