// Package common provides small shared utilities used across the wallet
// core and its CLI: hex encoding for display, timestamps for wallet
// history, and byte-slice helpers.
package common

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

// Common errors shared across wallet-facing packages.
var (
	ErrInvalidHash    = errors.New("invalid hash")
	ErrInvalidAddress = errors.New("invalid address")
)

// HexToBytes converts a hex string to bytes, tolerating an optional 0x
// prefix.
func HexToBytes(s string) ([]byte, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	return hex.DecodeString(s)
}

// BytesToHex converts bytes to a hex string with a 0x prefix.
func BytesToHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// RandomBytes generates n cryptographically random bytes.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// Now returns the current Unix timestamp in seconds.
func Now() int64 {
	return time.Now().Unix()
}

// CopyBytes returns a copy of a byte slice.
func CopyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
