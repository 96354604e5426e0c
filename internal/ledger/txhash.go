// Package ledger maintains the simulated on-chain ledger: tx-hash tokens,
// micropayment records, and the deferred recording pipeline behind them.
package ledger

import (
	"crypto/rand"
	"encoding/hex"
)

// txHashBytes yields a 64-character hex body, matching the display length
// of a Cardano transaction hash.
const txHashBytes = 32

// GenerateTxHash returns a random "0x"-prefixed 64-hex-digit token.
// It is cosmetic: a display artifact, not a cryptographic commitment.
func GenerateTxHash() string {
	buf := make([]byte, txHashBytes)
	// rand.Read on crypto/rand never fails on supported platforms.
	_, _ = rand.Read(buf)
	return "0x" + hex.EncodeToString(buf)
}

// TruncateTxHash shortens a hash for display: first 8 and last 6 characters.
func TruncateTxHash(hash string) string {
	if len(hash) <= 14 {
		return hash
	}
	return hash[:8] + "..." + hash[len(hash)-6:]
}
