package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// ErrTokenConsumed is returned when an approval token has already been spent
var ErrTokenConsumed = errors.New("approval token already consumed")

// Store tracks consumed approval tokens so a link can grant Phase-2 entry at
// most once. Entries are keyed by a hash of the token, never the token
// itself, and may be evicted once the token's own validity window has passed.
type Store interface {
	// Consume atomically records the token as spent. Returns
	// ErrTokenConsumed when it was already recorded.
	Consume(ctx context.Context, token string, expiresAt time.Time) error

	// IsConsumed reports whether the token has been spent
	IsConsumed(ctx context.Context, token string) (bool, error)

	// Close releases the backing resources
	Close() error
}

// hashToken derives the storage key for a token
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
