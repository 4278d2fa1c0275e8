package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreConsumeOnce(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()
	expiry := time.Now().Add(time.Hour)

	consumed, err := s.IsConsumed(ctx, "tok-1")
	assert.NoError(t, err)
	assert.False(t, consumed)

	assert.NoError(t, s.Consume(ctx, "tok-1", expiry))
	assert.ErrorIs(t, s.Consume(ctx, "tok-1", expiry), ErrTokenConsumed)

	consumed, err = s.IsConsumed(ctx, "tok-1")
	assert.NoError(t, err)
	assert.True(t, consumed)

	// A different token is unaffected
	assert.NoError(t, s.Consume(ctx, "tok-2", expiry))
}

func TestMemoryStoreEvictsExpired(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	assert.NoError(t, s.Consume(ctx, "tok-1", time.Now().Add(-time.Second)))

	// Entry for a token past its validity window is dropped; the codec would
	// reject the token as expired anyway.
	consumed, err := s.IsConsumed(ctx, "tok-1")
	assert.NoError(t, err)
	assert.False(t, consumed)
}
