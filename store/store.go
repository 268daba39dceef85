package store

import "context"

// ═══════════════════════════════════════════════════════════════════════════════
// STATE STORE - Durable replica of each trader's state
// ═══════════════════════════════════════════════════════════════════════════════

// KeyPrefix is the key convention for trader state; each trader writes
// only its own key
const KeyPrefix = "omega:bot:"

// StateStore persists structured documents and publishes updates.
// Single-key writes are atomic; nothing more is required.
type StateStore interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Publish(ctx context.Context, channel string, message []byte) error
	Close() error
}

// TraderKey builds the state key for a trader name
func TraderKey(name string) string {
	return KeyPrefix + name
}
