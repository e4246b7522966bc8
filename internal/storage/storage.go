// Package storage provides the persistent key-value adapter backing
// session and cart state. Values are JSON documents; corrupt payloads are
// treated as a miss so the caller falls back to its zero value.
package storage

import (
	"context"
	"encoding/json"

	logx "github.com/nncoach/client-core/pkg/logger"
)

// KV is a persistent key-value store.
type KV interface {
	// Get returns the raw value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores the raw value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error
}

// ReadJSON loads the value at key into out. A missing key, a backend
// failure or a corrupt payload all report false and leave out untouched
// beyond whatever json.Unmarshal wrote; callers start from the zero value.
func ReadJSON(ctx context.Context, kv KV, key string, out any) bool {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		logx.Warn().Err(err).Str("key", key).Msg("storage read failed, using defaults")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		logx.Warn().Err(err).Str("key", key).Msg("discarding corrupt persisted value")
		return false
	}
	return true
}

// WriteJSON serialises v under key. Persistence is best-effort: the error
// is returned for logging but in-memory state is never rolled back on
// failure.
func WriteJSON(ctx context.Context, kv KV, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return kv.Set(ctx, key, raw)
}
