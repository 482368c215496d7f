package repo

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// KV is a durable key-value store holding whole serialized values.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
