// Package store persists the cart, the order log and the newsletter
// subscribers as whole JSON values in a repo.KV.
package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Skotchmaster/handi_point/internal/logging"
	"github.com/Skotchmaster/handi_point/internal/repo"
)

const (
	CartKey        = "cart"
	OrdersKey      = "orders"
	SubscribersKey = "subscribers"
)

func sessionKey(sessionID, key string) string {
	return sessionID + ":" + key
}

// loadList decodes the JSON array stored at key. Missing or malformed data
// yields an empty list; only the log sees the failure.
func loadList[T any](ctx context.Context, kv repo.KV, key string) []T {
	l := logging.FromContext(ctx)

	raw, err := kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			l.Warn("storage_read_failed", "key", key, "error", err)
		}
		return nil
	}

	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		l.Warn("storage_malformed", "key", key, "error", err)
		return nil
	}
	return out
}

func saveList[T any](ctx context.Context, kv repo.KV, key string, list []T) error {
	if list == nil {
		list = []T{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return kv.Set(ctx, key, data)
}
