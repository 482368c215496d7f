package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/Skotchmaster/handi_point/internal/repo"
)

// Subscribers is one global set. Add serializes its read-modify-write so
// concurrent signups cannot overwrite each other.
type Subscribers struct {
	KV repo.KV

	mu sync.Mutex
}

// Add stores email unless it is already present. The returned bool reports
// whether the set changed.
func (s *Subscribers) Add(ctx context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := loadList[string](ctx, s.KV, SubscribersKey)
	if slices.Contains(list, email) {
		return false, nil
	}

	list = append(list, email)
	if err := saveList(ctx, s.KV, SubscribersKey, list); err != nil {
		return false, fmt.Errorf("save subscribers: %w", err)
	}
	return true, nil
}

func (s *Subscribers) Contains(ctx context.Context, email string) bool {
	return slices.Contains(loadList[string](ctx, s.KV, SubscribersKey), email)
}
