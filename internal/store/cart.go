package store

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/handi_point/internal/models"
	"github.com/Skotchmaster/handi_point/internal/repo"
)

type CartStore struct {
	KV repo.KV
}

func (s *CartStore) Load(ctx context.Context, sessionID string) models.Cart {
	return models.Cart(loadList[models.CartItem](ctx, s.KV, sessionKey(sessionID, CartKey)))
}

// Save replaces the stored cart with cart.
func (s *CartStore) Save(ctx context.Context, sessionID string, cart models.Cart) error {
	if err := saveList(ctx, s.KV, sessionKey(sessionID, CartKey), []models.CartItem(cart)); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
