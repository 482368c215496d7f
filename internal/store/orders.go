package store

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/handi_point/internal/models"
	"github.com/Skotchmaster/handi_point/internal/repo"
)

// OrderLog is an append-only list of placed orders per session.
type OrderLog struct {
	KV repo.KV
}

func (l *OrderLog) Append(ctx context.Context, sessionID string, order models.OrderRecord) error {
	key := sessionKey(sessionID, OrdersKey)

	orders := loadList[models.OrderRecord](ctx, l.KV, key)
	orders = append(orders, order)

	if err := saveList(ctx, l.KV, key, orders); err != nil {
		return fmt.Errorf("append order %s: %w", order.OrderID, err)
	}
	return nil
}

func (l *OrderLog) List(ctx context.Context, sessionID string) []models.OrderRecord {
	return loadList[models.OrderRecord](ctx, l.KV, sessionKey(sessionID, OrdersKey))
}
