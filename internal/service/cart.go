package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/Skotchmaster/handi_point/internal/logging"
	"github.com/Skotchmaster/handi_point/internal/models"
	"github.com/Skotchmaster/handi_point/internal/mykafka"
	"github.com/Skotchmaster/handi_point/internal/notify"
	"github.com/Skotchmaster/handi_point/internal/store"
)

// Publisher is satisfied by *mykafka.Producer.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

const lockStripes = 64

// sessionLocks hashes session ids onto a fixed set of mutexes. Sessions that
// share a stripe serialize with each other.
type sessionLocks struct {
	stripes [lockStripes]sync.Mutex
}

func stripeFor(sessionID string) int {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return int(h.Sum32() % lockStripes)
}

func (l *sessionLocks) lock(sessionID string) func() {
	mu := &l.stripes[stripeFor(sessionID)]
	mu.Lock()
	return mu.Unlock
}

type CartService struct {
	Store     *store.CartStore
	Publisher Publisher

	locks sessionLocks
	// busy is installed by CheckoutService and reports an in-flight submission.
	busy func(sessionID string) bool
}

func NewCartService(s *store.CartStore, p Publisher) *CartService {
	return &CartService{Store: s, Publisher: p}
}

func (s *CartService) GetCart(ctx context.Context, sessionID string) models.Cart {
	return s.Store.Load(ctx, sessionID)
}

func (s *CartService) Total(ctx context.Context, sessionID string) int {
	return s.Store.Load(ctx, sessionID).Total()
}

func (s *CartService) ItemCount(ctx context.Context, sessionID string) int {
	return s.Store.Load(ctx, sessionID).ItemCount()
}

// AddToCart merges item into an existing line with the same ID or appends it.
// A quantity below one counts as one.
func (s *CartService) AddToCart(ctx context.Context, sessionID string, item models.CartItem) (models.Cart, error) {
	if item.ID <= 0 {
		return nil, fmt.Errorf("item id must be positive: %w", ErrValidation)
	}
	if item.Price < 0 {
		return nil, fmt.Errorf("price must be >= 0: %w", ErrValidation)
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	return s.mutate(ctx, sessionID, func() (models.Cart, map[string]any, error) {
		cart := s.Store.Load(ctx, sessionID)
		merged := false
		if i := cart.Index(item.ID); i >= 0 {
			cart[i].Quantity += item.Quantity
			merged = true
		} else {
			cart = append(cart, item)
		}

		if err := s.Store.Save(ctx, sessionID, cart); err != nil {
			return nil, nil, err
		}

		if merged {
			notify.Send(ctx, item.Name+" quantity updated in cart!", notify.Success)
		} else {
			notify.Send(ctx, item.Name+" added to cart!", notify.Success)
		}
		return cart, map[string]any{
			"type":     "item_added",
			"session":  sessionID,
			"id":       item.ID,
			"quantity": cart[cart.Index(item.ID)].Quantity,
		}, nil
	})
}

// RemoveFromCart drops the line with id. Removing an absent id changes nothing.
func (s *CartService) RemoveFromCart(ctx context.Context, sessionID string, id int) (models.Cart, error) {
	return s.mutate(ctx, sessionID, func() (models.Cart, map[string]any, error) {
		return s.remove(ctx, sessionID, id)
	})
}

func (s *CartService) remove(ctx context.Context, sessionID string, id int) (models.Cart, map[string]any, error) {
	cart := s.Store.Load(ctx, sessionID)
	kept := make(models.Cart, 0, len(cart))
	for _, it := range cart {
		if it.ID != id {
			kept = append(kept, it)
		}
	}

	if err := s.Store.Save(ctx, sessionID, kept); err != nil {
		return nil, nil, err
	}

	notify.Send(ctx, "Item removed from cart!", notify.Info)
	return kept, map[string]any{
		"type":    "item_removed",
		"session": sessionID,
		"id":      id,
	}, nil
}

// UpdateQuantity sets the quantity of an existing line; zero or less removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, id, quantity int) (models.Cart, error) {
	return s.mutate(ctx, sessionID, func() (models.Cart, map[string]any, error) {
		cart := s.Store.Load(ctx, sessionID)
		i := cart.Index(id)
		if i < 0 {
			return cart, nil, nil
		}
		if quantity <= 0 {
			return s.remove(ctx, sessionID, id)
		}

		cart[i].Quantity = quantity
		if err := s.Store.Save(ctx, sessionID, cart); err != nil {
			return nil, nil, err
		}
		return cart, map[string]any{
			"type":     "quantity_updated",
			"session":  sessionID,
			"id":       id,
			"quantity": quantity,
		}, nil
	})
}

func (s *CartService) ClearCart(ctx context.Context, sessionID string) (models.Cart, error) {
	return s.mutate(ctx, sessionID, func() (models.Cart, map[string]any, error) {
		event, err := s.clear(ctx, sessionID)
		if err != nil {
			return nil, nil, err
		}
		notify.Send(ctx, "Cart cleared!", notify.Info)
		return models.Cart{}, event, nil
	})
}

// clear empties the cart and returns the event to publish; the caller holds
// the session lock.
func (s *CartService) clear(ctx context.Context, sessionID string) (map[string]any, error) {
	if err := s.Store.Save(ctx, sessionID, models.Cart{}); err != nil {
		return nil, err
	}
	return map[string]any{
		"type":    "cart_cleared",
		"session": sessionID,
	}, nil
}

// mutate runs fn under the session lock and publishes the event it returns
// after the lock is released.
func (s *CartService) mutate(ctx context.Context, sessionID string, fn func() (models.Cart, map[string]any, error)) (models.Cart, error) {
	cart, event, err := func() (models.Cart, map[string]any, error) {
		unlock := s.locks.lock(sessionID)
		defer unlock()
		if s.submitting(sessionID) {
			return nil, nil, ErrSubmissionInProgress
		}
		return fn()
	}()
	if err != nil {
		return nil, err
	}
	s.publish(ctx, sessionID, event)
	return cart, nil
}

func (s *CartService) submitting(sessionID string) bool {
	return s.busy != nil && s.busy(sessionID)
}

func (s *CartService) publish(ctx context.Context, sessionID string, event map[string]any) {
	if s.Publisher == nil || event == nil {
		return
	}
	if err := s.Publisher.PublishEvent(ctx, mykafka.CartTopic, sessionID, event); err != nil {
		logging.FromContext(ctx).Error("cart_event_publish_error", "type", event["type"], "session", sessionID, "error", err)
	}
}
