package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Skotchmaster/handi_point/internal/logging"
	"github.com/Skotchmaster/handi_point/internal/models"
	"github.com/Skotchmaster/handi_point/internal/mykafka"
	"github.com/Skotchmaster/handi_point/internal/notify"
	"github.com/Skotchmaster/handi_point/internal/store"
)

var tracer = otel.Tracer("github.com/Skotchmaster/handi_point/internal/service")

type State string

const (
	StateIdle       State = "idle"
	StateFormOpen   State = "form_open"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
)

type Confirmation struct {
	OrderID           string `json:"orderId"`
	CustomerName      string `json:"customerName"`
	CustomerPhone     string `json:"customerPhone"`
	Total             int    `json:"total"`
	EstimatedDelivery string `json:"estimatedDelivery"`
}

// SubmitResult is delivered exactly once on the channel returned by Submit.
type SubmitResult struct {
	Order        *models.OrderRecord
	Confirmation *Confirmation
	Err          error
}

type SummaryLine struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	LineTotal int    `json:"line_total"`
}

type Summary struct {
	State State         `json:"state"`
	Items []SummaryLine `json:"items"`
	Total int           `json:"total"`
}

type CheckoutConfig struct {
	Delay            time.Duration
	OrderIDPrefix    string
	DeliveryEstimate string
}

// CheckoutService drives the per-session checkout workflow:
// idle -> form_open -> validating -> submitting -> completed -> idle.
type CheckoutService struct {
	cart      *CartService
	orders    *store.OrderLog
	publisher Publisher
	cfg       CheckoutConfig

	// Now is the clock used for order ids and timestamps.
	Now func() time.Time

	mu     sync.Mutex
	states map[string]State
	wg     sync.WaitGroup
}

func NewCheckoutService(cart *CartService, orders *store.OrderLog, p Publisher, cfg CheckoutConfig) *CheckoutService {
	if cfg.OrderIDPrefix == "" {
		cfg.OrderIDPrefix = "HP"
	}
	if cfg.DeliveryEstimate == "" {
		cfg.DeliveryEstimate = "30-45 minutes"
	}
	s := &CheckoutService{
		cart:      cart,
		orders:    orders,
		publisher: p,
		cfg:       cfg,
		Now:       time.Now,
		states:    make(map[string]State),
	}
	cart.busy = s.isSubmitting
	return s
}

func (s *CheckoutService) State(sessionID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(sessionID)
}

func (s *CheckoutService) stateLocked(sessionID string) State {
	if st, ok := s.states[sessionID]; ok {
		return st
	}
	return StateIdle
}

func (s *CheckoutService) setState(sessionID string, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st == StateIdle {
		delete(s.states, sessionID)
		return
	}
	s.states[sessionID] = st
}

func (s *CheckoutService) isSubmitting(sessionID string) bool {
	return s.State(sessionID) == StateSubmitting
}

// Proceed opens the checkout form. An empty cart leaves the state unchanged.
func (s *CheckoutService) Proceed(ctx context.Context, sessionID string) error {
	unlock := s.cart.locks.lock(sessionID)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stateLocked(sessionID) == StateSubmitting {
		return ErrSubmissionInProgress
	}
	if len(s.cart.Store.Load(ctx, sessionID)) == 0 {
		notify.Send(ctx, "Your cart is empty!", notify.Error)
		return ErrEmptyCart
	}
	s.states[sessionID] = StateFormOpen
	return nil
}

// Cancel closes the form without touching the cart.
func (s *CheckoutService) Cancel(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.stateLocked(sessionID) {
	case StateSubmitting:
		return ErrSubmissionInProgress
	case StateFormOpen:
		delete(s.states, sessionID)
	}
	return nil
}

func (s *CheckoutService) Summary(ctx context.Context, sessionID string) Summary {
	cart := s.cart.Store.Load(ctx, sessionID)
	lines := make([]SummaryLine, 0, len(cart))
	for _, it := range cart {
		lines = append(lines, SummaryLine{
			ID:        it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			LineTotal: it.Price * it.Quantity,
		})
	}
	return Summary{State: s.State(sessionID), Items: lines, Total: cart.Total()}
}

// Submit validates form and, when it passes, starts placing the order in the
// background. Field errors come back as *ValidationError with the form left
// open. The submission cannot be cancelled once started; the outcome is sent
// on the returned channel.
func (s *CheckoutService) Submit(ctx context.Context, sessionID string, form CheckoutForm) (<-chan SubmitResult, error) {
	l := logging.FromContext(ctx).With("component", "checkout", "session", sessionID)

	unlock := s.cart.locks.lock(sessionID)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.stateLocked(sessionID) {
	case StateSubmitting:
		return nil, ErrSubmissionInProgress
	case StateFormOpen:
	default:
		return nil, ErrCheckoutNotOpen
	}

	s.states[sessionID] = StateValidating
	if err := form.Validate(); err != nil {
		s.states[sessionID] = StateFormOpen
		l.Info("checkout_validation_failed", "error", err)
		return nil, err
	}

	cart := s.cart.Store.Load(ctx, sessionID)
	if len(cart) == 0 {
		delete(s.states, sessionID)
		notify.Send(ctx, "Your cart is empty!", notify.Error)
		return nil, ErrEmptyCart
	}

	now := s.Now()
	f := form.trimmed()
	order := models.OrderRecord{
		OrderID:             s.cfg.OrderIDPrefix + strconv.FormatInt(now.UnixMilli(), 10),
		CustomerName:        f.CustomerName,
		CustomerPhone:       f.CustomerPhone,
		CustomerAddress:     f.CustomerAddress,
		SpecialInstructions: f.SpecialInstructions,
		Items:               cart.Clone(),
		Total:               cart.Total(),
		OrderTime:           now.UTC(),
	}
	s.states[sessionID] = StateSubmitting
	l.Info("checkout_submitting", "order_id", order.OrderID, "total", order.Total)

	done := make(chan SubmitResult, 1)
	s.wg.Add(1)
	go s.place(context.WithoutCancel(ctx), sessionID, order, done)
	return done, nil
}

func (s *CheckoutService) place(ctx context.Context, sessionID string, order models.OrderRecord, done chan<- SubmitResult) {
	defer s.wg.Done()
	defer close(done)

	l := logging.FromContext(ctx).With("component", "checkout", "session", sessionID, "order_id", order.OrderID)
	ctx, span := tracer.Start(ctx, "checkout.place_order", trace.WithAttributes(
		attribute.String("order.id", order.OrderID),
		attribute.Int("order.total", order.Total),
		attribute.Int("order.lines", len(order.Items)),
	))
	defer span.End()

	if s.cfg.Delay > 0 {
		t := time.NewTimer(s.cfg.Delay)
		<-t.C
	}

	cleared, err := s.record(ctx, sessionID, order)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "append order")
		l.Error("order_append_failed", "error", err)
		notify.Send(ctx, "We could not place your order. Please try again.", notify.Error)
		done <- SubmitResult{Err: fmt.Errorf("place order: %w", err)}
		return
	}

	// Events go out once the session lock is released.
	s.cart.publish(ctx, sessionID, cleared)
	s.publishOrder(ctx, sessionID, order)

	l.Info("order_placed", "total", order.Total)
	done <- SubmitResult{Order: &order, Confirmation: &Confirmation{
		OrderID:           order.OrderID,
		CustomerName:      order.CustomerName,
		CustomerPhone:     order.CustomerPhone,
		Total:             order.Total,
		EstimatedDelivery: s.cfg.DeliveryEstimate,
	}}
}

// record stores the order and empties the cart under the session lock. It
// returns the cart_cleared event, or nil when clearing failed. A failed append
// reopens the form.
func (s *CheckoutService) record(ctx context.Context, sessionID string, order models.OrderRecord) (map[string]any, error) {
	unlock := s.cart.locks.lock(sessionID)
	defer unlock()

	if err := s.orders.Append(ctx, sessionID, order); err != nil {
		s.setState(sessionID, StateFormOpen)
		return nil, err
	}
	s.setState(sessionID, StateCompleted)

	cleared, err := s.cart.clear(ctx, sessionID)
	if err != nil {
		logging.FromContext(ctx).Error("cart_clear_failed", "session", sessionID, "order_id", order.OrderID, "error", err)
	}
	s.setState(sessionID, StateIdle)
	return cleared, nil
}

func (s *CheckoutService) publishOrder(ctx context.Context, sessionID string, order models.OrderRecord) {
	if s.publisher == nil {
		return
	}
	event := map[string]any{
		"type":     "order_placed",
		"session":  sessionID,
		"order_id": order.OrderID,
		"total":    order.Total,
		"items":    order.Items.ItemCount(),
	}
	if err := s.publisher.PublishEvent(ctx, mykafka.OrderTopic, order.OrderID, event); err != nil {
		logging.FromContext(ctx).Error("order_event_publish_error", "order_id", order.OrderID, "error", err)
	}
}

func (s *CheckoutService) Orders(ctx context.Context, sessionID string) []models.OrderRecord {
	return s.orders.List(ctx, sessionID)
}

// Wait blocks until every in-flight submission has finished.
func (s *CheckoutService) Wait() {
	s.wg.Wait()
}
