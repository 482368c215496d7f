// Package notify is the bridge the cart and checkout code use to report
// outcomes to whatever renders them. Delivery is fire-and-forget.
package notify

import (
	"context"
	"sync"

	"github.com/Skotchmaster/handi_point/internal/logging"
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Warning Kind = "warning"
	Info    Kind = "info"
)

type Notifier interface {
	Notify(ctx context.Context, message string, kind Kind)
}

type Func func(ctx context.Context, message string, kind Kind)

func (f Func) Notify(ctx context.Context, message string, kind Kind) { f(ctx, message, kind) }

type Message struct {
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}

// Recorder collects messages, typically for the lifetime of one request.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
}

func (r *Recorder) Notify(_ context.Context, message string, kind Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, Message{Message: message, Kind: kind})
}

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.msgs))
	copy(out, r.msgs)
	return out
}

// Log writes every message to the context logger.
type Log struct{}

func (Log) Notify(ctx context.Context, message string, kind Kind) {
	logging.FromContext(ctx).Info("notification", "kind", string(kind), "message", message)
}

type ctxKey struct{}

func IntoContext(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, ctxKey{}, n)
}

func FromContext(ctx context.Context) Notifier {
	if n, ok := ctx.Value(ctxKey{}).(Notifier); ok {
		return n
	}
	return Log{}
}

// Send delivers to the notifier carried by ctx, falling back to Log.
func Send(ctx context.Context, message string, kind Kind) {
	FromContext(ctx).Notify(ctx, message, kind)
}
