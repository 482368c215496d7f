package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Skotchmaster/handi_point/internal/notify"
	"github.com/Skotchmaster/handi_point/internal/repo"
	"github.com/Skotchmaster/handi_point/internal/store"
)

var errDiskFull = errors.New("disk full")

type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
	// failSuffix makes Set fail for keys ending with it.
	failSuffix string
	sets       int
}

func newMemKV() *memKV { return &memKV{data: map[string][]byte{}} }

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return v, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.failSuffix != "" && strings.HasSuffix(key, m.failSuffix) {
		return errDiskFull
	}
	m.data[key] = value
	return nil
}

func (m *memKV) setCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type publishedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error

	hold    chan struct{}
	entered chan struct{}
}

// holdPublishes blocks every later publish until release is called or the
// test ends.
func (p *fakePublisher) holdPublishes(t *testing.T) (release func()) {
	p.hold = make(chan struct{})
	p.entered = make(chan struct{}, 8)
	release = sync.OnceFunc(func() { close(p.hold) })
	t.Cleanup(release)
	return release
}

// waitEntered waits for a publish to start blocking on hold.
func (p *fakePublisher) waitEntered(t *testing.T) {
	t.Helper()
	select {
	case <-p.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("no publish reached the broker")
	}
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	if p.hold != nil {
		p.entered <- struct{}{}
		<-p.hold
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	m, _ := event.(map[string]any)
	p.events = append(p.events, publishedEvent{Topic: topic, Key: key, Event: m})
	return p.err
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event["type"].(string))
	}
	return out
}

type fixture struct {
	kv       *memKV
	pub      *fakePublisher
	cart     *CartService
	checkout *CheckoutService
	rec      *notify.Recorder
	ctx      context.Context
}

func newFixture(t *testing.T, cfg CheckoutConfig) *fixture {
	t.Helper()
	kv := newMemKV()
	pub := &fakePublisher{}
	cart := NewCartService(&store.CartStore{KV: kv}, pub)
	checkout := NewCheckoutService(cart, &store.OrderLog{KV: kv}, pub, cfg)
	rec := &notify.Recorder{}
	t.Cleanup(checkout.Wait)
	return &fixture{
		kv:       kv,
		pub:      pub,
		cart:     cart,
		checkout: checkout,
		rec:      rec,
		ctx:      notify.IntoContext(context.Background(), rec),
	}
}

func (f *fixture) messages() []string {
	msgs := f.rec.Messages()
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Message)
	}
	return out
}
