package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// HandlerFunc handles one event.
type HandlerFunc func(ctx context.Context, event Event) error

// Bus is an asynchronous publish/subscribe event dispatcher. Handlers run on
// their own goroutines; a panicking handler is logged and does not affect
// the others.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]subscription
	stopped  bool
	wg       sync.WaitGroup
}

type subscription struct {
	name    string
	handler HandlerFunc
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]subscription),
	}
}

// Subscribe registers handler for eventType under name. The name identifies
// the handler in logs and in Unsubscribe.
func (b *Bus) Subscribe(eventType EventType, name string, handler HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], subscription{name: name, handler: handler})

	log.Debug().
		Str("event", string(eventType)).
		Str("handler", name).
		Msg("subscribed to event")
}

// Unsubscribe removes every handler registered as name for eventType.
func (b *Bus) Unsubscribe(eventType EventType, name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	kept := subs[:0]
	for _, s := range subs {
		if s.name != name {
			kept = append(kept, s)
		}
	}
	b.handlers[eventType] = kept
}

// snapshot copies the handlers for eventType, or returns nil once stopped.
func (b *Bus) snapshot(eventType EventType) []subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.stopped {
		return nil
	}
	return append([]subscription(nil), b.handlers[eventType]...)
}

func (b *Bus) run(ctx context.Context, s subscription, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("event", string(event.Type)).
				Str("handler", s.name).
				Interface("panic", r).
				Msg("event handler panicked")
		}
	}()

	err = s.handler(ctx, event)
	if err != nil {
		log.Error().
			Err(err).
			Str("event", string(event.Type)).
			Str("handler", s.name).
			Msg("event handler failed")
	}
	return err
}

// Emit dispatches event without waiting for the handlers.
func (b *Bus) Emit(ctx context.Context, event Event) {
	subs := b.snapshot(event.Type)
	if len(subs) == 0 {
		return
	}

	log.Trace().
		Str("event", string(event.Type)).
		Str("source", event.Source).
		Int("handlers", len(subs)).
		Msg("emitting event")

	b.wg.Add(len(subs))
	for _, s := range subs {
		go func() {
			defer b.wg.Done()
			b.run(ctx, s, event)
		}()
	}
}

// EmitSync dispatches event and waits for every handler. It returns the
// first handler error.
func (b *Bus) EmitSync(ctx context.Context, event Event) error {
	subs := b.snapshot(event.Type)

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	wg.Add(len(subs))
	for _, s := range subs {
		go func() {
			defer wg.Done()
			if err := b.run(ctx, s, event); err != nil {
				once.Do(func() { firstErr = err })
			}
		}()
	}
	wg.Wait()
	return firstErr
}

// Stop rejects further events and waits for in-flight handlers.
func (b *Bus) Stop() {
	b.mu.Lock()
	b.stopped = true
	b.mu.Unlock()

	b.wg.Wait()
	log.Info().Msg("event bus stopped")
}

// HandlerCount returns the number of handlers registered for eventType.
func (b *Bus) HandlerCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}
