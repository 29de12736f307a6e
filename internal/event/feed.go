package event

import (
	"sync"
	"sync/atomic"
)

// Subscription is the handle returned by Feed.Subscribe. Unsubscribe is safe
// to call more than once.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe detaches the handler. Once it returns the handler is never
// called again, even by a Send that is already in progress.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

type subscriber[T any] struct {
	fn   func(T)
	live atomic.Bool
}

// Feed fans a value out to every registered handler, synchronously and in
// registration order. The zero value is ready to use.
type Feed[T any] struct {
	mu   sync.Mutex
	subs []*subscriber[T]
}

// Subscribe registers fn and returns the handle that removes it.
func (f *Feed[T]) Subscribe(fn func(T)) *Subscription {
	sub := &subscriber[T]{fn: fn}
	sub.live.Store(true)

	f.mu.Lock()
	f.subs = append(f.subs, sub)
	f.mu.Unlock()

	return &Subscription{cancel: func() { f.remove(sub) }}
}

// Send delivers v to the handlers registered when Send was called.
func (f *Feed[T]) Send(v T) {
	f.mu.Lock()
	subs := append([]*subscriber[T](nil), f.subs...)
	f.mu.Unlock()

	for _, sub := range subs {
		// a handler earlier in this pass may have detached this one
		if sub.live.Load() {
			sub.fn(v)
		}
	}
}

// Len returns the number of live handlers.
func (f *Feed[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *Feed[T]) remove(target *subscriber[T]) {
	target.live.Store(false)

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, sub := range f.subs {
		if sub == target {
			f.subs = append(f.subs[:i:i], f.subs[i+1:]...)
			return
		}
	}
}

// Group collects subscriptions that are released together.
type Group struct {
	subs []*Subscription
}

// Add records s in the group.
func (g *Group) Add(s ...*Subscription) {
	g.subs = append(g.subs, s...)
}

// Unsubscribe releases every subscription in the group and empties it.
func (g *Group) Unsubscribe() {
	for _, s := range g.subs {
		s.Unsubscribe()
	}
	g.subs = nil
}
