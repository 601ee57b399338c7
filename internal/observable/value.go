// Package observable provides a value holder that pushes updates to
// subscribers. It backs the book list, loading flag and upload state the
// presentation layer renders.
package observable

import "sync"

// Value holds the latest T and fans it out to subscribers.
//
// Each subscriber gets a channel with a buffer of one. A slow subscriber
// never blocks Set: an unread value is replaced by the newer one, so a
// reader always sees the most recent state.
type Value[T any] struct {
	mu   sync.RWMutex
	v    T
	subs map[int]chan T
	next int
	copy func(T) T
}

// NewValue returns a Value seeded with initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{v: initial, subs: make(map[int]chan T)}
}

// WithCopy makes every reader get its own copy of the stored value, for
// types such as slices that share backing memory.
func (o *Value[T]) WithCopy(fn func(T) T) *Value[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.copy = fn
	return o
}

// Get returns the current value.
func (o *Value[T]) Get() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.out(o.v)
}

func (o *Value[T]) out(v T) T {
	if o.copy == nil {
		return v
	}
	return o.copy(v)
}

// Set stores v and notifies every subscriber.
func (o *Value[T]) Set(v T) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.v = v
	for _, ch := range o.subs {
		deliver(ch, o.out(v))
	}
}

// Subscribe returns a channel that immediately yields the current value and
// then every later one. The returned func unsubscribes and closes the channel.
func (o *Value[T]) Subscribe() (<-chan T, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.next
	o.next++

	ch := make(chan T, 1)
	ch <- o.out(o.v)
	o.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			delete(o.subs, id)
			close(ch)
		})
	}
}

func deliver[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
