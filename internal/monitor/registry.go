package monitor

import (
	"fmt"
	"sync"

	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/logger"
)

// Subscriber receives one snapshot per tick. A returned error or a panic
// skips this subscriber for the current tick only.
type Subscriber func(Snapshot) error

// Handle identifies a subscription.
type Handle uint64

type subscription struct {
	handle Handle
	fn     Subscriber
}

// Registry holds subscribers in registration order.
type Registry struct {
	mu   sync.RWMutex
	subs []subscription
	next Handle
	log  logger.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log logger.Logger) *Registry {
	return &Registry{log: logger.OrNoop(log)}
}

// Subscribe registers fn and returns its handle. Handles are never reused.
func (r *Registry) Subscribe(fn Subscriber) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.subs = append(r.subs, subscription{handle: r.next, fn: fn})
	return r.next
}

// Unsubscribe removes a subscription, reporting whether it was registered.
func (r *Registry) Unsubscribe(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.subs {
		if s.handle == h {
			r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of subscribers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

// Deliver hands each subscriber its own copy of snap, in registration order.
// Failures are logged and counted; they never stop delivery to the rest.
func (r *Registry) Deliver(snap Snapshot) (failed int) {
	r.mu.RLock()
	subs := make([]subscription, len(r.subs))
	copy(subs, r.subs)
	r.mu.RUnlock()

	for _, s := range subs {
		if err := r.call(s, snap.Clone()); err != nil {
			failed++
			r.log.Warn("subscriber %d skipped for tick %d: %v", s.handle, snap.Sequence, err)
		}
	}
	return failed
}

func (r *Registry) call(s subscription, snap Snapshot) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.New(errors.ErrSubscriber, fmt.Sprintf("subscriber panicked: %v", rec), "")
		}
	}()
	if err := s.fn(snap); err != nil {
		return errors.WrapWithCode(err, errors.ErrSubscriber, "subscriber failed", "")
	}
	return nil
}
