// Package session owns the authenticated session lifecycle: it is the single
// source of truth for "is the user signed in", delegating credential
// issuance to the identity provider and exposing the current session through
// an observable value holder.
package session

import (
	"sort"
	"sync"

	"github.com/wellnoosh/wellnoosh/internal/provider"
)

// Holder is an observable container for the current session value.
// Subscribers are notified in apply order; a new subscriber immediately
// receives the current value, so consumers never need a separate "initial
// state" path.
type Holder struct {
	applyMu sync.Mutex // serializes set+notify so delivery order matches apply order
	mu      sync.Mutex
	value   *provider.Session
	subs    map[int]func(*provider.Session)
	nextID  int
}

func NewHolder() *Holder {
	return &Holder{subs: make(map[int]func(*provider.Session))}
}

// Get returns the current session, nil when unauthenticated.
func (h *Holder) Get() *provider.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.value
}

// Set replaces the current value and notifies all subscribers synchronously.
func (h *Holder) Set(s *provider.Session) {
	h.applyMu.Lock()
	defer h.applyMu.Unlock()

	h.mu.Lock()
	h.value = s
	ids := make([]int, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	// Map iteration order is random; deliver in subscription order.
	sort.Ints(ids)
	fns := make([]func(*provider.Session), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.subs[id])
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// Subscribe registers fn, delivers the current value to it immediately, and
// returns an unsubscribe function.
func (h *Holder) Subscribe(fn func(*provider.Session)) func() {
	h.applyMu.Lock()
	defer h.applyMu.Unlock()

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	current := h.value
	h.mu.Unlock()

	fn(current)

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}
