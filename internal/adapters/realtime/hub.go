// Package realtime provides an in-process realtime scalar store with push
// subscriptions. It mirrors wallet balances for low-latency UI updates and
// stands in for the hosted realtime database the panel clients listen to.
package realtime

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	portsrepo "github.com/keypanel/key_panel_app/internal/core/ports/repositories"
)

// Hub holds one raw JSON cell per account and fans out every write to the
// cell's subscribers. Values are stored and delivered raw: a cell normally
// holds a plain number, but nothing in the hub enforces that, which is
// exactly why subscribers must classify what they receive.
type Hub struct {
	mu     sync.Mutex
	cells  map[string]json.RawMessage
	subs   map[string]map[int]func(raw json.RawMessage)
	nextID int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		cells: make(map[string]json.RawMessage),
		subs:  make(map[string]map[int]func(raw json.RawMessage)),
	}
}

var _ portsrepo.LiveBalanceCache = (*Hub)(nil)

// SetScalar unconditionally overwrites the account's cell with a plain
// numeric value and notifies subscribers.
func (h *Hub) SetScalar(_ context.Context, accountID string, value int64) error {
	h.publish(accountID, json.RawMessage(strconv.FormatInt(value, 10)))
	return nil
}

// SetRaw overwrites the account's cell with an arbitrary raw JSON value and
// notifies subscribers. This is the seam external writers come through; it is
// how malformed values enter the cache.
func (h *Hub) SetRaw(accountID string, raw json.RawMessage) {
	h.publish(accountID, raw)
}

// Get returns the current raw cell value, nil if the cell was never written.
func (h *Hub) Get(accountID string) json.RawMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cells[accountID]
}

// Subscribe registers fn for the account's cell. It fires once immediately
// with the current value, then on every subsequent write. Callbacks may write
// back into the hub; notification happens outside the lock.
func (h *Hub) Subscribe(accountID string, fn func(raw json.RawMessage)) (cancel func()) {
	h.mu.Lock()
	if h.subs[accountID] == nil {
		h.subs[accountID] = make(map[int]func(raw json.RawMessage))
	}
	id := h.nextID
	h.nextID++
	h.subs[accountID][id] = fn
	current := h.cells[accountID]
	h.mu.Unlock()

	fn(current)

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[accountID], id)
	}
}

func (h *Hub) publish(accountID string, raw json.RawMessage) {
	h.mu.Lock()
	h.cells[accountID] = raw
	listeners := make([]func(raw json.RawMessage), 0, len(h.subs[accountID]))
	for _, fn := range h.subs[accountID] {
		listeners = append(listeners, fn)
	}
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(raw)
	}
}
