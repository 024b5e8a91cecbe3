package remote

import (
	"context"
	"sync"

	"github.com/budgetmaster/backend/internal/ledger"
)

type topic struct {
	identity   string
	collection Collection
}

// Hub fans snapshots out to the subscribers of an identity's collections.
//
// Each subscriber has a buffer of one. A subscriber that has not read the
// previous snapshot yet only receives the newest one.
type Hub struct {
	mu          sync.Mutex
	subscribers map[topic]map[chan ledger.Snapshot]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: map[topic]map[chan ledger.Snapshot]struct{}{},
	}
}

// Subscribe returns a channel receiving the snapshots published for the
// collection. The channel is closed when ctx is done.
func (h *Hub) Subscribe(ctx context.Context, identity string, collection Collection) (<-chan ledger.Snapshot, error) {
	if _, err := ParseCollection(string(collection)); err != nil {
		return nil, err
	}

	t := topic{identity, collection}
	ch := make(chan ledger.Snapshot, 1)

	h.mu.Lock()
	if h.subscribers[t] == nil {
		h.subscribers[t] = map[chan ledger.Snapshot]struct{}{}
	}
	h.subscribers[t][ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()

		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers[t], ch)
		if len(h.subscribers[t]) == 0 {
			delete(h.subscribers, t)
		}
		close(ch)
	}()

	return ch, nil
}

// Publish delivers s to every subscriber of the identity's collections.
func (h *Hub) Publish(identity string, collections []Collection, s ledger.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range collections {
		for ch := range h.subscribers[topic{identity, c}] {
			deliver(ch, s.Clone())
		}
	}
}

// Subscribers returns the number of open subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, chans := range h.subscribers {
		n += len(chans)
	}
	return n
}

// deliver sends s on ch. If the buffer is full, the queued snapshot is
// dropped in favour of the newer one.
func deliver(ch chan ledger.Snapshot, s ledger.Snapshot) {
	for {
		select {
		case ch <- s:
			return
		default:
		}

		select {
		case <-ch:
		default:
		}
	}
}
