package store

import (
	"sync"
)

type broadcaster struct {
	mu        sync.Mutex
	next      int
	listeners map[int]func()
}

func (b *broadcaster) subscribe(fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.listeners == nil {
		b.listeners = map[int]func(){}
	}

	id := b.next
	b.next++
	b.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.listeners, id)
		})
	}
}

// publish calls the listeners in subscription order outside of the lock,
// so that a listener may unsubscribe or read the store again.
func (b *broadcaster) publish() {
	b.mu.Lock()
	listeners := make([]func(), 0, len(b.listeners))
	for i := 0; i < b.next; i++ {
		if fn, ok := b.listeners[i]; ok {
			listeners = append(listeners, fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
