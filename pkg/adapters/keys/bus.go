// Package keys provides an in-process keyboard event bus.
//
// Hosts translate their native key events (terminal key messages, HTTP
// requests) into domain.Key values and Dispatch them; mounted controllers
// listen on the bus for as long as they are mounted.
package keys

import (
	"sync"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
)

type entry struct {
	id uint64
	fn ports.KeyListener
}

// Bus implements ports.KeySource.
type Bus struct {
	mu        sync.RWMutex
	listeners []entry
	nextID    uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Listen implements ports.KeySource.
func (b *Bus) Listen(fn ports.KeyListener) ports.UnsubscribeFunc {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.listeners = append(b.listeners, entry{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, e := range b.listeners {
				if e.id == id {
					b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Dispatch delivers key to every listener installed at the time of the call.
func (b *Bus) Dispatch(key domain.Key) {
	b.mu.RLock()
	listeners := make([]entry, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.RUnlock()

	for _, e := range listeners {
		e.fn(key)
	}
}

// Len returns the number of installed listeners.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}
