package memory

import (
	"sort"
	"sync"

	"github.com/aretw0/lectern/pkg/ports"
)

type subscription struct {
	id uint64
	fn ports.Listener
}

type notification struct {
	key   string
	value any
}

// Store implements ports.VariableStore in memory.
// Safe for concurrent use. Notifications are delivered in write order; a write
// made while a delivery is in progress is queued and delivered by the goroutine
// that started the delivery.
type Store struct {
	mu          sync.Mutex
	values      map[string]any
	subs        map[string][]subscription
	nextID      uint64
	queue       []notification
	dispatching bool
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		values: make(map[string]any),
		subs:   make(map[string][]subscription),
	}
}

// Read returns the value of key or def.
func (s *Store) Read(key string, def any) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	if !ok {
		return def
	}
	return v
}

// Lookup returns the value of key and whether it was ever written or seeded.
func (s *Store) Lookup(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	return v, ok
}

// Seed stores value without notifying listeners. Caching adapters use it to
// record a value fetched from elsewhere.
func (s *Store) Seed(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Write stores value and notifies the key's listeners.
func (s *Store) Write(key string, value any) {
	s.mu.Lock()
	s.values[key] = value
	s.queue = append(s.queue, notification{key: key, value: value})
	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true
	s.mu.Unlock()

	s.drain()
}

func (s *Store) drain() {
	done := false
	defer func() {
		if done {
			return
		}
		// A listener panicked; drop what is left so later writes can deliver.
		s.mu.Lock()
		s.queue = nil
		s.dispatching = false
		s.mu.Unlock()
	}()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.dispatching = false
			s.mu.Unlock()
			done = true
			return
		}
		n := s.queue[0]
		s.queue = s.queue[1:]
		listeners := make([]subscription, len(s.subs[n.key]))
		copy(listeners, s.subs[n.key])
		s.mu.Unlock()

		for _, l := range listeners {
			l.fn(n.key, n.value)
		}
	}
}

// Subscribe registers fn for writes to key.
func (s *Store) Subscribe(key string, fn ports.Listener) ports.UnsubscribeFunc {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs[key] = append(s.subs[key], subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			subs := s.subs[key]
			for i, sub := range subs {
				if sub.id == id {
					s.subs[key] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
			if len(s.subs[key]) == 0 {
				delete(s.subs, key)
			}
		})
	}
}

// Keys returns the written keys in lexical order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Subscribers returns the number of listeners currently registered for key.
func (s *Store) Subscribers(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs[key])
}
