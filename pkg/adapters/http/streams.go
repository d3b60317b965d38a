package http

import (
	"log/slog"
	"sync"

	"github.com/aretw0/lectern/internal/logging"
)

// StreamManager handles active SSE connections.
// A subscriber registers one channel under several topics; a topic is a
// store key or StateTopic.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // Topic -> Set of Channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a buffered channel for topics. The returned function
// unregisters and closes it.
func (sm *StreamManager) Subscribe(topics ...string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 16)
	for _, topic := range topics {
		if _, ok := sm.subscribers[topic]; !ok {
			sm.subscribers[topic] = make(map[chan<- string]struct{})
		}
		sm.subscribers[topic][ch] = struct{}{}
	}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			for _, topic := range topics {
				if subs, ok := sm.subscribers[topic]; ok {
					delete(subs, ch)
					if len(subs) == 0 {
						delete(sm.subscribers, topic)
					}
				}
			}
			close(ch)
		})
	}
}

// Broadcast sends msg to every subscriber of topic without blocking.
func (sm *StreamManager) Broadcast(topic string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[topic] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "topic", topic)
		}
	}
}

// Subscribers returns the number of channels registered for topic.
func (sm *StreamManager) Subscribers(topic string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[topic])
}
