// Package redis provides a VariableStore backed by Redis.
//
// Values live in a local cache that serves reads and notifications, so
// controllers never block on the network to observe a change. Every write is
// mirrored to Redis (SET with optional TTL) and broadcast on a pub/sub
// channel; writes from other processes arrive through the same channel and
// are delivered to local subscribers. External tools (graders, dashboards)
// can therefore set gate variables or follow progress from outside.
package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key and the change channel.
const DefaultPrefix = "lectern:var:"

// envelope is the pub/sub message format.
type envelope struct {
	Origin string          `json:"origin"`
	Key    string          `json:"key"`
	Value  json.RawMessage `json:"value"`
}

// Store implements ports.VariableStore using Redis.
type Store struct {
	client     *backend.Client
	prefix     string
	ttl        time.Duration
	timeout    time.Duration
	dispatcher ports.Dispatcher
	logger     *slog.Logger

	origin string
	local  *memory.Store

	mu     sync.Mutex
	pubsub *backend.PubSub
	done   chan struct{}

	// misses holds keys known to be absent from Redis. It is only filled
	// while the change subscription is live, which reports any later write.
	misses map[string]struct{}
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the expiration of written keys. Zero keeps them until
// overwritten.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTimeout bounds every Redis round trip.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.timeout = d
	}
}

// WithDispatcher sets where remote changes are delivered. Hosts running
// controllers on a loop pass the loop so listeners run on its goroutine.
func WithDispatcher(d ports.Dispatcher) Option {
	return func(s *Store) {
		s.dispatcher = d
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a store connected to address.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client:     client,
		prefix:     DefaultPrefix,
		timeout:    2 * time.Second,
		dispatcher: ports.Inline,
		logger:     logging.NewNop(),
		origin:     uuid.NewString(),
		local:      memory.NewStore(),
		misses:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

func (s *Store) channel() string {
	return s.prefix + "changes"
}

// Start subscribes to remote changes. It returns once the subscription is
// confirmed; changes are then delivered until ctx is done or Close is called.
func (s *Store) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pubsub != nil {
		return nil
	}

	ps := s.client.Subscribe(ctx, s.channel())
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", s.channel(), err)
	}
	s.pubsub = ps
	s.done = make(chan struct{})

	go s.listen(ctx, ps, s.done)
	return nil
}

func (s *Store) listen(ctx context.Context, ps *backend.PubSub, done chan struct{}) {
	defer close(done)
	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.receive(msg.Payload)
		}
	}
}

func (s *Store) receive(payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		s.logger.Warn("dropping malformed change message", "error", err)
		return
	}
	if env.Origin == s.origin {
		return
	}
	value, err := decode(env.Value)
	if err != nil {
		s.logger.Warn("dropping undecodable value", "key", env.Key, "error", err)
		return
	}
	s.mu.Lock()
	delete(s.misses, env.Key)
	s.mu.Unlock()
	s.dispatcher.Post(func() {
		s.local.Write(env.Key, value)
	})
}

// Read returns the cached value of key, fetching it from Redis on a miss.
// Redis failures are logged and yield def. Once started, keys found absent
// are not fetched again until a change for them arrives.
func (s *Store) Read(key string, def any) any {
	if v, ok := s.local.Lookup(key); ok {
		return v
	}
	if s.absent(key) {
		return def
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			s.markAbsent(key)
		} else {
			s.logger.Warn("redis read failed", "key", key, "error", err)
		}
		return def
	}
	v, err := decode(data)
	if err != nil {
		s.logger.Warn("undecodable value in redis", "key", key, "error", err)
		return def
	}
	s.local.Seed(key, v)
	return v
}

func (s *Store) absent(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.misses[key]
	return ok
}

func (s *Store) markAbsent(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pubsub == nil {
		return
	}
	s.misses[key] = struct{}{}
}

// Write updates the cache, notifies local listeners and mirrors the value to
// Redis. Redis failures are logged; local state is kept.
func (s *Store) Write(key string, value any) {
	s.local.Write(key, value)

	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("value is not serializable", "key", key, "error", err)
		return
	}
	msg, err := json.Marshal(envelope{Origin: s.origin, Key: key, Value: data})
	if err != nil {
		s.logger.Error("failed to encode change message", "key", key, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(key), data, s.ttl)
	pipe.Publish(ctx, s.channel(), msg)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("redis write failed", "key", key, "error", err)
	}
}

// Subscribe implements ports.VariableStore. Only local delivery is involved;
// remote changes reach listeners once Start has been called.
func (s *Store) Subscribe(key string, fn ports.Listener) ports.UnsubscribeFunc {
	return s.local.Subscribe(key, fn)
}

// Close stops the change subscription and closes the client.
func (s *Store) Close() error {
	s.mu.Lock()
	ps, done := s.pubsub, s.done
	s.pubsub = nil
	clear(s.misses)
	s.mu.Unlock()

	var errs []error
	if ps != nil {
		errs = append(errs, ps.Close())
		<-done
	}
	errs = append(errs, s.client.Close())
	return errors.Join(errs...)
}

// decode keeps numbers as json.Number so integer indexes survive intact.
func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
