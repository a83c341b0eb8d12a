// Package memory provides an in-memory schema definition store.
//
// It is the reference ports.Store implementation, used by tests and by hosts
// that assemble their schema catalog programmatically.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/sieve/pkg/ports"
)

// Store implements ports.Store in memory.
// Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	defs map[string][]byte

	watchMu  sync.Mutex
	watchers []chan string
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		defs: make(map[string][]byte),
	}
}

// NewFromDefinitions creates a store pre-seeded with the provided definition
// documents. This improves DX for tests and examples.
func NewFromDefinitions(defs map[string]string) *Store {
	s := New()
	for name, def := range defs {
		s.defs[name] = []byte(def)
	}
	return s
}

// Get retrieves the definition document for a schema by name.
func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.defs[name]
	if !ok {
		return nil, ports.ErrNotFound
	}

	// Copy on read so the caller can't mutate store contents.
	out := make([]byte, len(def))
	copy(out, def)
	return out, nil
}

// List returns all schema names in the store.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.defs))
	for name := range s.defs {
		names = append(names, name)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}

// Save stores a copy of the definition under the given name.
func (s *Store) Save(ctx context.Context, name string, def []byte) error {
	stored := make([]byte, len(def))
	copy(stored, def)

	s.mu.Lock()
	s.defs[name] = stored
	s.mu.Unlock()

	s.notify(name)
	return nil
}

// Delete removes the definition under the given name.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	if _, ok := s.defs[name]; !ok {
		s.mu.Unlock()
		return ports.ErrNotFound
	}
	delete(s.defs, name)
	s.mu.Unlock()

	s.notify(name)
	return nil
}

// Watch implements ports.Watchable. Each Save or Delete sends the schema name
// to every subscriber; a watcher that falls behind misses events rather than
// blocking writers.
func (s *Store) Watch(ctx context.Context) (<-chan string, error) {
	ch := make(chan string, 16)

	s.watchMu.Lock()
	s.watchers = append(s.watchers, ch)
	s.watchMu.Unlock()

	go func() {
		<-ctx.Done()

		s.watchMu.Lock()
		for i, w := range s.watchers {
			if w == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				break
			}
		}
		s.watchMu.Unlock()
		close(ch)
	}()

	return ch, nil
}

func (s *Store) notify(name string) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()

	for _, w := range s.watchers {
		select {
		case w <- name:
		default:
		}
	}
}
