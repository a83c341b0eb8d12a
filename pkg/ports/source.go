package ports

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Source when no definition exists under the
// requested name.
var ErrNotFound = errors.New("schema definition not found")

// ErrReadOnly is returned by write operations on sources that do not support
// mutation (or were opened read-only).
var ErrReadOnly = errors.New("schema source is read-only")

// Source defines how the service retrieves schema definition documents.
// This allows the storage layer (Loam, Redis, Memory) to be decoupled.
type Source interface {
	// Get retrieves the raw definition document for a schema by name.
	// It returns the raw bytes (which the definition decoder will parse),
	// or ErrNotFound.
	Get(ctx context.Context, name string) ([]byte, error)

	// List returns the names of all schemas available in the source.
	List(ctx context.Context) ([]string, error)
}

// Store is a Source whose definitions can be created, replaced and removed.
type Store interface {
	Source

	// Save persists the definition document under the given name,
	// replacing any previous version.
	Save(ctx context.Context, name string, def []byte) error

	// Delete removes the definition under the given name.
	// Deleting a name that does not exist returns ErrNotFound.
	Delete(ctx context.Context, name string) error
}

// Watchable defines an interface for sources that can notify about backend
// changes. This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that receives the name of each schema whose
	// definition changed. The channel closes when ctx is canceled.
	Watch(ctx context.Context) (<-chan string, error)
}

// Describer is implemented by sources that keep human-readable documentation
// alongside the machine definition (e.g. the prose body of a Loam document).
type Describer interface {
	// Describe returns the documentation for a schema, or ErrNotFound.
	Describe(ctx context.Context, name string) (string, error)
}
