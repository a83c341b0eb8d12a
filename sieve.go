package sieve

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/loam"

	loamAdapter "github.com/aretw0/sieve/pkg/adapters/loam"
	"github.com/aretw0/sieve/pkg/ports"
	"github.com/aretw0/sieve/pkg/schema"
	"github.com/aretw0/sieve/pkg/schemadef"
)

// Service is the high-level entry point for the Sieve library.
// It resolves named schema definitions from a source, decodes them and
// cleans input values against them.
type Service struct {
	source  ports.Source
	decoder *schemadef.Decoder
	logger  *slog.Logger
	hooks   Hooks
	Name    string
}

// CleanEvent describes one completed Clean call.
type CleanEvent struct {
	Schema   string
	Duration time.Duration
	Err      error
}

// Hooks registers observability callbacks on the service.
type Hooks struct {
	// OnClean fires after every Clean call, success or failure.
	OnClean func(ctx context.Context, evt CleanEvent)
}

// Option defines a functional option for configuring the Service.
type Option func(*Service)

// WithSource injects a custom schema source, bypassing the default Loam
// initialization.
func WithSource(src ports.Source) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithDecoder sets a custom definition decoder (e.g. one with registered
// conditions).
func WithDecoder(dec *schemadef.Decoder) Option {
	return func(s *Service) {
		s.decoder = dec
	}
}

// WithLogger sets a custom structured logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks Hooks) Option {
	return func(s *Service) {
		s.hooks = hooks
	}
}

// New initializes a new Sieve Service.
// By default, it reads schema documents from a Loam repository at the given
// path. If WithSource is provided, repoPath can be empty and Loam is skipped.
func New(repoPath string, opts ...Option) (*Service, error) {
	svc := &Service{}

	// Apply options first to check if a source is provided
	for _, opt := range opts {
		opt(svc)
	}

	// If no source was injected, initialize the default Loam adapter
	if svc.source == nil {
		if repoPath == "" {
			return nil, fmt.Errorf("repoPath is required when no custom source is provided")
		}

		absPath, err := filepath.Abs(repoPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}

		svc.Name = filepath.Base(absPath)

		// Initialize Loam with global strict mode so all adapters
		// (JSON, Markdown/YAML) return consistent numeric types
		// (json.Number), preventing "float64" ambiguity for large
		// integers. ReadOnly avoids Loam's sandbox behavior in dev mode;
		// the service never modifies documents through this path.
		repo, err := loam.Init(absPath,
			loam.WithStrict(true),
			loam.WithReadOnly(true),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize loam: %w", err)
		}

		typedRepo := loam.NewTypedRepository[loamAdapter.DocumentMetadata](repo)
		svc.source = loamAdapter.New(typedRepo)
	} else if repoPath != "" {
		// A custom source still gets a descriptive catalog label.
		svc.Name = filepath.Base(repoPath)
	}

	if svc.decoder == nil {
		svc.decoder = schemadef.NewDecoder()
	}

	// Ensure a logger is always present so call sites don't guard for nil.
	if svc.logger == nil {
		svc.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if svc.Name != "" {
		svc.logger = svc.logger.With("catalog", svc.Name)
	}

	return svc, nil
}

// Decoder returns the definition decoder so hosts can register named
// conditions before cleaning values.
func (s *Service) Decoder() *schemadef.Decoder {
	return s.decoder
}

// Node loads and decodes the definition for the named schema.
// It returns ports.ErrNotFound when the source has no such schema.
func (s *Service) Node(ctx context.Context, name string) (schema.Node, error) {
	def, err := s.source.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	node, err := s.decoder.Decode(def)
	if err != nil {
		return nil, fmt.Errorf("decoding schema %s: %w", name, err)
	}
	return node, nil
}

// Clean validates the value against the named schema and returns the coerced
// result. Validation failures are returned as *schema.ValidationError with
// the full trace intact.
func (s *Service) Clean(ctx context.Context, name string, value any) (out any, err error) {
	start := time.Now()
	defer func() {
		if s.hooks.OnClean != nil {
			s.hooks.OnClean(ctx, CleanEvent{
				Schema:   name,
				Duration: time.Since(start),
				Err:      err,
			})
		}
	}()

	node, err := s.Node(ctx, name)
	if err != nil {
		return nil, err
	}
	clean, err := schema.Clean(node)
	if err != nil {
		return nil, err
	}

	out, err = clean(value)
	s.logger.DebugContext(ctx, "cleaned value", "schema", name, "valid", err == nil)
	return out, err
}

// Check verifies that the named schema definition decodes and is structurally
// valid, without cleaning any value.
func (s *Service) Check(ctx context.Context, name string) error {
	node, err := s.Node(ctx, name)
	if err != nil {
		return err
	}
	return schema.Check(node)
}

// Names lists the schemas available in the source.
func (s *Service) Names(ctx context.Context) ([]string, error) {
	return s.source.List(ctx)
}

// Definition returns the raw definition document for the named schema.
func (s *Service) Definition(ctx context.Context, name string) ([]byte, error) {
	return s.source.Get(ctx, name)
}

// Describe returns the human documentation for the named schema. Sources
// without documentation fall back to the raw definition.
func (s *Service) Describe(ctx context.Context, name string) (string, error) {
	if d, ok := s.source.(ports.Describer); ok {
		return d.Describe(ctx, name)
	}
	def, err := s.source.Get(ctx, name)
	if err != nil {
		return "", err
	}
	return string(def), nil
}

// Save verifies and persists a definition document. Sources that cannot be
// written return ports.ErrReadOnly.
func (s *Service) Save(ctx context.Context, name string, def []byte) error {
	// Verify before touching the store so a broken document never lands.
	node, err := s.decoder.Decode(def)
	if err != nil {
		return fmt.Errorf("decoding schema %s: %w", name, err)
	}
	if err := schema.Check(node); err != nil {
		return err
	}

	store, ok := s.source.(ports.Store)
	if !ok {
		return ports.ErrReadOnly
	}
	if err := store.Save(ctx, name, def); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "saved schema", "schema", name)
	return nil
}

// Delete removes a definition document. Sources that cannot be written
// return ports.ErrReadOnly.
func (s *Service) Delete(ctx context.Context, name string) error {
	store, ok := s.source.(ports.Store)
	if !ok {
		return ports.ErrReadOnly
	}
	if err := store.Delete(ctx, name); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "deleted schema", "schema", name)
	return nil
}

// Watch exposes schema change notifications from sources that support them.
func (s *Service) Watch(ctx context.Context) (<-chan string, error) {
	w, ok := s.source.(ports.Watchable)
	if !ok {
		return nil, fmt.Errorf("schema source does not support watching")
	}
	return w.Watch(ctx)
}
