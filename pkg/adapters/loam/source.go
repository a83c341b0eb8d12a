// Package loam adapts a Loam repository to the schema source ports.
//
// Each schema lives in one Markdown document: the frontmatter carries catalog
// metadata (name, summary), the body carries prose documentation plus the
// machine definition inside a fenced yaml or json code block. Documents with
// no fence are treated as bare definition files.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/sieve/pkg/ports"
)

// DocumentMetadata is the frontmatter of a schema document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type DocumentMetadata struct {
	// Name overrides the filename-derived schema name.
	Name string `json:"name" mapstructure:"name"`
	// Summary is a one-line description shown in catalog listings.
	Summary string `json:"summary" mapstructure:"summary"`
}

// Source adapts the Loam library to the ports.Source interface.
type Source struct {
	Repo *loam.TypedRepository[DocumentMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[DocumentMetadata]) *Source {
	return &Source{
		Repo: repo,
	}
}

// definitionFence matches the first fenced yaml/json code block in a body.
var definitionFence = regexp.MustCompile("(?ms)^```(?:ya?ml|json)?[ \t]*\r?\n(.*?)\r?\n```[ \t]*$")

// Get retrieves the schema definition document by name.
// The definition is the first fenced code block of the document body, or the
// whole body when there is no fence.
func (s *Source) Get(ctx context.Context, name string) ([]byte, error) {
	body, err := s.body(ctx, name)
	if err != nil {
		return nil, err
	}
	return extractDefinition(body), nil
}

// Describe returns the full document body, prose included.
func (s *Source) Describe(ctx context.Context, name string) (string, error) {
	return s.body(ctx, name)
}

// List lists all schema names in the repository.
func (s *Source) List(ctx context.Context) ([]string, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	names := make([]string, 0, len(docs))

	for _, doc := range docs {
		// Use the name from metadata if available, otherwise the filename.
		rawName := doc.Data.Name
		if rawName == "" {
			rawName = doc.ID
		}
		name := trimExtension(rawName)

		// Collision Detection
		if existingPath, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: schema '%s' is defined in both '%s' and '%s'", name, existingPath, doc.ID)
		}
		seen[name] = doc.ID
		names = append(names, name)
	}
	return names, nil
}

// Watch implements ports.Watchable.
func (s *Source) Watch(ctx context.Context) (<-chan string, error) {
	// Watch all relevant files (recursive) using the doublestar pattern
	// supported by Loam. This avoids a manual filtering loop.
	events, err := s.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				// Loam debounces on its side; pass the changed name up,
				// respecting context cancellation.
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

// body loads a document by schema name. Loam resolves filename-derived names
// itself (asking for "age" finds age.md); names declared in frontmatter need
// a listing scan before the name can be declared missing.
func (s *Source) body(ctx context.Context, name string) (string, error) {
	doc, err := s.Repo.Get(ctx, name)
	if err == nil {
		return doc.Content, nil
	}

	docs, listErr := s.Repo.List(ctx)
	if listErr != nil {
		return "", fmt.Errorf("loam get failed for %s: %w", name, err)
	}
	for _, d := range docs {
		candidate := d.Data.Name
		if candidate == "" {
			candidate = d.ID
		}
		if trimExtension(candidate) != name {
			continue
		}
		resolved, rerr := s.Repo.Get(ctx, d.ID)
		if rerr != nil {
			return "", fmt.Errorf("loam get failed for %s: %w", name, err)
		}
		return resolved.Content, nil
	}
	return "", ports.ErrNotFound
}

func extractDefinition(body string) []byte {
	if m := definitionFence.FindStringSubmatch(body); m != nil {
		return []byte(m[1])
	}
	return []byte(strings.TrimSpace(body))
}

func trimExtension(name string) string {
	ext := filepath.Ext(name)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(name, ext))
	}
	return filepath.ToSlash(name)
}
