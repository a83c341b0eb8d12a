// Package cli implements the command logic behind cmd/sieve. The cobra
// commands stay thin and delegate here so the behavior is testable without
// spawning a process.
package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	backend "github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/sieve"
	"github.com/aretw0/sieve/internal/logging"
	redisAdapter "github.com/aretw0/sieve/pkg/adapters/redis"
)

// GlobalOptions carries the flags shared by every command.
type GlobalOptions struct {
	Dir      string // schema document directory (Loam repository)
	RedisURL string // when set, read definitions from Redis instead of Dir
	Debug    bool
}

// createLogger configures the application logger. In debug mode it writes to
// stderr (to separate diagnostics from stdout results).
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// newService initializes a Sieve service with standard CLI conventions:
// a Loam repository at Dir by default, or a Redis definition store when
// --redis is given.
func newService(opts GlobalOptions, logger *slog.Logger, extra ...sieve.Option) (*sieve.Service, error) {
	svcOpts := []sieve.Option{sieve.WithLogger(logger)}
	svcOpts = append(svcOpts, extra...)

	if opts.RedisURL != "" {
		redisOpts, err := backend.ParseURL(opts.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		store := redisAdapter.NewFromClient(backend.NewClient(redisOpts))
		svcOpts = append(svcOpts, sieve.WithSource(store))
	}

	svc, err := sieve.New(opts.Dir, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing sieve: %w", err)
	}
	return svc, nil
}

// LoadDataFile reads a value to clean from a file, honoring the extension:
// .json is decoded with UseNumber so large integers survive untouched,
// .yaml/.yml goes through the YAML decoder, and "-" reads JSON from stdin.
func LoadDataFile(path string) (any, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = readAllStdin()
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading data file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var value any
		if err := yaml.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return value, nil
	default:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return value, nil
	}
}

func readAllStdin() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(os.Stdin); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
