package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/sieve"
	httpAdapter "github.com/aretw0/sieve/pkg/adapters/http"
	"github.com/aretw0/sieve/pkg/observability"
)

// ServeOptions configures the HTTP server command.
type ServeOptions struct {
	GlobalOptions
	Port    string
	Metrics bool // expose Prometheus collectors at /metrics
}

// RunServe starts the validation API and blocks until a signal or a
// listener error. Outstanding requests get a shutdown grace period.
func RunServe(opts ServeOptions) error {
	logger := createLogger(opts.Debug)

	svcOpts := []sieve.Option{}
	var metrics *observability.Metrics
	if opts.Metrics {
		metrics = observability.NewMetrics()
		svcOpts = append(svcOpts, sieve.WithHooks(metrics.Hooks()))
	}

	svc, err := newService(opts.GlobalOptions, logger, svcOpts...)
	if err != nil {
		return err
	}

	handlerOpts := []httpAdapter.Option{httpAdapter.WithLogger(logger)}
	if metrics != nil {
		handlerOpts = append(handlerOpts, httpAdapter.WithMetrics(metrics.Handler()))
	}

	srv := &http.Server{
		Addr:    ":" + opts.Port,
		Handler: httpAdapter.NewHandler(svc, handlerOpts...),
	}

	serverErrors := make(chan error, 1)
	go func() {
		fmt.Printf("Starting Sieve Server on %s\n", srv.Addr)
		fmt.Printf("Serving schemas from: %s\n", catalogLabel(opts.GlobalOptions))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

		const grace = 5 * time.Second
		ctx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Printf("Graceful shutdown did not complete in %v: %v\n", grace, err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("killing server: %w", err)
			}
		}
		fmt.Println("Sieve Server stopped gracefully")
	}
	return nil
}

func catalogLabel(opts GlobalOptions) string {
	if opts.RedisURL != "" {
		return opts.RedisURL
	}
	return opts.Dir
}
