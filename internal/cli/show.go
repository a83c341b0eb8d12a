package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/sieve/internal/presentation/report"
)

// RunShow renders the documentation page for one schema, or lists the
// catalog when no name is given.
func RunShow(ctx context.Context, opts GlobalOptions, name string) error {
	logger := createLogger(opts.Debug)

	svc, err := newService(opts, logger)
	if err != nil {
		return err
	}

	if name == "" {
		names, err := svc.Names(ctx)
		if err != nil {
			return fmt.Errorf("listing schemas: %w", err)
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	}

	doc, err := svc.Describe(ctx, name)
	if err != nil {
		return fmt.Errorf("schema %q: %w", name, err)
	}
	fmt.Print(report.Render(doc))
	return nil
}
