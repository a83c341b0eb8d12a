package cli

import (
	"context"
	"fmt"
)

// RunValidate decodes and structurally checks every schema in the catalog.
// The first broken document aborts with its decode or schema error.
func RunValidate(ctx context.Context, opts GlobalOptions) error {
	logger := createLogger(opts.Debug)

	svc, err := newService(opts, logger)
	if err != nil {
		return err
	}

	names, err := svc.Names(ctx)
	if err != nil {
		return fmt.Errorf("listing schemas: %w", err)
	}
	if len(names) == 0 {
		return fmt.Errorf("no schema documents found")
	}

	for _, name := range names {
		if err := svc.Check(ctx, name); err != nil {
			return fmt.Errorf("schema %q: %w", name, err)
		}
	}

	fmt.Printf("Schemas are valid! ✅ (%d checked)\n", len(names))
	return nil
}
