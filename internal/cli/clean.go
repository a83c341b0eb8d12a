package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/sieve/internal/presentation/report"
)

// CleanOptions configures the clean command.
type CleanOptions struct {
	GlobalOptions
	Schema   string // schema name to clean against
	DataFile string // value to clean; "-" reads stdin
	JSON     bool   // raw JSON output, no report rendering
}

// RunClean loads the data file, cleans it against the named schema and
// prints the coerced result. Validation failures render as a report and
// return an error so the process exits non-zero.
func RunClean(ctx context.Context, opts CleanOptions) error {
	logger := createLogger(opts.Debug)

	svc, err := newService(opts.GlobalOptions, logger)
	if err != nil {
		return err
	}

	value, err := LoadDataFile(opts.DataFile)
	if err != nil {
		return err
	}

	out, err := svc.Clean(ctx, opts.Schema, value)
	if err != nil {
		if !opts.JSON {
			fmt.Print(report.Render(report.Failure(opts.Schema, err)))
		}
		return err
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	if opts.JSON {
		fmt.Println(string(encoded))
		return nil
	}
	fmt.Print(report.Render(report.Success(opts.Schema, string(encoded))))
	return nil
}
