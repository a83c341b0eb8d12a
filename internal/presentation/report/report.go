// Package report builds and renders the markdown surfaces of the CLI:
// validation failure reports and schema documentation pages.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/aretw0/sieve/pkg/schema"
)

// Failure builds the markdown report for a failed clean call.
func Failure(name string, err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Validation failed: %s\n\n", name)

	var verr *schema.ValidationError
	var serr *schema.SchemaError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintf(&b, "**Value:** `%v`\n\n", verr.Value)
		fmt.Fprintf(&b, "**Reason:** %s\n\n", verr.Message)
		fmt.Fprintf(&b, "**Path:** `%s`\n", verr.Trace)
	case errors.As(err, &serr):
		// The schema itself is broken, not the data.
		fmt.Fprintf(&b, "**Schema error:** %s\n\n", serr.Message)
		fmt.Fprintf(&b, "Fix the schema definition; the value was never evaluated.\n")
	default:
		fmt.Fprintf(&b, "**Error:** %v\n", err)
	}
	return b.String()
}

// Success builds the markdown confirmation for a clean call, with the
// coerced result fenced for copy-paste.
func Success(name, coerced string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Cleaned: %s\n\n", name)
	fmt.Fprintf(&b, "```json\n%s\n```\n", strings.TrimRight(coerced, "\n"))
	return b.String()
}

// Render renders markdown for stdout: styled via glamour on a terminal,
// plain text otherwise (pipes, redirects, CI).
func Render(markdown string) string {
	return renderFor(os.Stdout, markdown)
}

func renderFor(w io.Writer, markdown string) string {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return markdown
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // detect light/dark background
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
