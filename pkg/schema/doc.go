// Package schema declares and runs validation/coercion schemas for nested data.
//
// A schema is a tree of nodes: scalar variants (String, Number, Bool, Null,
// Date, Datetime, Pattern), combinators (Optional, Any, Constant), and the
// containers Object, List, and Tuple. Clean compiles the tree into a function
// that validates an input value and, when it passes, returns the coerced
// form: numeric strings become numbers, date strings become time.Time values,
// lenient boolean tokens become literal booleans.
//
// Basic usage:
//
//	person := schema.Object{
//	    {Key: "name", Node: schema.String()},
//	    {Key: "age", Node: schema.Number(schema.WithMin(0))},
//	    {Key: "born", Node: schema.Optional(schema.Date())},
//	}
//
//	clean, err := schema.Clean(person)
//	if err != nil {
//	    // the schema itself is malformed
//	}
//
//	out, err := clean(map[string]any{"name": "Ada", "age": "36"})
//	// out: map[string]any{"name": "Ada", "age": int64(36), "born": nil}
//
// Failures carry the offending value, a message, and a Trace naming the path
// of schema nodes down to the failing one:
//
//	var verr *schema.ValidationError
//	if errors.As(err, &verr) {
//	    fmt.Println(verr.Trace) // Object(key:'age') --> Number
//	}
//
// Validation is fail-fast and depth-first, walking object fields in their
// declaration order. The Any combinator is the one exception: it tries each
// alternative in turn and aggregates their traces when none fits.
//
// Schema nodes are immutable after construction; a node tree and the Cleaner
// compiled from it are safe for concurrent use. Mistakes in the tree itself
// (a List of two element types, a pattern that does not compile) are reported
// as SchemaError, never as ValidationError.
//
// This package has zero dependencies beyond the Go standard library and can
// be used on its own; the rest of the module wires it to schema documents,
// servers, and tooling.
package schema
