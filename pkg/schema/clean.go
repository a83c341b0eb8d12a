package schema

import (
	"fmt"
	"reflect"
)

const listArityMessage = "schema is a list of more than one element; can be empty or have just one"

// Cleaner validates an input value and, when it passes, returns the coerced
// tree. Cleaners are stateless and safe for concurrent use.
type Cleaner func(value any) (any, error)

// Clean verifies the schema's structure and returns a Cleaner bound to it.
// Malformed schemas surface here as SchemaError, before any input is seen.
func Clean(node Node) (Cleaner, error) {
	if err := Check(node); err != nil {
		return nil, err
	}
	return func(value any) (any, error) {
		if err := validateNode(value, node, nil); err != nil {
			return nil, err
		}
		return parseNode(value, node, nil)
	}, nil
}

// Check verifies that node is structurally sound: no nil nodes, List schemas
// of at most one element, unique Object keys, compilable patterns, non-empty
// Any alternatives, and the same recursively. Input data never fails Check;
// only schema construction mistakes do.
func Check(node Node) error {
	switch s := node.(type) {
	case nil:
		return schemaErrorf("schema node is nil")
	case Object:
		seen := make(map[string]bool, len(s))
		for _, f := range s {
			if seen[f.Key] {
				return schemaErrorf("object declares key %q more than once", f.Key)
			}
			seen[f.Key] = true
			if err := Check(f.Node); err != nil {
				return err
			}
		}
		return nil
	case List:
		if len(s) > 1 {
			return schemaErrorf(listArityMessage)
		}
		if len(s) == 1 {
			return Check(s[0])
		}
		return nil
	case Tuple:
		for _, elem := range s {
			if err := Check(elem); err != nil {
				return err
			}
		}
		return nil
	case *PatternType:
		if s.compileErr != nil {
			return schemaErrorf("invalid pattern %q: %v", s.expr, s.compileErr)
		}
		return nil
	case *OptionalType:
		return Check(s.wrapped)
	case *AnyType:
		if len(s.alternatives) == 0 {
			return schemaErrorf("alternatives list is empty")
		}
		for _, alt := range s.alternatives {
			if err := Check(alt); err != nil {
				return err
			}
		}
		return nil
	case Variant:
		return nil
	}
	return schemaErrorf("schema of type %T is not valid", node)
}

// validateNode runs the validate pass: fail-fast, depth-first, no coercion.
// prefix is the trace accumulated down to this node.
func validateNode(value any, node Node, prefix Trace) error {
	switch s := node.(type) {
	case nil:
		return schemaErrorf("schema node is nil")
	case Variant:
		return withPrefix(prefix, s.Validate(value))
	case Object:
		m, ok := asMapping(value)
		if !ok {
			return &ValidationError{
				Value:   value,
				Message: "is not an object",
				Trace:   extend(prefix, Segment{Name: "Object"}),
			}
		}
		for _, f := range s {
			if _, present := m[f.Key]; present {
				continue
			}
			if _, opt := f.Node.(*OptionalType); opt {
				continue
			}
			return &ValidationError{
				Value:   value,
				Message: fmt.Sprintf("doesn't have key %q", f.Key),
				Trace:   extend(prefix, Segment{Name: "Object"}),
			}
		}
		for _, f := range s {
			v, present := m[f.Key]
			if !present {
				continue
			}
			if err := validateNode(v, f.Node, extend(prefix, keySegment(f.Key))); err != nil {
				return err
			}
		}
		return nil
	case List:
		if len(s) > 1 {
			return schemaErrorf(listArityMessage)
		}
		seq, ok := asSequence(value)
		if !ok {
			return &ValidationError{
				Value:   value,
				Message: "is not a list or tuple",
				Trace:   extend(prefix, Segment{Name: "List"}),
			}
		}
		if len(s) == 0 {
			return nil
		}
		for i, elem := range seq {
			if err := validateNode(elem, s[0], extend(prefix, indexSegment("List", i))); err != nil {
				return err
			}
		}
		return nil
	case Tuple:
		seq, ok := asSequence(value)
		if !ok {
			return &ValidationError{
				Value:   value,
				Message: "is not a list or tuple",
				Trace:   extend(prefix, Segment{Name: "Tuple"}),
			}
		}
		if len(seq) != len(s) {
			return &ValidationError{
				Value:   value,
				Message: arityMessage(len(seq), len(s)),
				Trace:   extend(prefix, Segment{Name: "Tuple"}),
			}
		}
		for i, elem := range s {
			if err := validateNode(seq[i], elem, extend(prefix, indexSegment("Tuple", i))); err != nil {
				return err
			}
		}
		return nil
	}
	return schemaErrorf("schema of type %T is not valid", node)
}

// parseNode runs the parse pass over input the validate pass accepted,
// producing the coerced output tree.
func parseNode(value any, node Node, prefix Trace) (any, error) {
	switch s := node.(type) {
	case nil:
		return nil, schemaErrorf("schema node is nil")
	case Variant:
		parsed, err := s.ParsedValue(value)
		if err != nil {
			return nil, withPrefix(prefix, err)
		}
		return parsed, nil
	case Object:
		m, ok := asMapping(value)
		if !ok {
			return nil, &ValidationError{
				Value:   value,
				Message: "is not an object",
				Trace:   extend(prefix, Segment{Name: "Object"}),
			}
		}
		out := make(map[string]any, len(s))
		for _, f := range s {
			// Absent keys parse as null so Optional fields land in
			// the output.
			parsed, err := parseNode(m[f.Key], f.Node, extend(prefix, keySegment(f.Key)))
			if err != nil {
				return nil, err
			}
			out[f.Key] = parsed
		}
		return out, nil
	case List:
		if len(s) > 1 {
			return nil, schemaErrorf(listArityMessage)
		}
		if len(s) == 0 {
			// An empty List schema parses to an empty sequence no
			// matter the input's length.
			return []any{}, nil
		}
		seq, ok := asSequence(value)
		if !ok {
			return nil, &ValidationError{
				Value:   value,
				Message: "is not a list or tuple",
				Trace:   extend(prefix, Segment{Name: "List"}),
			}
		}
		out := make([]any, len(seq))
		for i, elem := range seq {
			parsed, err := parseNode(elem, s[0], extend(prefix, indexSegment("List", i)))
			if err != nil {
				return nil, err
			}
			out[i] = parsed
		}
		return out, nil
	case Tuple:
		seq, ok := asSequence(value)
		if !ok {
			return nil, &ValidationError{
				Value:   value,
				Message: "is not a list or tuple",
				Trace:   extend(prefix, Segment{Name: "Tuple"}),
			}
		}
		if len(seq) != len(s) {
			return nil, &ValidationError{
				Value:   value,
				Message: arityMessage(len(seq), len(s)),
				Trace:   extend(prefix, Segment{Name: "Tuple"}),
			}
		}
		out := make([]any, len(s))
		for i, elem := range s {
			parsed, err := parseNode(seq[i], elem, extend(prefix, indexSegment("Tuple", i)))
			if err != nil {
				return nil, err
			}
			out[i] = parsed
		}
		return out, nil
	}
	return nil, schemaErrorf("schema of type %T is not valid", node)
}

func arityMessage(got, want int) string {
	which := "many"
	if got < want {
		which = "few"
	}
	return fmt.Sprintf("has too %s elements (it requires %d)", which, want)
}

// asMapping views value as a string-keyed mapping. Typed maps from Go
// callers are accepted alongside the map[string]any produced by JSON and
// YAML decoding.
func asMapping(value any) (map[string]any, bool) {
	if m, ok := value.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// asSequence views value as an ordered sequence. Typed slices and arrays
// are accepted alongside []any.
func asSequence(value any) ([]any, bool) {
	if s, ok := value.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
