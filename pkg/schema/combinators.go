package schema

import (
	"fmt"
	"reflect"
)

// --- Optional ---

// OptionalType wraps another node and lets the value be absent. An absent or
// null value short-circuits both passes; anything else is delegated to the
// wrapped node, with the inner failure's trace nested under an Optional
// segment.
type OptionalType struct {
	wrapped Node
}

func (t *OptionalType) node() {}

func (t *OptionalType) Name() string { return "Optional" }

func (t *OptionalType) Validate(value any) error {
	if value == nil {
		return nil
	}
	return t.wrap(validateNode(value, t.wrapped, nil))
}

func (t *OptionalType) Parse(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	parsed, err := parseNode(value, t.wrapped, nil)
	if err != nil {
		return nil, t.wrap(err)
	}
	return parsed, nil
}

func (t *OptionalType) ParsedValue(value any) (any, error) { return t.Parse(value) }

// wrap nests an inner failure's trace under an Optional segment, keeping the
// inner value and message intact.
func (t *OptionalType) wrap(err error) error {
	if err == nil {
		return nil
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		return err
	}
	return &ValidationError{
		Value:   ve.Value,
		Message: ve.Message,
		Trace:   Trace{Segment{Name: "Optional", Inner: []Trace{ve.Trace}}},
	}
}

// --- Any ---

// AnyType tries an ordered list of alternatives; the first that both
// validates and parses wins. It has no standalone validation — all the work
// happens during the parse pass, so a failure aggregates the traces of every
// alternative tried.
type AnyType struct {
	alternatives []Node
}

func (t *AnyType) node() {}

func (t *AnyType) Name() string { return "Any" }

func (t *AnyType) Validate(value any) error { return nil }

func (t *AnyType) Parse(value any) (any, error) {
	var traces []Trace
	for _, alt := range t.alternatives {
		err := validateNode(value, alt, nil)
		if err == nil {
			parsed, perr := parseNode(value, alt, nil)
			if perr == nil {
				return parsed, nil
			}
			err = perr
		}
		ve, ok := err.(*ValidationError)
		if !ok {
			return nil, err
		}
		traces = append(traces, ve.Trace)
	}
	return nil, &ValidationError{
		Value:   value,
		Message: "doesn't meet any allowed criterion",
		Trace:   Trace{Segment{Name: "Any", Inner: traces}},
	}
}

func (t *AnyType) ParsedValue(value any) (any, error) { return t.Parse(value) }

// --- Constant ---

// ConstantType admits only values equal to a fixed literal. Equality is by
// value, with numeric cross-type leniency so JSON and YAML decodings of the
// same literal compare equal.
type ConstantType struct {
	literal any
}

func (t *ConstantType) node() {}

func (t *ConstantType) Name() string { return "Constant" }

func (t *ConstantType) Validate(value any) error {
	if !literalEqual(value, t.literal) {
		return &ValidationError{
			Value:   value,
			Message: "is not equals to " + literalRepr(t.literal),
			Trace:   Trace{Segment{Name: "Constant", Detail: literalRepr(t.literal)}},
		}
	}
	return nil
}

func (t *ConstantType) Parse(value any) (any, error) { return value, nil }

func (t *ConstantType) ParsedValue(value any) (any, error) { return value, nil }

// --- Factories ---

// Optional wraps node so the value may be absent or null.
func Optional(node Node) Variant {
	return &OptionalType{wrapped: node}
}

// Any tries each alternative in order; the first that validates and parses
// provides the coerced value.
func Any(first Node, rest ...Node) Variant {
	return &AnyType{alternatives: append([]Node{first}, rest...)}
}

// Constant admits only values equal to literal.
func Constant(literal any) Variant {
	return &ConstantType{literal: literal}
}

func literalEqual(a, b any) bool {
	if fa, ok := numericLiteral(a); ok {
		fb, ok := numericLiteral(b)
		return ok && fa == fb
	}
	if _, ok := numericLiteral(b); ok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// literalRepr renders a literal for messages and traces; text literals are
// single-quoted.
func literalRepr(v any) string {
	if s, ok := v.(string); ok {
		return "'" + s + "'"
	}
	return fmt.Sprintf("%v", v)
}
