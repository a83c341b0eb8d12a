package schema

// Node is a schema node: the declarative description of an expected shape.
// The set of nodes is closed — scalar and combinator variants, Object, List,
// and Tuple — and the walker dispatches over it exhaustively. Anything else
// reaching the walker is reported as a SchemaError.
type Node interface {
	// node keeps the node set closed to this package's implementations.
	node()
}

// Variant is the capability contract shared by scalar and combinator
// variants.
type Variant interface {
	Node
	// Name is the segment name the variant contributes to failure traces.
	Name() string
	// Validate checks only the shape/format of a value, never conditions
	// or bounds.
	Validate(value any) error
	// Parse converts a value into its canonical typed form.
	Parse(value any) (any, error)
	// ParsedValue runs Parse and then the configured condition and any
	// post-parse checks such as numeric bounds. The parse pass of the
	// walker calls this, never Parse directly.
	ParsedValue(value any) (any, error)
}

// Field is one named entry of an Object schema.
type Field struct {
	Key  string
	Node Node
}

// Object describes a mapping with named, ordered fields. Validation is open:
// input keys not declared here are ignored. Declared keys are required in
// the input unless their node is Optional.
type Object []Field

func (Object) node() {}

// List describes a variable-length sequence. It holds zero elements (any
// sequence passes, and parsing yields an empty sequence) or exactly one
// element describing every item. More than one element is a SchemaError.
type List []Node

func (List) node() {}

// Tuple describes a fixed-arity sequence, one node per positional slot.
// Input length must match exactly.
type Tuple []Node

func (Tuple) node() {}

// Condition is a predicate evaluated on a parsed value. A nil return passes.
// A non-nil return fails validation with the error's message, or with a
// generic fallback when the message is empty.
type Condition func(parsed any) error

const conditionFallback = "doesn't meet the validation criterion"

// checkCondition applies cond to parsed, reporting failures against the raw
// input value under the variant's trace name.
func checkCondition(cond Condition, name string, raw, parsed any) error {
	if cond == nil {
		return nil
	}
	if err := cond(parsed); err != nil {
		msg := err.Error()
		if msg == "" {
			msg = conditionFallback
		}
		return invalid(name, raw, msg)
	}
	return nil
}

// --- Options ---

// Option configures a scalar variant at construction time. Each factory
// documents the options it recognizes; unrecognized options have no effect.
type Option func(*config)

type config struct {
	strict    *bool
	min, max  *float64
	condition Condition
}

func applyOptions(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c config) strictOr(def bool) bool {
	if c.strict != nil {
		return *c.strict
	}
	return def
}

// WithStrict overrides a variant's default strictness. String and Bool are
// strict by default, Number is lenient.
func WithStrict(strict bool) Option {
	return func(c *config) { c.strict = &strict }
}

// WithMin sets the inclusive lower bound enforced on parsed numbers.
func WithMin(min float64) Option {
	return func(c *config) { c.min = &min }
}

// WithMax sets the inclusive upper bound enforced on parsed numbers.
func WithMax(max float64) Option {
	return func(c *config) { c.max = &max }
}

// WithCondition attaches a predicate evaluated on the parsed value.
func WithCondition(cond Condition) Option {
	return func(c *config) { c.condition = cond }
}
