package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// --- String ---

// StringType validates and coerces free-form text.
type StringType struct {
	strict    bool
	condition Condition
}

func (t *StringType) node() {}

func (t *StringType) Name() string { return "String" }

func (t *StringType) Validate(value any) error {
	if _, ok := value.(string); !ok && t.strict {
		return invalid(t.Name(), value, "is not a string")
	}
	return nil
}

func (t *StringType) Parse(value any) (any, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	return fmt.Sprintf("%v", value), nil
}

func (t *StringType) ParsedValue(value any) (any, error) {
	parsed, err := t.Parse(value)
	if err != nil {
		return nil, err
	}
	if err := checkCondition(t.condition, t.Name(), value, parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

// --- Pattern ---

// PatternType gates text on a regular expression matched from the first
// character (an unanchored tail is allowed), then hands matches to a parse
// function. Date and Datetime are preconfigured instances; Pattern builds a
// caller-defined one with an identity parse.
type PatternType struct {
	name       string
	expr       string
	re         *regexp.Regexp
	compileErr error
	parse      func(string) (any, error)
	condition  Condition
}

func (t *PatternType) node() {}

func (t *PatternType) Name() string { return t.name }

func (t *PatternType) Validate(value any) error {
	if t.compileErr != nil {
		return schemaErrorf("invalid pattern %q: %v", t.expr, t.compileErr)
	}
	s, ok := value.(string)
	if !ok || !t.re.MatchString(s) {
		return invalid(t.Name(), value, "doesn't match pattern "+t.expr)
	}
	return nil
}

func (t *PatternType) Parse(value any) (any, error) {
	if t.parse == nil {
		return value, nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, invalid(t.Name(), value, "doesn't match pattern "+t.expr)
	}
	parsed, err := t.parse(s)
	if err != nil {
		return nil, invalid(t.Name(), value, err.Error())
	}
	return parsed, nil
}

func (t *PatternType) ParsedValue(value any) (any, error) {
	parsed, err := t.Parse(value)
	if err != nil {
		return nil, err
	}
	if err := checkCondition(t.condition, t.Name(), value, parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

// --- Number ---

// NumberType validates and coerces numbers. Lenient mode (the default) also
// admits numeric-literal strings. Parsing normalizes integral values to
// int64 and everything else to float64.
type NumberType struct {
	strict    bool
	min, max  *float64
	condition Condition
}

var numberRe = regexp.MustCompile(`^\d+(\.\d+)?$`)

func (t *NumberType) node() {}

func (t *NumberType) Name() string { return "Number" }

func (t *NumberType) Validate(value any) error {
	if _, ok := numericLiteral(value); ok {
		return nil
	}
	if t.strict {
		return invalid(t.Name(), value, "is not a number")
	}
	s, ok := value.(string)
	if !ok {
		return invalid(t.Name(), value, "is not a number")
	}
	if !numberRe.MatchString(s) {
		return invalid(t.Name(), value, "is not a validly formatted number")
	}
	return nil
}

func (t *NumberType) Parse(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return normalizeNumber(float64(v)), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return normalizeNumber(float64(v)), nil
	case float32:
		return normalizeNumber(float64(v)), nil
	case float64:
		return normalizeNumber(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, invalid(t.Name(), value, "is not a validly formatted number")
		}
		return normalizeNumber(f), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, invalid(t.Name(), value, "is not a validly formatted number")
		}
		return normalizeNumber(f), nil
	}
	return nil, invalid(t.Name(), value, "is not a number")
}

func (t *NumberType) ParsedValue(value any) (any, error) {
	parsed, err := t.Parse(value)
	if err != nil {
		return nil, err
	}
	if err := checkCondition(t.condition, t.Name(), value, parsed); err != nil {
		return nil, err
	}
	f, _ := numericLiteral(parsed)
	if t.min != nil && f < *t.min {
		return nil, invalid(t.Name(), value, fmt.Sprintf("is less than the minimum: %v", *t.min))
	}
	if t.max != nil && f > *t.max {
		return nil, invalid(t.Name(), value, fmt.Sprintf("is greater than the maximum: %v", *t.max))
	}
	return parsed, nil
}

// normalizeNumber collapses integral floats into int64 form.
func normalizeNumber(f float64) any {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && f >= math.MinInt64 && f <= math.MaxInt64 {
		return int64(f)
	}
	return f
}

// numericLiteral converts numeric kinds (not booleans, not numeric strings)
// to float64 for comparisons.
func numericLiteral(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// --- Null ---

// NullType admits only the null sentinel.
type NullType struct{}

func (t *NullType) node() {}

func (t *NullType) Name() string { return "Null" }

func (t *NullType) Validate(value any) error {
	if value != nil {
		return invalid(t.Name(), value, "is not null")
	}
	return nil
}

func (t *NullType) Parse(value any) (any, error) { return value, nil }

func (t *NullType) ParsedValue(value any) (any, error) { return value, nil }

// --- Boolean ---

// BoolType validates booleans. Strict mode (the default) admits only literal
// booleans; lenient mode also maps a fixed token set onto them.
type BoolType struct {
	strict    bool
	condition Condition
}

var (
	trueTokens  = []string{"yes", "True", "true", "t", "1"}
	falseTokens = []string{"no", "False", "false", "f", "0"}
)

func (t *BoolType) node() {}

func (t *BoolType) Name() string { return "Boolean" }

func (t *BoolType) Validate(value any) error {
	if _, ok := value.(bool); ok {
		return nil
	}
	if t.strict {
		return invalid(t.Name(), value, "is not boolean")
	}
	if !isTrueToken(value) && !isFalseToken(value) {
		return invalid(t.Name(), value, "can't be interpreted as boolean")
	}
	return nil
}

func (t *BoolType) Parse(value any) (any, error) {
	if b, ok := value.(bool); ok {
		return b, nil
	}
	if isFalseToken(value) {
		return false, nil
	}
	return true, nil
}

func (t *BoolType) ParsedValue(value any) (any, error) {
	parsed, err := t.Parse(value)
	if err != nil {
		return nil, err
	}
	if err := checkCondition(t.condition, t.Name(), value, parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

func isTrueToken(v any) bool {
	if s, ok := v.(string); ok {
		return slices.Contains(trueTokens, s)
	}
	if f, ok := numericLiteral(v); ok {
		return f == 1
	}
	return false
}

func isFalseToken(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return slices.Contains(falseTokens, s)
	}
	if f, ok := numericLiteral(v); ok {
		return f == 0
	}
	return false
}

// --- Date and Datetime ---

const (
	datePattern     = `^\d{4}-\d{2}-\d{2}$`
	datetimePattern = `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d*)?Z?$`
)

var (
	dateRe     = regexp.MustCompile(anchored(datePattern))
	datetimeRe = regexp.MustCompile(anchored(datetimePattern))
)

// datetimeLayouts are tried in order; the first that parses wins. The final
// layout treats the trailing Z as a literal marker, matching the pattern.
var datetimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05.999999Z",
}

func parseDate(s string) (any, error) {
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, errors.New("is an invalid date")
	}
	return parsed, nil
}

func parseDatetime(s string) (any, error) {
	// Fractional seconds carry at most six digits.
	if i := strings.IndexByte(s, '.'); i >= 0 {
		frac := strings.TrimSuffix(s[i+1:], "Z")
		if len(frac) > 6 {
			return nil, errors.New("is an invalid datetime")
		}
	}
	for _, layout := range datetimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, nil
		}
	}
	return nil, errors.New("is an invalid datetime")
}

// --- Factories ---

// String creates a text variant. Strict by default: non-text input is
// rejected rather than stringified. Recognized options: WithStrict,
// WithCondition.
func String(opts ...Option) Variant {
	cfg := applyOptions(opts)
	return &StringType{strict: cfg.strictOr(true), condition: cfg.condition}
}

// Number creates a numeric variant. Lenient by default: numeric-literal
// strings are admitted and coerced. Recognized options: WithStrict, WithMin,
// WithMax, WithCondition.
func Number(opts ...Option) Variant {
	cfg := applyOptions(opts)
	return &NumberType{
		strict:    cfg.strictOr(false),
		min:       cfg.min,
		max:       cfg.max,
		condition: cfg.condition,
	}
}

// Bool creates a boolean variant, named "Boolean" in traces. Strict by
// default. Recognized options: WithStrict, WithCondition.
func Bool(opts ...Option) Variant {
	cfg := applyOptions(opts)
	return &BoolType{strict: cfg.strictOr(true), condition: cfg.condition}
}

// Null creates the null variant.
func Null() Variant { return &NullType{} }

// Pattern creates a text variant whose values must match expr from the
// first character. Matches pass through unparsed. A pattern that does not
// compile is reported by Check or Clean as a SchemaError. Recognized
// options: WithCondition.
func Pattern(expr string, opts ...Option) Variant {
	cfg := applyOptions(opts)
	t := &PatternType{name: "Pattern", expr: expr, condition: cfg.condition}
	t.re, t.compileErr = regexp.Compile(anchored(expr))
	return t
}

// Date matches ISO calendar dates (YYYY-MM-DD) and parses them into
// time.Time values at midnight UTC. The pattern alone does not prove a real
// date; Parse rejects impossible ones such as a 32nd day. Recognized
// options: WithCondition.
func Date(opts ...Option) Variant {
	cfg := applyOptions(opts)
	return &PatternType{
		name:      "Date",
		expr:      datePattern,
		re:        dateRe,
		parse:     parseDate,
		condition: cfg.condition,
	}
}

// Datetime matches ISO-like timestamps (YYYY-MM-DDTHH:MM:SS with optional
// fractional seconds and optional trailing Z) and parses them into time.Time
// values in UTC. Recognized options: WithCondition.
func Datetime(opts ...Option) Variant {
	cfg := applyOptions(opts)
	return &PatternType{
		name:      "Datetime",
		expr:      datetimePattern,
		re:        datetimeRe,
		parse:     parseDatetime,
		condition: cfg.condition,
	}
}

// anchored pins expr to the start of the text, leaving the tail open unless
// expr itself closes it.
func anchored(expr string) string {
	return `\A(?:` + expr + `)`
}
