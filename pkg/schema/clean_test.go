package schema

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func mustClean(t *testing.T, node Node) Cleaner {
	t.Helper()
	clean, err := Clean(node)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	return clean
}

func TestCleanCoercesNestedTree(t *testing.T) {
	sch := Object{
		{Key: "foo", Node: String()},
		{Key: "bar", Node: Number()},
		{Key: "hoho", Node: Optional(Number())},
		{Key: "nest", Node: Object{
			{Key: "somedate", Node: Date()},
			{Key: "items", Node: List{Number(WithMin(0))}},
		}},
		{Key: "pair", Node: Tuple{String(), Number()}},
		{Key: "enum", Node: Any(Constant("FOO"), Constant("BAR"))},
	}
	clean := mustClean(t, sch)

	out, err := clean(map[string]any{
		"foo": "hello",
		"bar": "123.12",
		"nest": map[string]any{
			"somedate": "2020-05-06",
			"items":    []any{"1", 2, 3.0},
		},
		"pair":    []any{"a", "1"},
		"enum":    "BAR",
		"ignored": "extra keys pass through validation untouched",
	})
	if err != nil {
		t.Fatalf("clean() error = %v", err)
	}

	m := out.(map[string]any)
	if m["foo"] != "hello" {
		t.Errorf("foo = %v", m["foo"])
	}
	if m["bar"] != 123.12 {
		t.Errorf("bar = %v (%T), want 123.12", m["bar"], m["bar"])
	}
	if v, present := m["hoho"]; !present || v != nil {
		t.Errorf("hoho = %v, present=%v; want a present null", v, present)
	}
	if _, present := m["ignored"]; present {
		t.Error("undeclared input keys must not reach the output")
	}

	nest := m["nest"].(map[string]any)
	if d := nest["somedate"].(time.Time); !d.Equal(time.Date(2020, 5, 6, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("somedate = %v", d)
	}
	items := nest["items"].([]any)
	for i, want := range []any{int64(1), int64(2), int64(3)} {
		if items[i] != want {
			t.Errorf("items[%d] = %v (%T), want %v", i, items[i], items[i], want)
		}
	}

	pair := m["pair"].([]any)
	if pair[0] != "a" || pair[1] != int64(1) {
		t.Errorf("pair = %v, want [a 1]", pair)
	}
	if m["enum"] != "BAR" {
		t.Errorf("enum = %v, want BAR", m["enum"])
	}
}

func TestCleanFailsFastWithoutOutput(t *testing.T) {
	clean := mustClean(t, Object{
		{Key: "a", Node: Number()},
		{Key: "b", Node: Number()},
	})

	out, err := clean(map[string]any{"a": "abc", "b": "also bad"})
	if err == nil {
		t.Fatal("clean() = nil error, want failure")
	}
	if out != nil {
		t.Errorf("clean() output = %v, want nil on failure", out)
	}
	// Depth-first over declaration order: the first declared field fails.
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if got := verr.Trace.String(); got != "Object(key:'a') --> Number" {
		t.Errorf("Trace = %q, want the first declared field", got)
	}
}

func TestObjectValidation(t *testing.T) {
	clean := mustClean(t, Object{{Key: "foo", Node: String()}})

	_, err := clean(42)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("clean(42) error = %v, want ValidationError", err)
	}
	if verr.Message != "is not an object" {
		t.Errorf("Message = %q, want %q", verr.Message, "is not an object")
	}
	if got := verr.Trace.String(); got != "Object" {
		t.Errorf("Trace = %q, want %q", got, "Object")
	}

	_, err = clean(map[string]any{})
	if !errors.As(err, &verr) {
		t.Fatalf("clean({}) error = %v, want ValidationError", err)
	}
	if verr.Message != `doesn't have key "foo"` {
		t.Errorf("Message = %q, want %q", verr.Message, `doesn't have key "foo"`)
	}
}

func TestObjectMissingKeysReportedInDeclarationOrder(t *testing.T) {
	clean := mustClean(t, Object{
		{Key: "first", Node: String()},
		{Key: "second", Node: String()},
	})

	_, err := clean(map[string]any{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if verr.Message != `doesn't have key "first"` {
		t.Errorf("Message = %q, want the first declared key", verr.Message)
	}
}

func TestObjectOptionalKeyMayBeMissing(t *testing.T) {
	clean := mustClean(t, Object{{Key: "opt", Node: Optional(Number())}})

	out, err := clean(map[string]any{})
	if err != nil {
		t.Fatalf("clean({}) error = %v", err)
	}
	v, present := out.(map[string]any)["opt"]
	if !present || v != nil {
		t.Errorf("opt = %v, present=%v; want a present null", v, present)
	}
}

func TestNestedTracePath(t *testing.T) {
	clean := mustClean(t, Object{
		{Key: "nest", Node: Object{
			{Key: "nest", Node: List{Number(WithMin(0))}},
		}},
	})

	_, err := clean(map[string]any{
		"nest": map[string]any{"nest": []any{1, -1}},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	want := "Object(key:'nest') --> Object(key:'nest') --> List(index:1) --> Number"
	if got := verr.Trace.String(); got != want {
		t.Errorf("Trace = %q, want %q", got, want)
	}
	if verr.Message != "is less than the minimum: 0" {
		t.Errorf("Message = %q", verr.Message)
	}
	if verr.Value != -1 {
		t.Errorf("Value = %v, want -1", verr.Value)
	}
}

func TestListValidation(t *testing.T) {
	clean := mustClean(t, List{String()})

	_, err := clean("not a sequence")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if verr.Message != "is not a list or tuple" {
		t.Errorf("Message = %q", verr.Message)
	}

	_, err = clean([]any{"ok", 42})
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if got := verr.Trace.String(); got != "List(index:1) --> String" {
		t.Errorf("Trace = %q", got)
	}
}

func TestEmptyListSchemaParsesToEmptySequence(t *testing.T) {
	clean := mustClean(t, List{})

	// Any sequence validates, and the parsed result is always empty.
	out, err := clean([]any{1, "two", true})
	if err != nil {
		t.Fatalf("clean() error = %v", err)
	}
	seq, ok := out.([]any)
	if !ok || len(seq) != 0 {
		t.Errorf("clean() = %v, want an empty sequence", out)
	}

	if _, err := clean("not a sequence"); err == nil {
		t.Error("clean(non-sequence) = nil error, want failure")
	}
}

func TestTypedSlicesAndMapsAreAccepted(t *testing.T) {
	clean := mustClean(t, Object{{Key: "tags", Node: List{String()}}})

	out, err := clean(map[string]string{"tags": ""})
	if err == nil {
		t.Error("clean(map with string tags value) = nil error, want failure")
	}

	out, err = clean(map[string]any{"tags": []string{"a", "b"}})
	if err != nil {
		t.Fatalf("clean() error = %v", err)
	}
	tags := out.(map[string]any)["tags"].([]any)
	if len(tags) != 2 || tags[0] != "a" {
		t.Errorf("tags = %v", tags)
	}
}

func TestTupleValidation(t *testing.T) {
	clean := mustClean(t, Tuple{String(), Number()})

	out, err := clean([]any{"a", "1"})
	if err != nil {
		t.Fatalf("clean() error = %v", err)
	}
	pair := out.([]any)
	if pair[0] != "a" || pair[1] != int64(1) {
		t.Errorf("clean() = %v", pair)
	}

	_, err = clean([]any{"a", 1, 2})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if verr.Message != "has too many elements (it requires 2)" {
		t.Errorf("Message = %q", verr.Message)
	}
	if got := verr.Trace.String(); got != "Tuple" {
		t.Errorf("Trace = %q, want %q", got, "Tuple")
	}

	_, err = clean([]any{"a"})
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if verr.Message != "has too few elements (it requires 2)" {
		t.Errorf("Message = %q", verr.Message)
	}

	_, err = clean([]any{"a", "b"})
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if got := verr.Trace.String(); got != "Tuple(index:1) --> Number" {
		t.Errorf("Trace = %q", got)
	}
}

func TestCheckRejectsMalformedSchemas(t *testing.T) {
	tests := []struct {
		name string
		node Node
	}{
		{"nil node", nil},
		{"oversized list", List{String(), Number()}},
		{"nested oversized list", Object{{Key: "xs", Node: List{String(), Number()}}}},
		{"duplicate object keys", Object{{Key: "a", Node: String()}, {Key: "a", Node: Number()}}},
		{"nil object field", Object{{Key: "a", Node: nil}}},
		{"broken pattern", Pattern(`[`)},
		{"broken pattern in optional", Optional(Pattern(`[`))},
		{"broken pattern in alternatives", Any(String(), Pattern(`[`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.node)
			var serr *SchemaError
			if !errors.As(err, &serr) {
				t.Fatalf("Check() error = %v, want SchemaError", err)
			}
			if _, cerr := Clean(tt.node); cerr == nil {
				t.Error("Clean() = nil error, want SchemaError")
			}
		})
	}

	if err := Check(Object{{Key: "a", Node: String()}}); err != nil {
		t.Errorf("Check(valid schema) error = %v, want nil", err)
	}
}

func TestSchemaErrorIsNotValidationError(t *testing.T) {
	_, err := Clean(List{String(), Number()})
	var verr *ValidationError
	if errors.As(err, &verr) {
		t.Error("schema construction mistakes must not surface as ValidationError")
	}
	var serr *SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want SchemaError", err)
	}
	if serr.Message != listArityMessage {
		t.Errorf("Message = %q", serr.Message)
	}
}

func TestValidationErrorString(t *testing.T) {
	clean := mustClean(t, Number())
	_, err := clean("abc")
	if got := err.Error(); got != "abc is not a validly formatted number" {
		t.Errorf("Error() = %q", got)
	}
}

func TestCoercedValueDoesNotRevalidate(t *testing.T) {
	clean := mustClean(t, Date())

	out, err := clean("2020-05-06")
	if err != nil {
		t.Fatalf("clean() error = %v", err)
	}

	// The date variant validates the string form only; feeding the
	// coerced time.Time back in fails. Coercion is one-way.
	if _, err := clean(out); err == nil {
		t.Error("clean(coerced value) = nil error, want failure")
	}
}

func TestCleanerIsSafeForConcurrentUse(t *testing.T) {
	clean := mustClean(t, Object{
		{Key: "n", Node: Number(WithMin(0))},
		{Key: "when", Node: Optional(Datetime())},
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				out, err := clean(map[string]any{"n": "7", "when": "2000-01-02T10:10:10Z"})
				if err != nil {
					t.Errorf("clean() error = %v", err)
					return
				}
				if out.(map[string]any)["n"] != int64(7) {
					t.Errorf("n = %v", out.(map[string]any)["n"])
					return
				}
			}
		}()
	}
	wg.Wait()
}
