package schema

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestOptionalShortCircuitsOnNull(t *testing.T) {
	typ := Optional(String())

	if err := typ.Validate(nil); err != nil {
		t.Errorf("Validate(nil) error = %v, want nil", err)
	}
	got, err := typ.ParsedValue(nil)
	if err != nil || got != nil {
		t.Errorf("ParsedValue(nil) = %v, %v, want nil, nil", got, err)
	}
}

func TestOptionalDelegates(t *testing.T) {
	typ := Optional(Number())

	got, err := typ.ParsedValue("42")
	if err != nil {
		t.Fatalf("ParsedValue(42) error = %v", err)
	}
	if got != int64(42) {
		t.Errorf("ParsedValue(42) = %v (%T), want int64(42)", got, got)
	}
}

func TestOptionalWrapsInnerTrace(t *testing.T) {
	typ := Optional(String())

	err := typ.Validate(42)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate(42) error = %v, want ValidationError", err)
	}
	if verr.Message != "is not a string" {
		t.Errorf("Message = %q, want the inner message", verr.Message)
	}
	if verr.Value != 42 {
		t.Errorf("Value = %v, want the inner value", verr.Value)
	}
	if got := verr.Trace.String(); got != "Optional(String)" {
		t.Errorf("Trace = %q, want %q", got, "Optional(String)")
	}
}

func TestAnyFirstMatchWins(t *testing.T) {
	// "42" satisfies both alternatives; the first one declared decides
	// the coercion.
	numFirst := Any(Number(), String())
	got, err := numFirst.ParsedValue("42")
	if err != nil {
		t.Fatalf("ParsedValue(42) error = %v", err)
	}
	if got != int64(42) {
		t.Errorf("ParsedValue(42) = %v (%T), want int64(42)", got, got)
	}

	strFirst := Any(String(), Number())
	got, err = strFirst.ParsedValue("42")
	if err != nil {
		t.Fatalf("ParsedValue(42) error = %v", err)
	}
	if got != "42" {
		t.Errorf("ParsedValue(42) = %v (%T), want \"42\"", got, got)
	}
}

func TestAnyValidateIsDeferredToParse(t *testing.T) {
	typ := Any(String(), Number())

	// The validate pass always passes; failures surface when parsing.
	if err := typ.Validate(struct{}{}); err != nil {
		t.Errorf("Validate error = %v, want nil", err)
	}
	if _, err := typ.ParsedValue(struct{}{}); err == nil {
		t.Error("ParsedValue = nil error, want failure")
	}
}

func TestAnyAggregatesAlternativeTraces(t *testing.T) {
	typ := Any(String(), Number())

	_, err := typ.ParsedValue(true)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("ParsedValue(true) error = %v, want ValidationError", err)
	}
	if verr.Message != "doesn't meet any allowed criterion" {
		t.Errorf("Message = %q", verr.Message)
	}
	if got := verr.Trace.String(); got != "Any(String, Number)" {
		t.Errorf("Trace = %q, want %q", got, "Any(String, Number)")
	}
	if verr.Value != true {
		t.Errorf("Value = %v, want true", verr.Value)
	}
}

func TestAnyAcceptsContainerAlternatives(t *testing.T) {
	typ := Any(String(), List{Null()})

	got, err := typ.ParsedValue([]any{nil, nil})
	if err != nil {
		t.Fatalf("ParsedValue error = %v", err)
	}
	seq, ok := got.([]any)
	if !ok || len(seq) != 2 {
		t.Fatalf("ParsedValue = %v, want a two-element sequence", got)
	}
}

func TestConstant(t *testing.T) {
	typ := Constant("FOO")
	if typ.Name() != "Constant" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "Constant")
	}

	if err := typ.Validate("FOO"); err != nil {
		t.Errorf("Validate(FOO) error = %v, want nil", err)
	}

	err := typ.Validate("BAR")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate(BAR) error = %v, want ValidationError", err)
	}
	if verr.Message != "is not equals to 'FOO'" {
		t.Errorf("Message = %q, want %q", verr.Message, "is not equals to 'FOO'")
	}
	if got := verr.Trace.String(); got != "Constant('FOO')" {
		t.Errorf("Trace = %q, want %q", got, "Constant('FOO')")
	}

	got, err := typ.ParsedValue("FOO")
	if err != nil || got != "FOO" {
		t.Errorf("ParsedValue(FOO) = %v, %v, want identity", got, err)
	}
}

func TestConstantNumericLeniency(t *testing.T) {
	typ := Constant(3)

	for _, v := range []any{3, int64(3), 3.0, json.Number("3")} {
		if err := typ.Validate(v); err != nil {
			t.Errorf("Validate(%v (%T)) error = %v, want nil", v, v, err)
		}
	}
	if err := typ.Validate(4); err == nil {
		t.Error("Validate(4) = nil, want error")
	}
	if err := typ.Validate("3"); err == nil {
		t.Error("Validate(\"3\") = nil, want error (text is not numeric)")
	}
	if err := typ.Validate(true); err == nil {
		t.Error("Validate(true) = nil, want error (booleans are not numeric)")
	}
}

func TestConstantDeepEquality(t *testing.T) {
	typ := Constant(map[string]any{"a": []any{"b"}})

	if err := typ.Validate(map[string]any{"a": []any{"b"}}); err != nil {
		t.Errorf("Validate(equal map) error = %v, want nil", err)
	}
	if err := typ.Validate(map[string]any{"a": []any{"c"}}); err == nil {
		t.Error("Validate(different map) = nil, want error")
	}
}
