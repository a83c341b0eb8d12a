package schema

import (
	"fmt"
	"strings"
)

// TraceSep joins trace segments when a trace is rendered.
const TraceSep = " --> "

// Segment is one hop in a validation trace: the schema node being applied,
// an optional detail (object key, sequence index, constant literal), and,
// for combinators that delegate to other nodes, the traces those produced.
type Segment struct {
	Name   string
	Detail string
	Inner  []Trace
}

func (s Segment) String() string {
	if len(s.Inner) > 0 {
		parts := make([]string, len(s.Inner))
		for i, tr := range s.Inner {
			parts[i] = tr.String()
		}
		return s.Name + "(" + strings.Join(parts, ", ") + ")"
	}
	if s.Detail != "" {
		return s.Name + "(" + s.Detail + ")"
	}
	return s.Name
}

// Trace is the path of segments from the schema root to a failure site,
// outermost first. Traces stay structured until rendered so tooling can
// inspect individual segments.
type Trace []Segment

func (t Trace) String() string {
	parts := make([]string, len(t))
	for i, s := range t {
		parts[i] = s.String()
	}
	return strings.Join(parts, TraceSep)
}

func keySegment(key string) Segment {
	return Segment{Name: "Object", Detail: "key:'" + key + "'"}
}

func indexSegment(name string, index int) Segment {
	return Segment{Name: name, Detail: fmt.Sprintf("index:%d", index)}
}

// extend appends seg to prefix without sharing the backing array, so
// sibling branches of the walk never observe each other's segments.
func extend(prefix Trace, seg Segment) Trace {
	out := make(Trace, len(prefix)+1)
	copy(out, prefix)
	out[len(prefix)] = seg
	return out
}

// withPrefix prepends the walker's trace prefix to a validation failure
// bubbling up from a variant. Other error kinds pass through untouched.
func withPrefix(prefix Trace, err error) error {
	if err == nil || len(prefix) == 0 {
		return err
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		return err
	}
	merged := make(Trace, 0, len(prefix)+len(ve.Trace))
	merged = append(merged, prefix...)
	merged = append(merged, ve.Trace...)
	ve.Trace = merged
	return ve
}
