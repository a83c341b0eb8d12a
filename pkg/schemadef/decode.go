package schemadef

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/sieve/pkg/schema"
)

// scalarOptions is the shared option vocabulary of scalar type mappings.
// Each type recognizes only its own subset (scalarKeys); anything else is a
// decoding error, whether the key is a typo or belongs to a different type.
type scalarOptions struct {
	Type      string   `mapstructure:"type"`
	Strict    *bool    `mapstructure:"strict"`
	Min       *float64 `mapstructure:"min"`
	Max       *float64 `mapstructure:"max"`
	Pattern   string   `mapstructure:"pattern"`
	Condition string   `mapstructure:"condition"`
}

// scalarKeys lists the option keys each scalar type recognizes, mirroring
// the construction API: bounds are numeric-only, strictness covers
// string/number/boolean, pattern belongs to the pattern type alone, and
// null takes no options at all.
var scalarKeys = map[string][]string{
	"string":   {"strict", "condition"},
	"number":   {"strict", "min", "max", "condition"},
	"boolean":  {"strict", "condition"},
	"null":     {},
	"date":     {"condition"},
	"datetime": {"condition"},
	"pattern":  {"pattern", "condition"},
}

// Decode parses a schema definition document into a node tree. The returned
// node is not yet structurally verified; run it through schema.Check or
// schema.Clean before use.
func (d *Decoder) Decode(data []byte) (schema.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing schema definition: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("schema definition is empty")
	}
	return d.node(doc.Content[0])
}

func (d *Decoder) node(n *yaml.Node) (schema.Node, error) {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.ScalarNode:
		return d.shorthand(n)
	case yaml.MappingNode:
		return d.mapping(n)
	}
	return nil, fmt.Errorf("line %d: a schema node must be a type name or a mapping", n.Line)
}

// shorthand resolves a bare scalar type name.
func (d *Decoder) shorthand(n *yaml.Node) (schema.Node, error) {
	if n.Tag == "!!null" {
		return schema.Null(), nil
	}
	var name string
	if err := n.Decode(&name); err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	switch name {
	case "string":
		return schema.String(), nil
	case "number":
		return schema.Number(), nil
	case "boolean":
		return schema.Bool(), nil
	case "null":
		return schema.Null(), nil
	case "date":
		return schema.Date(), nil
	case "datetime":
		return schema.Datetime(), nil
	}
	return nil, fmt.Errorf("line %d: unknown type %q", n.Line, name)
}

func (d *Decoder) mapping(n *yaml.Node) (schema.Node, error) {
	typeNode, err := mappingKey(n, "type")
	if err != nil {
		return nil, err
	}
	if typeNode == nil {
		return nil, fmt.Errorf("line %d: schema node is missing %q", n.Line, "type")
	}
	var name string
	if err := typeNode.Decode(&name); err != nil {
		return nil, fmt.Errorf("line %d: %w", typeNode.Line, err)
	}

	switch name {
	case "object":
		return d.object(n)
	case "list":
		return d.list(n)
	case "tuple":
		return d.tuple(n)
	case "optional":
		return d.optional(n)
	case "any":
		return d.anyOf(n)
	case "constant":
		return d.constant(n)
	case "string", "number", "boolean", "null", "date", "datetime", "pattern":
		return d.scalar(n, name)
	}
	return nil, fmt.Errorf("line %d: unknown type %q", n.Line, name)
}

func (d *Decoder) scalar(n *yaml.Node, name string) (schema.Node, error) {
	var o scalarOptions
	if err := decodeOptions(n, &o); err != nil {
		return nil, err
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		var key string
		if err := n.Content[i].Decode(&key); err != nil {
			continue
		}
		if key == "type" || slices.Contains(scalarKeys[name], key) {
			continue
		}
		return nil, fmt.Errorf("line %d: %s schema does not recognize option %q", n.Content[i].Line, name, key)
	}

	var opts []schema.Option
	if o.Strict != nil {
		opts = append(opts, schema.WithStrict(*o.Strict))
	}
	if o.Min != nil {
		opts = append(opts, schema.WithMin(*o.Min))
	}
	if o.Max != nil {
		opts = append(opts, schema.WithMax(*o.Max))
	}
	if o.Condition != "" {
		cond, ok := d.Condition(o.Condition)
		if !ok {
			return nil, fmt.Errorf("line %d: condition %q is not registered", n.Line, o.Condition)
		}
		opts = append(opts, schema.WithCondition(cond))
	}

	switch name {
	case "string":
		return schema.String(opts...), nil
	case "number":
		return schema.Number(opts...), nil
	case "boolean":
		return schema.Bool(opts...), nil
	case "null":
		return schema.Null(), nil
	case "date":
		return schema.Date(opts...), nil
	case "datetime":
		return schema.Datetime(opts...), nil
	}
	// pattern
	if o.Pattern == "" {
		return nil, fmt.Errorf("line %d: pattern schema requires %q", n.Line, "pattern")
	}
	return schema.Pattern(o.Pattern, opts...), nil
}

func (d *Decoder) object(n *yaml.Node) (schema.Node, error) {
	var o struct {
		Type   string         `mapstructure:"type"`
		Fields map[string]any `mapstructure:"fields"`
	}
	if err := decodeOptions(n, &o); err != nil {
		return nil, err
	}

	fieldsNode, err := mappingKey(n, "fields")
	if err != nil {
		return nil, err
	}
	if fieldsNode == nil {
		return nil, fmt.Errorf("line %d: object schema requires %q", n.Line, "fields")
	}
	fieldsNode = resolveAlias(fieldsNode)
	if fieldsNode.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: %q must be a mapping", fieldsNode.Line, "fields")
	}

	// Walk the raw mapping pairs so field order follows the document.
	obj := make(schema.Object, 0, len(fieldsNode.Content)/2)
	for i := 0; i+1 < len(fieldsNode.Content); i += 2 {
		keyNode := fieldsNode.Content[i]
		var key string
		if err := keyNode.Decode(&key); err != nil {
			return nil, fmt.Errorf("line %d: %w", keyNode.Line, err)
		}
		child, err := d.node(fieldsNode.Content[i+1])
		if err != nil {
			return nil, err
		}
		obj = append(obj, schema.Field{Key: key, Node: child})
	}
	return obj, nil
}

func (d *Decoder) list(n *yaml.Node) (schema.Node, error) {
	var o struct {
		Type string `mapstructure:"type"`
		Of   any    `mapstructure:"of"`
	}
	if err := decodeOptions(n, &o); err != nil {
		return nil, err
	}

	ofNode, err := mappingKey(n, "of")
	if err != nil {
		return nil, err
	}
	// Omitting "of" (or setting it null) leaves the element type open.
	if ofNode == nil || resolveAlias(ofNode).Tag == "!!null" {
		return schema.List{}, nil
	}
	elem, err := d.node(ofNode)
	if err != nil {
		return nil, err
	}
	return schema.List{elem}, nil
}

func (d *Decoder) tuple(n *yaml.Node) (schema.Node, error) {
	var o struct {
		Type string `mapstructure:"type"`
		Of   []any  `mapstructure:"of"`
	}
	if err := decodeOptions(n, &o); err != nil {
		return nil, err
	}

	ofNode, err := sequenceKey(n, "of")
	if err != nil {
		return nil, err
	}
	tup := make(schema.Tuple, 0, len(ofNode.Content))
	for _, elemNode := range ofNode.Content {
		elem, err := d.node(elemNode)
		if err != nil {
			return nil, err
		}
		tup = append(tup, elem)
	}
	return tup, nil
}

func (d *Decoder) optional(n *yaml.Node) (schema.Node, error) {
	var o struct {
		Type string `mapstructure:"type"`
		Of   any    `mapstructure:"of"`
	}
	if err := decodeOptions(n, &o); err != nil {
		return nil, err
	}

	ofNode, err := mappingKey(n, "of")
	if err != nil {
		return nil, err
	}
	if ofNode == nil {
		return nil, fmt.Errorf("line %d: optional schema requires %q", n.Line, "of")
	}
	wrapped, err := d.node(ofNode)
	if err != nil {
		return nil, err
	}
	return schema.Optional(wrapped), nil
}

func (d *Decoder) anyOf(n *yaml.Node) (schema.Node, error) {
	var o struct {
		Type string `mapstructure:"type"`
		Of   []any  `mapstructure:"of"`
	}
	if err := decodeOptions(n, &o); err != nil {
		return nil, err
	}

	ofNode, err := sequenceKey(n, "of")
	if err != nil {
		return nil, err
	}
	if len(ofNode.Content) == 0 {
		return nil, fmt.Errorf("line %d: any schema requires at least one alternative", n.Line)
	}
	alts := make([]schema.Node, 0, len(ofNode.Content))
	for _, altNode := range ofNode.Content {
		alt, err := d.node(altNode)
		if err != nil {
			return nil, err
		}
		alts = append(alts, alt)
	}
	return schema.Any(alts[0], alts[1:]...), nil
}

func (d *Decoder) constant(n *yaml.Node) (schema.Node, error) {
	var o struct {
		Type  string `mapstructure:"type"`
		Value any    `mapstructure:"value"`
	}
	if err := decodeOptions(n, &o); err != nil {
		return nil, err
	}

	valueNode, err := mappingKey(n, "value")
	if err != nil {
		return nil, err
	}
	if valueNode == nil {
		return nil, fmt.Errorf("line %d: constant schema requires %q", n.Line, "value")
	}
	return schema.Constant(o.Value), nil
}

// decodeOptions decodes a mapping node's scalar entries into out, failing on
// keys out does not declare so typos surface instead of silently dropping.
func decodeOptions(n *yaml.Node, out any) error {
	var raw map[string]any
	if err := n.Decode(&raw); err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	return nil
}

// mappingKey finds the value node for key in a mapping, or nil.
func mappingKey(n *yaml.Node, key string) (*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		var k string
		if err := n.Content[i].Decode(&k); err != nil {
			continue
		}
		if k == key {
			return n.Content[i+1], nil
		}
	}
	return nil, nil
}

// sequenceKey finds the value node for key and requires it to be a sequence.
func sequenceKey(n *yaml.Node, key string) (*yaml.Node, error) {
	valNode, err := mappingKey(n, key)
	if err != nil {
		return nil, err
	}
	if valNode == nil {
		return nil, fmt.Errorf("line %d: schema node requires %q", n.Line, key)
	}
	valNode = resolveAlias(valNode)
	if valNode.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: %q must be a sequence", valNode.Line, key)
	}
	return valNode, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}
