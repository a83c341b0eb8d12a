// Package schemadef decodes schema definition documents into schema nodes.
//
// Definitions are YAML (or JSON, which YAML subsumes) describing a node tree:
//
//	type: object
//	fields:
//	  name: string
//	  age:
//	    type: number
//	    min: 0
//	  born:
//	    type: optional
//	    of: date
//
// Scalar types may be written as bare names (string, number, boolean, null,
// date, datetime) or as mappings carrying options. Containers and combinators
// are always mappings: object{fields}, list{of?}, tuple{of[]}, optional{of},
// any{of[]}, constant{value}, pattern{pattern}.
//
// Object field order follows the document, so validation failures report the
// first declared field deterministically. Conditions are Go code referenced
// by name; register them on the Decoder before decoding documents that use
// them:
//
//	dec := schemadef.NewDecoder()
//	dec.RegisterCondition("in_the_past", func(parsed any) error { ... })
//	node, err := dec.Decode(data)
//
// Decoding is one-way: nodes are built from text, never rendered back.
package schemadef
