/*
Package sieve validates and coerces loosely-typed data against named schemas.

It wraps the schema engine (pkg/schema) and the definition decoder
(pkg/schemadef) behind a service that resolves schemas by name from a
pluggable source: a Loam repository of Markdown documents by default, or any
ports.Source implementation (Redis, in-memory, your own).

# Concept

Data arriving from forms, CSV exports, YAML files or LLM output is stringly
typed: numbers come quoted, booleans come as "yes" and "no", dates come as
text. Sieve cleans such values in one pass per schema: it validates the shape,
coerces every scalar to its proper Go type, and reports failures with a trace
that names the exact path that was rejected.

# Key Features

  - Single-pass cleaning: validation and coercion in one call.
  - Traced failures: errors carry the path through objects, lists and tuples.
  - Pluggable storage: schema documents live in Loam, Redis, or memory.
  - Custom conditions: register domain predicates by name and reference them
    from definitions.

# Usage

Point New at a directory of schema documents, then clean values against them.

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/sieve"
	)

	func main() {
		svc, err := sieve.New("./schemas")
		if err != nil {
			log.Fatal(err)
		}

		out, err := svc.Clean(context.Background(), "signup", map[string]any{
			"name": "Ada",
			"age":  "36",
		})
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(out) // age is now int64(36)
	}

To build schemas in code instead of documents, use pkg/schema directly.
*/
package sieve
