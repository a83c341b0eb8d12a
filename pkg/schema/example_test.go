package schema_test

import (
	"errors"
	"fmt"

	"github.com/aretw0/sieve/pkg/schema"
)

func ExampleClean() {
	user := schema.Object{
		{Key: "name", Node: schema.String()},
		{Key: "age", Node: schema.Number(schema.WithMin(0))},
		{Key: "admin", Node: schema.Bool(schema.WithStrict(false))},
	}

	clean, err := schema.Clean(user)
	if err != nil {
		panic(err)
	}

	out, err := clean(map[string]any{
		"name":  "Ada",
		"age":   "36",
		"admin": "yes",
	})
	if err != nil {
		panic(err)
	}

	m := out.(map[string]any)
	fmt.Printf("%v %T\n", m["age"], m["age"])
	fmt.Printf("%v %T\n", m["admin"], m["admin"])
	// Output:
	// 36 int64
	// true bool
}

func ExampleClean_validationError() {
	clean, _ := schema.Clean(schema.Object{
		{Key: "age", Node: schema.Number(schema.WithMin(0))},
	})

	_, err := clean(map[string]any{"age": -1})

	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		fmt.Println(verr)
		fmt.Println(verr.Trace)
	}
	// Output:
	// -1 is less than the minimum: 0
	// Object(key:'age') --> Number
}

func ExampleAny() {
	mixed := schema.List{schema.Any(schema.Number(), schema.String())}

	clean, _ := schema.Clean(mixed)
	out, _ := clean([]any{"1", "one", 2.5})

	for _, v := range out.([]any) {
		fmt.Printf("%v %T\n", v, v)
	}
	// Output:
	// 1 int64
	// one string
	// 2.5 float64
}
