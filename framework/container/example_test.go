package container_test

import (
	"errors"
	"fmt"

	"github.com/km-arc/go-container/framework/container"
)

func Example() {
	c := container.New()
	c.Type("KitchenTable", container.Func(newKitchenTable)).
		Type("Kitchen", container.Func(newKitchen))

	c.MustSet("Kitchen", map[string]any{
		"class":            "Kitchen",
		"constructor_args": []any{container.Ref("KTable")},
		"public":           true,
	}).MustSet("KTable", map[string]any{
		"class":            "KitchenTable",
		"constructor_args": []any{120, 200, 80},
		"public":           true,
	})

	table := container.MustResolve[*kitchenTable](c, "KTable")
	table.SetHeight(110)

	k := container.MustResolve[*kitchen](c, "Kitchen")
	fmt.Println(k.TableDimensions())
	// Output: map[h:110 l:200 w:120]
}

func ExampleCycleError() {
	c := container.New()
	c.Type("Node", container.Func(newNode))
	c.MustSet("A", map[string]any{"class": "Node", "constructor_args": []any{"a", container.Ref("B")}})
	c.MustSet("B", map[string]any{"class": "Node", "constructor_args": []any{"b", container.Ref("A")}})

	_, err := c.Get("A")
	fmt.Println(errors.Is(err, container.ErrCycle))
	fmt.Println(err)
	// Output:
	// true
	// container: circular reference: a -> b -> a
}
