package container_test

import (
	"sync/atomic"
	"testing"

	"github.com/km-arc/go-container/framework/container"
	"github.com/stretchr/testify/require"
)

// Shared test types and constructors used across test files.

type kitchenTable struct {
	width, length, height int
}

func newKitchenTable(width, length, height int) *kitchenTable {
	return &kitchenTable{width: width, length: length, height: height}
}

func (t *kitchenTable) SetHeight(h int) *kitchenTable {
	t.height = h
	return t
}

func (t *kitchenTable) Dimensions() map[string]int {
	return map[string]int{"w": t.width, "h": t.height, "l": t.length}
}

type kitchen struct {
	table *kitchenTable
}

func newKitchen(t *kitchenTable) *kitchen { return &kitchen{table: t} }

func (k *kitchen) TableDimensions() map[string]int { return k.table.Dimensions() }

// node is a generic vertex used to build reference graphs.
type node struct {
	name string
	deps []any
}

func newNode(name string, deps ...any) *node { return &node{name: name, deps: deps} }

// newTestContainer returns a container whose catalog knows the kitchen
// classes and "Node".
func newTestContainer(t *testing.T) *container.Container {
	t.Helper()
	c := container.New()
	c.Type("KitchenTable", container.Func(newKitchenTable)).
		Type("Kitchen", container.Func(newKitchen)).
		Type("Node", container.Func(newNode))
	return c
}

// mustRegister calls t.Fatal if registration fails.
func mustRegister(t *testing.T, c *container.Container, alias string, def container.Definition) {
	t.Helper()
	_, err := c.Register(alias, def)
	require.NoError(t, err, "Register(%q)", alias)
}

// registerKitchen registers KTable [120, 200, 80] and Kitchen [ref(KTable)],
// both shared.
func registerKitchen(t *testing.T, c *container.Container) {
	t.Helper()
	mustRegister(t, c, "Kitchen", container.Definition{
		Class:  "Kitchen",
		Args:   []container.Arg{container.Ref("KTable")},
		Shared: true,
	})
	mustRegister(t, c, "KTable", container.Definition{
		Class:  "KitchenTable",
		Args:   []container.Arg{container.Literal(120), container.Literal(200), container.Literal(80)},
		Shared: true,
	})
}

// countingClass registers class in c with a constructor that counts calls.
func countingClass(c *container.Container, class string) *atomic.Int64 {
	var calls atomic.Int64
	c.Type(class, func(args []any) (any, error) {
		calls.Add(1)
		return &node{name: class}, nil
	})
	return &calls
}
