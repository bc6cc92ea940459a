// Package kitchen is a small demo domain wired through the container: a
// kitchen table with mutable height and a kitchen that holds one.
package kitchen

import (
	"sync"

	"github.com/km-arc/go-container/framework/container"
)

// Catalog class names and container aliases registered by Provider.
const (
	TableClass   = "KitchenTable"
	KitchenClass = "Kitchen"

	TableAlias   = "KTable"
	KitchenAlias = "Kitchen"
)

// Table is a kitchen table. Height can be adjusted after construction.
type Table struct {
	mu     sync.RWMutex
	width  int
	length int
	height int
}

// NewTable builds a table with the given dimensions.
func NewTable(width, length, height int) *Table {
	return &Table{width: width, length: length, height: height}
}

func (t *Table) SetHeight(h int) {
	t.mu.Lock()
	t.height = h
	t.mu.Unlock()
}

// Dimensions returns {"w", "h", "l"}.
func (t *Table) Dimensions() map[string]int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return map[string]int{"w": t.width, "h": t.height, "l": t.length}
}

// Kitchen holds a table.
type Kitchen struct {
	table *Table
}

func NewKitchen(t *Table) *Kitchen { return &Kitchen{table: t} }

func (k *Kitchen) Table() *Table { return k.table }

// TableDimensions reports the dimensions of the kitchen's table.
func (k *Kitchen) TableDimensions() map[string]int { return k.table.Dimensions() }

// ── Provider ──────────────────────────────────────────────────────────────────

// Provider registers the kitchen classes and aliases.
//
// Bound aliases:
//   - "KTable"   → *Table   (shared, 120 x 200 x 80)
//   - "Kitchen"  → *Kitchen (shared, holds "KTable")
type Provider struct {
	container.BaseProvider
}

func (p *Provider) Register(app *container.Container) error {
	app.Type(TableClass, container.Func(NewTable)).
		Type(KitchenClass, container.Func(NewKitchen))

	if _, err := app.Set(TableAlias, map[string]any{
		container.KeyClass:           TableClass,
		container.KeyConstructorArgs: []any{120, 200, 80},
		container.KeyPublic:          true,
	}); err != nil {
		return err
	}
	_, err := app.Set(KitchenAlias, map[string]any{
		container.KeyClass:           KitchenClass,
		container.KeyConstructorArgs: []any{container.Ref(TableAlias)},
		container.KeyDependencies:    map[string]string{"table": TableAlias},
		container.KeyPublic:          true,
	})
	if err != nil {
		return err
	}
	app.Tag("furniture", TableAlias)
	return nil
}
