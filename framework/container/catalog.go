package container

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Constructor builds an instance from positionally resolved arguments.
type Constructor func(args []any) (any, error)

// Catalog maps class identifiers to constructors. Class identifiers are
// normalized the same way aliases are.
type Catalog struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{ctors: make(map[string]Constructor)}
}

// Add registers ctor under class, replacing any previous constructor.
//
//	catalog.Add("KitchenTable", container.Func(kitchen.NewTable))
func (c *Catalog) Add(class string, ctor Constructor) *Catalog {
	key := Normalize(class)
	if key == "" {
		panic("container: catalog class name is empty")
	}
	if ctor == nil {
		panic(fmt.Sprintf("container: nil constructor for class [%s]", class))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctors[key] = ctor
	return c
}

// Lookup returns the constructor registered for class.
func (c *Catalog) Lookup(class string) (Constructor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ctor, ok := c.ctors[Normalize(class)]
	return ctor, ok
}

// Classes returns the registered class keys, sorted.
func (c *Catalog) Classes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.ctors))
	for k := range c.ctors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ── Reflect adapter ───────────────────────────────────────────────────────────

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Func adapts a typed Go constructor to a Constructor. fn must be a function
// returning T or (T, error). Argument count and types are checked on every
// call; mismatches are returned as errors, the way calling a constructor
// with the wrong arguments would fail.
//
//	func NewKitchenTable(width, length, height int) *KitchenTable
//
//	catalog.Add("KitchenTable", container.Func(NewKitchenTable))
func Func(fn any) Constructor {
	val := reflect.ValueOf(fn)
	if val.Kind() != reflect.Func || val.IsNil() {
		panic(fmt.Sprintf("container: Func expects a function, got %T", fn))
	}
	typ := val.Type()
	if typ.NumOut() == 0 || typ.NumOut() > 2 {
		panic(fmt.Sprintf("container: constructor %s must return (T) or (T, error)", typ))
	}
	if typ.NumOut() == 2 && !typ.Out(1).Implements(errorType) {
		panic(fmt.Sprintf("container: second return value of %s must implement error", typ))
	}

	return func(args []any) (any, error) {
		in, err := callArgs(typ, args)
		if err != nil {
			return nil, err
		}
		out := val.Call(in)
		if len(out) == 2 && failed(out[1]) {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	}
}

// failed reports whether an error return value is set. Error types that
// cannot be nil count as set when they are not their zero value.
func failed(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !v.IsNil()
	}
	return !v.IsZero()
}

// callArgs converts args into reflect values matching the parameters of typ.
func callArgs(typ reflect.Type, args []any) ([]reflect.Value, error) {
	n := typ.NumIn()
	if typ.IsVariadic() {
		if len(args) < n-1 {
			return nil, errors.Errorf("%s expects at least %d arguments, got %d", typ, n-1, len(args))
		}
	} else if len(args) != n {
		return nil, errors.Errorf("%s expects %d arguments, got %d", typ, n, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var pt reflect.Type
		if typ.IsVariadic() && i >= n-1 {
			pt = typ.In(n - 1).Elem()
		} else {
			pt = typ.In(i)
		}
		v, err := argValue(arg, pt)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d", i)
		}
		in[i] = v
	}
	return in, nil
}

func argValue(arg any, pt reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch pt.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(pt), nil
		}
		return reflect.Value{}, errors.Errorf("cannot use nil as %s", pt)
	}
	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(pt) {
		return reflect.Value{}, errors.Errorf("cannot use %s as %s", v.Type(), pt)
	}
	return v, nil
}
