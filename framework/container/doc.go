// Package container provides a declarative dependency injection container.
//
// # Overview
//
// Services are described by definitions: a class from the container's
// catalog, a positional argument list and a shared flag. Definitions are
// stored under normalized aliases and resolved lazily, on the first request.
// Arguments that are references to other aliases are resolved first,
// recursively, and the results are passed to the class constructor in order.
//
// Go has no constructor lookup by class name, so classes are registered
// explicitly in a Catalog, usually by adapting a typed constructor with Func.
//
// # Aliases
//
// Aliases are case-insensitive and ignore "/" and "\" as well as surrounding
// whitespace: "\App/Kitchen", "app/kitchen" and "AppKitchen" are one entry.
//
// # Classes
//
//	c := container.New()
//	c.Type("KitchenTable", container.Func(NewKitchenTable))
//	c.Type("Kitchen", container.Func(NewKitchen))
//
// # Definitions
//
//	// Typed
//	c.Register("KTable", container.Definition{
//	    Class:  "KitchenTable",
//	    Args:   []container.Arg{container.Literal(120), container.Literal(200), container.Literal(80)},
//	    Shared: true,
//	})
//
//	// Loosely typed shape, validated field by field
//	c.Set("Kitchen", map[string]any{
//	    "class":            "Kitchen",
//	    "constructor_args": []any{container.Ref("KTable")},
//	    "public":           true,
//	})
//
// Registering an alias again replaces its definition and drops its cached
// instance.
//
// # Resolving
//
//	raw, err := c.Get("Kitchen")
//
//	// Generic
//	kitchen, err := container.Resolve[*Kitchen](c, "Kitchen")
//
// Shared aliases are built once per container and the same instance is
// returned on every later lookup; transient aliases are built on every
// lookup. Concurrent lookups of a shared alias wait for a single build.
//
// # Errors
//
// Registration reports *ArgumentError. Resolution reports *NotFoundError for
// unknown aliases, *CycleError when an alias refers back to itself through
// its arguments, and *InstantiationError when a constructor or extender
// fails. Each matches its sentinel with errors.Is (ErrArgument, ErrNotFound,
// ErrCycle, ErrInstantiation).
//
// # Tags and extenders
//
//	c.Tag("furniture", "KTable", "Chair")
//	items, err := c.Tagged("furniture")
//
//	c.Extend("KTable", func(instance any, r container.Resolver) (any, error) {
//	    return &LoggedTable{Inner: instance.(*KitchenTable)}, nil
//	})
//
// # Service Providers
//
//	registry := container.NewProviderRegistry(c)
//	if err := registry.Register(&KitchenProvider{}); err != nil { ... }
//	if err := registry.Boot(); err != nil { ... }
//
// Deferred providers list their aliases in Provides and are registered the
// first time one of those aliases is resolved.
package container
