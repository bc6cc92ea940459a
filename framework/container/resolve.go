package container

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Resolver resolves aliases. *Container implements it; extenders receive
// one bound to the build that invoked them.
type Resolver interface {
	Get(alias string) (any, error)
}

// scope is the Resolver handed to extenders. Its Get carries the path of
// the build in progress, so a reference back into that path is a
// *CycleError rather than a re-entrant build.
type scope struct {
	c    *Container
	path []string
}

func (s *scope) Get(alias string) (any, error) {
	return s.c.resolve(Normalize(alias), s.path)
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get resolves alias into an instance.
//
// Shared aliases return the cached instance when one exists; otherwise every
// Ref argument is resolved first, in order, and the class constructor is
// called with the resulting argument list. Failures are returned as
// *NotFoundError, *InstantiationError or *CycleError and never leave an
// entry in the cache.
//
//	kitchen, err := c.Get("Kitchen")
func (c *Container) Get(alias string) (any, error) {
	key := Normalize(alias)

	b, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	if inst, ok := c.cached(key, b); ok {
		c.log.Debug("cache hit", zap.String("alias", key))
		return inst, nil
	}
	if err := c.checkCycles(key); err != nil {
		c.log.Warn("circular reference", zap.String("alias", key), zap.Error(err))
		return nil, err
	}
	return c.resolveBinding(key, b, nil)
}

// MustGet is like Get but panics on error.
func (c *Container) MustGet(alias string) any {
	inst, err := c.Get(alias)
	if err != nil {
		panic(err)
	}
	return inst
}

// resolve is the recursive step; path holds the aliases currently being
// built by this call chain.
func (c *Container) resolve(alias string, path []string) (any, error) {
	for _, p := range path {
		if p == alias {
			err := newCycleError(path, alias)
			c.log.Warn("circular reference", zap.String("alias", alias), zap.Error(err))
			return nil, err
		}
	}
	b, err := c.lookup(alias)
	if err != nil {
		return nil, err
	}
	return c.resolveBinding(alias, b, path)
}

func (c *Container) resolveBinding(alias string, b *binding, path []string) (any, error) {
	if !b.def.Shared {
		return c.build(alias, b, path)
	}
	if inst, ok := c.cached(alias, b); ok {
		return inst, nil
	}

	// Goroutines asking for the same shared definition wait for one build.
	// The flight key carries the binding so a caller holding a re-registered
	// definition never joins a build of the old one. The cache is checked
	// again inside the flight since an earlier flight may have finished
	// between the check above and Do.
	key := fmt.Sprintf("%s@%p", alias, b)
	inst, err, _ := c.flight.Do(key, func() (any, error) {
		if inst, ok := c.cached(alias, b); ok {
			return inst, nil
		}
		inst, err := c.build(alias, b, path)
		if err != nil {
			return nil, err
		}
		c.store(alias, b, inst)
		return inst, nil
	})
	return inst, err
}

// build resolves the argument list of b and calls its constructor.
func (c *Container) build(alias string, b *binding, path []string) (any, error) {
	path = append(path[:len(path):len(path)], alias)

	args := make([]any, len(b.def.Args))
	for i, a := range b.def.Args {
		if !a.IsRef() {
			args[i] = a.Value()
			continue
		}
		dep, err := c.resolve(a.Alias(), path)
		if err != nil {
			return nil, err
		}
		args[i] = dep
	}

	inst, err := b.ctor(args)
	if err != nil {
		return nil, &InstantiationError{Alias: alias, Class: b.def.Class, Err: err}
	}

	c.mu.RLock()
	exts := c.extenders[alias]
	c.mu.RUnlock()
	for _, ext := range exts {
		if inst, err = ext(inst, &scope{c: c, path: path}); err != nil {
			return nil, extendError(alias, b.def.Class, err)
		}
	}

	c.log.Debug("built",
		zap.String("alias", alias),
		zap.String("class", b.def.Class),
		zap.Bool("shared", b.def.Shared),
	)
	return inst, nil
}

// extendError wraps an extender failure. Cycles pass through unwrapped so
// the caller sees the chain.
func extendError(alias, class string, err error) error {
	var cycle *CycleError
	if errors.As(err, &cycle) {
		return cycle
	}
	return &InstantiationError{Alias: alias, Class: class, Err: err}
}

// lookup returns the binding for alias, consulting deferred loaders when it
// is not registered yet.
func (c *Container) lookup(alias string) (*binding, error) {
	c.mu.RLock()
	b, ok := c.definitions[alias]
	loaders := c.fallbacks
	c.mu.RUnlock()
	if ok {
		return b, nil
	}

	for _, load := range loaders {
		loaded, err := load(alias)
		if err != nil {
			return nil, err
		}
		if !loaded {
			continue
		}
		c.mu.RLock()
		b, ok = c.definitions[alias]
		c.mu.RUnlock()
		if ok {
			return b, nil
		}
	}
	return nil, &NotFoundError{Alias: alias}
}

// cached returns the shared instance built from b, if any.
func (c *Container) cached(alias string, b *binding) (any, bool) {
	if !b.def.Shared {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	inst, ok := c.instances[alias]
	return inst, ok
}

// store caches inst unless alias was re-registered while it was being built.
func (c *Container) store(alias string, b *binding, inst any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.definitions[alias] != b {
		return
	}
	c.instances[alias] = inst
}

// ── Cycle detection ───────────────────────────────────────────────────────────

type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

// checkCycles walks the Ref graph reachable from alias before anything is
// built. Shared aliases that are already cached are not walked since
// resolution will not descend into them either. With an acyclic graph, the
// per-alias build waits also cannot form a loop between goroutines.
func (c *Container) checkCycles(alias string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visit(alias, make(map[string]visitState), nil)
}

// visit must hold mu.RLock.
func (c *Container) visit(alias string, states map[string]visitState, stack []string) error {
	switch states[alias] {
	case visiting:
		return newCycleError(stack, alias)
	case visited:
		return nil
	}

	b, ok := c.definitions[alias]
	if !ok {
		// Unknown aliases surface as NotFoundError during resolution.
		states[alias] = visited
		return nil
	}
	if _, cached := c.instances[alias]; cached && b.def.Shared {
		states[alias] = visited
		return nil
	}

	states[alias] = visiting
	stack = append(stack, alias)
	for _, a := range b.def.Args {
		if !a.IsRef() {
			continue
		}
		if err := c.visit(a.Alias(), states, stack); err != nil {
			return err
		}
	}
	states[alias] = visited
	return nil
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve calls Get and type-asserts the result. r is usually the
// *Container, or the Resolver an extender receives.
//
//	table, err := container.Resolve[*kitchen.Table](c, "KTable")
func Resolve[T any](r Resolver, alias string) (T, error) {
	var zero T
	inst, err := r.Get(alias)
	if err != nil {
		return zero, err
	}
	typed, ok := inst.(T)
	if !ok {
		got := "<nil>"
		if inst != nil {
			got = reflect.TypeOf(inst).String()
		}
		return zero, &TypeError{
			Alias: Normalize(alias),
			Want:  reflect.TypeOf((*T)(nil)).Elem().String(),
			Got:   got,
		}
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](r Resolver, alias string) T {
	typed, err := Resolve[T](r, alias)
	if err != nil {
		panic(err)
	}
	return typed
}
