package container

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// binding pairs a stored definition with the constructor its class resolved
// to at registration time. A re-registration replaces the pointer, which is
// how in-flight builds of the old definition notice they are stale.
type binding struct {
	def  Definition
	ctor Constructor
}

// Extender decorates an instance after it has been constructed. r resolves
// other aliases within the same build, so a reference back to the alias
// being built returns *CycleError.
type Extender func(instance any, r Resolver) (any, error)

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for registration and resolution events.
func WithLogger(log *zap.Logger) Option {
	return func(c *Container) {
		if log != nil {
			c.log = log
		}
	}
}

// WithCatalog makes the container build classes from an existing catalog.
// Catalogs may be shared between containers.
func WithCatalog(cat *Catalog) Option {
	return func(c *Container) {
		if cat != nil {
			c.catalog = cat
		}
	}
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container stores service definitions keyed by alias and resolves them into
// instances on demand.
//
// It supports:
//   - Register / Set (declarative definitions, last write wins)
//   - Get / Resolve (recursive resolution of Ref arguments)
//   - Shared instances built at most once, even under contention
//   - Cycle detection (CycleError instead of unbounded recursion)
//   - Tags (group aliases under one name)
//   - Extend (decorate built instances)
type Container struct {
	id      string
	log     *zap.Logger
	catalog *Catalog

	mu sync.RWMutex

	// alias → binding
	definitions map[string]*binding

	// alias → built shared instance
	instances map[string]any

	// alias → extender funcs
	extenders map[string][]Extender

	// tag → []alias
	tags map[string][]string

	// consulted when an alias is missing (deferred providers)
	fallbacks []func(alias string) (bool, error)

	// one build per shared alias at a time
	flight singleflight.Group
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		id:          uuid.NewString(),
		log:         zap.NewNop(),
		catalog:     NewCatalog(),
		definitions: make(map[string]*binding),
		instances:   make(map[string]any),
		extenders:   make(map[string][]Extender),
		tags:        make(map[string][]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(zap.String("container", c.id))
	return c
}

// ID returns the container's unique identifier.
func (c *Container) ID() string { return c.id }

// Catalog returns the catalog classes are built from.
func (c *Container) Catalog() *Catalog { return c.catalog }

// Type adds a class to the container's catalog.
//
//	c.Type("KitchenTable", container.Func(NewKitchenTable))
func (c *Container) Type(class string, ctor Constructor) *Container {
	c.catalog.Add(class, ctor)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Register stores def under the normalized alias, replacing any earlier
// definition and dropping its cached instance. It returns c so several
// registrations can be checked in turn.
//
//	c.Register("KTable", container.Definition{
//	    Class:  "KitchenTable",
//	    Args:   []container.Arg{container.Literal(120), container.Literal(200), container.Literal(80)},
//	    Shared: true,
//	})
func (c *Container) Register(alias string, def Definition) (*Container, error) {
	key := Normalize(alias)
	if key == "" {
		return c, &ArgumentError{Field: "alias", Reason: "normalizes to an empty string"}
	}
	if def.Class == "" {
		return c, &ArgumentError{Field: KeyClass, Reason: "must be a non-empty string"}
	}
	ctor, ok := c.catalog.Lookup(def.Class)
	if !ok {
		return c, &ArgumentError{Field: KeyClass, Reason: "unknown class [" + def.Class + "]"}
	}
	for i, a := range def.Args {
		if a.IsRef() && a.Alias() == "" {
			return c, &ArgumentError{Field: KeyConstructorArgs, Reason: fmt.Sprintf("reference at position %d has an empty alias", i)}
		}
	}

	b := &binding{def: def.clone(), ctor: ctor}

	c.mu.Lock()
	_, replaced := c.definitions[key]
	c.definitions[key] = b
	delete(c.instances, key)
	c.mu.Unlock()

	c.log.Debug("registered",
		zap.String("alias", key),
		zap.String("class", def.Class),
		zap.Int("args", len(def.Args)),
		zap.Bool("shared", def.Shared),
		zap.Bool("replaced", replaced),
	)
	return c, nil
}

// Set validates a loosely typed definition shape and registers it.
// Recognized keys are "class" (string, required), "constructor_args"
// (list), "dependencies" (map) and "public" (bool).
//
//	c.Set("Kitchen", map[string]any{
//	    "class":            "Kitchen",
//	    "constructor_args": []any{container.Ref("KTable")},
//	    "public":           true,
//	})
func (c *Container) Set(alias string, shape map[string]any) (*Container, error) {
	def, err := ParseShape(shape)
	if err != nil {
		return c, err
	}
	return c.Register(alias, def)
}

// MustSet is like Set but panics on error, allowing chained registrations.
func (c *Container) MustSet(alias string, shape map[string]any) *Container {
	if _, err := c.Set(alias, shape); err != nil {
		panic(err)
	}
	return c
}

// ── Extend ────────────────────────────────────────────────────────────────────

// Extend decorates instances of an alias. Extenders run in registration
// order after construction and before caching.
//
// If a shared instance is already cached, fn is applied to it immediately
// and the result replaces it in the cache. References handed out before the
// call keep the undecorated instance, and a Get racing with Extend may still
// return it.
//
//	c.Extend("logger", func(instance any, r container.Resolver) (any, error) {
//	    return &TimestampLogger{Inner: instance.(*Logger)}, nil
//	})
func (c *Container) Extend(alias string, fn Extender) error {
	key := Normalize(alias)

	c.mu.Lock()
	c.extenders[key] = append(c.extenders[key], fn)
	inst, cached := c.instances[key]
	b := c.definitions[key]
	c.mu.Unlock()

	if !cached {
		return nil
	}

	extended, err := fn(inst, &scope{c: c, path: []string{key}})
	if err != nil {
		return extendError(key, b.def.Class, err)
	}
	c.mu.Lock()
	if c.definitions[key] == b {
		c.instances[key] = extended
	}
	c.mu.Unlock()
	return nil
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag associates aliases with a named group.
//
//	c.Tag("reports", "CpuReport", "MemoryReport")
func (c *Container) Tag(tag string, aliases ...string) *Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range aliases {
		c.tags[tag] = append(c.tags[tag], Normalize(a))
	}
	return c
}

// TagAliases returns the aliases grouped under tag, in tagging order.
func (c *Container) TagAliases(tag string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.tags[tag]...)
}

// Tagged resolves every alias under tag, stopping at the first error.
//
//	reports, err := c.Tagged("reports")
func (c *Container) Tagged(tag string) ([]any, error) {
	aliases := c.TagAliases(tag)
	out := make([]any, 0, len(aliases))
	for _, a := range aliases {
		inst, err := c.Get(a)
		if err != nil {
			return nil, errors.Wrapf(err, "tag %q", tag)
		}
		out = append(out, inst)
	}
	return out, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Has reports whether a definition is registered for alias. It does not
// build anything.
func (c *Container) Has(alias string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.definitions[Normalize(alias)]
	return ok
}

// Resolved reports whether a shared instance of alias has been built and
// cached. Transient aliases are never reported as resolved.
func (c *Container) Resolved(alias string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.instances[Normalize(alias)]
	return ok
}

// Definition returns a copy of the definition stored for alias.
func (c *Container) Definition(alias string) (Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.definitions[Normalize(alias)]
	if !ok {
		return Definition{}, false
	}
	return b.def.clone(), true
}

// Aliases returns every registered alias, sorted.
func (c *Container) Aliases() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.definitions))
	for k := range c.definitions {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// onMissing registers a loader consulted when an alias has no definition.
// A loader returns true once it has registered something worth retrying.
func (c *Container) onMissing(fn func(alias string) (bool, error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallbacks = append(c.fallbacks, fn)
}
