package container

import (
	"sync"

	"github.com/pkg/errors"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related catalog classes and definitions.
//
// Register is called when the provider is added (or, for deferred providers,
// when one of its aliases is first resolved). Boot is called after every
// eager provider has been registered, so it may resolve other aliases.
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    app.Type("Logger", container.Func(logging.NewLogger))
//	    _, err := app.Register("logger", container.Definition{Class: "Logger", Shared: true})
//	    return err
//	}
type ServiceProvider interface {
	// Register adds classes and definitions to the container.
	// Do NOT resolve other aliases here; use Boot for that.
	Register(app *Container) error

	// Boot is called after all eager providers are registered.
	Boot(app *Container) error

	// Provides lists the aliases a deferred provider registers.
	Provides() []string

	// IsDeferred reports whether Register waits until one of Provides()
	// is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Boot, Provides and
// IsDeferred. Embed it and only override what you need.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// deferredLoad registers a deferred provider at most once, even when several
// goroutines resolve its aliases together.
type deferredLoad struct {
	provider ServiceProvider
	once     sync.Once
	err      error
}

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred ones.
type ProviderRegistry struct {
	app *Container

	mu         sync.Mutex
	eager      []ServiceProvider
	deferred   map[string]*deferredLoad // alias → pending load
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to app. Deferred providers
// are loaded from app's resolver when one of their aliases is missing.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	r := &ProviderRegistry{
		app:        app,
		deferred:   make(map[string]*deferredLoad),
		registered: make(map[ServiceProvider]bool),
	}
	app.onMissing(r.loadDeferred)
	return r
}

// Register adds a provider. Eager providers are registered immediately, and
// booted as well if the registry has already booted. Adding the same
// provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		load := &deferredLoad{provider: provider}
		for _, alias := range provider.Provides() {
			r.deferred[Normalize(alias)] = load
		}
		r.mu.Unlock()
		return nil
	}
	booted := r.booted
	r.mu.Unlock()

	if err := provider.Register(r.app); err != nil {
		return errors.Wrapf(err, "registering provider %T", provider)
	}

	r.mu.Lock()
	r.eager = append(r.eager, provider)
	r.mu.Unlock()

	if booted {
		if err := provider.Boot(r.app); err != nil {
			return errors.Wrapf(err, "booting provider %T", provider)
		}
	}
	return nil
}

// loadDeferred registers the deferred provider for alias, if any.
func (r *ProviderRegistry) loadDeferred(alias string) (bool, error) {
	r.mu.Lock()
	load, ok := r.deferred[alias]
	r.mu.Unlock()
	if !ok {
		return false, nil
	}

	load.once.Do(func() {
		if err := load.provider.Register(r.app); err != nil {
			load.err = errors.Wrapf(err, "registering deferred provider %T", load.provider)
			return
		}

		r.mu.Lock()
		r.eager = append(r.eager, load.provider)
		booted := r.booted
		r.mu.Unlock()

		if booted {
			if err := load.provider.Boot(r.app); err != nil {
				load.err = errors.Wrapf(err, "booting deferred provider %T", load.provider)
			}
		}
	})
	if load.err != nil {
		return false, load.err
	}
	return true, nil
}

// Boot calls Boot on every registered provider, in registration order.
// Deferred providers that have not been loaded yet are booted when they load.
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	providers := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	for _, provider := range providers {
		if err := provider.Boot(r.app); err != nil {
			return errors.Wrapf(err, "booting provider %T", provider)
		}
	}
	return nil
}

// Booted returns true if Boot has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the providers registered so far, deferred ones included
// once they have loaded.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}
