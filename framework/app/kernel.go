package app

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/inspect"
	"github.com/km-arc/go-container/framework/logging"
	"github.com/km-arc/go-container/framework/providers"
)

// Application is the top-level application container.
// It embeds the Container and ProviderRegistry so user code can call
// app.Register(), app.Get(), app.Tag() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// New loads configuration, builds the logger and registers the framework
// providers ("config", "logger" and the deferred "inspect").
func New(envFiles ...string) (*Application, error) {
	cfg := config.Load(envFiles...)
	log, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}

	c := container.New(container.WithLogger(log.Named("container")))
	registry := container.NewProviderRegistry(c)

	a := &Application{
		Container: c,
		Providers: registry,
	}

	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Logger: log},
		&providers.InspectServiceProvider{},
	} {
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Use adds a ServiceProvider to the application.
func (a *Application) Use(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, "config")
}

// Logger resolves *zap.Logger from the container.
func (a *Application) Logger() *zap.Logger {
	return container.MustResolve[*zap.Logger](a.Container, "logger")
}

// Run boots the application (if needed) and, when INSPECT_ENABLED is set,
// serves the diagnostics handler on INSPECT_ADDR until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}
	cfg := a.Config()
	log := a.Logger()
	defer func() { _ = log.Sync() }()

	if !cfg.Inspect.Enabled {
		log.Info("inspect server disabled")
		return nil
	}

	handler, err := container.Resolve[*inspect.Handler](a.Container, "inspect")
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Inspect.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("inspect server listening", zap.String("addr", cfg.Inspect.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "inspect server")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Inspect.ShutdownTimeout)
		defer cancel()
		log.Info("inspect server shutting down", zap.Duration("timeout", cfg.Inspect.ShutdownTimeout))
		return errors.Wrap(srv.Shutdown(shutdownCtx), "inspect server shutdown")
	}
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
func (a *Application) Version() string     { return "0.1.0" }
