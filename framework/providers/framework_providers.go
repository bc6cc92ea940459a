package providers

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/inspect"
	"github.com/km-arc/go-container/framework/logging"
)

// Class names registered in the catalog by the framework providers.
const (
	ConfigClass  = "framework/config"
	LoggerClass  = "framework/logger"
	InspectClass = "framework/inspect"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// binds it into the container.
//
// Bound aliases:
//   - "config"  → *config.Config (shared)
//
// When Config is set it is bound as-is and EnvFiles are ignored.
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
	Config   *config.Config
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	envFiles, loaded := p.EnvFiles, p.Config
	app.Type(ConfigClass, func([]any) (any, error) {
		if loaded != nil {
			return loaded, nil
		}
		return config.Load(envFiles...), nil
	})
	_, err := app.Register("config", container.Definition{Class: ConfigClass, Shared: true})
	return err
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider registers the structured logger.
//
// Bound aliases:
//   - "logger"  → *zap.Logger (shared, built from "config")
//
// When Logger is set it is bound as-is instead of being built.
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	if p.Logger != nil {
		log := p.Logger
		app.Type(LoggerClass, container.Func(func(*config.Config) *zap.Logger { return log }))
	} else {
		app.Type(LoggerClass, container.Func(logging.New))
	}
	_, err := app.Register("logger", container.Definition{
		Class:  LoggerClass,
		Args:   []container.Arg{container.Ref("config")},
		Shared: true,
	})
	return err
}

// Boot builds the logger so a bad LOG_LEVEL fails at boot rather than on
// first use.
func (p *LoggingServiceProvider) Boot(app *container.Container) error {
	log, err := container.Resolve[*zap.Logger](app, "logger")
	if err != nil {
		return errors.Wrap(err, "logger")
	}
	log.Debug("logger ready")
	return nil
}

// ── InspectServiceProvider ────────────────────────────────────────────────────

// InspectServiceProvider registers the diagnostics handler. It is deferred:
// the handler is only built when "inspect" is first resolved.
//
// Bound aliases:
//   - "inspect"  → *inspect.Handler (shared)
type InspectServiceProvider struct {
	container.BaseProvider
}

func (p *InspectServiceProvider) Register(app *container.Container) error {
	app.Type(InspectClass, container.Func(func(log *zap.Logger) *inspect.Handler {
		return inspect.New(app, log.Named("inspect"))
	}))
	_, err := app.Register("inspect", container.Definition{
		Class:  InspectClass,
		Args:   []container.Arg{container.Ref("logger")},
		Shared: true,
	})
	return err
}

func (p *InspectServiceProvider) IsDeferred() bool   { return true }
func (p *InspectServiceProvider) Provides() []string { return []string{"inspect"} }
