package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/km-arc/go-container/app/kitchen"
	"github.com/km-arc/go-container/framework/app"
	"github.com/km-arc/go-container/framework/container"
)

func main() {
	application, err := app.New() // loads .env automatically
	if err != nil {
		panic(err)
	}
	log := application.Logger()

	// ── Providers ────────────────────────────────────────────────────────────

	if err := application.Use(&kitchen.Provider{}); err != nil {
		log.Fatal("register kitchen provider", zap.Error(err))
	}
	if err := application.Boot(); err != nil {
		log.Fatal("boot", zap.Error(err))
	}

	// ── Shared instances see each other's mutations ─────────────────────────

	table := container.MustResolve[*kitchen.Table](application.Container, kitchen.TableAlias)
	table.SetHeight(110)

	k := container.MustResolve[*kitchen.Kitchen](application.Container, kitchen.KitchenAlias)
	dims := k.TableDimensions()
	log.Info("kitchen table",
		zap.Int("w", dims["w"]),
		zap.Int("h", dims["h"]),
		zap.Int("l", dims["l"]),
	)

	// ── Diagnostics server (INSPECT_ENABLED=true) ────────────────────────────

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		log.Fatal("run", zap.Error(err))
	}
}
