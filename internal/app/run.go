// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 15 * time.Second

type component interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

type namedComponent struct {
	name string
	component
}

// components lists the servers in start order.
func (a *App) components() []namedComponent {
	return []namedComponent{
		{"metrics server", a.metricsServer},
		{"gRPC health server", a.grpcServer},
		{"HTTP API", a.httpServer},
	}
}

// Run starts every server and blocks until SIGINT or SIGTERM.
func (a *App) Run(ctx context.Context) error {
	for _, c := range a.components() {
		if err := c.Start(ctx); err != nil {
			logrus.Errorf("failed to start %s: %v", c.name, err)
			_ = a.Shutdown(ctx)
			return err
		}
	}
	logrus.Infof("khetscore simulation started (store: %s)", a.cfg.StoreBackend)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logrus.Info("shutdown signal received")
	return a.Shutdown(ctx)
}

// Shutdown stops the servers in reverse start order, then closes the store and
// flushes telemetry. Every step runs even when an earlier one fails.
func (a *App) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	components := a.components()
	for i := len(components) - 1; i >= 0; i-- {
		c := components[i]
		if err := c.Shutdown(ctx); err != nil {
			logrus.Errorf("%s shutdown: %v", c.name, err)
		}
	}

	a.closeStore()

	if a.telemetry != nil {
		if err := a.telemetry.Shutdown(ctx); err != nil {
			logrus.Errorf("telemetry shutdown: %v", err)
		}
	}

	logrus.Info("shutdown complete")
	return nil
}
