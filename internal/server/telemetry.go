// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/common"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// TelemetryConfig names the service in exported spans.
type TelemetryConfig struct {
	ServiceName    string
	Environment    string
	InstanceID     int64
	ZipkinEndpoint string
}

// Telemetry owns the process-wide tracer provider.
type Telemetry struct {
	provider *sdktrace.TracerProvider
}

// SetupTelemetry installs a global tracer provider and accepts B3 as well as
// W3C trace headers. Without a Zipkin endpoint spans are sampled but not exported.
func SetupTelemetry(cfg TelemetryConfig) (*Telemetry, error) {
	provider, err := common.NewTracerProvider(cfg.ServiceName, cfg.Environment, cfg.InstanceID, cfg.ZipkinEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer provider: %w", err)
	}

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagator())

	if cfg.ZipkinEndpoint == "" {
		logrus.Warnf("tracing enabled for %s without a zipkin endpoint", cfg.ServiceName)
	} else {
		logrus.Infof("exporting %s spans to %s", cfg.ServiceName, cfg.ZipkinEndpoint)
	}
	return &Telemetry{provider: provider}, nil
}

func propagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		b3.New(b3.WithInjectEncoding(b3.B3MultipleHeader)),
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// Shutdown flushes pending spans.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if err := t.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to flush spans: %w", err)
	}
	logrus.Info("telemetry stopped")
	return nil
}
