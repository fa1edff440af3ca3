// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"net/http"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// promLogger routes scrape errors to logrus.
type promLogger struct{}

func (promLogger) Println(v ...interface{}) {
	logrus.Error(v...)
}

// MetricsServer exposes the simulation collectors for Prometheus scraping.
type MetricsServer struct {
	*listener
	registry *prometheus.Registry
	port     int
	endpoint string
}

func NewMetricsServer(port int, endpoint string) *MetricsServer {
	return &MetricsServer{port: port, endpoint: endpoint}
}

// Setup builds a private registry holding the runtime collectors and the
// simulation counters.
func (m *MetricsServer) Setup() error {
	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.MustRegister(m.registry)

	mux := http.NewServeMux()
	mux.Handle(m.endpoint, promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      promLogger{},
		ErrorHandling: promhttp.ContinueOnError,
	}))
	m.listener = newListener("metrics server", m.port, mux)
	return nil
}

func (m *MetricsServer) Start(_ context.Context) error {
	m.serve()
	return nil
}

func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.shutdown(ctx)
}

// Handler returns the scrape handler. Valid after Setup.
func (m *MetricsServer) Handler() http.Handler {
	return m.server.Handler
}
