// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/handler"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/metrics"
	"github.com/sirupsen/logrus"
)

const readHeaderTimeout = 10 * time.Second

// listener runs an http.Server in the background under a display name.
type listener struct {
	name   string
	server *http.Server
}

func newListener(name string, port int, h http.Handler) *listener {
	return &listener{
		name: name,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           h,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

func (l *listener) serve() {
	go func() {
		logrus.Infof("%s listening on %s", l.name, l.server.Addr)
		if err := l.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("%s failed: %v", l.name, err)
		}
	}()
}

func (l *listener) shutdown(ctx context.Context) error {
	if err := l.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop %s: %w", l.name, err)
	}
	logrus.Infof("%s stopped", l.name)
	return nil
}

// HTTPServer serves the simulation API with request metrics.
type HTTPServer struct {
	*listener
	port int
	api  *handler.API
}

func NewHTTPServer(port int, api *handler.API) *HTTPServer {
	return &HTTPServer{port: port, api: api}
}

// Setup builds the router and wraps it with request instrumentation.
func (h *HTTPServer) Setup() error {
	if h.api == nil {
		return errors.New("HTTP server requires an API")
	}
	h.listener = newListener("HTTP API", h.port, metrics.InstrumentHandler(h.api.Routes()))
	return nil
}

func (h *HTTPServer) Start(_ context.Context) error {
	h.serve()
	return nil
}

func (h *HTTPServer) Shutdown(ctx context.Context) error {
	return h.shutdown(ctx)
}

// Handler returns the instrumented router. Valid after Setup.
func (h *HTTPServer) Handler() http.Handler {
	return h.server.Handler
}
