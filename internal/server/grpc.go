// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/common"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/store"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

const defaultHealthInterval = 10 * time.Second

// GRPCServer serves the standard health service, reporting the store's health
// for the overall server and for the named service.
type GRPCServer struct {
	server      *grpc.Server
	health      *health.Server
	checker     *store.HealthChecker
	port        int
	serviceName string
	interval    time.Duration
	cancel      context.CancelFunc
	done        chan struct{}
}

// NewGRPCServer creates a new gRPC server instance.
func NewGRPCServer(port int, serviceName string, checker *store.HealthChecker) *GRPCServer {
	return &GRPCServer{
		port:        port,
		serviceName: serviceName,
		checker:     checker,
		interval:    defaultHealthInterval,
	}
}

// Setup builds the server with panic recovery and call logging, then registers
// reflection and the health service. Every status starts NOT_SERVING until the
// first store check.
func (s *GRPCServer) Setup() error {
	logger := common.InterceptorLogger(logrus.WithField("component", "grpc"))
	logOpts := []logging.Option{logging.WithLogOnEvents(logging.FinishCall)}
	recoverOpts := []recovery.Option{recovery.WithRecoveryHandler(func(p any) error {
		logrus.Errorf("recovered from gRPC panic: %v", p)
		return status.Error(codes.Internal, "internal error")
	})}

	s.server = grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recoverOpts...),
			logging.UnaryServerInterceptor(logger, logOpts...),
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recoverOpts...),
			logging.StreamServerInterceptor(logger, logOpts...),
		),
	)

	s.health = health.NewServer()
	s.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	s.health.SetServingStatus(s.serviceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	grpc_health_v1.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)

	logrus.Infof("gRPC reflection and health check enabled")
	return nil
}

// Start begins listening and serving gRPC requests, and starts polling the
// store health.
func (s *GRPCServer) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.watchHealth(watchCtx)

	go func() {
		logrus.Infof("gRPC server listening on port %d", s.port)
		if err := s.server.Serve(lis); err != nil {
			logrus.Fatalf("gRPC server failed: %v", err)
		}
	}()

	return nil
}

// watchHealth mirrors the store's health into the health service until ctx ends.
func (s *GRPCServer) watchHealth(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.updateHealth(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *GRPCServer) updateHealth(ctx context.Context) {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if s.checker != nil {
		if err := s.checker.Check(ctx); err != nil {
			logrus.Warnf("store health check failed: %v", err)
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(s.serviceName, status)
}

// Shutdown gracefully stops the gRPC server.
func (s *GRPCServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down gRPC server...")
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	s.health.Shutdown()
	s.server.GracefulStop()
	logrus.Info("gRPC server stopped")
	return nil
}
