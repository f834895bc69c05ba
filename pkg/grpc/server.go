// Package grpc runs the gRPC side listener: the standard health service,
// reporting NOT_SERVING while the database is unreachable, plus
// reflection for grpcurl.
//
//	s := grpc.New()
//	if err := s.Start(":" + config.GRPCPort()); err != nil { ... }
//	go s.Watch(ctx, func(ctx context.Context) error { return database.Ping(ctx, db) }, 10*time.Second)
//	defer s.Stop()
package grpc

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/shashiranjanraj/bizadmin/pkg/logger"
	"github.com/shashiranjanraj/bizadmin/pkg/metrics"
)

// ServiceName is the health service name clients can query besides "".
const ServiceName = "bizadmin"

var (
	handledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bizadmin",
		Subsystem: "grpc",
		Name:      "handled_total",
		Help:      "gRPC calls completed by method and code.",
	}, []string{"method", "code"})

	handlingSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bizadmin",
		Subsystem: "grpc",
		Name:      "handling_seconds",
		Help:      "gRPC call latency in seconds.",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1},
	}, []string{"method"})
)

func init() {
	metrics.MustRegister(handledTotal, handlingSeconds)
}

func recoveryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("grpc: panic recovered", "method", info.FullMethod, "panic", r, "stack", string(debug.Stack()))
			err = status.Error(codes.Internal, "internal server error")
		}
	}()
	return handler(ctx, req)
}

func observeInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	code := status.Code(err)

	handledTotal.WithLabelValues(info.FullMethod, code.String()).Inc()
	handlingSeconds.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
	logger.Debug("grpc: request", "method", info.FullMethod, "code", code.String(), "took", time.Since(start))
	return resp, err
}

// Checker reports whether a dependency is reachable.
type Checker func(ctx context.Context) error

type Server struct {
	srv    *grpc.Server
	health *health.Server
	lis    net.Listener
}

func New() *Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(recoveryInterceptor, observeInterceptor),
		grpc.MaxRecvMsgSize(1<<20),
	)
	h := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, h)
	reflection.Register(srv)

	h.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	h.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	return &Server{srv: srv, health: h}
}

// Start listens on addr and serves in the background.
func (s *Server) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpc: listen on %s: %w", addr, err)
	}
	s.lis = lis
	logger.Info("grpc: listening", "addr", lis.Addr().String())

	go func() {
		if err := s.srv.Serve(lis); err != nil {
			logger.Error("grpc: serve", "error", err)
		}
	}()
	return nil
}

// Addr is the bound address; empty before Start.
func (s *Server) Addr() string {
	if s.lis == nil {
		return ""
	}
	return s.lis.Addr().String()
}

// Refresh runs check once and publishes the result.
func (s *Server) Refresh(ctx context.Context, check Checker) {
	st := grpc_health_v1.HealthCheckResponse_SERVING
	if err := check(ctx); err != nil {
		st = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		logger.Warn("grpc: health check failed", "error", err)
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// Watch refreshes the health status every interval until ctx is done.
func (s *Server) Watch(ctx context.Context, check Checker, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		cctx, cancel := context.WithTimeout(ctx, interval/2)
		s.Refresh(cctx, check)
		cancel()

		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// Stop marks every service NOT_SERVING and drains in-flight calls.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	s.health.Shutdown()
	s.srv.GracefulStop()
	logger.Info("grpc: stopped")
}
