package transport

import (
	"context"
	"sync/atomic"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ServiceName is reported by the health service alongside the server-wide "" entry.
const ServiceName = "sensorledger.v1.Ledger"

// HealthHandler implements grpc_health_v1.HealthServer.
type HealthHandler struct {
	grpc_health_v1.UnimplementedHealthServer
	draining atomic.Bool
}

// NewHealthHandler returns a HealthHandler that reports SERVING until drained.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Drain makes every subsequent check report NOT_SERVING.
func (h *HealthHandler) Drain() {
	h.draining.Store(true)
}

// Check reports server health.
func (h *HealthHandler) Check(_ context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	if svc := req.GetService(); svc != "" && svc != ServiceName {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", svc)
	}
	if h.draining.Load() {
		return &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_NOT_SERVING}, nil
	}
	return &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_SERVING}, nil
}
