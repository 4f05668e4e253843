package transport

import (
	"fmt"
	"net/http"
	"time"

	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// RouterConfig tunes the HTTP surface.
type RouterConfig struct {
	// UploadRPS caps accepted upload requests per second; zero means unlimited.
	UploadRPS int
	// MaxBodyBytes bounds how much of an upload body is read.
	MaxBodyBytes int64
	// Heartbeat is the SSE keep-alive period.
	Heartbeat time.Duration
	// Closing, once closed, ends every open event stream.
	Closing <-chan struct{}
}

// NewRouter builds the HTTP handler. API routes and /healthz live on the
// grpc-gateway mux; the landing page sits on the exact root path.
func NewRouter(
	ingest Ingestor,
	query BlockQuerier,
	health grpc_health_v1.HealthClient,
	cfg RouterConfig,
	logger *zap.Logger,
) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	h, err := NewBlockHandler(ingest, query, cfg, logger.Named("http"))
	if err != nil {
		return nil, err
	}

	// Form-encoded POSTs must reach Upload untouched.
	gwOpts := []gwruntime.ServeMuxOption{gwruntime.WithDisablePathLengthFallback()}
	if health != nil {
		gwOpts = append(gwOpts, gwruntime.WithHealthzEndpoint(health))
	}
	gw := gwruntime.NewServeMux(gwOpts...)

	routes := []struct {
		method  string
		pattern string
		handler gwruntime.HandlerFunc
	}{
		{http.MethodGet, "/upload_block", h.UploadPage},
		{http.MethodPost, "/upload_block", h.Upload},
		{http.MethodGet, "/blocks", h.List},
		{http.MethodGet, "/blocks/count", h.Count},
		{http.MethodGet, "/blocks/stream", h.Stream},
	}
	for _, rt := range routes {
		if err := gw.HandlePath(rt.method, rt.pattern, rt.handler); err != nil {
			return nil, fmt.Errorf("register %s %s: %w", rt.method, rt.pattern, err)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Status)
	mux.Handle("/", gw)

	return withRecovery(logger, withAccessLog(logger, mux)), nil
}
