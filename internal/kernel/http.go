// Package kernel builds the HTTP handler: global middleware, /metrics and
// the application routes.
package kernel

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/estoque/app/routes"
	"github.com/shashiranjanraj/estoque/config"
	"github.com/shashiranjanraj/estoque/pkg/metrics"
	"github.com/shashiranjanraj/estoque/pkg/middleware"
	"github.com/shashiranjanraj/estoque/pkg/reqid"
	"github.com/shashiranjanraj/estoque/pkg/router"
)

type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel wires the middleware stack and registers every route.
func NewHTTPKernel(deps routes.Deps) (*HTTPKernel, error) {
	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics - outermost for accurate total latency
	//  2. Recovery          - catches panics before they kill the goroutine
	//  3. Request ID        - inject unique ID before anything logs
	//  4. Logger            - logs request_id from context
	//  5. CORS              - set CORS headers
	//  6. Rate limiter      - reject abusers early
	if err := middleware.SetTrustedProxies(config.TrustedProxies()); err != nil {
		return nil, err
	}

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	if limit := config.RateLimitPerMinute(); limit > 0 {
		r.Use(middleware.RateLimit(limit, time.Minute))
	}

	r.Handle("/metrics", "metrics", metrics.Handler())

	if err := routes.RegisterAPI(r, deps); err != nil {
		return nil, err
	}
	return &HTTPKernel{router: r}, nil
}

func (k *HTTPKernel) Handler() http.Handler {
	return k.router.Handler()
}

// Routes lists every registered route, for route:list.
func (k *HTTPKernel) Routes() []router.RouteInfo {
	return k.router.Routes()
}
