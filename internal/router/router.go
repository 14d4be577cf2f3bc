package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hiloazul/tailor-api/internal/handler"
	"github.com/hiloazul/tailor-api/internal/middleware"
	"github.com/hiloazul/tailor-api/pkg/auth"
	"github.com/hiloazul/tailor-api/pkg/metrics"
)

// Handler is anything that can mount its routes on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	CORS           middleware.CORSConfig
	Timeout        time.Duration
}

type Router struct {
	engine  *gin.Engine
	jwtSvc  auth.JWTService
	h       *handler.Handler
	metrics *metrics.Metrics

	authH     Handler
	protected []Handler
}

func NewRouter(
	jwtSvc auth.JWTService,
	h *handler.Handler,
	m *metrics.Metrics,
	authH Handler,
	config Config,
	protected ...Handler,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:    engine,
		jwtSvc:    jwtSvc,
		h:         h,
		metrics:   m,
		authH:     authH,
		protected: protected,
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.Timeout}),
		middleware.CORS(config.CORS),
	)

	if config.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RPS:   config.RateLimitRPS,
			Burst: config.RateLimitBurst,
		})
		engine.Use(limiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	r.setupHealthCheck(api)

	if r.authH != nil {
		r.authH.RegisterRoutes(api)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(r.jwtSvc))
	for _, h := range r.protected {
		h.RegisterRoutes(protected)
	}
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("", r.h.HealthCheck)
	}
	rg.GET("/metrics", r.h.MetricsHandler)
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		r.metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		r.metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
