package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/handler"
	authhandler "github.com/Bhadra-Indranil/HealthCare-System/internal/handler/auth"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/middleware"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/service/auth"
)

// Handler registers a set of routes on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine       *gin.Engine
	authSvc      auth.AuthService
	authH        *authhandler.Handler
	patientH     Handler
	appointmentH Handler
	analyticsH   Handler
	healthH      Handler
	metrics      *routerMetrics
	rateLimiter  *middleware.RateLimiter
	timeout      time.Duration
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type Config struct {
	Mode        string
	Timeout     time.Duration
	CORS        middleware.CORSConfig
	RateLimiter *middleware.RateLimiter
}

func NewRouter(
	authSvc auth.AuthService,
	authH *authhandler.Handler,
	patientH Handler,
	appointmentH Handler,
	analyticsH Handler,
	healthH Handler,
	cfg Config,
) *Router {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := &Router{
		engine:       gin.New(),
		authSvc:      authSvc,
		authH:        authH,
		patientH:     patientH,
		appointmentH: appointmentH,
		analyticsH:   analyticsH,
		healthH:      healthH,
		metrics:      initRouterMetrics("healthcare"),
		rateLimiter:  cfg.RateLimiter,
		timeout:      cfg.Timeout,
	}

	r.engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(cfg.Timeout),
		middleware.CORS(cfg.CORS),
	)
	if r.rateLimiter != nil {
		r.engine.Use(r.rateLimiter.RateLimit())
	}

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("Route not found"))
	})

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	r.healthH.RegisterRoutes(api)
	api.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	authGroup := api.Group("/auth")
	r.authH.RegisterRoutes(authGroup)

	// Everything else requires a session
	protected := api.Group("")
	protected.Use(middleware.Authenticate(r.authSvc))

	r.authH.RegisterProtectedRoutes(protected.Group("/auth"))
	r.patientH.RegisterRoutes(protected)
	r.appointmentH.RegisterRoutes(protected)
	r.analyticsH.RegisterRoutes(protected)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
	prometheus.MustRegister(m.requestDuration, m.requestTotal, m.errorTotal)
	return m
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
