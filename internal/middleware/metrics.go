package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures surfaced by the cache hook.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "hayai_redis_errors_total",
	Help: "Total number of Redis command errors by command name",
}, []string{"command"})

// InitMetrics creates the Prometheus HTTP middleware for the given service.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// RegisterMetrics mounts the /metrics endpoint on the app.
func RegisterMetrics(prom *fiberprometheus.FiberPrometheus, app *fiber.App) {
	prom.RegisterAt(app, "/metrics")
}

// MetricsMiddleware returns the request-level metrics handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
