package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/microsoc/command-centre/internal/api/handlers"
	"github.com/microsoc/command-centre/internal/api/middleware"
	"github.com/microsoc/command-centre/internal/blocklist"
	"github.com/microsoc/command-centre/internal/classifier"
	"github.com/microsoc/command-centre/internal/metrics"
	"github.com/microsoc/command-centre/internal/queue"
	"github.com/microsoc/command-centre/internal/services"
	"github.com/microsoc/command-centre/internal/storage"
)

// Deps carries the shared pipeline state handed to the HTTP surface.
type Deps struct {
	Classifier    *classifier.Classifier
	Blocklist     *blocklist.Blocklist
	Queue         queue.Queue
	Store         *storage.LogStore
	Alerts        *services.AlertService
	BlockDuration time.Duration
}

// Register wires up the decision API, the dashboard read endpoints and the
// Prometheus exposition.
func Register(router *gin.Engine, deps Deps) {
	router.Use(middleware.RequestID(), middleware.RequestLogger(), middleware.Recovery(true))

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	decisionHandler := handlers.NewDecisionHandler(
		deps.Classifier, deps.Blocklist, deps.Queue, deps.Store, deps.Alerts, deps.BlockDuration)
	logsHandler := handlers.NewLogsHandler(deps.Store, deps.Blocklist, deps.Queue)

	router.GET("/", handlers.HomeHandler)
	router.POST("/security/decision", decisionHandler.Decide)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthHandler)
		api.GET("/decisions", logsHandler.ListDecisions)
		api.GET("/blocklist", logsHandler.ListBlocked)
		api.GET("/status", logsHandler.Status)
	}
}
