package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter builds the gin engine: /api/v1 routes, /healthz and, when
// gatherer is not nil, /metrics.
func NewRouter(logger zerolog.Logger, h Handler, gatherer prometheus.Gatherer, releaseMode bool) *gin.Engine {
	if releaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(requestLogger(logger))
	router.Use(gin.Recovery())

	router.GET("/healthz", h.HandleHealth)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	RegisterRoutes(router.Group("/api/v1"), h)
	return router
}

// RegisterRoutes mounts the v1 handlers on router.
func RegisterRoutes(router gin.IRouter, h Handler) {
	tasks := router.Group("/tasks")
	tasks.GET("", h.HandleListTasks)
	tasks.POST("", h.HandleCreateTask)
	tasks.PUT("", h.HandleReplaceTasks)
	tasks.DELETE("", h.HandleDeleteTasks)
	tasks.GET("/:id", h.HandleGetTask)
	tasks.PUT("/:id", h.HandleUpdateTask)
	tasks.DELETE("/:id", h.HandleDeleteTask)

	router.GET("/owners", h.HandleListOwners)

	settings := router.Group("/settings")
	settings.GET("", h.HandleGetSettings)
	settings.PATCH("", h.HandleUpdateSettings)
	settings.PUT("/owners/:owner", h.HandleSetOwnerEmail)
	settings.DELETE("/owners/:owner", h.HandleRemoveOwnerEmail)
	settings.POST("/test", h.HandleSendTestEmail)

	reminders := router.Group("/reminders")
	reminders.POST("/sweep", h.HandleSweep)
	reminders.POST("/daily", h.HandleDailyCheck)
	reminders.POST("/tasks/:id", h.HandleSendReminder)
	reminders.GET("/status", h.HandleReminderStatus)

	router.GET("/chart", h.HandleChart)
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := logger.Info()
		if c.Writer.Status() >= 500 {
			event = logger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}
