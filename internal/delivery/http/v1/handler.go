package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"task-dashboard/internal/api"
)

type Handler interface {
	HandleListTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleReplaceTasks(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleDeleteTasks(c *gin.Context)
	HandleListOwners(c *gin.Context)

	HandleGetSettings(c *gin.Context)
	HandleUpdateSettings(c *gin.Context)
	HandleSetOwnerEmail(c *gin.Context)
	HandleRemoveOwnerEmail(c *gin.Context)
	HandleSendTestEmail(c *gin.Context)

	HandleSweep(c *gin.Context)
	HandleDailyCheck(c *gin.Context)
	HandleSendReminder(c *gin.Context)
	HandleReminderStatus(c *gin.Context)

	HandleChart(c *gin.Context)
	HandleHealth(c *gin.Context)
}

type handlerImpl struct {
	logger    zerolog.Logger
	api       api.BusinessAPI
	startTime time.Time
}

func New(logger zerolog.Logger, businessAPI api.BusinessAPI) Handler {
	return &handlerImpl{
		logger:    logger,
		api:       businessAPI,
		startTime: time.Now(),
	}
}
