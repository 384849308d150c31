package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleSweep runs the sweep now, ignoring the daily gate.
func (h *handlerImpl) HandleSweep(c *gin.Context) {
	result, err := h.api.SweepNow(c)
	if err != nil {
		h.fail(c, "sweep reminders", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleDailyCheck runs the gated sweep, for external cron triggers.
func (h *handlerImpl) HandleDailyCheck(c *gin.Context) {
	result, ran, err := h.api.CheckDaily(c)
	if err != nil {
		h.fail(c, "daily reminder check", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ran": ran, "result": result})
}

func (h *handlerImpl) HandleSendReminder(c *gin.Context) {
	sent, err := h.api.SendReminder(c, c.Param("id"))
	if err != nil {
		h.fail(c, "send reminder", err)
		return
	}
	c.JSON(http.StatusOK, sent)
}

func (h *handlerImpl) HandleReminderStatus(c *gin.Context) {
	status, err := h.api.ReminderStatus(c)
	if err != nil {
		h.fail(c, "reminder status", err)
		return
	}
	c.JSON(http.StatusOK, status)
}
