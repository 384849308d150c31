package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-dashboard/internal/services"
)

type updateSettingsRequest struct {
	SenderEmail   *string `json:"sender_email,omitempty" binding:"omitempty,email"`
	ReceiverEmail *string `json:"receiver_email,omitempty" binding:"omitempty,email"`
	Password      *string `json:"password,omitempty" binding:"omitempty,min=1"`
}

type setOwnerEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *handlerImpl) HandleGetSettings(c *gin.Context) {
	view, err := h.api.GetSettings(c)
	if err != nil {
		h.fail(c, "get settings", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleUpdateSettings applies each field present in the body. Fields are
// saved one by one, so an invalid later field leaves earlier ones applied.
func (h *handlerImpl) HandleUpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()+": "+err.Error()))
		return
	}
	if req.SenderEmail == nil && req.ReceiverEmail == nil && req.Password == nil {
		abort(c, newBadRequestError("nothing to update"))
		return
	}

	var (
		view *services.SettingsView
		err  error
	)
	if req.SenderEmail != nil {
		if view, err = h.api.SetSender(c, *req.SenderEmail); err != nil {
			h.fail(c, "set sender", err)
			return
		}
	}
	if req.ReceiverEmail != nil {
		if view, err = h.api.SetReceiver(c, *req.ReceiverEmail); err != nil {
			h.fail(c, "set receiver", err)
			return
		}
	}
	if req.Password != nil {
		if view, err = h.api.SetPassword(c, *req.Password); err != nil {
			h.fail(c, "set password", err)
			return
		}
	}

	h.logger.Info().Msg("updated email settings")
	c.JSON(http.StatusOK, view)
}

func (h *handlerImpl) HandleSetOwnerEmail(c *gin.Context) {
	var req setOwnerEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()+": "+err.Error()))
		return
	}

	view, err := h.api.SetOwnerEmail(c, c.Param("owner"), req.Email)
	if err != nil {
		h.fail(c, "set owner email", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handlerImpl) HandleRemoveOwnerEmail(c *gin.Context) {
	view, err := h.api.RemoveOwnerEmail(c, c.Param("owner"))
	if err != nil {
		h.fail(c, "remove owner email", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handlerImpl) HandleSendTestEmail(c *gin.Context) {
	receiver, err := h.api.SendTestEmail(c)
	if err != nil {
		h.fail(c, "send test email", err)
		return
	}
	h.logger.Info().
		Str("recipient", receiver).
		Msg("sent test email")
	c.JSON(http.StatusOK, gin.H{"recipient": receiver})
}
