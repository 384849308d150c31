package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "task-dashboard/internal/errors"
	"task-dashboard/internal/validation"
)

var errInvalidRequestBody = errors.New("invalid request body")

type apiError struct {
	Code    int                    `json:"-"`
	Message string                 `json:"error"`
	Kind    string                 `json:"kind,omitempty"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, err)
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

// statusFor maps an application error kind to its HTTP status.
func statusFor(errorType apperrors.ErrorType) int {
	switch errorType {
	case apperrors.ErrorTypeValidation, apperrors.ErrorTypeInvalidInput:
		return http.StatusBadRequest
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeTransport:
		return http.StatusBadGateway
	case apperrors.ErrorTypeCredentials:
		return http.StatusServiceUnavailable
	case apperrors.ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// newErrorFromApp converts a service error into the response body.
func newErrorFromApp(err error) apiError {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return newAPIError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	out := newAPIError(statusFor(appErr.Type), apperrors.GetUserMessage(err))
	out.Kind = appErr.Type.String()

	var ve *validation.ValidationError
	if errors.As(err, &ve) {
		out.Fields = ve.Errors
	}
	return out
}

// fail logs err when it is not a user error and aborts with its mapping.
func (h *handlerImpl) fail(c *gin.Context, operation string, err error) {
	if apperrors.ShouldLogError(err) {
		h.logger.Error().
			Err(err).
			Str("operation", operation).
			Msg("request failed")
	} else {
		h.logger.Debug().
			Err(err).
			Str("operation", operation).
			Msg("request rejected")
	}
	abort(c, newErrorFromApp(err))
}

// warnSnapshot attaches a Warning header when the last CSV snapshot write
// failed; the change itself is stored.
func (h *handlerImpl) warnSnapshot(c *gin.Context) {
	if err := h.api.SnapshotWarning(); err != nil {
		c.Header("Warning", `199 taskdash "`+apperrors.GetUserMessage(err)+`"`)
	}
}
