package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/Bhadra-Indranil/HealthCare-System/pkg/errors"
	"github.com/Bhadra-Indranil/HealthCare-System/pkg/validator"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// ValidationResponse is the field-level failure envelope.
type ValidationResponse struct {
	Error   string                 `json:"error"`
	Details []apperrors.FieldError `json:"details"`
}

// RespondError renders any service error with the right status code.
// Internal details are logged, never returned to the client.
func RespondError(c *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok {
		if appErr.Kind == apperrors.KindValidation && len(appErr.Fields) > 0 {
			c.JSON(http.StatusBadRequest, ValidationResponse{
				Error:   "Validation failed",
				Details: appErr.Fields,
			})
			return
		}
		if appErr.Kind == apperrors.KindInternal {
			log.Error().Err(appErr).Str("path", c.Request.URL.Path).Msg("internal error")
			c.JSON(http.StatusInternalServerError, NewErrorResponse("Internal server error"))
			return
		}
		c.JSON(appErr.StatusCode(), NewErrorResponse(appErr.Message))
		return
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled error")
	c.JSON(http.StatusInternalServerError, NewErrorResponse("Internal server error"))
}

// RespondBindError renders request binding failures as the validation
// envelope.
func RespondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ValidationResponse{
		Error:   "Validation failed",
		Details: validator.FieldErrors(err),
	})
}
