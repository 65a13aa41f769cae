package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/nathantheresa/portfolio/internal/api/dto/common"
	"github.com/nathantheresa/portfolio/internal/api/validation"
	"github.com/nathantheresa/portfolio/internal/logging"
	"github.com/nathantheresa/portfolio/internal/service"
)

// HandleAPIError maps service errors onto the common error envelope.
// Anything it does not recognise is logged and answered with the defaults;
// details are only exposed outside release mode.
func HandleAPIError(c *gin.Context, err error, defaultStatus int, defaultCode common.ErrorCode, defaultMessage string) {
	var fieldErrs *service.FieldErrors
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusBadRequest, common.NewValidationErrorResponse(fieldErrs.Issues))
		return
	case errors.As(err, &validationErrs):
		c.JSON(http.StatusBadRequest, common.NewValidationErrorResponse(validation.FormatValidationError(err)))
		return
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, common.NewErrorResponse(common.ErrCodeNotFound, "Resource not found", nil))
		return
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, common.NewErrorResponse(common.ErrCodeConflict, "An article with this title already exists", nil))
		return
	}

	logging.GetLogger().LogHTTPError(
		c.Request.Method,
		c.Request.URL.Path,
		GetRealIP(c),
		defaultStatus,
		defaultMessage,
		err,
	)

	var errorDetails interface{}
	if gin.Mode() != gin.ReleaseMode {
		errorDetails = err.Error()
	}

	c.JSON(defaultStatus, common.NewErrorResponse(defaultCode, defaultMessage, errorDetails))
}
