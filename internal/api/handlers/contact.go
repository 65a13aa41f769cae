package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nathantheresa/portfolio/internal/api/dto/v1/contact"
	"github.com/nathantheresa/portfolio/internal/logging"
	"github.com/nathantheresa/portfolio/internal/service"
	"github.com/nathantheresa/portfolio/internal/utils"
)

// ContactSubmitter is the part of ContactService the handler needs
type ContactSubmitter interface {
	Submit(ctx context.Context, sourceID string, body []byte) *service.ContactResult
}

type ContactHandler struct {
	contactService ContactSubmitter
	logger         *logging.Logger
}

func NewContactHandler(contactService ContactSubmitter, logger *logging.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

// Submit handles one contact-form post. On success the mail provider's
// response is passed through untouched.
func (h *ContactHandler) Submit(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error("Failed to read contact body: %v", err)
		c.JSON(http.StatusInternalServerError, contact.ErrorResponse{Error: contact.MessageUnexpected})
		return
	}

	res := h.contactService.Submit(c.Request.Context(), utils.SourceID(c), body)
	status := res.Outcome.StatusCode()

	switch res.Outcome {
	case service.ContactDelivered:
		c.Data(status, "application/json", res.Receipt.Raw)
	case service.ContactRateLimited:
		c.JSON(status, contact.ErrorResponse{Error: contact.MessageRateLimited})
	case service.ContactValidationFailed:
		c.JSON(status, contact.ErrorResponse{Error: contact.MessageInvalidInput, Details: res.Issues})
	case service.ContactDispatchFailed:
		c.JSON(status, contact.ErrorResponse{Error: contact.MessageDispatch})
	default:
		c.JSON(status, contact.ErrorResponse{Error: contact.MessageUnexpected})
	}
}
