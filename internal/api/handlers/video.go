package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nathantheresa/portfolio/internal/logging"
	"github.com/nathantheresa/portfolio/internal/models"
	"github.com/nathantheresa/portfolio/internal/service"
)

// VideoFetcher is implemented by service.VideoService
type VideoFetcher interface {
	Fetch(ctx context.Context, pageToken string) (*models.VideoPage, error)
}

type videoRequest struct {
	PageToken string `json:"pageToken"`
}

type videoErrorResponse struct {
	Error  string         `json:"error"`
	Videos []models.Video `json:"videos"`
}

type VideoHandler struct {
	videoService VideoFetcher
	logger       *logging.Logger
}

func NewVideoHandler(videoService VideoFetcher, logger *logging.Logger) *VideoHandler {
	return &VideoHandler{videoService: videoService, logger: logger}
}

// ListVideos proxies one page of channel videos. The page token comes from
// the query string or, for POST, an optional JSON body.
func (h *VideoHandler) ListVideos(c *gin.Context) {
	pageToken := c.Query("pageToken")
	if pageToken == "" && c.Request.Method == http.MethodPost {
		var req videoRequest
		// A missing or malformed body means the first page
		if err := c.ShouldBindJSON(&req); err == nil {
			pageToken = req.PageToken
		}
	}

	page, err := h.videoService.Fetch(c.Request.Context(), pageToken)
	if err != nil {
		h.logger.Error("Error fetching YouTube videos: %v", err)
		c.JSON(http.StatusInternalServerError, videoErrorResponse{
			Error:  videoErrorMessage(err),
			Videos: []models.Video{},
		})
		return
	}

	c.JSON(http.StatusOK, page)
}

func videoErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrNotConfigured):
		return "Missing YOUTUBE_API_KEY"
	case errors.Is(err, service.ErrChannelNotFound):
		return "Channel not found"
	default:
		return "Failed to fetch YouTube videos"
	}
}
