package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nathantheresa/portfolio/internal/api/handlers"
)

func SetupVideoRoutes(v1 *gin.RouterGroup, video *handlers.VideoHandler) {
	v1.GET("/videos", video.ListVideos)
	v1.POST("/videos", video.ListVideos)
}
