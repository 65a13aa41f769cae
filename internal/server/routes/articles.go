package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nathantheresa/portfolio/internal/api/handlers"
	"github.com/nathantheresa/portfolio/internal/api/middleware"
)

// SetupPublicArticleRoutes exposes published articles without auth
func SetupPublicArticleRoutes(v1 *gin.RouterGroup, article *handlers.ArticleHandler) {
	public := v1.Group("/public/articles")
	{
		public.GET("", article.ListPublished)
		public.GET("/:slug", article.GetPublished)
	}
}

// SetupArticleRoutes configures the author dashboard
func SetupArticleRoutes(v1 *gin.RouterGroup, article *handlers.ArticleHandler, m *Middleware) {
	protected := v1.Group("/articles")
	protected.Use(m.Auth, middleware.LimitBody(m.MaxArticleSize))
	{
		protected.GET("", article.ListArticles)
		protected.POST("", article.CreateArticle)
		protected.GET("/:id", article.GetArticle)
		protected.PUT("/:id", article.UpdateArticle)
		protected.DELETE("/:id", article.DeleteArticle)
		protected.POST("/:id/publish", article.PublishArticle)
		protected.POST("/:id/unpublish", article.UnpublishArticle)
	}
}
