package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nathantheresa/portfolio/internal/api/constants"
	"github.com/nathantheresa/portfolio/internal/api/dto/common"
	"github.com/nathantheresa/portfolio/internal/api/dto/v1/article"
	"github.com/nathantheresa/portfolio/internal/models"
	"github.com/nathantheresa/portfolio/internal/utils"
)

// ArticleManager is implemented by service.ArticleService
type ArticleManager interface {
	Create(ctx context.Context, userID string, in article.ArticleRequest) (*models.Article, error)
	Update(ctx context.Context, userID, id string, in article.ArticleRequest) (*models.Article, error)
	SetPublished(ctx context.Context, userID, id string, published bool) (*models.Article, error)
	Delete(ctx context.Context, userID, id string) error
	Get(ctx context.Context, userID, id string) (*models.Article, error)
	List(ctx context.Context, userID string) ([]*models.Article, error)
	GetPublished(ctx context.Context, slug string) (*models.Article, error)
	ListPublished(ctx context.Context, q article.ListQuery) ([]*models.Article, error)
}

// ArticleHandler handles the author dashboard and the public blog
type ArticleHandler struct {
	articleService ArticleManager
}

func NewArticleHandler(articleService ArticleManager) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

// CreateArticle creates a draft or published article for the caller
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var req article.ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleAPIError(c, err, http.StatusBadRequest, common.ErrCodeBadRequest, "Invalid request data")
		return
	}

	a, err := h.articleService.Create(c.Request.Context(), c.GetString(constants.ContextKeyUserID), req)
	if err != nil {
		utils.HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeInternalServer, "Failed to create article")
		return
	}

	utils.HandleCreated(c, a)
}

func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	var req article.ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleAPIError(c, err, http.StatusBadRequest, common.ErrCodeBadRequest, "Invalid request data")
		return
	}

	a, err := h.articleService.Update(c.Request.Context(), c.GetString(constants.ContextKeyUserID), c.Param("id"), req)
	if err != nil {
		utils.HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeInternalServer, "Failed to update article")
		return
	}

	utils.HandleSuccess(c, a)
}

func (h *ArticleHandler) PublishArticle(c *gin.Context) {
	h.setPublished(c, true)
}

func (h *ArticleHandler) UnpublishArticle(c *gin.Context) {
	h.setPublished(c, false)
}

func (h *ArticleHandler) setPublished(c *gin.Context, published bool) {
	a, err := h.articleService.SetPublished(c.Request.Context(), c.GetString(constants.ContextKeyUserID), c.Param("id"), published)
	if err != nil {
		utils.HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeInternalServer, "Failed to change publish state")
		return
	}

	utils.HandleSuccess(c, a)
}

func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	if err := h.articleService.Delete(c.Request.Context(), c.GetString(constants.ContextKeyUserID), c.Param("id")); err != nil {
		utils.HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeInternalServer, "Failed to delete article")
		return
	}

	utils.HandleMessage(c, "Article deleted successfully")
}

func (h *ArticleHandler) GetArticle(c *gin.Context) {
	a, err := h.articleService.Get(c.Request.Context(), c.GetString(constants.ContextKeyUserID), c.Param("id"))
	if err != nil {
		utils.HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeInternalServer, "Failed to get article")
		return
	}

	utils.HandleSuccess(c, a)
}

// ListArticles returns every article of the caller, drafts included
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	articles, err := h.articleService.List(c.Request.Context(), c.GetString(constants.ContextKeyUserID))
	if err != nil {
		utils.HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeInternalServer, "Failed to list articles")
		return
	}

	utils.HandleSuccess(c, articles)
}

// ListPublished is the public blog index
func (h *ArticleHandler) ListPublished(c *gin.Context) {
	var q article.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.HandleAPIError(c, err, http.StatusBadRequest, common.ErrCodeBadRequest, "Invalid pagination")
		return
	}

	articles, err := h.articleService.ListPublished(c.Request.Context(), q)
	if err != nil {
		utils.HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeInternalServer, "Failed to list articles")
		return
	}

	utils.HandleSuccess(c, articles)
}

func (h *ArticleHandler) GetPublished(c *gin.Context) {
	a, err := h.articleService.GetPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		utils.HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeInternalServer, "Failed to get article")
		return
	}

	utils.HandleSuccess(c, a)
}
