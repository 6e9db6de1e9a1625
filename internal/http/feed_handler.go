package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mbti-universe/internal/domain"
	"mbti-universe/internal/service"
)

// FeedHandler mantiene dependencias para los endpoints del feed.
type FeedHandler struct {
	logger *zap.Logger
	feed   *service.FeedService
}

func NewFeedHandler(logger *zap.Logger, feed *service.FeedService) *FeedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedHandler{logger: logger, feed: feed}
}

// ListPosts maneja GET /posts?type=.
func (h *FeedHandler) ListPosts(c *gin.Context) {
	filter := domain.NormalizeMBTICode(c.DefaultQuery("type", domain.FilterAll))
	if filter == "" {
		filter = domain.FilterAll
	}
	if filter != domain.FilterAll && !domain.IsMBTICode(filter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown mbti type"})
		return
	}

	posts, err := h.feed.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("list posts failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"filter": filter, "posts": posts})
}

// CreatePost maneja POST /posts.
func (h *FeedHandler) CreatePost(c *gin.Context) {
	var req struct {
		AuthorType string   `json:"author_type"`
		Content    string   `json:"content" binding:"required"`
		Tags       []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create post request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	post, err := h.feed.Compose(c.Request.Context(), service.ComposePostInput{
		AuthorType: req.AuthorType,
		Content:    req.Content,
		Tags:       req.Tags,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		case errors.Is(err, service.ErrUnknownMBTIType):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown mbti type"})
		default:
			h.logger.Error("create post failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create post"})
		}
		return
	}

	h.logger.Info("post created", zap.String("post_id", post.ID), zap.String("author_type", post.AuthorType))
	c.JSON(http.StatusCreated, gin.H{"post": post})
}
