package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mbti-universe/internal/domain"
)

// TypeHandler expone la tabla de tipos MBTI.
type TypeHandler struct{}

func NewTypeHandler() *TypeHandler {
	return &TypeHandler{}
}

// ListTypes maneja GET /types.
func (h *TypeHandler) ListTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"types": domain.MBTITypes()})
}

// GetType maneja GET /types/:code.
func (h *TypeHandler) GetType(c *gin.Context) {
	code := c.Param("code")
	t, ok := domain.LookupMBTIType(code)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown mbti type", "badge": domain.BadgeStyle(code)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"type": t})
}
