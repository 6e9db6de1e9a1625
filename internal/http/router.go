package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mbti-universe/internal/metrics"
	"mbti-universe/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas base.
func NewRouter(
	logger *zap.Logger,
	typeH *TypeHandler,
	feedH *FeedHandler,
	consultH *ConsultantHandler,
	tokens *service.ConversationTokenService,
) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	types := r.Group("/types")
	types.GET("", typeH.ListTypes)
	types.GET("/:code", typeH.GetType)

	posts := r.Group("/posts")
	posts.GET("", feedH.ListPosts)
	posts.POST("", feedH.CreatePost)

	consultant := r.Group("/consultant/conversations")
	consultant.POST("", consultH.CreateConversation)

	conversation := consultant.Group("/:id", ConversationTokenMiddleware(tokens))
	conversation.GET("", consultH.GetConversation)
	conversation.DELETE("", consultH.EndConversation)
	conversation.POST("/messages", consultH.PostMessage)
	conversation.POST("/messages/stream", consultH.StreamMessage)

	return r
}

// zapLoggerMiddleware registra cada request y alimenta las métricas HTTP.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		metrics.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), latency)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
// Los handlers de SSE y /metrics lo reemplazan al escribir.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
