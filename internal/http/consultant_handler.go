package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mbti-universe/internal/service"
)

// ConsultantHandler mantiene dependencias para los endpoints del consultor.
type ConsultantHandler struct {
	logger        *zap.Logger
	conversations *service.ConversationService
	tokens        *service.ConversationTokenService
	limiter       service.ConsultRateLimiter
}

func NewConsultantHandler(
	logger *zap.Logger,
	conversations *service.ConversationService,
	tokens *service.ConversationTokenService,
	limiter service.ConsultRateLimiter,
) *ConsultantHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsultantHandler{
		logger:        logger,
		conversations: conversations,
		tokens:        tokens,
		limiter:       limiter,
	}
}

type submitMessageRequest struct {
	Text string `json:"text"`
}

// CreateConversation maneja POST /consultant/conversations.
func (h *ConsultantHandler) CreateConversation(c *gin.Context) {
	consultant, err := h.conversations.Start()
	if err != nil {
		h.logger.Error("start conversation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start conversation"})
		return
	}

	token, err := h.tokens.Issue(consultant.ID())
	if err != nil {
		h.logger.Error("issue conversation token failed", zap.Error(err))
		_ = h.conversations.End(consultant.ID())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start conversation"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"conversation": consultant.Snapshot(), "token": token})
}

// GetConversation maneja GET /consultant/conversations/:id.
func (h *ConsultantHandler) GetConversation(c *gin.Context) {
	consultant, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": consultant.Snapshot()})
}

// EndConversation maneja DELETE /consultant/conversations/:id.
func (h *ConsultantHandler) EndConversation(c *gin.Context) {
	id := c.Param("id")
	if err := h.conversations.End(id); err != nil {
		h.writeError(c, err)
		return
	}
	if token := c.GetString(conversationTokenKey); token != "" {
		if err := h.tokens.Revoke(token); err != nil {
			h.logger.Warn("revoke conversation token failed", zap.String("conversation_id", id), zap.Error(err))
		}
	}
	c.Status(http.StatusNoContent)
}

// PostMessage maneja POST /consultant/conversations/:id/messages.
func (h *ConsultantHandler) PostMessage(c *gin.Context) {
	consultant, text, ok := h.prepareSubmit(c)
	if !ok {
		return
	}

	res, err := consultant.SubmitAdmitted(c.Request.Context(), text, h.admit(c), nil)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// StreamMessage maneja POST /consultant/conversations/:id/messages/stream con server-sent events.
// Los rechazos llegan antes del primer fragmento, así que todavía se responden como JSON.
func (h *ConsultantHandler) StreamMessage(c *gin.Context) {
	consultant, text, ok := h.prepareSubmit(c)
	if !ok {
		return
	}

	started := false
	startStream := func() {
		if started {
			return
		}
		started = true
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Status(http.StatusOK)
	}

	res, err := consultant.SubmitAdmitted(c.Request.Context(), text, h.admit(c), func(chunk string) {
		startStream()
		c.SSEvent("chunk", gin.H{"text": chunk})
		c.Writer.Flush()
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	startStream()
	c.SSEvent("reply", res)
	c.Writer.Flush()
}

func (h *ConsultantHandler) prepareSubmit(c *gin.Context) (*service.Consultant, string, bool) {
	var req submitMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid submit message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return nil, "", false
	}

	consultant, ok := h.lookup(c)
	if !ok {
		return nil, "", false
	}
	return consultant, req.Text, true
}

// admit cobra el limiter por IP del cliente; el consultor lo llama solo con envíos aceptados.
func (h *ConsultantHandler) admit(c *gin.Context) func() bool {
	if h.limiter == nil {
		return nil
	}
	clientIP := c.ClientIP()
	return func() bool {
		if h.limiter.Allow(clientIP) {
			return true
		}
		h.logger.Warn("consult rate limited", zap.String("client_ip", clientIP))
		return false
	}
}

func (h *ConsultantHandler) lookup(c *gin.Context) (*service.Consultant, bool) {
	consultant, err := h.conversations.Get(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return nil, false
	}
	return consultant, true
}

func (h *ConsultantHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrConsultantEmptyInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is empty"})
	case errors.Is(err, service.ErrConsultRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	case errors.Is(err, service.ErrConsultantBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "a reply is still being generated"})
	case errors.Is(err, service.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
	default:
		h.logger.Error("consultant request failed", zap.String("conversation_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
