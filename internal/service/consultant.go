package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mbti-universe/internal/domain"
	"mbti-universe/internal/llm"
	"mbti-universe/internal/metrics"
)

var (
	ErrConsultantEmptyInput    = errors.New("consultant empty input")
	ErrConsultantBusy          = errors.New("consultant busy")
	ErrConsultantNotConfigured = errors.New("consultant not configured")
)

// ConsultReply agrupa el mensaje del usuario y la respuesta agregados al transcript.
type ConsultReply struct {
	UserMessage domain.Message `json:"user_message"`
	Reply       domain.Message `json:"reply"`
	Outcome     string         `json:"outcome"`
}

// Consultant mantiene el transcript de una conversación y un único request en vuelo.
type Consultant struct {
	id        string
	createdAt time.Time
	generator llm.Generator
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	messages []domain.Message
	busy     bool
	closed   bool
	lastUsed time.Time
}

func NewConsultant(id string, generator llm.Generator, logger *zap.Logger) *Consultant {
	if logger == nil {
		logger = zap.NewNop()
	}
	if id == "" {
		id = uuid.NewString()
	}
	c := &Consultant{
		id:        id,
		generator: generator,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
	c.createdAt = c.now()
	c.lastUsed = c.createdAt
	c.messages = []domain.Message{{
		ID:        uuid.NewString(),
		Role:      domain.RoleModel,
		Text:      WelcomeMessage,
		CreatedAt: c.createdAt,
	}}
	return c
}

func (c *Consultant) ID() string {
	return c.id
}

// Submit agrega el mensaje del usuario, llama al generador y agrega la respuesta.
// Devuelve ErrConsultantEmptyInput o ErrConsultantBusy sin tocar el transcript.
func (c *Consultant) Submit(ctx context.Context, text string) (ConsultReply, error) {
	return c.SubmitAdmitted(ctx, text, nil, nil)
}

// SubmitStream es como Submit pero reenvía los fragmentos de la respuesta a onChunk.
func (c *Consultant) SubmitStream(ctx context.Context, text string, onChunk func(string)) (ConsultReply, error) {
	return c.SubmitAdmitted(ctx, text, nil, onChunk)
}

// SubmitAdmitted consulta admit solo cuando el envío ya pasó las validaciones de vacío,
// ocupado y cerrado; si admit devuelve false responde ErrConsultRateLimited.
// onChunk puede ser nil.
func (c *Consultant) SubmitAdmitted(ctx context.Context, text string, admit func() bool, onChunk func(string)) (ConsultReply, error) {
	if c == nil || c.generator == nil {
		return ConsultReply{}, ErrConsultantNotConfigured
	}

	userMsg, history, err := c.acquire(text, admit)
	if err != nil {
		metrics.ConsultRejected.WithLabelValues(rejectReason(err)).Inc()
		return ConsultReply{}, err
	}
	defer c.release()

	// La llamada no se cancela aunque el cliente se desconecte.
	callCtx := context.WithoutCancel(ctx)

	start := time.Now()
	answer, genErr := c.generate(callCtx, history, userMsg.Text, onChunk)
	metrics.ConsultLatency.Observe(time.Since(start).Seconds())

	outcome := OutcomeOK
	switch {
	case genErr != nil:
		outcome, answer = classifyFailure(genErr)
		c.logger.Error("consultant generation failed",
			zap.String("conversation_id", c.id),
			zap.String("outcome", outcome),
			zap.Error(genErr),
		)
	case strings.TrimSpace(answer) == "":
		outcome, answer = OutcomeEmpty, ReplyFallback
		c.logger.Warn("consultant empty response", zap.String("conversation_id", c.id))
	}
	metrics.ConsultOutcomes.WithLabelValues(outcome).Inc()

	reply := c.appendMessage(domain.RoleModel, answer)
	return ConsultReply{UserMessage: userMsg, Reply: reply, Outcome: outcome}, nil
}

// acquire valida la entrada, marca ocupado y agrega el mensaje del usuario.
// El historial devuelto contiene solo los mensajes previos al nuevo.
func (c *Consultant) acquire(text string, admit func() bool) (domain.Message, []llm.Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Message{}, nil, ErrConsultantEmptyInput
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.Message{}, nil, ErrConversationNotFound
	}
	if c.busy {
		return domain.Message{}, nil, ErrConsultantBusy
	}
	if admit != nil && !admit() {
		return domain.Message{}, nil, ErrConsultRateLimited
	}

	history := make([]llm.Turn, 0, len(c.messages))
	for _, m := range c.messages {
		history = append(history, llm.Turn{Role: m.Role, Text: m.Text})
	}

	c.busy = true
	userMsg := c.newMessageLocked(domain.RoleUser, text)
	return userMsg, history, nil
}

func (c *Consultant) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
}

func (c *Consultant) generate(ctx context.Context, history []llm.Turn, message string, onChunk func(string)) (string, error) {
	if onChunk == nil {
		return c.generator.Generate(ctx, history, message)
	}
	if sg, ok := c.generator.(llm.StreamGenerator); ok {
		return sg.GenerateStream(ctx, history, message, onChunk)
	}
	answer, err := c.generator.Generate(ctx, history, message)
	if err == nil && answer != "" {
		onChunk(answer)
	}
	return answer, err
}

func (c *Consultant) appendMessage(role, text string) domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.newMessageLocked(role, text)
}

func (c *Consultant) newMessageLocked(role, text string) domain.Message {
	now := c.now()
	msg := domain.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		CreatedAt: now,
	}
	c.messages = append(c.messages, msg)
	c.lastUsed = now
	return msg
}

// Snapshot devuelve una copia del transcript y del estado de ocupado.
func (c *Consultant) Snapshot() domain.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := make([]domain.Message, len(c.messages))
	copy(msgs, c.messages)
	return domain.Conversation{
		ID:        c.id,
		Messages:  msgs,
		Busy:      c.busy,
		CreatedAt: c.createdAt,
	}
}

func (c *Consultant) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// tryClose marca la conversación como cerrada si no hay un request en vuelo.
// Una vez cerrada, todo envío devuelve ErrConversationNotFound.
func (c *Consultant) tryClose() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return false
	}
	c.closed = true
	return true
}

// closeIfIdleBefore cierra la conversación si está libre y sin actividad desde antes de cutoff.
func (c *Consultant) closeIfIdleBefore(cutoff time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy || !c.lastUsed.Before(cutoff) {
		return false
	}
	c.closed = true
	return true
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrConsultantEmptyInput):
		return "empty"
	case errors.Is(err, ErrConsultantBusy):
		return "busy"
	case errors.Is(err, ErrConsultRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrConversationNotFound):
		return "closed"
	default:
		return "other"
	}
}
