package service

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mbti-universe/internal/llm"
	"mbti-universe/internal/metrics"
)

var (
	ErrConversationNotFound             = errors.New("conversation not found")
	ErrConversationServiceNotConfigured = errors.New("conversation service not configured")
)

// ConversationService guarda en memoria un Consultant por conversación.
type ConversationService struct {
	logger    *zap.Logger
	generator llm.Generator

	mu            sync.RWMutex
	conversations map[string]*Consultant
}

func NewConversationService(logger *zap.Logger, generator llm.Generator) *ConversationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationService{
		logger:        logger,
		generator:     generator,
		conversations: make(map[string]*Consultant),
	}
}

// Start crea una conversación nueva con el mensaje de bienvenida.
func (s *ConversationService) Start() (*Consultant, error) {
	if s == nil || s.generator == nil {
		return nil, ErrConversationServiceNotConfigured
	}
	consultant := NewConsultant(uuid.NewString(), s.generator, s.logger)

	s.mu.Lock()
	s.conversations[consultant.ID()] = consultant
	total := len(s.conversations)
	s.mu.Unlock()

	metrics.ActiveConversations.Set(float64(total))
	s.logger.Info("conversation started", zap.String("conversation_id", consultant.ID()))
	return consultant, nil
}

func (s *ConversationService) Get(id string) (*Consultant, error) {
	if s == nil {
		return nil, ErrConversationServiceNotConfigured
	}
	id = strings.TrimSpace(id)
	s.mu.RLock()
	defer s.mu.RUnlock()
	consultant, ok := s.conversations[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return consultant, nil
}

// End borra la conversación; una conversación con un request en vuelo no se puede cerrar.
func (s *ConversationService) End(id string) error {
	if s == nil {
		return ErrConversationServiceNotConfigured
	}
	id = strings.TrimSpace(id)
	s.mu.Lock()
	consultant, ok := s.conversations[id]
	if !ok {
		s.mu.Unlock()
		return ErrConversationNotFound
	}
	if !consultant.tryClose() {
		s.mu.Unlock()
		return ErrConsultantBusy
	}
	delete(s.conversations, id)
	total := len(s.conversations)
	s.mu.Unlock()

	metrics.ActiveConversations.Set(float64(total))
	s.logger.Info("conversation ended", zap.String("conversation_id", id))
	return nil
}

// Prune elimina conversaciones sin actividad desde antes de cutoff y devuelve cuántas borró.
// Las conversaciones con un request en vuelo se conservan.
func (s *ConversationService) Prune(cutoff time.Time) int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	removed := 0
	for id, consultant := range s.conversations {
		if consultant.closeIfIdleBefore(cutoff) {
			delete(s.conversations, id)
			removed++
		}
	}
	total := len(s.conversations)
	s.mu.Unlock()

	metrics.ActiveConversations.Set(float64(total))
	if removed > 0 {
		s.logger.Info("conversations pruned", zap.Int("removed", removed), zap.Int("remaining", total))
	}
	return removed
}

func (s *ConversationService) Count() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}
