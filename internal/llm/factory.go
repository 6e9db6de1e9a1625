package llm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mbti-universe/internal/config"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// NewGenerator elige el proveedor según la configuración, con la persona del consultor MBTI.
func NewGenerator(cfg *config.Config, logger *zap.Logger) (Generator, error) {
	return NewGeneratorWithInstruction(cfg, logger, SystemInstruction)
}

// NewGeneratorWithInstruction es como NewGenerator pero con otra instrucción de sistema;
// vacía no envía ninguna.
func NewGeneratorWithInstruction(cfg *config.Config, logger *zap.Logger, system string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LLMProvider)) {
	case "", ProviderGemini:
		client := NewGeminiClient(cfg.APIKey(), cfg.GeminiModel, cfg.GeminiTemperature, logger)
		client.system = system
		return client, nil
	case ProviderOpenAI:
		client := NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
		client.system = system
		return client, nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}
}
