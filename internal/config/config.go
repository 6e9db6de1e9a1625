package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	// La credencial no es obligatoria: sin ella el consultor responde con instrucciones.
	GeminiAPIKey      string  `env:"GEMINI_API_KEY"`
	LegacyAPIKey      string  `env:"API_KEY"`
	GeminiModel       string  `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	GeminiTemperature float32 `env:"GEMINI_TEMPERATURE" envDefault:"0.7"`

	LLMProvider string `env:"LLM_PROVIDER" envDefault:"gemini"`
	LLMBaseURL  string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMAPIKey   string `env:"LLM_API_KEY"`
	LLMModel    string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`

	ConversationTokenSecret     string `env:"CONVERSATION_TOKEN_SECRET"`
	ConversationTokenTTLMinutes int    `env:"CONVERSATION_TOKEN_TTL_MINUTES" envDefault:"1440"`

	ConsultRateWindowSeconds int `env:"CONSULT_RATE_WINDOW_SECONDS" envDefault:"60"`
	ConsultRateMax           int `env:"CONSULT_RATE_MAX" envDefault:"20"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// APIKey devuelve la credencial de Gemini, aceptando API_KEY como alias.
func (c *Config) APIKey() string {
	if c.GeminiAPIKey != "" {
		return c.GeminiAPIKey
	}
	return c.LegacyAPIKey
}

func (c *Config) ConversationTokenTTL() time.Duration {
	return time.Duration(c.ConversationTokenTTLMinutes) * time.Minute
}

func (c *Config) ConsultRateWindow() time.Duration {
	return time.Duration(c.ConsultRateWindowSeconds) * time.Second
}
