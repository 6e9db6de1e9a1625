package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiClient implementa Generator sobre una sesión de chat de Gemini.
// Cada llamada crea un chat nuevo con el historial recibido y envía un único mensaje.
type GeminiClient struct {
	apiKey      string
	model       string
	temperature float32
	system      string
	logger      *zap.Logger

	mu     sync.Mutex
	client *genai.Client
}

func NewGeminiClient(apiKey, model string, temperature float32, logger *zap.Logger) *GeminiClient {
	if model == "" {
		model = defaultGeminiModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiClient{
		apiKey:      strings.TrimSpace(apiKey),
		model:       model,
		temperature: temperature,
		system:      SystemInstruction,
		logger:      logger,
	}
}

func (c *GeminiClient) Generate(ctx context.Context, history []Turn, message string) (string, error) {
	chat, err := c.newChat(ctx, history)
	if err != nil {
		return "", err
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", fmt.Errorf("gemini send message: %w", err)
	}
	if resp == nil {
		return "", nil
	}
	return resp.Text(), nil
}

func (c *GeminiClient) GenerateStream(ctx context.Context, history []Turn, message string, onChunk func(string)) (string, error) {
	chat, err := c.newChat(ctx, history)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for resp, err := range chat.SendMessageStream(ctx, genai.Part{Text: message}) {
		if err != nil {
			return sb.String(), fmt.Errorf("gemini stream: %w", err)
		}
		if resp == nil {
			continue
		}
		chunk := resp.Text()
		if chunk == "" {
			continue
		}
		sb.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	return sb.String(), nil
}

func (c *GeminiClient) newChat(ctx context.Context, history []Turn) (*genai.Chat, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := c.getClient(ctx)
	if err != nil {
		return nil, err
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	if c.system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(c.system, genai.RoleUser)
	}

	chat, err := client.Chats.Create(ctx, c.model, cfg, toGeminiHistory(history))
	if err != nil {
		return nil, fmt.Errorf("gemini create chat: %w", err)
	}
	return chat, nil
}

// getClient crea el cliente de genai la primera vez que hay credencial disponible.
func (c *GeminiClient) getClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	c.logger.Info("gemini client initialized", zap.String("model", c.model))
	c.client = client
	return client, nil
}

func toGeminiHistory(history []Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, t := range history {
		var role genai.Role = genai.RoleUser
		if t.Role == genai.RoleModel || t.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}
	return contents
}

var _ StreamGenerator = (*GeminiClient)(nil)
