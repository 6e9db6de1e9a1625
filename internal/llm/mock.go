package llm

import (
	"context"
	"sync"
)

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response string
	Err      error
	// Chunks, si no está vacío, se emite por partes en GenerateStream.
	Chunks []string

	mu          sync.Mutex
	calls       int
	lastHistory []Turn
	lastMessage string
}

func (m *MockClient) Generate(ctx context.Context, history []Turn, message string) (string, error) {
	m.record(history, message)
	return m.Response, m.Err
}

func (m *MockClient) GenerateStream(ctx context.Context, history []Turn, message string, onChunk func(string)) (string, error) {
	m.record(history, message)
	if len(m.Chunks) == 0 {
		if m.Err == nil && m.Response != "" && onChunk != nil {
			onChunk(m.Response)
		}
		return m.Response, m.Err
	}
	var out string
	for _, chunk := range m.Chunks {
		out += chunk
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	return out, m.Err
}

func (m *MockClient) record(history []Turn, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastHistory = append([]Turn(nil), history...)
	m.lastMessage = message
}

// Calls devuelve cuántas veces se invocó el cliente.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastRequest devuelve el historial y el mensaje de la última llamada.
func (m *MockClient) LastRequest() ([]Turn, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Turn(nil), m.lastHistory...), m.lastMessage
}

var _ StreamGenerator = (*MockClient)(nil)
