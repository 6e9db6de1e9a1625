package domain

import "time"

// Roles de un mensaje del consultor. El asistente usa el nombre de rol de Gemini.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message es una entrada inmutable del transcript.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"timestamp"`
}

// Conversation es la vista de un transcript con su flag de ocupado.
type Conversation struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	Busy      bool      `json:"busy"`
	CreatedAt time.Time `json:"created_at"`
}
