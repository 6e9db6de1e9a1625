package llm

import (
	"context"
	"errors"
)

// Turn es un mensaje previo enviado como historial al proveedor.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Generator define la capacidad de generación: historial + mensaje nuevo -> texto.
type Generator interface {
	Generate(ctx context.Context, history []Turn, message string) (string, error)
}

// StreamGenerator es implementado por proveedores que entregan la respuesta por partes.
// onChunk recibe cada fragmento en orden; el valor devuelto es el texto completo.
type StreamGenerator interface {
	Generator
	GenerateStream(ctx context.Context, history []Turn, message string, onChunk func(string)) (string, error)
}

// ErrMissingAPIKey se devuelve antes de tocar la red cuando no hay credencial configurada.
var ErrMissingAPIKey = errors.New("llm api key not configured")

// SystemInstruction es la instrucción de sistema del consultor MBTI.
const SystemInstruction = `당신은 세계 최고의 MBTI 전문가이자 심리 상담가입니다.
사용자의 질문에 대해 MBTI 이론(8기능, 유형별 특징 등)을 바탕으로 깊이 있고 따뜻한 조언을 해주세요.

다음 규칙을 따르세요:
1. 사용자가 자신의 유형을 밝히면 그 유형의 인지 기능(Ni, Te 등)을 언급하며 설명해주세요.
2. 관계 고민 상담 시, 상대방 유형과의 궁합 및 갈등 해결 방안을 구체적으로 제시하세요.
3. 말투는 전문적이지만 친근하고 공감 능력 있게 해주세요.
4. 한국어로 자연스럽게 답변하세요.`
