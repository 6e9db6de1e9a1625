package service

import (
	"errors"
	"strings"

	"mbti-universe/internal/llm"
)

// Textos visibles del consultor.
const (
	WelcomeMessage = "안녕하세요! MBTI 전문 상담 AI입니다. \n\"INTJ와 ENFP의 궁합이 궁금해\" 또는 \"회사에서 ESTJ 상사와 잘 지내는 법 알려줘\" 처럼 무엇이든 물어보세요."

	ReplyFallback       = "응답을 생성하지 못했습니다."
	ReplyMissingAPIKey  = "API 키가 설정되지 않았습니다. 서버 환경 변수 GEMINI_API_KEY(또는 API_KEY)에 Gemini API 키를 설정한 뒤 다시 시작해주세요."
	ReplyAuthFailed     = "죄송합니다. AI 서비스 인증에 실패했습니다. API 키가 올바른지, 권한이 있는지 확인해주세요."
	ReplyRateLimited    = "죄송합니다. 현재 요청이 너무 많아 AI 사용량 한도를 초과했습니다. 잠시 후 다시 시도해주세요."
	ReplyGenericFailure = "죄송합니다. 현재 MBTI 분석 엔진에 연결할 수 없습니다. 잠시 후 다시 시도해주세요."
)

// Resultados de una consulta, usados en logs y métricas.
const (
	OutcomeOK            = "ok"
	OutcomeEmpty         = "empty"
	OutcomeMissingAPIKey = "missing_api_key"
	OutcomeAuthFailed    = "auth_failed"
	OutcomeRateLimited   = "rate_limited"
	OutcomeFailed        = "failed"
)

var (
	authMarkers = []string{"api key", "api_key", "apikey", "permission_denied", "permission denied", "unauthenticated", "unauthorized", "401", "403"}
	rateMarkers = []string{"429", "quota", "resource_exhausted", "rate limit", "rate_limit", "exhausted"}
)

// classifyFailure elige el texto visible para un error de generación.
// Salvo la falta de credencial, la clasificación es por subcadenas del mensaje de error.
func classifyFailure(err error) (outcome, reply string) {
	if errors.Is(err, llm.ErrMissingAPIKey) {
		return OutcomeMissingAPIKey, ReplyMissingAPIKey
	}
	msg := strings.ToLower(err.Error())
	if containsAny(msg, rateMarkers) {
		return OutcomeRateLimited, ReplyRateLimited
	}
	if containsAny(msg, authMarkers) {
		return OutcomeAuthFailed, ReplyAuthFailed
	}
	return OutcomeFailed, ReplyGenericFailure
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
