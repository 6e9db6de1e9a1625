package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"mbti-universe/internal/domain"
	"mbti-universe/internal/llm"
)

// judgeInstruction reemplaza la persona del consultor en el generador del juez.
const judgeInstruction = "당신은 MBTI 상담 답변을 채점하는 엄격한 평가자입니다. 상담을 하지 말고, 요청된 JSON 객체 하나만 출력하세요."

// judgeResponse representa la respuesta estructurada del juez evaluador en formato JSON.
type judgeResponse struct {
	Reasoning     string `json:"reasoning"`
	AccuracyScore int    `json:"accuracy_score"`
	AdviceScore   int    `json:"advice_score"`
	LanguageScore int    `json:"language_score"`
}

func evaluateReply(ctx context.Context, judge llm.Generator, sc Scenario, reply string) (judgeResponse, error) {
	mentioned := mentionedTypes(sc.Input)
	hangul := hangulRatio(reply)
	heuristicLine := fmt.Sprintf(
		"휴리스틱 지표: 언급된_유형=%s, 한글_비율=%.2f, 존재하지_않는_유형=%t",
		strings.Join(mentioned, ","), hangul, sc.InvalidType,
	)

	prompt := buildJudgePrompt(sc, reply, heuristicLine)
	raw, err := judge.Generate(ctx, nil, prompt)
	if err != nil {
		return judgeResponse{}, err
	}

	jsonStr := llm.ExtractFirstJSONObject(raw)
	if jsonStr == "" {
		return judgeResponse{}, fmt.Errorf("juez devolvió no-json: %q", raw)
	}

	var jr judgeResponse
	if err := json.Unmarshal([]byte(jsonStr), &jr); err != nil {
		return judgeResponse{}, fmt.Errorf("error parseando JSON juez: %w (raw=%q)", err, jsonStr)
	}

	jr.AccuracyScore = clamp1to5(jr.AccuracyScore)
	jr.AdviceScore = clamp1to5(jr.AdviceScore)
	jr.LanguageScore = clamp1to5(jr.LanguageScore)

	// Una respuesta que no está en coreano no puede aprobar idioma.
	if hangul < 0.3 && jr.LanguageScore > 2 {
		jr.LanguageScore = 2
	}
	return jr, nil
}

func clamp1to5(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

// mentionedTypes devuelve los códigos MBTI válidos que aparecen en el texto, sin repetir.
func mentionedTypes(input string) []string {
	upper := strings.ToUpper(input)
	var out []string
	for _, t := range domain.MBTITypes() {
		if strings.Contains(upper, t.Code) {
			out = append(out, t.Code)
		}
	}
	if len(out) == 0 {
		return []string{"-"}
	}
	return out
}

// hangulRatio es la proporción de letras hangul sobre el total de letras.
func hangulRatio(s string) float64 {
	var letters, hangul int
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Hangul, r) {
			hangul++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(hangul) / float64(letters)
}

func buildJudgePrompt(sc Scenario, reply, heuristicLine string) string {
	return fmt.Sprintf(`당신은 MBTI 상담 품질을 평가하는 심사위원입니다. 아래 사용자 질문과 AI 상담사의 답변을 평가하세요.

사용자 질문: %s
기대 동작: %s
AI 답변: %s
%s

세 가지 기준으로 1~5점을 매기세요:
1. accuracy_score: MBTI 유형과 인지기능 설명이 정확한가? 존재하지 않는 유형을 실제 유형처럼 설명하면 1점.
2. advice_score: 질문에 맞는 구체적이고 공감적인 조언인가?
3. language_score: 자연스러운 한국어인가?

반드시 JSON으로만 답하세요:
{
  "reasoning": "짧은 근거",
  "accuracy_score": <int 1-5>,
  "advice_score": <int 1-5>,
  "language_score": <int 1-5>
}`, sc.Input, sc.ExpectedBehavior, reply, heuristicLine)
}
