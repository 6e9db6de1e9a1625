package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mbti-universe/internal/config"
	"mbti-universe/internal/llm"
	"mbti-universe/internal/service"
)

const (
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorReset = "\033[0m"
)

// Scenario es una pregunta de prueba para el consultor y lo que se espera de la respuesta.
type Scenario struct {
	Input            string
	ExpectedBehavior string
	InvalidType      bool
}

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewNop()
	generator, err := llm.NewGenerator(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	judge, err := llm.NewGeneratorWithInstruction(cfg, logger, judgeInstruction)
	if err != nil {
		log.Fatal(err)
	}

	scenarios := []Scenario{
		{Input: "INTJ와 ENFP의 궁합이 궁금해", ExpectedBehavior: "두 유형의 인지기능(Ni-Te, Ne-Fi)을 근거로 장단점을 설명"},
		{Input: "회사에서 ESTJ 상사와 잘 지내는 법 알려줘", ExpectedBehavior: "구체적이고 실천 가능한 직장 내 조언"},
		{Input: "XYZW 유형은 어떤 특징이 있어?", ExpectedBehavior: "존재하지 않는 유형임을 알리고 16가지 유형을 안내", InvalidType: true},
		{Input: "요즘 너무 지쳐요. INFP라서 그런 걸까요?", ExpectedBehavior: "공감적인 어조, 유형 탓으로 단정하지 않음"},
	}

	var totalAcc, totalAdv, totalLang int
	for _, sc := range scenarios {
		// Cada escenario usa una conversación nueva para no arrastrar contexto.
		consultant := service.NewConsultant("", generator, logger)

		fmt.Printf("%s[Input]%s %s\n", colorCyan, colorReset, sc.Input)
		res, err := consultant.Submit(ctx, sc.Input)
		if err != nil {
			log.Fatalf("consultant submit failed: %v", err)
		}
		fmt.Printf("%s[AI]%s %s\n", colorGreen, colorReset, res.Reply.Text)
		if res.Outcome != service.OutcomeOK {
			log.Fatalf("consultant did not answer (outcome=%s)", res.Outcome)
		}

		jr, err := evaluateReply(ctx, judge, sc, res.Reply.Text)
		if err != nil {
			log.Fatalf("judge failed: %v", err)
		}

		fmt.Printf("%sJuez🧠%s %q\n", colorCyan, colorReset, jr.Reasoning)
		fmt.Printf("Scores: Precisión %d/5 | Consejo %d/5 | Idioma %d/5\n\n", jr.AccuracyScore, jr.AdviceScore, jr.LanguageScore)

		totalAcc += jr.AccuracyScore
		totalAdv += jr.AdviceScore
		totalLang += jr.LanguageScore
	}

	n := float64(len(scenarios))
	fmt.Println("==== Promedios ====")
	fmt.Printf("Precisión: %.2f/5 | Consejo: %.2f/5 | Idioma: %.2f/5\n",
		float64(totalAcc)/n, float64(totalAdv)/n, float64(totalLang)/n)
}
