package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mbti-universe/internal/config"
	"mbti-universe/internal/domain"
	"mbti-universe/internal/llm"
	"mbti-universe/internal/repository"
	"mbti-universe/internal/service"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	generator, err := llm.NewGenerator(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	feedSvc := service.NewFeedService(repository.NewMemoryPostRepository(service.SeedPosts(time.Now().UTC())...))
	conversations := service.NewConversationService(logger, generator)
	userType := service.DefaultAuthorType

	for {
		fmt.Printf("\n===== MBTI Universe (%s) =====\n", userType)
		fmt.Println("[1] 피드 보기")
		fmt.Println("[2] 글쓰기")
		fmt.Println("[3] AI 상담")
		fmt.Println("[4] 내 유형 변경")
		fmt.Println("[5] 종료")
		fmt.Print("선택: ")

		switch readLine(reader) {
		case "1":
			feedFlow(ctx, reader, feedSvc)
		case "2":
			if err := composeFlow(ctx, reader, feedSvc, userType); err != nil {
				fmt.Printf("글쓰기 실패: %v\n", err)
			}
		case "3":
			if err := consultFlow(ctx, reader, conversations); err != nil {
				fmt.Printf("상담 오류: %v\n", err)
			}
		case "4":
			if selected, ok := selectType(reader); ok {
				userType = selected
			}
		case "5":
			return
		default:
			fmt.Println("잘못된 선택입니다.")
		}
	}
}

func feedFlow(ctx context.Context, reader *bufio.Reader, feedSvc *service.FeedService) {
	fmt.Print("필터 (ALL 또는 MBTI 코드, 기본 ALL): ")
	filter := domain.NormalizeMBTICode(readLine(reader))
	if filter == "" {
		filter = domain.FilterAll
	}
	if filter != domain.FilterAll && !domain.IsMBTICode(filter) {
		fmt.Println("알 수 없는 유형입니다.")
		return
	}

	posts, err := feedSvc.List(ctx, filter)
	if err != nil {
		fmt.Printf("피드 오류: %v\n", err)
		return
	}
	if len(posts) == 0 {
		fmt.Println("아직 게시글이 없습니다.")
		return
	}
	for _, p := range posts {
		fmt.Printf("\n[%s] %s · %s\n", p.AuthorType, p.AuthorName, relativeTime(p.CreatedAt))
		fmt.Println(p.Content)
		if len(p.Tags) > 0 {
			fmt.Printf("#%s\n", strings.Join(p.Tags, " #"))
		}
		fmt.Printf("♥ %d  💬 %d\n", p.Likes, p.Comments)
	}
}

func composeFlow(ctx context.Context, reader *bufio.Reader, feedSvc *service.FeedService, userType string) error {
	fmt.Printf("%s(으)로서 어떤 생각을 하고 계신가요?\n> ", userType)
	content := readLine(reader)
	fmt.Print("태그 (공백으로 구분, 생략 가능): ")
	tags := strings.Fields(readLine(reader))

	post, err := feedSvc.Compose(ctx, service.ComposePostInput{AuthorType: userType, Content: content, Tags: tags})
	if err != nil {
		if errors.Is(err, service.ErrPostInvalidInput) {
			return errors.New("내용을 입력해주세요")
		}
		return err
	}
	fmt.Printf("게시 완료: %s\n", post.AuthorName)
	return nil
}

func consultFlow(ctx context.Context, reader *bufio.Reader, conversations *service.ConversationService) error {
	consultant, err := conversations.Start()
	if err != nil {
		return err
	}
	defer func() { _ = conversations.End(consultant.ID()) }()

	snap := consultant.Snapshot()
	fmt.Printf("\nAI > %s\n", snap.Messages[0].Text)
	fmt.Println("---- 'exit' 입력 시 종료 ----")

	for {
		fmt.Print("나 > ")
		text := readLine(reader)
		if strings.EqualFold(text, "exit") {
			return nil
		}

		fmt.Print("AI > ")
		streamed := false
		res, err := consultant.SubmitStream(ctx, text, func(chunk string) {
			streamed = true
			fmt.Print(chunk)
		})
		switch {
		case errors.Is(err, service.ErrConsultantEmptyInput):
			fmt.Println("(질문을 입력해주세요)")
			continue
		case err != nil:
			fmt.Println()
			return err
		}
		if !streamed {
			fmt.Print(res.Reply.Text)
		}
		fmt.Println()
	}
}

func selectType(reader *bufio.Reader) (string, bool) {
	types := domain.MBTITypes()
	for i, t := range types {
		fmt.Printf("[%2d] %s %s\n", i+1, t.Code, t.Name)
	}
	fmt.Print("유형 코드: ")
	code := domain.NormalizeMBTICode(readLine(reader))
	if !domain.IsMBTICode(code) {
		fmt.Println("알 수 없는 유형입니다.")
		return "", false
	}
	return code, true
}

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "방금 전"
	case d < time.Hour:
		return fmt.Sprintf("%d분 전", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d시간 전", int(d.Hours()))
	default:
		return t.Local().Format("2006-01-02")
	}
}

func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
