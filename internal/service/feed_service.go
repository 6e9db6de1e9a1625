package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"mbti-universe/internal/domain"
	"mbti-universe/internal/metrics"
	"mbti-universe/internal/repository"
)

// DefaultAuthorType es el tipo del usuario cuando no elige uno.
const DefaultAuthorType = "ENTP"

var (
	ErrFeedServiceNotConfigured = errors.New("feed service not configured")
	ErrPostInvalidInput         = errors.New("post invalid input")
	ErrUnknownMBTIType          = errors.New("unknown mbti type")
)

// FeedService maneja el feed en memoria: listado filtrado y composición de posts.
type FeedService struct {
	posts repository.PostRepository
	now   func() time.Time
}

type ComposePostInput struct {
	AuthorType string
	Content    string
	Tags       []string
}

func NewFeedService(posts repository.PostRepository) *FeedService {
	return &FeedService{
		posts: posts,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// List devuelve el feed filtrado por tipo; "ALL" o vacío devuelve todo.
func (s *FeedService) List(ctx context.Context, filter string) ([]domain.Post, error) {
	if s == nil || s.posts == nil {
		return nil, ErrFeedServiceNotConfigured
	}
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterPosts(posts, filter), nil
}

// Compose crea un post anónimo del tipo indicado y lo agrega al inicio del feed.
func (s *FeedService) Compose(ctx context.Context, in ComposePostInput) (domain.Post, error) {
	if s == nil || s.posts == nil {
		return domain.Post{}, ErrFeedServiceNotConfigured
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return domain.Post{}, ErrPostInvalidInput
	}

	authorType := domain.NormalizeMBTICode(in.AuthorType)
	if authorType == "" {
		authorType = DefaultAuthorType
	}
	mbti, ok := domain.LookupMBTIType(authorType)
	if !ok {
		return domain.Post{}, ErrUnknownMBTIType
	}

	tags := normalizeTags(in.Tags)
	if len(tags) == 0 {
		tags = []string{domain.DefaultPostTag}
	}

	post := domain.Post{
		ID:         uuid.NewString(),
		AuthorType: mbti.Code,
		AuthorName: "익명의 " + mbti.Name,
		Content:    content,
		Tags:       tags,
		CreatedAt:  s.now(),
	}
	if err := s.posts.Prepend(ctx, post); err != nil {
		return domain.Post{}, err
	}
	if n, err := s.posts.Count(ctx); err == nil {
		metrics.FeedPosts.Set(float64(n))
	}
	return post, nil
}

// FilterPosts proyecta el feed a los posts cuyo tipo coincide con filter, respetando el orden.
func FilterPosts(posts []domain.Post, filter string) []domain.Post {
	filter = domain.NormalizeMBTICode(filter)
	if filter == "" || filter == domain.FilterAll {
		out := make([]domain.Post, len(posts))
		copy(out, posts)
		return out
	}
	out := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		if p.AuthorType == filter {
			out = append(out, p)
		}
	}
	return out
}

// SeedPosts devuelve los posts iniciales del feed, del más reciente al más antiguo.
func SeedPosts(now time.Time) []domain.Post {
	return []domain.Post{
		{
			ID:         uuid.NewString(),
			AuthorType: "INTJ",
			AuthorName: "새벽감성",
			Content:    "사람들이 왜 감정적으로 반응하는지 논리적으로 분석해보려고 했는데 역시 이해가 안 가네요. 저만 그런가요?",
			Tags:       []string{"공감불가", "분석"},
			Likes:      42,
			Comments:   12,
			CreatedAt:  now.Add(-1 * time.Hour),
		},
		{
			ID:         uuid.NewString(),
			AuthorType: "ENFP",
			AuthorName: "해피바이러스",
			Content:    "오늘 날씨가 너무 좋아서 갑자기 여행 가고 싶어짐!! ✈️ 지금 당장 갈 사람?? 제주도 어때요?",
			Tags:       []string{"번개여행", "텐션업"},
			Likes:      88,
			Comments:   24,
			CreatedAt:  now.Add(-2 * time.Hour),
		},
		{
			ID:         uuid.NewString(),
			AuthorType: "ISTJ",
			AuthorName: "계획대로",
			Content:    "내일 할 일 리스트 작성 완료했습니다. 계획이 틀어지면 스트레스 받는데, 유연하게 대처하는 팁 있나요?",
			Tags:       []string{"계획", "스트레스"},
			Likes:      15,
			Comments:   5,
			CreatedAt:  now.Add(-3 * time.Hour),
		},
	}
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimPrefix(strings.TrimSpace(t), "#")
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
