package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"mbti-universe/internal/domain"
	"mbti-universe/internal/repository"
)

func TestFilterPosts(t *testing.T) {
	posts := []domain.Post{
		{ID: "1", AuthorType: "INTJ"},
		{ID: "2", AuthorType: "ENFP"},
		{ID: "3", AuthorType: "ISTJ"},
		{ID: "4", AuthorType: "INTJ"},
	}

	t.Run("ejemplo INTJ", func(t *testing.T) {
		out := FilterPosts(posts[:3], "INTJ")
		if len(out) != 1 || out[0].ID != "1" {
			t.Fatalf("expected only the INTJ post, got %+v", out)
		}
	})

	t.Run("conserva el orden relativo", func(t *testing.T) {
		out := FilterPosts(posts, "INTJ")
		if len(out) != 2 || out[0].ID != "1" || out[1].ID != "4" {
			t.Fatalf("expected posts 1 and 4 in order, got %+v", out)
		}
	})

	t.Run("ALL y vacio son identidad", func(t *testing.T) {
		for _, f := range []string{domain.FilterAll, "", " all "} {
			out := FilterPosts(posts, f)
			if len(out) != len(posts) {
				t.Fatalf("filter %q: expected %d posts, got %d", f, len(posts), len(out))
			}
			for i := range posts {
				if out[i].ID != posts[i].ID {
					t.Fatalf("filter %q: order changed at %d", f, i)
				}
			}
		}
	})

	t.Run("tipo sin posts", func(t *testing.T) {
		out := FilterPosts(posts, "ESFP")
		if out == nil || len(out) != 0 {
			t.Fatalf("expected empty non-nil result, got %+v", out)
		}
	})

	t.Run("cada post coincide con el filtro", func(t *testing.T) {
		for _, mt := range domain.MBTITypes() {
			out := FilterPosts(posts, mt.Code)
			expected := 0
			for _, p := range posts {
				if p.AuthorType == mt.Code {
					expected++
				}
			}
			if len(out) != expected {
				t.Fatalf("filter %s: expected %d, got %d", mt.Code, expected, len(out))
			}
			for _, p := range out {
				if p.AuthorType != mt.Code {
					t.Fatalf("filter %s: unexpected post %+v", mt.Code, p)
				}
			}
		}
	})
}

func TestFeedServiceCompose_PrependsAnonymousPost(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo := repository.NewMemoryPostRepository(SeedPosts(now)...)
	svc := NewFeedService(repo)
	svc.now = func() time.Time { return now }

	post, err := svc.Compose(context.Background(), ComposePostInput{AuthorType: "infp", Content: "  오늘도 공상 중  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.ID == "" {
		t.Fatalf("expected generated id")
	}
	if post.AuthorType != "INFP" || post.AuthorName != "익명의 중재자" {
		t.Fatalf("unexpected author %q %q", post.AuthorType, post.AuthorName)
	}
	if post.Content != "오늘도 공상 중" {
		t.Fatalf("expected trimmed content, got %q", post.Content)
	}
	if len(post.Tags) != 1 || post.Tags[0] != domain.DefaultPostTag {
		t.Fatalf("expected default tag, got %+v", post.Tags)
	}
	if post.Likes != 0 || post.Comments != 0 || !post.CreatedAt.Equal(now) {
		t.Fatalf("unexpected counters or timestamp: %+v", post)
	}

	all, err := svc.List(context.Background(), domain.FilterAll)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 4 || all[0].ID != post.ID {
		t.Fatalf("expected new post first, got %+v", all)
	}
}

func TestFeedServiceCompose_DefaultsAndTags(t *testing.T) {
	svc := NewFeedService(repository.NewMemoryPostRepository())

	post, err := svc.Compose(context.Background(), ComposePostInput{Content: "토론하실 분", Tags: []string{" #토론 ", "토론", ""}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.AuthorType != DefaultAuthorType {
		t.Fatalf("expected default author type, got %q", post.AuthorType)
	}
	if len(post.Tags) != 1 || post.Tags[0] != "토론" {
		t.Fatalf("expected normalized tags, got %+v", post.Tags)
	}
}

func TestFeedServiceCompose_Validation(t *testing.T) {
	repo := repository.NewMemoryPostRepository()
	svc := NewFeedService(repo)

	if _, err := svc.Compose(context.Background(), ComposePostInput{AuthorType: "INTJ", Content: "   "}); !errors.Is(err, ErrPostInvalidInput) {
		t.Fatalf("expected ErrPostInvalidInput, got %v", err)
	}
	if _, err := svc.Compose(context.Background(), ComposePostInput{AuthorType: "ABCD", Content: "hola"}); !errors.Is(err, ErrUnknownMBTIType) {
		t.Fatalf("expected ErrUnknownMBTIType, got %v", err)
	}
	if n, _ := repo.Count(context.Background()); n != 0 {
		t.Fatalf("expected nothing stored, got %d", n)
	}
}

func TestFeedService_NotConfigured(t *testing.T) {
	var svc *FeedService
	if _, err := svc.List(context.Background(), ""); !errors.Is(err, ErrFeedServiceNotConfigured) {
		t.Fatalf("expected ErrFeedServiceNotConfigured, got %v", err)
	}
	svc = NewFeedService(nil)
	if _, err := svc.Compose(context.Background(), ComposePostInput{Content: "x"}); !errors.Is(err, ErrFeedServiceNotConfigured) {
		t.Fatalf("expected ErrFeedServiceNotConfigured, got %v", err)
	}
}

func TestSeedPosts(t *testing.T) {
	now := time.Now().UTC()
	posts := SeedPosts(now)
	if len(posts) != 3 {
		t.Fatalf("expected 3 seed posts, got %d", len(posts))
	}
	want := []string{"INTJ", "ENFP", "ISTJ"}
	for i, p := range posts {
		if p.AuthorType != want[i] {
			t.Fatalf("seed %d: expected %s, got %s", i, want[i], p.AuthorType)
		}
		if i > 0 && !p.CreatedAt.Before(posts[i-1].CreatedAt) {
			t.Fatalf("expected most recent first")
		}
	}
	if posts[0].ID == posts[1].ID {
		t.Fatalf("expected unique ids")
	}
}
