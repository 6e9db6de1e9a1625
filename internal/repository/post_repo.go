package repository

import (
	"context"
	"sync"

	"mbti-universe/internal/domain"
)

// PostRepository guarda el feed ordenado del más reciente al más antiguo.
type PostRepository interface {
	Prepend(ctx context.Context, post domain.Post) error
	List(ctx context.Context) ([]domain.Post, error)
	Count(ctx context.Context) (int, error)
}

// MemoryPostRepository mantiene el feed en memoria del proceso.
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts []domain.Post
}

// NewMemoryPostRepository crea el repositorio con los posts iniciales en el orden recibido.
func NewMemoryPostRepository(initial ...domain.Post) *MemoryPostRepository {
	posts := make([]domain.Post, 0, len(initial))
	for _, p := range initial {
		posts = append(posts, clonePost(p))
	}
	return &MemoryPostRepository{posts: posts}
}

func (r *MemoryPostRepository) Prepend(_ context.Context, post domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = append([]domain.Post{clonePost(post)}, r.posts...)
	return nil
}

func (r *MemoryPostRepository) List(_ context.Context) ([]domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Post, len(r.posts))
	for i, p := range r.posts {
		out[i] = clonePost(p)
	}
	return out, nil
}

func (r *MemoryPostRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.posts), nil
}

func clonePost(p domain.Post) domain.Post {
	if p.Tags != nil {
		p.Tags = append([]string(nil), p.Tags...)
	}
	return p
}

var _ PostRepository = (*MemoryPostRepository)(nil)
