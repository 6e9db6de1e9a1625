package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore guarda el jti de cada token de conversación emitido y permite revocarlo.
type TokenStore interface {
	Store(jti, conversationID string, ttl time.Duration) error
	Exists(jti string) (bool, error)
	Revoke(jti string) error
}

// defaultTokenTTL cubre los Store sin ttl positivo, en memoria y en Redis.
const defaultTokenTTL = 24 * time.Hour

func tokenTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return defaultTokenTTL
	}
	return ttl
}

type tokenEntry struct {
	conversationID string
	expiresAt      time.Time
}

// memoryTokenStore sirve a una sola réplica; Sweep descarta los jti vencidos.
type memoryTokenStore struct {
	mu    sync.Mutex
	items map[string]tokenEntry
	now   func() time.Time
}

func NewMemoryTokenStore() TokenStore {
	return &memoryTokenStore{
		items: make(map[string]tokenEntry),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *memoryTokenStore) Store(jti, conversationID string, ttl time.Duration) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[jti] = tokenEntry{conversationID: conversationID, expiresAt: s.now().Add(tokenTTL(ttl))}
	return nil
}

func (s *memoryTokenStore) Exists(jti string) (bool, error) {
	jti = strings.TrimSpace(jti)
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.items[jti]
	if !ok {
		return false, nil
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.items, jti)
		return false, nil
	}
	return true, nil
}

func (s *memoryTokenStore) Revoke(jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, strings.TrimSpace(jti))
	return nil
}

// Sweep borra los jti vencidos y devuelve cuántos quitó.
func (s *memoryTokenStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for jti, entry := range s.items {
		if !now.Before(entry.expiresAt) {
			delete(s.items, jti)
			removed++
		}
	}
	return removed
}

type redisKV interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisTokenStore struct {
	client redisKV
	prefix string
}

func NewRedisTokenStore(client *redis.Client) TokenStore {
	if client == nil {
		return nil
	}
	return &redisTokenStore{
		client: client,
		prefix: "consult:token:",
	}
}

func (s *redisTokenStore) Store(jti, conversationID string, ttl time.Duration) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return s.client.Set(ctx, s.prefix+jti, conversationID, tokenTTL(ttl)).Err()
}

func (s *redisTokenStore) Exists(jti string) (bool, error) {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	n, err := s.client.Exists(ctx, s.prefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisTokenStore) Revoke(jti string) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return s.client.Del(ctx, s.prefix+jti).Err()
}

var (
	_ Sweeper = (*memoryTokenStore)(nil)
	_ Sweeper = (*consultRateLimiter)(nil)
)
