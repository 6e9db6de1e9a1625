package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type mockRedisKVClient struct {
	lastSetKey string
	lastSetVal interface{}
	lastSetTTL time.Duration
	lastExists []string
	lastDel    []string

	setErr    error
	existsErr error
	delErr    error
	existsN   int64
}

func (m *mockRedisKVClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.lastSetKey = key
	m.lastSetVal = value
	m.lastSetTTL = expiration
	cmd := redis.NewStatusCmd(ctx)
	if m.setErr != nil {
		cmd.SetErr(m.setErr)
		return cmd
	}
	cmd.SetVal("OK")
	return cmd
}

func (m *mockRedisKVClient) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	m.lastExists = keys
	cmd := redis.NewIntCmd(ctx)
	if m.existsErr != nil {
		cmd.SetErr(m.existsErr)
		return cmd
	}
	cmd.SetVal(m.existsN)
	return cmd
}

func (m *mockRedisKVClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.lastDel = keys
	cmd := redis.NewIntCmd(ctx)
	if m.delErr != nil {
		cmd.SetErr(m.delErr)
		return cmd
	}
	cmd.SetVal(1)
	return cmd
}

func TestMemoryTokenStore_Basics(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryTokenStore().(*memoryTokenStore)
	store.now = func() time.Time { return now }

	ok, err := store.Exists("missing")
	if err != nil || ok {
		t.Fatalf("expected missing token false,nil; got %v,%v", ok, err)
	}

	if err := store.Store("jti-1", "conv-1", time.Minute); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	ok, err = store.Exists(" jti-1 ")
	if err != nil || !ok {
		t.Fatalf("expected token exists, got %v,%v", ok, err)
	}
	if store.items["jti-1"].conversationID != "conv-1" {
		t.Fatalf("expected conversation id kept, got %+v", store.items["jti-1"])
	}

	now = now.Add(time.Minute)
	ok, err = store.Exists("jti-1")
	if err != nil || ok {
		t.Fatalf("expected token expired, got %v,%v", ok, err)
	}
}

func TestMemoryTokenStore_DefaultTTLAndSweep(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryTokenStore().(*memoryTokenStore)
	store.now = func() time.Time { return now }

	if err := store.Store("short", "conv-1", time.Minute); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	if err := store.Store("default", "conv-2", 0); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	if got := store.items["default"].expiresAt; !got.Equal(now.Add(defaultTokenTTL)) {
		t.Fatalf("expected default ttl, got expiry %v", got)
	}

	now = now.Add(time.Hour)
	if removed := store.Sweep(); removed != 1 {
		t.Fatalf("expected 1 swept token, got %d", removed)
	}
	if _, ok := store.items["short"]; ok {
		t.Fatalf("expected expired token swept")
	}
	if ok, _ := store.Exists("default"); !ok {
		t.Fatalf("expected default-ttl token to survive")
	}
}

func TestMemoryTokenStore_RevokeAndEmptyJTI(t *testing.T) {
	store := NewMemoryTokenStore()
	if err := store.Store("", "conv-1", time.Minute); err != nil {
		t.Fatalf("empty jti store should be no-op, got %v", err)
	}
	if err := store.Store("jti-2", "conv-1", time.Minute); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	if err := store.Revoke("jti-2"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	ok, err := store.Exists("jti-2")
	if err != nil || ok {
		t.Fatalf("expected revoked token absent, got %v,%v", ok, err)
	}
}

func TestRedisTokenStore_Basics(t *testing.T) {
	mock := &mockRedisKVClient{existsN: 1}
	store := &redisTokenStore{client: mock, prefix: "consult:token:"}

	if err := store.Store(" j1 ", "conv-1", 0); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	if mock.lastSetKey != "consult:token:j1" {
		t.Fatalf("unexpected key, got %q", mock.lastSetKey)
	}
	if mock.lastSetTTL != defaultTokenTTL {
		t.Fatalf("expected default TTL fallback, got %v", mock.lastSetTTL)
	}
	if mock.lastSetVal != "conv-1" {
		t.Fatalf("expected conversation id as value, got %v", mock.lastSetVal)
	}

	ok, err := store.Exists(" j1 ")
	if err != nil || !ok {
		t.Fatalf("expected exists true,nil; got %v,%v", ok, err)
	}
	if len(mock.lastExists) != 1 || mock.lastExists[0] != "consult:token:j1" {
		t.Fatalf("unexpected exists key: %+v", mock.lastExists)
	}

	if err := store.Revoke(" j1 "); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if len(mock.lastDel) != 1 || mock.lastDel[0] != "consult:token:j1" {
		t.Fatalf("unexpected del key: %+v", mock.lastDel)
	}
}

func TestRedisTokenStore_ErrorPathsAndEmptyJTI(t *testing.T) {
	mock := &mockRedisKVClient{
		setErr:    errors.New("set failed"),
		existsErr: errors.New("exists failed"),
		delErr:    errors.New("del failed"),
	}
	store := &redisTokenStore{client: mock, prefix: "consult:token:"}

	if err := store.Store("", "conv-1", time.Minute); err != nil {
		t.Fatalf("empty jti store should be no-op, got %v", err)
	}
	ok, err := store.Exists("")
	if err != nil || ok {
		t.Fatalf("empty jti exists should be false,nil; got %v,%v", ok, err)
	}
	if err := store.Revoke(""); err != nil {
		t.Fatalf("empty jti revoke should be no-op, got %v", err)
	}

	if err := store.Store("j2", "conv-1", time.Minute); err == nil {
		t.Fatalf("expected store error")
	}
	if _, err := store.Exists("j2"); err == nil {
		t.Fatalf("expected exists error")
	}
	if err := store.Revoke("j2"); err == nil {
		t.Fatalf("expected revoke error")
	}
}

func TestRedisTokenStore_WithTokenService(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	svc := NewConversationTokenService("secret", time.Hour, NewRedisTokenStore(client))
	token, err := svc.Issue("conv-1")
	require.NoError(t, err)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	require.True(t, mr.Exists("consult:token:"+claims.ID))

	require.NoError(t, svc.Revoke(token))
	_, err = svc.Parse(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}
