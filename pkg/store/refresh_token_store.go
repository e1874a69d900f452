package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshTokenStore holds the single active refresh token per user.
// Save overwrites any previous token (last writer wins).
type RefreshTokenStore interface {
	Save(userID int64, token string, ttl time.Duration) error
	Get(userID int64) (string, bool, error)
	Delete(userID int64) (bool, error)
}

func refreshKey(userID int64) string {
	return fmt.Sprintf("user:%d:refresh", userID)
}

// RedisRefreshTokenStore backs RefreshTokenStore with Redis.
type RedisRefreshTokenStore struct {
	client *redis.Client
}

func NewRedisRefreshTokenStore(addr, password string) *RedisRefreshTokenStore {
	return &RedisRefreshTokenStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

func NewRedisRefreshTokenStoreFromClient(client *redis.Client) *RedisRefreshTokenStore {
	return &RedisRefreshTokenStore{client: client}
}

func (s *RedisRefreshTokenStore) Save(userID int64, token string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return s.client.Set(ctx, refreshKey(userID), token, ttl).Err()
}

func (s *RedisRefreshTokenStore) Get(userID int64) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	val, err := s.client.Get(ctx, refreshKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisRefreshTokenStore) Delete(userID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	n, err := s.client.Del(ctx, refreshKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryRefreshTokenStore is the in-memory RefreshTokenStore used by
// tests. TTLs are honored lazily on read.
type MemoryRefreshTokenStore struct {
	mu     sync.Mutex
	tokens map[int64]memoryToken
}

type memoryToken struct {
	value     string
	expiresAt time.Time
}

func NewMemoryRefreshTokenStore() *MemoryRefreshTokenStore {
	return &MemoryRefreshTokenStore{tokens: make(map[int64]memoryToken)}
}

func (s *MemoryRefreshTokenStore) Save(userID int64, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[userID] = memoryToken{value: token, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryRefreshTokenStore) Get(userID int64) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[userID]
	if !ok {
		return "", false, nil
	}
	if time.Now().After(t.expiresAt) {
		delete(s.tokens, userID)
		return "", false, nil
	}
	return t.value, true, nil
}

func (s *MemoryRefreshTokenStore) Delete(userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[userID]; !ok {
		return false, nil
	}
	delete(s.tokens, userID)
	return true, nil
}
