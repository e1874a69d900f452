package store

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) (*RedisRefreshTokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisRefreshTokenStoreFromClient(client), mr
}

func TestRedisRefreshTokenStoreRoundTrip(t *testing.T) {
	s, mr := newRedisStore(t)

	if err := s.Save(7, "refresh-token", time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !mr.Exists("user:7:refresh") {
		t.Fatal("expected key user:7:refresh")
	}

	val, ok, err := s.Get(7)
	if err != nil || !ok || val != "refresh-token" {
		t.Fatalf("Get: val=%q ok=%v err=%v", val, ok, err)
	}

	deleted, err := s.Delete(7)
	if err != nil || !deleted {
		t.Fatalf("Delete: deleted=%v err=%v", deleted, err)
	}
	if _, ok, _ := s.Get(7); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestRedisRefreshTokenStoreOverwrite(t *testing.T) {
	s, _ := newRedisStore(t)

	if err := s.Save(3, "first", time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(3, "second", time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	val, _, _ := s.Get(3)
	if val != "second" {
		t.Fatalf("expected second, got %q", val)
	}
}

func TestRedisRefreshTokenStoreTTL(t *testing.T) {
	s, mr := newRedisStore(t)

	if err := s.Save(5, "tok", time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, ok, _ := s.Get(5); ok {
		t.Fatal("expected token to expire")
	}
}

func TestRedisRefreshTokenStoreDeleteMiss(t *testing.T) {
	s, _ := newRedisStore(t)
	deleted, err := s.Delete(99)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted {
		t.Fatal("expected no deletion for absent key")
	}
}
