package store

import (
	"testing"
	"time"
)

func TestMemoryRefreshTokenStore(t *testing.T) {
	s := NewMemoryRefreshTokenStore()

	if _, ok, err := s.Get(1); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := s.Save(1, "tok-a", time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}
	val, ok, err := s.Get(1)
	if err != nil || !ok || val != "tok-a" {
		t.Fatalf("Get: val=%q ok=%v err=%v", val, ok, err)
	}

	// last writer wins
	if err := s.Save(1, "tok-b", time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}
	val, _, _ = s.Get(1)
	if val != "tok-b" {
		t.Fatalf("expected tok-b, got %q", val)
	}

	deleted, err := s.Delete(1)
	if err != nil || !deleted {
		t.Fatalf("Delete: deleted=%v err=%v", deleted, err)
	}
	deleted, err = s.Delete(1)
	if err != nil || deleted {
		t.Fatalf("second Delete: deleted=%v err=%v", deleted, err)
	}
}

func TestMemoryRefreshTokenStoreExpiry(t *testing.T) {
	s := NewMemoryRefreshTokenStore()
	if err := s.Save(2, "tok", -time.Second); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok, _ := s.Get(2); ok {
		t.Fatal("expected expired token to miss")
	}
}
