package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	defer s.Close()

	if _, err := s.Latest(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Latest on empty store: %v", err)
	}

	a := &Artifact{ID: "a", EntryID: "7", PDF: []byte("%PDF")}
	b := &Artifact{ID: "b", EntryID: "8"}
	for _, x := range []*Artifact{a, b} {
		if err := s.Save(ctx, x); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := s.Get(ctx, "a")
	if err != nil || got.EntryID != "7" {
		t.Fatalf("Get(a) = %+v, %v", got, err)
	}
	latest, err := s.Latest(ctx)
	if err != nil || latest.ID != "b" {
		t.Fatalf("Latest = %+v, %v", latest, err)
	}
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing): %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)
	defer s.Close()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	if err := s.Save(ctx, &Artifact{ID: "a"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "a"); err != nil {
		t.Fatalf("fresh artifact: %v", err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := s.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired artifact: %v", err)
	}
	if _, err := s.Latest(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired latest: %v", err)
	}

	s.evictExpired()
	if n := len(s.store); n != 0 {
		t.Fatalf("%d entries left after eviction", n)
	}
}

func TestMemoryStoreClose(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	_ = s.Save(context.Background(), &Artifact{ID: "a"})
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	// Second close must not panic on the closed channel.
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(context.Background(), "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after Close: %v", err)
	}
}
