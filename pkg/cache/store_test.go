package cache

import (
	"context"
	"testing"
	"time"
)

// fakeClock is a controllable time source for expiry tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func TestMemoryStore_SetAndGet(t *testing.T) {
	store := NewMemoryStore()
	clock := newFakeClock()
	store.SetClock(clock.Now)
	ctx := context.Background()

	key := Key{Kind: "object", Params: map[string]string{"id": "1"}}
	entry := &Entry{
		Data:      []byte(`{"objectID": 1}`),
		ExpiresAt: clock.Now().Add(time.Hour),
		CachedAt:  clock.Now(),
	}

	if err := store.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	retrieved, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(retrieved.Data) != string(entry.Data) {
		t.Errorf("Data mismatch: got %s, want %s", retrieved.Data, entry.Data)
	}
}

func TestMemoryStore_Get_CacheMiss(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, Key{Kind: "object", Params: map[string]string{"id": "404"}})
	if err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryStore_Get_ExpiredEntry(t *testing.T) {
	store := NewMemoryStore()
	clock := newFakeClock()
	store.SetClock(clock.Now)
	ctx := context.Background()

	key := Key{Kind: "search", Params: map[string]string{"q": "flower"}}
	entry := &Entry{
		Data:      []byte(`{"total": 3}`),
		ExpiresAt: clock.Now().Add(time.Hour),
		CachedAt:  clock.Now(),
	}

	if err := store.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Still valid just before expiry
	clock.Advance(59 * time.Minute)
	if _, err := store.Get(ctx, key); err != nil {
		t.Fatalf("Get before expiry failed: %v", err)
	}

	// Stale after expiry, and the entry is dropped
	clock.Advance(2 * time.Minute)
	if _, err := store.Get(ctx, key); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after expiry, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Expired entry not dropped, store has %d entries", store.Len())
	}
}

func TestMemoryStore_Set_ExpiredEntryDropped(t *testing.T) {
	store := NewMemoryStore()
	clock := newFakeClock()
	store.SetClock(clock.Now)
	ctx := context.Background()

	key := Key{Kind: "object", Params: map[string]string{"id": "2"}}
	entry := &Entry{
		Data:      []byte(`{}`),
		ExpiresAt: clock.Now().Add(-time.Minute),
	}

	if err := store.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if store.Len() != 0 {
		t.Error("Already-expired entry should not be stored")
	}
}

func TestMemoryStore_Set_NilEntry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, Key{Kind: "object"}, nil); err != ErrInvalidEntry {
		t.Errorf("Expected ErrInvalidEntry, got %v", err)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	key := Key{Kind: "object", Params: map[string]string{"id": "3"}}
	entry := &Entry{
		Data:      []byte(`{}`),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	if err := store.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, key); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after Delete, got %v", err)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	key := Key{Kind: "search", Params: map[string]string{"q": "vase"}}
	entry := &Entry{
		Data:      []byte(`{"total": 1}`),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				_ = store.Set(ctx, key, entry)
				_, _ = store.Get(ctx, key)
			}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}
