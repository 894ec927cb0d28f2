package cache

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestMemoryCache_BasicOperations(t *testing.T) {
	cache := NewMemoryCache(1024)

	key := "test-key"
	value := []byte("test-value")

	if err := cache.Put(key, value); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok := cache.Get(key)
	if !ok {
		t.Fatal("Get failed: key not found")
	}
	if !bytes.Equal(got, value) {
		t.Errorf("Get = %s, want %s", got, value)
	}
	if cache.Size() != int64(len(value)) {
		t.Errorf("Size = %d, want %d", cache.Size(), len(value))
	}

	if err := cache.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if cache.Contains(key) {
		t.Error("key still present after Delete")
	}
	if cache.Size() != 0 {
		t.Errorf("Size after delete = %d, want 0", cache.Size())
	}
}

func TestMemoryCache_LRUEviction(t *testing.T) {
	cache := NewMemoryCache(30)

	for i := 0; i < 3; i++ {
		if err := cache.Put(fmt.Sprintf("k%d", i), make([]byte, 10)); err != nil {
			t.Fatal(err)
		}
	}

	// Touch k0 so k1 becomes the least recently used entry.
	cache.Get("k0")

	if err := cache.Put("k3", make([]byte, 10)); err != nil {
		t.Fatal(err)
	}

	if cache.Contains("k1") {
		t.Error("k1 should have been evicted")
	}
	for _, k := range []string{"k0", "k2", "k3"} {
		if !cache.Contains(k) {
			t.Errorf("%s should still be cached", k)
		}
	}
	if s := cache.Stats(); s.Evictions != 1 || s.Items != 3 {
		t.Errorf("stats = %+v, want 1 eviction and 3 items", s)
	}
}

func TestMemoryCache_ReplaceUpdatesSize(t *testing.T) {
	cache := NewMemoryCache(100)
	_ = cache.Put("k", make([]byte, 40))
	_ = cache.Put("k", make([]byte, 10))

	if cache.Size() != 10 {
		t.Errorf("Size = %d, want 10", cache.Size())
	}
}

func TestMemoryCache_ItemTooLarge(t *testing.T) {
	cache := NewMemoryCache(10)
	if err := cache.Put("big", make([]byte, 11)); !errors.Is(err, ErrItemTooLarge) {
		t.Errorf("Put error = %v, want ErrItemTooLarge", err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache(1 << 20)
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("%d-%d", n, j)
				_ = cache.Put(key, []byte(key))
				cache.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if s := cache.Stats(); s.Items != 800 {
		t.Errorf("items = %d, want 800", s.Items)
	}
}
