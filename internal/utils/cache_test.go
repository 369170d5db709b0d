package utils

import (
	"testing"
	"time"
)

func TestLRUCacheSetGet(t *testing.T) {
	t.Parallel()

	c := NewLRUCache[string](4, time.Minute)
	c.Set("a", "one")

	got, ok := c.Get("a")
	if !ok || got != "one" {
		t.Fatalf("want one, got %q ok=%v", got, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatalf("missing key should not hit")
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	t.Parallel()

	c := NewLRUCache[int](4, 10*time.Millisecond)
	c.Set("k", 9)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expired entry should miss")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry should be evicted on read, len=%d", c.Len())
	}
}

func TestLRUCacheEviction(t *testing.T) {
	t.Parallel()

	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Fatalf("oldest entry should be evicted past capacity")
	}
	if c.Len() != 2 {
		t.Fatalf("cache should hold at most 2 entries, len=%d", c.Len())
	}
}

func TestLRUCacheDelete(t *testing.T) {
	t.Parallel()

	c := NewLRUCache[int](4, time.Minute)
	c.Set("k", 1)
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatalf("deleted entry should miss")
	}
}
