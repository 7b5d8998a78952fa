package cache

import (
	"testing"
	"time"
)

func TestLRU_GetSet(t *testing.T) {
	c := NewLRU[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}

	// "b" is now least recently used and should be evicted.
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestLRU_Expiry(t *testing.T) {
	now := time.Unix(1000, 0)
	c := NewLRU[string](10, time.Second)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	now = now.Add(2 * time.Second)

	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to be gone")
	}

	c.Set("x", "1")
	c.Set("y", "2")
	now = now.Add(2 * time.Second)
	if removed := c.CleanExpired(); removed != 2 {
		t.Errorf("CleanExpired() = %d, want 2", removed)
	}
}

func TestLRU_Delete(t *testing.T) {
	c := NewLRU[int](10, time.Minute)
	c.Set("a", 1)
	c.Delete("a")
	c.Delete("missing")

	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be deleted")
	}
}

func TestLRU_SetIfGeneration(t *testing.T) {
	c := NewLRU[int](10, time.Minute)

	gen := c.Generation("g")
	if !c.SetIfGeneration("g", gen, 1) {
		t.Fatal("SetIfGeneration with current generation = false, want true")
	}

	// A Delete between reading the generation and storing wins.
	gen = c.Generation("g")
	c.Delete("g")
	if c.SetIfGeneration("g", gen, 2) {
		t.Error("SetIfGeneration after Delete = true, want false")
	}
	if _, ok := c.Get("g"); ok {
		t.Error("expected no cached value after a stale fill")
	}

	if !c.SetIfGeneration("g", c.Generation("g"), 3) {
		t.Error("SetIfGeneration with refreshed generation = false, want true")
	}
	if v, ok := c.Get("g"); !ok || v != 3 {
		t.Errorf("Get(g) = %d, %v; want 3, true", v, ok)
	}
	if c.Generation("other") != 0 {
		t.Error("generations must be tracked per key")
	}
}
