package cache

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func constGetter(v interface{}) Getter {
	return func(string) (interface{}, error) { return v, nil }
}

func TestGetCachesValue(t *testing.T) {
	c := NewLRU(10, time.Minute)

	calls := 0
	getter := func(key string) (interface{}, error) {
		calls++
		return "value-" + key, nil
	}

	v, err := c.Get("/a", getter)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if v != "value-/a" {
		t.Errorf("Get = %v", v)
	}

	// Second get must hit the cache
	if _, err := c.Get("/a", getter); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Getter called %d times, want 1", calls)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Stats = %+v, want 1 hit / 1 miss", stats)
	}
	if stats.HitRate() != 50 {
		t.Errorf("HitRate = %f, want 50", stats.HitRate())
	}
}

func TestGetterErrorNotCached(t *testing.T) {
	c := NewLRU(10, time.Minute)

	wantErr := errors.New("stat failed")
	if _, err := c.Get("/a", func(string) (interface{}, error) { return nil, wantErr }); !errors.Is(err, wantErr) {
		t.Errorf("Expected getter error, got %v", err)
	}
	if c.Len() != 0 {
		t.Error("Failed lookup must not be cached")
	}
}

func TestTTLExpiry(t *testing.T) {
	c := NewLRU(10, time.Minute)

	now := time.Now()
	c.now = func() time.Time { return now }

	calls := 0
	getter := func(key string) (interface{}, error) {
		calls++
		return calls, nil
	}

	c.Get("/a", getter)

	// Within TTL: cached
	now = now.Add(30 * time.Second)
	v, _ := c.Get("/a", getter)
	if v != 1 {
		t.Errorf("Value within TTL = %v, want 1", v)
	}

	// Past TTL: recomputed
	now = now.Add(time.Minute)
	v, _ = c.Get("/a", getter)
	if v != 2 {
		t.Errorf("Value past TTL = %v, want 2", v)
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRU(3, 0)

	for i := 0; i < 3; i++ {
		c.Put(fmt.Sprintf("/f%d", i), i)
	}

	// Touch /f0 so /f1 becomes the eviction candidate
	if _, ok := c.Peek("/f0"); !ok {
		t.Fatal("Expected /f0 cached")
	}
	c.Get("/f0", constGetter(0))

	c.Put("/f3", 3)

	if _, ok := c.Peek("/f1"); ok {
		t.Error("/f1 should have been evicted as least recently used")
	}
	if _, ok := c.Peek("/f0"); !ok {
		t.Error("/f0 should survive eviction after being touched")
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}
}

func TestInvalidate(t *testing.T) {
	c := NewLRU(10, 0)
	c.Put("/dir/a", 1)
	c.Put("/dir/b", 2)
	c.Put("/other/c", 3)

	c.Invalidate("/dir/a")
	if _, ok := c.Peek("/dir/a"); ok {
		t.Error("/dir/a should be invalidated")
	}

	if removed := c.InvalidatePrefix("/dir/"); removed != 1 {
		t.Errorf("InvalidatePrefix removed %d, want 1", removed)
	}
	if _, ok := c.Peek("/other/c"); !ok {
		t.Error("/other/c should survive prefix invalidation")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Error("Clear should empty the cache")
	}
	if s := c.Stats(); s.Hits != 0 || s.Misses != 0 {
		t.Error("Clear should reset counters")
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	c := NewLRU(10, 0)

	now := time.Now()
	c.now = func() time.Time { return now }

	c.Put("/a", 1)
	now = now.Add(24 * time.Hour)
	if _, ok := c.Peek("/a"); !ok {
		t.Error("Zero TTL entries must not expire")
	}
}
