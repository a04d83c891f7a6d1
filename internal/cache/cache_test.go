package cache

import "testing"

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](10)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) reported a hit")
	}

	c.Set("a", 1)
	c.Set("a", 2)
	if v, ok := c.Get("a"); !ok || v != 2 {
		t.Errorf("Get(a) = %d, %v, want 2, true", v, ok)
	}
	if got := c.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int, string](2)
	c.Set(1, "one")
	c.Set(2, "two")
	c.Get(1)
	c.Set(3, "three")

	if _, ok := c.Get(2); ok {
		t.Error("entry 2 should have been evicted")
	}
	if _, ok := c.Get(1); !ok {
		t.Error("entry 1 was used recently and should be kept")
	}
	if _, ok := c.Get(3); !ok {
		t.Error("entry 3 should be present")
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[int, int](0)
	calls := 0
	create := func() int {
		calls++
		return 42
	}

	for i := 0; i < 3; i++ {
		if got := c.GetOrCreate(7, create); got != 42 {
			t.Errorf("GetOrCreate = %d, want 42", got)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 {
		t.Errorf("Stats = %+v, want 2 hits and 1 miss", s)
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New[int, int](4)
	c.Set(1, 1)
	c.Set(2, 2)

	if !c.Delete(1) {
		t.Error("Delete(1) = false, want true")
	}
	if c.Delete(1) {
		t.Error("second Delete(1) = true, want false")
	}

	c.Clear()
	if got := c.Len(); got != 0 {
		t.Errorf("Len() after Clear = %d, want 0", got)
	}
	c.Set(3, 3)
	if v, ok := c.Get(3); !ok || v != 3 {
		t.Errorf("Get(3) after Clear = %d, %v", v, ok)
	}
}
