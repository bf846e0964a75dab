package cache

import (
	"errors"
	"sync"
	"testing"
)

func value(v int) func() (int, error) {
	return func() (int, error) { return v, nil }
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)
	_, _ = c.GetOrCreate("a", value(1))
	_, _ = c.GetOrCreate("b", value(2))

	// Touch "a" so "b" becomes least recently used.
	if v, _ := c.GetOrCreate("a", value(-1)); v != 1 {
		t.Fatalf("GetOrCreate(a) = %d, want cached 1", v)
	}
	_, _ = c.GetOrCreate("c", value(3))

	if v, _ := c.GetOrCreate("b", value(20)); v != 20 {
		t.Error("b should have been evicted")
	}
	s := c.Stats()
	if s.Len != 2 || s.Evictions != 2 {
		t.Errorf("stats = %+v, want 2 entries and 2 evictions", s)
	}
}

func TestLRUGetOrCreate(t *testing.T) {
	c := New[string, int](4)
	calls := 0
	create := func() (int, error) {
		calls++
		return 42, nil
	}
	for i := 0; i < 3; i++ {
		v, err := c.GetOrCreate("k", create)
		if err != nil || v != 42 {
			t.Fatalf("GetOrCreate = %v, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrCreate("bad", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if v, _ := c.GetOrCreate("bad", value(7)); v != 7 {
		t.Error("failed create must not be cached")
	}

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 3 {
		t.Errorf("stats = %+v, want 2 hits and 3 misses", s)
	}
	if s.HitRate != 0.4 {
		t.Errorf("HitRate = %v, want 0.4", s.HitRate)
	}
}

func TestLRUDelete(t *testing.T) {
	c := New[int, int](3)
	_, _ = c.GetOrCreate(1, value(1))
	if !c.Delete(1) {
		t.Error("Delete(1) = false for a present key")
	}
	if c.Delete(1) {
		t.Error("Delete(1) = true for a missing key")
	}
	if v, _ := c.GetOrCreate(1, value(9)); v != 9 {
		t.Errorf("GetOrCreate after Delete = %d, want 9", v)
	}
	if s := c.Stats(); s.Len != 1 || s.Evictions != 0 {
		t.Errorf("stats = %+v, want 1 entry and no evictions", s)
	}
}

func TestLRUMinimumCapacity(t *testing.T) {
	c := New[int, int](0)
	_, _ = c.GetOrCreate(1, value(1))
	_, _ = c.GetOrCreate(2, value(2))
	if s := c.Stats(); s.Len != 1 || s.Capacity != 1 {
		t.Errorf("Len = %d, Capacity = %d", s.Len, s.Capacity)
	}
}

func TestLRUConcurrent(t *testing.T) {
	c := New[int, int](8)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_, _ = c.GetOrCreate((g+i)%16, func() (int, error) { return i, nil })
				if i%50 == 0 {
					c.Delete(g)
				}
			}
		}(g)
	}
	wg.Wait()
	if n := c.Stats().Len; n > 8 {
		t.Errorf("Len = %d exceeds capacity", n)
	}
}
