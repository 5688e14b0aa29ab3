package tgcontext

import (
	"sync"
	"testing"
)

func TestInsertGetRemove(t *testing.T) {
	c := New()

	if _, ok := c.Get("missing"); ok {
		t.Fatal("Get() on empty context returned ok=true")
	}

	c.Insert("k", 42)
	v, ok := c.Get("k")
	if !ok || v != 42 {
		t.Fatalf("Get(\"k\") = (%v, %v), want (42, true)", v, ok)
	}

	c.Insert("k", 43)
	v, ok = c.Get("k")
	if !ok || v != 43 {
		t.Fatalf("overwrite: Get(\"k\") = (%v, %v), want (43, true)", v, ok)
	}

	c.Remove("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("Get() after Remove() returned ok=true")
	}
}

func TestIter_IsSnapshot(t *testing.T) {
	c := New()
	c.Insert("a", 1)
	c.Insert("b", 2)

	snap := c.Iter()
	if len(snap) != 2 || snap["a"] != 1 || snap["b"] != 2 {
		t.Fatalf("Iter() = %v, want map[a:1 b:2]", snap)
	}

	c.Insert("c", 3)
	if len(snap) != 2 {
		t.Fatalf("snapshot mutated after later Insert: %v", snap)
	}
}

func TestGet_Typed_MissingKey(t *testing.T) {
	c := New()
	if _, err := Get[int](c, "missing"); err == nil {
		t.Fatal("Get[int]() error = nil, want error for missing key")
	}
}

func TestGet_Typed_WrongType(t *testing.T) {
	c := New()
	c.Insert("k", "a string")
	if _, err := Get[int](c, "k"); err == nil {
		t.Fatal("Get[int]() error = nil, want error for type mismatch")
	}
}

func TestGet_Typed_Success(t *testing.T) {
	c := New()
	c.Insert("k", 99)
	v, err := Get[int](c, "k")
	if err != nil {
		t.Fatalf("Get[int]() error = %v", err)
	}
	if v != 99 {
		t.Fatalf("Get[int]() = %d, want 99", v)
	}
}

func TestContext_ConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.Insert("k", i)
		}(i)
		go func() {
			defer wg.Done()
			c.Get("k")
		}()
	}
	wg.Wait()
}
