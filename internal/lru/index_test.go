package lru

import "testing"

func TestInsertMRUAndPeekLRU(t *testing.T) {
	idx := New()
	idx.InsertMRU("a")
	idx.InsertMRU("b")
	idx.InsertMRU("c")

	if got, ok := idx.PeekLRU(); !ok || got != "a" {
		t.Fatalf("expected LRU key 'a', got %q (ok=%v)", got, ok)
	}
	if idx.Len() != 3 {
		t.Fatalf("expected len 3, got %d", idx.Len())
	}
}

func TestTouchMovesToMRU(t *testing.T) {
	idx := New()
	idx.InsertMRU("a")
	idx.InsertMRU("b")
	idx.InsertMRU("c")

	idx.Touch("a")

	if got, ok := idx.PeekLRU(); !ok || got != "b" {
		t.Fatalf("expected LRU key 'b' after touching a, got %q", got)
	}
}

func TestRemove(t *testing.T) {
	idx := New()
	idx.InsertMRU("a")
	idx.InsertMRU("b")

	idx.Remove("a")
	if idx.Len() != 1 {
		t.Fatalf("expected len 1 after remove, got %d", idx.Len())
	}
	if got, ok := idx.PeekLRU(); !ok || got != "b" {
		t.Fatalf("expected remaining key 'b', got %q", got)
	}

	// Removing an absent key is a no-op.
	idx.Remove("nonexistent")
	if idx.Len() != 1 {
		t.Fatalf("expected len unchanged after no-op remove, got %d", idx.Len())
	}
}

func TestTouchAbsentKeyIsNoop(t *testing.T) {
	idx := New()
	idx.InsertMRU("a")
	idx.Touch("missing")
	if got, _ := idx.PeekLRU(); got != "a" {
		t.Fatalf("expected unaffected order, got %q", got)
	}
}

func TestPeekLRUEmpty(t *testing.T) {
	idx := New()
	if _, ok := idx.PeekLRU(); ok {
		t.Fatal("expected PeekLRU on empty index to report not-ok")
	}
}

func TestKeysOrderedMRUToLRU(t *testing.T) {
	idx := New()
	idx.InsertMRU("a")
	idx.InsertMRU("b")
	idx.InsertMRU("c")

	keys := idx.Keys()
	want := []string{"c", "b", "a"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("keys[%d] = %q, want %q", i, keys[i], k)
		}
	}
}
