package engine

import "testing"

func TestStringStoreSetGet(t *testing.T) {
	s := newStore()
	s.set("x", []byte("1"))

	v, ok := s.get("x", 0)
	if !ok || string(v) != "1" {
		t.Fatalf("get(x) = %q, %v", v, ok)
	}

	if _, ok := s.get("missing", 0); ok {
		t.Fatalf("expected absent key to miss")
	}
}

func TestIncrReturnsValuePlusOneWithoutPersisting(t *testing.T) {
	s := newStore()
	s.set("x", []byte("41"))

	v, ok, err := s.incr("x", 0)
	if err != nil || !ok || v != 42 {
		t.Fatalf("incr = %d, %v, %v", v, ok, err)
	}

	stored, _ := s.get("x", 0)
	if string(stored) != "41" {
		t.Fatalf("incr must not persist: stored = %q", stored)
	}
}

func TestIncrAbsentKey(t *testing.T) {
	s := newStore()
	_, ok, err := s.incr("nope", 0)
	if ok || err != nil {
		t.Fatalf("incr(absent) = ok=%v err=%v, want ok=false err=nil", ok, err)
	}
}

func TestIncrNonNumericIsError(t *testing.T) {
	s := newStore()
	s.set("x", []byte("abc"))
	_, ok, err := s.incr("x", 0)
	if !ok || err == nil {
		t.Fatalf("incr(non-numeric) = ok=%v err=%v, want ok=true err!=nil", ok, err)
	}
}

func TestListPushPopOrdering(t *testing.T) {
	s := newStore()
	s.lpush("L", []byte("a"))
	s.lpush("L", []byte("b"))
	s.rpush("L", []byte("c"))

	v, ok := s.lpop("L")
	if !ok || string(v) != "b" {
		t.Fatalf("lpop #1 = %q, %v", v, ok)
	}
	v, ok = s.lpop("L")
	if !ok || string(v) != "a" {
		t.Fatalf("lpop #2 = %q, %v", v, ok)
	}
	v, ok = s.rpop("L")
	if !ok || string(v) != "c" {
		t.Fatalf("rpop = %q, %v", v, ok)
	}
	if _, ok := s.lpop("L"); ok {
		t.Fatalf("expected exhausted list to report absent")
	}
}

func TestPopOnAbsentListIsNull(t *testing.T) {
	s := newStore()
	if _, ok := s.lpop("nope"); ok {
		t.Fatalf("expected absent list to miss on lpop")
	}
	if _, ok := s.rpop("nope"); ok {
		t.Fatalf("expected absent list to miss on rpop")
	}
}

func TestEvictionRemovesExpiredKeyFromStringStore(t *testing.T) {
	s := newStore()
	s.set("x", []byte("1"))
	s.eviction.insert("x", 100)

	if _, ok := s.get("x", 50); !ok {
		t.Fatalf("key should still be present before its expiry")
	}

	if _, ok := s.get("x", 100); ok {
		t.Fatalf("key should be gone once the scan reaches its expiry")
	}
}

func TestEvictionScanIsMonotonic(t *testing.T) {
	idx := newEvictionIndex()
	idx.insert("a", 10)

	if got, advanced := idx.scan(20); len(got) != 1 || got[0] != "a" || !advanced {
		t.Fatalf("first scan = %v, advanced=%v", got, advanced)
	}
	idx.insert("b", 5) // instant already behind the watermark
	if got, advanced := idx.scan(20); len(got) != 0 || advanced {
		t.Fatalf("scan at same or earlier instant must be a no-op, got %v advanced=%v", got, advanced)
	}
}

func TestEvictionSharedInstantRemovesAllKeys(t *testing.T) {
	idx := newEvictionIndex()
	idx.insert("a", 10)
	idx.insert("b", 10)

	got, _ := idx.scan(11)
	if len(got) != 2 {
		t.Fatalf("expected both keys at the shared instant, got %v", got)
	}
}
