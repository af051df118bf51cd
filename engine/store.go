package engine

import (
	"container/list"
	"strconv"
)

const (
	defaultStringCapacity = 4096
	defaultListCapacity   = 4096
)

// sweepRecorder is satisfied by metrics.Collector; kept as a narrow
// interface here so the engine package does not need to import metrics
// types into its core data structures.
type sweepRecorder interface {
	EvictionSweep(removed int)
}

// store holds every piece of mutable state the engine owns. It has no
// exported surface and no locking: the engine goroutine is its only caller.
type store struct {
	strings  map[string][]byte
	lists    map[string]*list.List
	eviction *evictionIndex
	sweeps   sweepRecorder
}

func newStore() *store {
	return &store{
		strings:  make(map[string][]byte, defaultStringCapacity),
		lists:    make(map[string]*list.List, defaultListCapacity),
		eviction: newEvictionIndex(),
	}
}

// evictIfNeeded runs the eviction sweep up to now and deletes every key it
// collects from the string store. Lists are not subject to eviction.
func (s *store) evictIfNeeded(now int64) {
	keys, advanced := s.eviction.scan(now)
	if !advanced {
		return
	}
	for _, k := range keys {
		delete(s.strings, k)
	}
	if s.sweeps != nil {
		s.sweeps.EvictionSweep(len(keys))
	}
}

func (s *store) get(k string, now int64) ([]byte, bool) {
	s.evictIfNeeded(now)
	v, ok := s.strings[k]
	return v, ok
}

func (s *store) set(k string, v []byte) {
	s.strings[k] = v
}

// incr mirrors the preserved behavior: it reports value+1 without writing it
// back to the store. ok is false when the key is absent; err is non-nil when
// the stored value does not parse as a signed 64-bit decimal.
func (s *store) incr(k string, now int64) (value int64, ok bool, err error) {
	s.evictIfNeeded(now)
	raw, present := s.strings[k]
	if !present {
		return 0, false, nil
	}
	n, perr := strconv.ParseInt(string(raw), 10, 64)
	if perr != nil {
		return 0, true, perr
	}
	return n + 1, true, nil
}

func (s *store) listFor(k string) *list.List {
	l, ok := s.lists[k]
	if !ok {
		l = list.New()
		s.lists[k] = l
	}
	return l
}

func (s *store) lpush(k string, v []byte) {
	s.listFor(k).PushFront(v)
}

func (s *store) rpush(k string, v []byte) {
	s.listFor(k).PushBack(v)
}

func (s *store) lpop(k string) ([]byte, bool) {
	l, ok := s.lists[k]
	if !ok || l.Len() == 0 {
		return nil, false
	}
	e := l.Front()
	l.Remove(e)
	return e.Value.([]byte), true
}

func (s *store) rpop(k string) ([]byte, bool) {
	l, ok := s.lists[k]
	if !ok || l.Len() == 0 {
		return nil, false
	}
	e := l.Back()
	l.Remove(e)
	return e.Value.([]byte), true
}
