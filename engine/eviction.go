package engine

import "sort"

// evictionIndex is an ordered instant->keys index, mirroring the ordered map
// the eviction scan needs: instants must be visitable in ascending order so
// the half-open sweep [last_scanned, t) can be computed without touching
// entries beyond the watermark.
//
// No third-party ordered-map type in the retrieval pack offered a verified
// generic API for this, so the index is built on a plain map plus a sorted
// slice of instants (stdlib sort.Search for insertion and range lookup).
type evictionIndex struct {
	byInstant   map[int64]map[string]struct{}
	instants    []int64 // always sorted ascending
	lastScanned int64
}

func newEvictionIndex() *evictionIndex {
	return &evictionIndex{
		byInstant: make(map[int64]map[string]struct{}),
	}
}

// insert attaches expiry instant t to key k. A key may be attached to
// several instants over its lifetime; the scan removes it on whichever
// elapses first.
func (idx *evictionIndex) insert(k string, t int64) {
	set, ok := idx.byInstant[t]
	if !ok {
		set = make(map[string]struct{})
		idx.byInstant[t] = set
		idx.insertInstant(t)
	}
	set[k] = struct{}{}
}

func (idx *evictionIndex) insertInstant(t int64) {
	i := sort.Search(len(idx.instants), func(i int) bool { return idx.instants[i] >= t })
	idx.instants = append(idx.instants, 0)
	copy(idx.instants[i+1:], idx.instants[i:])
	idx.instants[i] = t
}

// scan collects every key indexed in [last_scanned, t), drops those entries
// from the index, and advances the watermark to t. A no-op when t is not
// strictly greater than the current watermark; advanced reports whether the
// watermark moved, independent of whether any key was actually collected.
func (idx *evictionIndex) scan(t int64) (keys []string, advanced bool) {
	if t <= idx.lastScanned {
		return nil, false
	}

	lo := sort.Search(len(idx.instants), func(i int) bool { return idx.instants[i] >= idx.lastScanned })
	hi := sort.Search(len(idx.instants), func(i int) bool { return idx.instants[i] >= t })

	for _, instant := range idx.instants[lo:hi] {
		for k := range idx.byInstant[instant] {
			keys = append(keys, k)
		}
		delete(idx.byInstant, instant)
	}

	idx.instants = append(idx.instants[:lo], idx.instants[hi:]...)
	idx.lastScanned = t
	return keys, true
}
