package pdfcore

import "github.com/cespare/xxhash/v2"

// interner deduplicates the decoded-byte backing storage for Name values
// and dictionary keys repeated across a single document's object graph
// (e.g. /Type, /Filter, /Length reappear on nearly every object). Keying
// the dedup table on an xxhash digest rather than the full string avoids
// rehashing the same bytes twice on lookup, the same role xxhash plays as
// a cache key in elliotnunn-BeHierarchic's block cache, applied here to
// string interning instead of block caching.
type interner struct {
	buckets map[uint64][]string
}

func newInterner() *interner {
	return &interner{buckets: make(map[uint64][]string)}
}

func (in *interner) intern(b []byte) string {
	h := xxhash.Sum64(b)
	for _, s := range in.buckets[h] {
		if s == string(b) {
			return s
		}
	}
	s := string(b)
	in.buckets[h] = append(in.buckets[h], s)
	return s
}
