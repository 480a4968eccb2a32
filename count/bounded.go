package count

import (
	"github.com/google/btree"
	"github.com/viniciusth/repeatindex"
)

type counterEntry struct {
	key   string
	count int
	seq   uint64
}

func counterEntryLess(a, b *counterEntry) bool {
	if a.count != b.count {
		return a.count < b.count
	}
	return a.seq < b.seq
}

// counterOp is what Add does for a given key.
type counterOp int

const (
	opIncrement counterOp = iota
	opInsert
	opEvictThenInsert
)

// BoundedCounter counts keys in at most capacity entries. When a new key
// arrives while full, the entry with the lowest count is evicted first,
// oldest first among equal counts, and the new key starts at 1. Evicted keys
// lose their history, so counts are lower bounds for keys that were ever
// evicted and heavy hitters are kept exactly only while they stay above the
// eviction floor.
type BoundedCounter struct {
	capacity int
	entries  map[string]*counterEntry
	order    *btree.BTreeG[*counterEntry]
	seq      uint64
	evicted  int
}

func NewBoundedCounter(capacity int) (*BoundedCounter, error) {
	if err := repeatindex.CheckAtLeast("max_unique", capacity, 1); err != nil {
		return nil, err
	}
	return &BoundedCounter{
		capacity: capacity,
		entries:  make(map[string]*counterEntry, capacity),
		order:    btree.NewG(32, counterEntryLess),
	}, nil
}

func (c *BoundedCounter) classify(key []byte) (counterOp, *counterEntry) {
	if e, ok := c.entries[string(key)]; ok {
		return opIncrement, e
	}
	if len(c.entries) >= c.capacity {
		return opEvictThenInsert, nil
	}
	return opInsert, nil
}

// Add counts one occurrence of key.
func (c *BoundedCounter) Add(key []byte) {
	op, e := c.classify(key)
	switch op {
	case opIncrement:
		c.order.Delete(e)
		e.count++
		c.order.ReplaceOrInsert(e)
	case opEvictThenInsert:
		c.evictMin()
		c.insert(key)
	case opInsert:
		c.insert(key)
	}
}

func (c *BoundedCounter) insert(key []byte) {
	e := &counterEntry{key: string(key), count: 1, seq: c.seq}
	c.seq++
	c.entries[e.key] = e
	c.order.ReplaceOrInsert(e)
}

func (c *BoundedCounter) evictMin() {
	e, ok := c.order.DeleteMin()
	if !ok {
		return
	}
	delete(c.entries, e.key)
	c.evicted++
}

func (c *BoundedCounter) Len() int { return len(c.entries) }

// Evictions returns how many keys were dropped to stay within capacity.
func (c *BoundedCounter) Evictions() int { return c.evicted }

// Get returns the tracked count of key, 0 when untracked.
func (c *BoundedCounter) Get(key string) int {
	if e, ok := c.entries[key]; ok {
		return e.count
	}
	return 0
}

// Counts returns a copy of the tracked counts.
func (c *BoundedCounter) Counts() map[string]int {
	out := make(map[string]int, len(c.entries))
	for k, e := range c.entries {
		out[k] = e.count
	}
	return out
}

// Top returns up to k tracked keys with the highest counts, highest first.
func (c *BoundedCounter) Top(k int) []string {
	keys := make([]string, 0, min(k, len(c.entries)))
	c.order.Descend(func(e *counterEntry) bool {
		if len(keys) == k {
			return false
		}
		keys = append(keys, e.key)
		return true
	})
	return keys
}
