package analytics

import (
	"container/list"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/tallied-dev/tallied/internal/model"
)

// DefaultCacheCapacity holds two years of months.
const DefaultCacheCapacity = 24

// Signature is a cheap fingerprint of a month's transaction set, used to
// detect staleness without explicit invalidation in the common case.
type Signature struct {
	Count    int
	Checksum uint64 // order-independent FNV over amounts and dates
}

// ComputeSignature fingerprints a transaction set. Input order does not
// matter: the hashed fields are sorted first.
func ComputeSignature(txns []model.Transaction) Signature {
	keys := make([]string, len(txns))
	for i, t := range txns {
		keys[i] = t.Date.Format("2006-01-02") + "|" + t.Amount.String() + "|" + string(t.Kind)
	}
	sort.Strings(keys)

	h := fnv.New64a()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
	}
	return Signature{Count: len(txns), Checksum: h.Sum64()}
}

type cacheEntry struct {
	month   model.Month
	sig     Signature
	summary Summary
}

// Cache memoizes per-month Summaries with a fixed capacity and LRU
// eviction. Losing an entry never loses information, only recomputation
// cost. Accesses are sequential in the current command flow; the mutex
// keeps the list/map pair consistent if that ever changes.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[model.Month]*list.Element
	order    *list.List // front = most recently used
}

// NewCache creates a Cache. Capacity <= 0 falls back to the default.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[model.Month]*list.Element),
		order:    list.New(),
	}
}

// Get returns the cached Summary for month if present and its signature
// still matches the current transaction set, marking it most recently
// used. A mismatched signature is treated as a miss (the stale entry
// stays until overwritten by Put).
func (c *Cache) Get(month model.Month, sig Signature) (Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[month]
	if !ok {
		return Summary{}, false
	}
	entry := el.Value.(*cacheEntry)
	if entry.sig != sig {
		return Summary{}, false
	}
	c.order.MoveToFront(el)
	return entry.summary, true
}

// Put stores a Summary for month, evicting the least-recently-used entry
// if capacity is exceeded.
func (c *Cache) Put(month model.Month, sig Signature, summary Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[month]; ok {
		entry := el.Value.(*cacheEntry)
		entry.sig = sig
		entry.summary = summary
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&cacheEntry{month: month, sig: sig, summary: summary})
	c.entries[month] = el

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).month)
	}
}

// Invalidate drops the entry for month. Callers invoke this only after
// the store has acknowledged the commit that made the entry stale.
func (c *Cache) Invalidate(month model.Month) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[month]; ok {
		c.order.Remove(el)
		delete(c.entries, month)
	}
}

// Len returns the number of cached months.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Contains reports whether month currently has an entry, without touching
// recency.
func (c *Cache) Contains(month model.Month) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[month]
	return ok
}
