// Package cart holds the in-memory shopping cart of a single session.
//
// A Store keeps an ordered list of line items keyed by (id, color) together
// with two live aggregates: the item count and the monetary total. Every
// mutation is serialized behind the store's mutex, so the aggregates always
// agree with the items.
package cart

import (
	"errors"
	"math"
	"sync"

	"storefront/internal/domain"
)

// MaxQuantity bounds the quantity of a single line.
const MaxQuantity = 9999

// ErrLimitExceeded is returned by Add when the change would push a line past
// MaxQuantity or overflow the cart aggregates.
var ErrLimitExceeded = errors.New("cart: quantity limit exceeded")

// Snapshot is a consistent, versioned view of a store.
type Snapshot struct {
	Items   []domain.LineItem
	Count   int
	Total   int64
	Version uint64
}

// Observer is notified after every change to a store's collection.
// Observers must not block for long; they run on the mutating goroutine.
type Observer func(Snapshot)

// Store is one session's cart. The zero value is not usable; call New.
type Store struct {
	mu      sync.Mutex
	items   []domain.LineItem
	count   int
	total   int64
	version uint64

	obsMu     sync.RWMutex
	observers map[uint64]Observer
	nextObs   uint64
}

// New returns an empty store.
func New() *Store {
	return &Store{observers: make(map[uint64]Observer)}
}

// Add merges item into the cart. When a line with the same (id, color)
// exists its quantity grows and its other fields are kept as first added;
// otherwise item is appended. It returns the snapshot taken with the change.
// A change that would break the limits is rejected with ErrLimitExceeded and
// leaves the cart as it was.
func (s *Store) Add(item domain.LineItem) (Snapshot, error) {
	s.mu.Lock()
	idx := -1
	for i := range s.items {
		if s.items[i].SameKey(item) {
			idx = i
			break
		}
	}
	price, lineQty := item.Price, 0
	if idx >= 0 {
		price, lineQty = s.items[idx].Price, s.items[idx].Quantity
	}
	if !s.fitsLocked(price, lineQty, item.Quantity) {
		s.mu.Unlock()
		return Snapshot{}, ErrLimitExceeded
	}
	if idx >= 0 {
		s.items[idx].Quantity += item.Quantity
	} else {
		item.Color = cloneColor(item.Color)
		s.items = append(s.items, item)
	}
	s.count += item.Quantity
	s.total += price * int64(item.Quantity)
	snap := s.commitLocked()
	s.mu.Unlock()

	s.notify(snap)
	return snap, nil
}

// Remove deletes every line whose id matches, whatever its color, and
// returns the resulting snapshot.
func (s *Store) Remove(id string) Snapshot {
	s.mu.Lock()
	kept := s.items[:0]
	removed := false
	for _, it := range s.items {
		if it.ID == id {
			s.count -= it.Quantity
			s.total -= it.Subtotal()
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	// zero the tail so dropped items do not linger in the backing array
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = domain.LineItem{}
	}
	s.items = kept
	if !removed {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	snap := s.commitLocked()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

// Clear empties the cart and returns the resulting snapshot.
func (s *Store) Clear() Snapshot {
	s.mu.Lock()
	s.items = nil
	s.count = 0
	s.total = 0
	snap := s.commitLocked()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

// Count is the sum of quantities over all lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Total is the sum of price*quantity over all lines.
func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.items)
}

// Snapshot returns the items and aggregates as of one instant.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for change notifications. The returned func
// removes the subscription and is safe to call more than once.
func (s *Store) Subscribe(fn Observer) func() {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			delete(s.observers, id)
			s.obsMu.Unlock()
		})
	}
}

// fitsLocked reports whether adding qty units at price to a line that
// already holds lineQty stays within MaxQuantity and the aggregate ranges.
func (s *Store) fitsLocked(price int64, lineQty, qty int) bool {
	if qty > MaxQuantity-lineQty {
		return false
	}
	if qty > math.MaxInt-s.count {
		return false
	}
	if price > 0 && int64(qty) > (math.MaxInt64-s.total)/price {
		return false
	}
	return true
}

func (s *Store) commitLocked() Snapshot {
	s.version++
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Items:   copyItems(s.items),
		Count:   s.count,
		Total:   s.total,
		Version: s.version,
	}
}

func (s *Store) notify(snap Snapshot) {
	s.obsMu.RLock()
	observers := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.obsMu.RUnlock()

	for _, fn := range observers {
		fn(snap)
	}
}

func copyItems(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	for i, it := range items {
		it.Color = cloneColor(it.Color)
		out[i] = it
	}
	return out
}

func cloneColor(c *string) *string {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}
