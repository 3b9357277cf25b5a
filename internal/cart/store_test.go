package cart

import (
	"errors"
	"math"
	"sync"
	"testing"

	"storefront/internal/domain"
)

func strPtr(v string) *string {
	return &v
}

func item(id string, price int64, qty int) domain.LineItem {
	return domain.LineItem{ID: id, Name: "Item " + id, Price: price, Image: id + ".jpg", Quantity: qty}
}

func assertAggregates(t *testing.T, s *Store) {
	t.Helper()
	var count int
	var total int64
	for _, it := range s.Items() {
		count += it.Quantity
		total += it.Price * int64(it.Quantity)
	}
	if s.Count() != count {
		t.Fatalf("count %d does not match items sum %d", s.Count(), count)
	}
	if s.Total() != total {
		t.Fatalf("total %d does not match items sum %d", s.Total(), total)
	}
}

func TestStore_EmptyAggregates(t *testing.T) {
	s := New()
	if s.Count() != 0 || s.Total() != 0 {
		t.Fatalf("expected empty aggregates, got count=%d total=%d", s.Count(), s.Total())
	}
	if got := s.Items(); len(got) != 0 {
		t.Fatalf("expected no items, got %+v", got)
	}
}

func TestStore_AddMergesSameKeyKeepingFirstFields(t *testing.T) {
	s := New()
	s.Add(domain.LineItem{ID: "A", Name: "First", Price: 1000, Image: "a.jpg", Quantity: 1})
	s.Add(domain.LineItem{ID: "A", Name: "Second", Price: 2500, Image: "b.jpg", Quantity: 2})

	items := s.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(items))
	}
	got := items[0]
	if got.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", got.Quantity)
	}
	if got.Name != "First" || got.Price != 1000 || got.Image != "a.jpg" {
		t.Fatalf("expected first-added fields to be kept, got %+v", got)
	}
	if s.Total() != 3000 {
		t.Fatalf("expected total 3000, got %d", s.Total())
	}
	assertAggregates(t, s)
}

func TestStore_AddDistinctColors(t *testing.T) {
	s := New()
	red := item("A", 1000, 1)
	red.Color = strPtr("red")
	blue := item("A", 1000, 1)
	blue.Color = strPtr("blue")
	plain := item("A", 1000, 1)

	s.Add(red)
	s.Add(blue)
	s.Add(plain)
	s.Add(plain)

	items := s.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 lines, got %d: %+v", len(items), items)
	}
	if items[2].Color != nil || items[2].Quantity != 2 {
		t.Fatalf("expected colorless line with quantity 2, got %+v", items[2])
	}
	assertAggregates(t, s)
}

func TestStore_EmptyColorDiffersFromAbsent(t *testing.T) {
	s := New()
	withEmpty := item("A", 10, 1)
	withEmpty.Color = strPtr("")
	s.Add(item("A", 10, 1))
	s.Add(withEmpty)
	if n := len(s.Items()); n != 2 {
		t.Fatalf("expected 2 lines, got %d", n)
	}
}

func TestStore_AddPreservesInsertionOrder(t *testing.T) {
	s := New()
	s.Add(item("C", 1, 1))
	s.Add(item("A", 1, 1))
	s.Add(item("B", 1, 1))
	s.Add(item("A", 1, 4))

	want := []string{"C", "A", "B"}
	items := s.Items()
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, items[i].ID)
		}
	}
}

func TestStore_RemoveIgnoresColor(t *testing.T) {
	s := New()
	red := item("A", 1000, 1)
	red.Color = strPtr("red")
	s.Add(item("A", 1000, 2))
	s.Add(red)
	s.Add(item("B", 500, 1))

	s.Remove("A")

	items := s.Items()
	if len(items) != 1 || items[0].ID != "B" {
		t.Fatalf("expected only B to remain, got %+v", items)
	}
	if s.Count() != 1 || s.Total() != 500 {
		t.Fatalf("unexpected aggregates count=%d total=%d", s.Count(), s.Total())
	}
}

func TestStore_RemoveUnknownIsNoop(t *testing.T) {
	s := New()
	s.Add(item("A", 1000, 1))
	before := s.Snapshot()

	s.Remove("missing")

	after := s.Snapshot()
	if after.Version != before.Version {
		t.Fatalf("expected version unchanged, got %d -> %d", before.Version, after.Version)
	}
	if len(after.Items) != 1 || after.Count != 1 || after.Total != 1000 {
		t.Fatalf("unexpected snapshot %+v", after)
	}
}

func TestStore_ClearResets(t *testing.T) {
	s := New()
	s.Add(item("A", 1000, 3))
	s.Add(item("B", 200, 1))

	s.Clear()
	if s.Count() != 0 || s.Total() != 0 || len(s.Items()) != 0 {
		t.Fatalf("expected empty cart after clear")
	}

	s.Clear()
	if s.Count() != 0 || s.Total() != 0 {
		t.Fatalf("expected clear to be idempotent")
	}
}

func TestStore_Scenario(t *testing.T) {
	s := New()
	steps := []struct {
		name  string
		apply func()
		count int
		total int64
		lines int
	}{
		{"add A", func() { s.Add(item("A", 1000, 1)) }, 1, 1000, 1},
		{"add A again", func() { s.Add(item("A", 1000, 2)) }, 3, 3000, 1},
		{"add red A", func() {
			red := item("A", 1000, 1)
			red.Color = strPtr("red")
			s.Add(red)
		}, 4, 4000, 2},
		{"remove A", func() { s.Remove("A") }, 0, 0, 0},
		{"clear empty", func() { s.Clear() }, 0, 0, 0},
	}
	for _, step := range steps {
		step.apply()
		if s.Count() != step.count || s.Total() != step.total || len(s.Items()) != step.lines {
			t.Fatalf("%s: got count=%d total=%d lines=%d", step.name, s.Count(), s.Total(), len(s.Items()))
		}
	}
}

func TestStore_ItemsAreCopies(t *testing.T) {
	s := New()
	red := item("A", 1000, 1)
	red.Color = strPtr("red")
	s.Add(red)

	*red.Color = "blue"
	items := s.Items()
	items[0].Quantity = 99
	*items[0].Color = "green"

	again := s.Items()
	if again[0].Quantity != 1 || *again[0].Color != "red" {
		t.Fatalf("store state leaked through copies: %+v color=%s", again[0], *again[0].Color)
	}
}

func TestStore_SubscribeNotifiesSynchronously(t *testing.T) {
	s := New()
	var got []Snapshot
	cancel := s.Subscribe(func(snap Snapshot) {
		got = append(got, snap)
	})

	s.Add(item("A", 1000, 1))
	if len(got) != 1 || got[0].Count != 1 || got[0].Total != 1000 || got[0].Version != 1 {
		t.Fatalf("unexpected notification after add: %+v", got)
	}

	s.Remove("missing")
	if len(got) != 1 {
		t.Fatalf("no-op remove must not notify, got %d notifications", len(got))
	}

	s.Remove("A")
	s.Clear()
	if len(got) != 3 || got[2].Version != 3 || got[2].Count != 0 {
		t.Fatalf("unexpected notifications: %+v", got)
	}

	cancel()
	cancel()
	s.Add(item("B", 1, 1))
	if len(got) != 3 {
		t.Fatalf("expected no notification after cancel, got %d", len(got))
	}
}

func TestStore_ConcurrentAdds(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "A"
			if i%2 == 0 {
				id = "B"
			}
			s.Add(item(id, 100, 1))
		}(i)
	}
	wg.Wait()

	if s.Count() != 50 || s.Total() != 5000 || len(s.Items()) != 2 {
		t.Fatalf("unexpected state count=%d total=%d lines=%d", s.Count(), s.Total(), len(s.Items()))
	}
	assertAggregates(t, s)
}

func TestStore_AddRejectsQuantityPastLimit(t *testing.T) {
	s := New()
	var notified int
	s.Subscribe(func(Snapshot) { notified++ })

	if _, err := s.Add(item("A", 1000, MaxQuantity)); err != nil {
		t.Fatalf("expected add at the limit to succeed, got %v", err)
	}
	before := s.Snapshot()

	if _, err := s.Add(item("A", 1000, 1)); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected limit error on merge, got %v", err)
	}
	if _, err := s.Add(item("B", 1, MaxQuantity+1)); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected limit error on new line, got %v", err)
	}
	huge := math.MaxInt/2 + 1
	if _, err := s.Add(item("C", 1, huge)); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected limit error for %d, got %v", huge, err)
	}

	after := s.Snapshot()
	if after.Version != before.Version || after.Count != MaxQuantity || len(after.Items) != 1 {
		t.Fatalf("rejected adds changed the cart: %+v", after)
	}
	if notified != 1 {
		t.Fatalf("rejected adds must not notify, got %d notifications", notified)
	}
}

func TestStore_AddRejectsTotalOverflow(t *testing.T) {
	s := New()
	if _, err := s.Add(item("A", math.MaxInt64/2, 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Add(item("B", math.MaxInt64/2, 2)); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected limit error, got %v", err)
	}
	if s.Total() != math.MaxInt64/2 || s.Count() != 1 {
		t.Fatalf("unexpected aggregates count=%d total=%d", s.Count(), s.Total())
	}
}

func TestStore_MutationsReturnTheirSnapshot(t *testing.T) {
	s := New()
	snap, err := s.Add(item("A", 1000, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Version != 1 || snap.Count != 2 || snap.Total != 2000 || len(snap.Items) != 1 {
		t.Fatalf("unexpected add snapshot %+v", snap)
	}
	if snap = s.Remove("missing"); snap.Version != 1 || snap.Count != 2 {
		t.Fatalf("unexpected no-op remove snapshot %+v", snap)
	}
	if snap = s.Remove("A"); snap.Version != 2 || snap.Count != 0 || len(snap.Items) != 0 {
		t.Fatalf("unexpected remove snapshot %+v", snap)
	}
	if snap = s.Clear(); snap.Version != 3 || snap.Total != 0 {
		t.Fatalf("unexpected clear snapshot %+v", snap)
	}
}
