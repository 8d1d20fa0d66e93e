package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore records every save so tests can assert on the write-through
// behavior.
type fakeStore struct {
	mu      sync.Mutex
	data    []byte
	saves   int
	loadErr error
	saveErr error
}

func (f *fakeStore) Load(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.data, nil
}

func (f *fakeStore) Save(ctx context.Context, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.data = data
	f.saves++
	return nil
}

func testProduct(id string, price float64) Product {
	return Product{ID: id, Name: "Bear " + id, Price: price, ImageURL: "https://example.com/" + id + ".jpg"}
}

func TestAddItemMergesDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, &fakeStore{})

	c.AddItem(ctx, testProduct("A", 10), 2)
	c.AddItem(ctx, testProduct("A", 10), 3)
	c.AddItem(ctx, testProduct("A", 10), 0) // clamped to 1

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].ProductID)
	assert.Equal(t, 6, items[0].Quantity)
}

func TestAddItemDefaultsAndClamps(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, &fakeStore{})

	c.AddItem(ctx, testProduct("A", 5), -4)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestTotalsScenario(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, &fakeStore{})

	c.AddItem(ctx, testProduct("A", 10), 2)
	c.AddItem(ctx, testProduct("A", 10), 3)
	c.AddItem(ctx, testProduct("B", 5), 1)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].ProductID)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, "B", items[1].ProductID)
	assert.Equal(t, 1, items[1].Quantity)

	totals := c.Totals()
	assert.Equal(t, 6, totals.TotalItems)
	assert.Equal(t, 55.0, totals.TotalPrice)
}

func TestUpdateQuantityClampsToOne(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, &fakeStore{})
	c.AddItem(ctx, testProduct("A", 10), 3)

	c.UpdateQuantity(ctx, "A", 0)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity, "bad update clamps, never removes")
}

func TestUpdateQuantityUnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	c := New(ctx, store)
	c.AddItem(ctx, testProduct("A", 10), 2)
	savesBefore := store.saves

	c.UpdateQuantity(ctx, "missing", 5)

	assert.Equal(t, savesBefore, store.saves, "no-op must not persist")
	totals := c.Totals()
	assert.Equal(t, 2, totals.TotalItems)
}

func TestRemoveItemUnknownIDLeavesCartUnchanged(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, &fakeStore{})
	c.AddItem(ctx, testProduct("A", 10), 2)
	before := c.Totals()

	c.RemoveItem(ctx, "missing")

	assert.Equal(t, before, c.Totals())
	assert.Equal(t, 1, c.Len())
}

func TestRemoveItemDropsLine(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, &fakeStore{})
	c.AddItem(ctx, testProduct("A", 10), 2)
	c.AddItem(ctx, testProduct("B", 5), 1)

	c.RemoveItem(ctx, "A")

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "B", items[0].ProductID)
	assert.Equal(t, 5.0, c.Totals().TotalPrice)
}

func TestClearThenTotalsIsZero(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, &fakeStore{})
	c.AddItem(ctx, testProduct("A", 10), 2)

	c.Clear(ctx)
	c.Clear(ctx) // idempotent

	assert.Equal(t, Totals{}, c.Totals())
	assert.Empty(t, c.Items())
}

func TestMutationsPersistToStore(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	c := New(ctx, store)

	c.AddItem(ctx, testProduct("A", 10), 2)
	c.UpdateQuantity(ctx, "A", 4)
	c.RemoveItem(ctx, "A")
	c.Clear(ctx)

	assert.Equal(t, 4, store.saves)

	var stored []LineItem
	require.NoError(t, json.Unmarshal(store.data, &stored))
	assert.Empty(t, stored)
}

func TestRehydrateFromStore(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	c := New(ctx, store)
	c.AddItem(ctx, testProduct("A", 10), 2)
	c.AddItem(ctx, testProduct("B", 5), 3)

	restored := New(ctx, store)

	assert.Equal(t, c.Items(), restored.Items())
	assert.Equal(t, c.Totals(), restored.Totals())
}

func TestRehydrateCorruptDataYieldsEmptyCart(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{data: []byte("{not json")}

	c := New(ctx, store)

	assert.Empty(t, c.Items())
	assert.Equal(t, Totals{}, c.Totals())
}

func TestRehydrateLoadErrorYieldsEmptyCart(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{loadErr: errors.New("store down")}

	c := New(ctx, store)

	assert.Empty(t, c.Items())
}

func TestRehydrateDropsMalformedEntries(t *testing.T) {
	ctx := context.Background()
	data, _ := json.Marshal([]LineItem{
		{ProductID: "A", Name: "Bear A", UnitPrice: 10, Quantity: 2},
		{ProductID: "", Quantity: 3},
		{ProductID: "B", Quantity: 0},
	})
	store := &fakeStore{data: data}

	c := New(ctx, store)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].ProductID)
}

func TestSaveFailureDoesNotBreakCartState(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, &fakeStore{saveErr: errors.New("store down")})

	c.AddItem(ctx, testProduct("A", 10), 2)

	assert.Equal(t, 2, c.Totals().TotalItems, "in-memory state survives a failed save")
}

func TestSubscribeObservesMutations(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, &fakeStore{})
	ch, unsubscribe := c.Subscribe()
	defer unsubscribe()

	c.AddItem(ctx, testProduct("A", 10), 1)

	select {
	case <-ch:
	default:
		t.Fatal("expected a notification after AddItem")
	}

	unsubscribe()
	c.Clear(ctx)
	select {
	case <-ch:
		t.Fatal("unexpected notification after unsubscribe")
	default:
	}
}

func TestConcurrentAddsKeepInvariant(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, &fakeStore{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.AddItem(ctx, testProduct("A", 2), 1)
		}()
	}
	wg.Wait()

	items := c.Items()
	require.Len(t, items, 1, "duplicate ids must merge under concurrency")
	assert.Equal(t, 50, items[0].Quantity)
	assert.Equal(t, 100.0, c.Totals().TotalPrice)
}

func TestManagerIsolatesSessions(t *testing.T) {
	ctx := context.Background()
	m := NewManager(func(sessionID string) Store { return NewMemoryStore() })

	a := m.Get(ctx, "session-a")
	b := m.Get(ctx, "session-b")
	a.AddItem(ctx, testProduct("A", 10), 1)

	assert.Equal(t, 1, a.Totals().TotalItems)
	assert.Equal(t, 0, b.Totals().TotalItems)
	assert.Same(t, a, m.Get(ctx, "session-a"))
}

func TestManagerDropRehydratesFromStore(t *testing.T) {
	ctx := context.Background()
	stores := map[string]Store{}
	m := NewManager(func(sessionID string) Store {
		if s, ok := stores[sessionID]; ok {
			return s
		}
		s := NewMemoryStore()
		stores[sessionID] = s
		return s
	})

	c := m.Get(ctx, "s")
	c.AddItem(ctx, testProduct("A", 10), 2)
	m.Drop("s")

	restored := m.Get(ctx, "s")
	assert.NotSame(t, c, restored)
	assert.Equal(t, c.Totals(), restored.Totals())
}
