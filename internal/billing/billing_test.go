package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"pakcuisine/internal/menu"
	"pakcuisine/internal/order"
)

var testMenu = menu.MustCatalog([]menu.Category{
	{Name: "Starters", Items: []menu.Item{{Name: "Samosa", Price: 80}, {Name: "Pakora", Price: 100}}},
	{Name: "Main Course", Items: []menu.Item{{Name: "Biryani", Price: 320}, {Name: "Karahi", Price: 650}}},
	{Name: "Beverages", Items: []menu.Item{{Name: "Chai", Price: 70}}},
})

func TestCompute_SamosaScenario(t *testing.T) {
	l := order.NewLedger(testMenu)
	l.AddItem("Starters", "Samosa", 2)

	b, err := Compute(testMenu, l.Snapshot(), 10, 20)
	require.NoError(t, err)

	assert.Equal(t, 160.0, b.Subtotal)
	assert.Equal(t, 10, b.DiscountPercent)
	assert.Equal(t, 16.0, b.DiscountAmount)
	assert.Equal(t, 144.0, b.DiscountedSubtotal)
	assert.InDelta(t, 7.2, b.TaxAmount, 1e-9)
	assert.Equal(t, 20.0, b.Tip)
	assert.InDelta(t, 171.2, b.Total, 1e-9)
	assert.Equal(t, "171.20", Money(b.Total))
}

func TestCompute_EmptyOrder(t *testing.T) {
	b, err := Compute(testMenu, order.Snapshot{}, 10, 5)
	require.NoError(t, err)

	assert.Zero(t, b.Subtotal)
	assert.Zero(t, b.TaxAmount)
	assert.Equal(t, 5.0, b.Total)
}

func TestCompute_InvalidLineItem(t *testing.T) {
	snap := order.NewSnapshot(order.Line{Key: menu.Key{Category: "Starters", Item: "Ghost"}, Quantity: 1})

	_, err := Compute(testMenu, snap, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidLineItem)
}

func TestCompute_OutOfRangeDiscountPropagates(t *testing.T) {
	l := order.NewLedger(testMenu)
	l.AddItem("Beverages", "Chai", 1)

	b, err := Compute(testMenu, l.Snapshot(), 150, 0)
	require.NoError(t, err)
	assert.Equal(t, 105.0, b.DiscountAmount)
	assert.Equal(t, -35.0, b.DiscountedSubtotal)

	b, err = Compute(testMenu, l.Snapshot(), -10, 0)
	require.NoError(t, err)
	assert.Equal(t, 77.0, b.DiscountedSubtotal)
}

func TestLineTotal(t *testing.T) {
	unit, total, err := LineTotal(testMenu, order.Line{Key: menu.Key{Category: "Main Course", Item: "Biryani"}, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 320, unit)
	assert.Equal(t, 960, total)

	_, _, err = LineTotal(testMenu, order.Line{Key: menu.Key{Category: "x", Item: "y"}, Quantity: 1})
	assert.ErrorIs(t, err, ErrInvalidLineItem)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "0.00", Money(0))
	assert.Equal(t, "7.20", Money(7.2))
	assert.Equal(t, "12.35", Money(12.345678))
}

// keys available to generated orders
var allKeys = []menu.Key{
	{Category: "Starters", Item: "Samosa"},
	{Category: "Starters", Item: "Pakora"},
	{Category: "Main Course", Item: "Biryani"},
	{Category: "Main Course", Item: "Karahi"},
	{Category: "Beverages", Item: "Chai"},
}

func genSnapshot(t *rapid.T) order.Snapshot {
	l := order.NewLedger(testMenu)
	n := rapid.IntRange(0, 10).Draw(t, "lines")
	for i := 0; i < n; i++ {
		k := rapid.SampledFrom(allKeys).Draw(t, "key")
		q := rapid.IntRange(1, 20).Draw(t, "qty")
		l.AddItem(k.Category, k.Item, q)
	}
	return l.Snapshot()
}

func TestCompute_SubtotalIsSumOfLines(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		snap := genSnapshot(t)

		want := 0
		for _, ln := range snap.Lines() {
			price, err := testMenu.Price(ln.Key)
			if err != nil {
				t.Fatalf("price: %v", err)
			}
			want += price * ln.Quantity
		}

		b, err := Compute(testMenu, snap, 0, 0)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if b.Subtotal != float64(want) {
			t.Fatalf("subtotal %v, want %v", b.Subtotal, want)
		}
		if diff := b.Total - b.Subtotal*1.05; diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("total %v is not subtotal %v plus 5%%", b.Total, b.Subtotal)
		}
	})
}

func TestCompute_TotalMonotonicInTip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		snap := genSnapshot(t)
		discount := rapid.IntRange(0, 100).Draw(t, "discount")
		lo := float64(rapid.IntRange(0, 1000).Draw(t, "tip"))
		hi := lo + float64(rapid.IntRange(0, 1000).Draw(t, "extra"))

		a, err := Compute(testMenu, snap, discount, lo)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		b, err := Compute(testMenu, snap, discount, hi)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if b.Total < a.Total {
			t.Fatalf("total fell from %v to %v as tip rose", a.Total, b.Total)
		}
	})
}

func TestCompute_TotalNonIncreasingInDiscount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		snap := genSnapshot(t)
		tip := float64(rapid.IntRange(0, 500).Draw(t, "tip"))
		lo := rapid.IntRange(0, 100).Draw(t, "discount")
		hi := rapid.IntRange(lo, 100).Draw(t, "higher")

		a, err := Compute(testMenu, snap, lo, tip)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		b, err := Compute(testMenu, snap, hi, tip)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if b.Total > a.Total+1e-9 {
			t.Fatalf("total rose from %v to %v as discount rose", a.Total, b.Total)
		}
	})
}
