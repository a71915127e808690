package menu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog([]Category{
		{Name: "Starters", Items: []Item{{Name: "Samosa", Price: 80}, {Name: "Pakora", Price: 100}}},
		{Name: "Main Course", Items: []Item{{Name: "Biryani", Price: 320}}},
	})
	require.NoError(t, err)
	return c
}

func TestCatalog_Price(t *testing.T) {
	c := testCatalog(t)

	price, err := c.Price(Key{Category: "Starters", Item: "Samosa"})
	require.NoError(t, err)
	assert.Equal(t, 80, price)

	_, err = c.Price(Key{Category: "Starters", Item: "Biryani"})
	assert.True(t, errors.Is(err, ErrUnknownItem))

	_, err = c.Price(Key{Category: "Drinks", Item: "Samosa"})
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestCatalog_PreservesOrder(t *testing.T) {
	c := testCatalog(t)

	cats := c.Categories()
	require.Len(t, cats, 2)
	assert.Equal(t, "Starters", cats[0].Name)
	assert.Equal(t, "Main Course", cats[1].Name)
	assert.Equal(t, []Item{{Name: "Samosa", Price: 80}, {Name: "Pakora", Price: 100}}, c.Items("Starters"))
	assert.Nil(t, c.Items("Desserts"))
}

func TestCatalog_CategoriesIsACopy(t *testing.T) {
	c := testCatalog(t)

	cats := c.Categories()
	cats[0].Items[0].Price = 1
	cats[0].Name = "changed"

	price, err := c.Price(Key{Category: "Starters", Item: "Samosa"})
	require.NoError(t, err)
	assert.Equal(t, 80, price)
	assert.Equal(t, "Starters", c.Categories()[0].Name)
}

func TestNewCatalog_Rejects(t *testing.T) {
	tests := []struct {
		name string
		cats []Category
	}{
		{"negative price", []Category{{Name: "A", Items: []Item{{Name: "x", Price: -1}}}}},
		{"duplicate item", []Category{{Name: "A", Items: []Item{{Name: "x", Price: 1}, {Name: "x", Price: 2}}}}},
		{"duplicate category", []Category{{Name: "A"}, {Name: "A"}}},
		{"empty category name", []Category{{Name: ""}}},
		{"empty item name", []Category{{Name: "A", Items: []Item{{Name: "", Price: 1}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.cats)
			assert.Error(t, err)
		})
	}
}

func TestKey_Ordering(t *testing.T) {
	biryani := Key{Category: "Main Course", Item: "Biryani"}
	samosa := Key{Category: "Starters", Item: "Samosa"}
	pakora := Key{Category: "Starters", Item: "Pakora"}

	assert.True(t, biryani.Less(samosa))
	assert.False(t, samosa.Less(biryani))
	assert.True(t, pakora.Less(samosa))
	assert.False(t, samosa.Less(samosa))
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey("Starters:Samosa")
	require.NoError(t, err)
	assert.Equal(t, Key{Category: "Starters", Item: "Samosa"}, k)

	// only the first separator splits
	k, err = ParseKey("Drinks:Tea: Green")
	require.NoError(t, err)
	assert.Equal(t, "Tea: Green", k.Item)
	assert.Equal(t, "Drinks:Tea: Green", k.String())

	_, err = ParseKey("no separator")
	assert.Error(t, err)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Chicken Samosa", DisplayName("🥟 Chicken Samosa"))
	assert.Equal(t, "Chili Chicken", DisplayName("🌶️ Chili Chicken"))
	assert.Equal(t, "Breads & Sides", DisplayName("🥖 Breads & Sides"))
	assert.Equal(t, "Plain", DisplayName("Plain"))
}

func TestDefault(t *testing.T) {
	c := Default()

	assert.Len(t, c.Categories(), 5)
	assert.Equal(t, 40, c.Len())

	price, err := c.Price(Key{Category: "🥗 Starters", Item: "🥟 Chicken Samosa"})
	require.NoError(t, err)
	assert.Equal(t, 80, price)
}
