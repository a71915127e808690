package menu

// Default returns the house menu
func Default() *Catalog {
	return MustCatalog([]Category{
		{
			Name: "🥗 Starters",
			Items: []Item{
				{Name: "🥟 Chicken Samosa", Price: 80},
				{Name: "🥟 Vegetable Samosa", Price: 60},
				{Name: "🍗 Seekh Kebab", Price: 180},
				{Name: "🍗 Chicken Tikka", Price: 220},
				{Name: "🍵 Mixed Pakora", Price: 100},
				{Name: "🧅 Onion Bhaji", Price: 90},
				{Name: "🌶️ Chili Chicken", Price: 250},
			},
		},
		{
			Name: "🍛 Main Course",
			Items: []Item{
				{Name: "🍛 Chicken Biryani", Price: 320},
				{Name: "🥘 Beef Biryani", Price: 380},
				{Name: "🍛 Mutton Biryani", Price: 450},
				{Name: "🍛 Vegetable Biryani", Price: 280},
				{Name: "🍲 Chicken Karahi", Price: 650},
				{Name: "🍲 Beef Karahi", Price: 750},
				{Name: "🍲 Mutton Karahi", Price: 850},
				{Name: "🍲 Haleem", Price: 250},
				{Name: "🍲 Nihari", Price: 400},
				{Name: "🍗 Butter Chicken", Price: 550},
				{Name: "🥘 Dal Makhani", Price: 300},
			},
		},
		{
			Name: "🥖 Breads & Sides",
			Items: []Item{
				{Name: "🥖 Butter Naan", Price: 50},
				{Name: "🥖 Garlic Naan", Price: 60},
				{Name: "🥞 Plain Paratha", Price: 40},
				{Name: "🥞 Aloo Paratha", Price: 80},
				{Name: "🍚 Plain Rice", Price: 60},
				{Name: "🥗 Fresh Salad", Price: 90},
				{Name: "🥣 Raita", Price: 50},
				{Name: "🧅 Pickled Onions", Price: 30},
			},
		},
		{
			Name: "🥤 Beverages",
			Items: []Item{
				{Name: "🥤 Coca Cola", Price: 80},
				{Name: "🥤 Sprite", Price: 80},
				{Name: "💧 Mineral Water", Price: 50},
				{Name: "☕ Kashmiri Chai", Price: 70},
				{Name: "☕ Green Tea", Price: 60},
				{Name: "🥛 Sweet Lassi", Price: 120},
				{Name: "🥛 Mango Lassi", Price: 140},
				{Name: "🧃 Fresh Juice", Price: 100},
			},
		},
		{
			Name: "🍮 Desserts",
			Items: []Item{
				{Name: "🍮 Rice Kheer", Price: 140},
				{Name: "🍩 Gulab Jamun", Price: 120},
				{Name: "🍦 Kulfi", Price: 180},
				{Name: "🍯 Jalebi", Price: 150},
				{Name: "🥧 Ras Malai", Price: 160},
				{Name: "🍰 Gajar Halwa", Price: 130},
			},
		},
	})
}
