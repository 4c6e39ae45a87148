package catalog

import "github.com/shopspring/decimal"

func unsplash(photo string) string {
	return "https://images.unsplash.com/" + photo + "?auto=format&fit=crop&w=800&q=60"
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Default returns the built-in placeholder catalog.
func Default() *Catalog {
	c, err := New(defaultRestaurants())
	if err != nil {
		// built-in data is fixed; a failure here is a programming error
		panic(err)
	}
	return c
}

func defaultRestaurants() []Restaurant {
	return []Restaurant{
		{
			ID:           "1",
			Name:         "Pizza Palace",
			ImageURL:     unsplash("photo-1513104890138-7c749659a591"),
			CuisineTypes: []string{"Italian", "Pizza"},
			Rating:       price("4.5"),
			DeliveryTime: "25-35 min",
			Address:      "123 Pizza St, Foodville",
			Menu: []MenuCategory{
				{Name: "Appetizers", Items: []MenuItem{
					{ID: "m1", Name: "Garlic Bread", Description: "Crusty bread with garlic butter and herbs.", Price: price("5.99"), ImageURL: unsplash("photo-1604382354936-07c5d9983bd3")},
					{ID: "m2", Name: "Caprese Salad", Description: "Fresh mozzarella, tomatoes, and basil.", Price: price("7.50"), ImageURL: unsplash("photo-1576996000046-710213926511")},
				}},
				{Name: "Main Courses", Items: []MenuItem{
					{ID: "m3", Name: "Margherita Pizza", Description: "Classic cheese and tomato pizza.", Price: price("12.99"), ImageURL: unsplash("photo-1593504049358-7433075513ab")},
					{ID: "m4", Name: "Pepperoni Pizza", Description: "Pizza with spicy pepperoni topping.", Price: price("14.50"), ImageURL: unsplash("photo-1534308983496-4fabb1a015ee")},
					{ID: "m5", Name: "Spaghetti Carbonara", Description: "Creamy pasta with bacon and egg.", Price: price("13.75"), ImageURL: unsplash("photo-1588013273468-31508b966714")},
				}},
				{Name: "Desserts", Items: []MenuItem{
					{ID: "m6", Name: "Tiramisu", Description: "Classic Italian coffee-flavored dessert.", Price: price("6.50"), ImageURL: unsplash("photo-1571877275904-68eb11a20762")},
				}},
			},
		},
		{
			ID:           "2",
			Name:         "Burger Barn",
			ImageURL:     unsplash("photo-1568901346375-23c9450c58cd"),
			CuisineTypes: []string{"American", "Burgers"},
			Rating:       price("4.2"),
			DeliveryTime: "20-30 min",
			Address:      "48 Grill Ave, Foodville",
			Menu: []MenuCategory{
				{Name: "Appetizers", Items: []MenuItem{
					{ID: "b1", Name: "Onion Rings", Description: "Beer-battered and golden.", Price: price("4.99")},
					{ID: "b2", Name: "Loaded Fries", Description: "Fries with cheese sauce and bacon bits.", Price: price("6.49")},
				}},
				{Name: "Main Courses", Items: []MenuItem{
					{ID: "b3", Name: "Classic Cheeseburger", Description: "Beef patty, cheddar, pickles, house sauce.", Price: price("10.99")},
					{ID: "b4", Name: "BBQ Bacon Burger", Description: "Smoked bacon, onion rings and BBQ glaze.", Price: price("12.49")},
					{ID: "b5", Name: "Veggie Burger", Description: "Black bean patty with avocado.", Price: price("10.49")},
				}},
				{Name: "Desserts", Items: []MenuItem{
					{ID: "b6", Name: "Chocolate Shake", Description: "Thick and creamy.", Price: price("4.50")},
				}},
			},
		},
		{
			ID:           "3",
			Name:         "Sushi Central",
			ImageURL:     unsplash("photo-1579871494447-9811cf80d66c"),
			CuisineTypes: []string{"Japanese", "Sushi"},
			Rating:       price("4.8"),
			DeliveryTime: "30-40 min",
			Address:      "9 Harbor Rd, Foodville",
			Menu: []MenuCategory{
				{Name: "Appetizers", Items: []MenuItem{
					{ID: "s1", Name: "Miso Soup", Description: "Tofu, wakame and scallions.", Price: price("3.50")},
					{ID: "s2", Name: "Edamame", Description: "Steamed and lightly salted.", Price: price("4.25")},
				}},
				{Name: "Main Courses", Items: []MenuItem{
					{ID: "s3", Name: "Salmon Nigiri Set", Description: "Eight pieces of fresh salmon nigiri.", Price: price("15.99")},
					{ID: "s4", Name: "Dragon Roll", Description: "Eel, cucumber and avocado.", Price: price("13.99")},
				}},
				{Name: "Desserts", Items: []MenuItem{
					{ID: "s5", Name: "Mochi Ice Cream", Description: "Three pieces, assorted flavors.", Price: price("5.50")},
				}},
			},
		},
		{
			ID:           "4",
			Name:         "Taco Town",
			ImageURL:     unsplash("photo-1552332386-f8dd00dc2f85"),
			CuisineTypes: []string{"Mexican", "Tacos"},
			Rating:       price("4.3"),
			DeliveryTime: "20-30 min",
			Address:      "77 Salsa Blvd, Foodville",
			Menu: []MenuCategory{
				{Name: "Appetizers", Items: []MenuItem{
					{ID: "t1", Name: "Chips & Guacamole", Description: "Made fresh to order.", Price: price("5.25")},
				}},
				{Name: "Main Courses", Items: []MenuItem{
					{ID: "t2", Name: "Carne Asada Tacos", Description: "Three tacos with grilled steak.", Price: price("11.50")},
					{ID: "t3", Name: "Chicken Burrito", Description: "Rice, beans, salsa and cheese.", Price: price("10.75")},
					{ID: "t4", Name: "Veggie Quesadilla", Description: "Peppers, onions and melted cheese.", Price: price("9.25")},
				}},
				{Name: "Desserts", Items: []MenuItem{
					{ID: "t5", Name: "Churros", Description: "Cinnamon sugar with chocolate dip.", Price: price("4.75")},
				}},
			},
		},
	}
}
