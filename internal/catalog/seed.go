package catalog

// SeedProducts returns the built-in catalog used when the products service has
// never been reached. It keeps the storefront usable for offline development.
func SeedProducts() []Product {
	return []Product{
		{
			ID:          "seed-1",
			Title:       "Wireless Earbuds",
			Price:       49.99,
			Category:    "electronics",
			Stock:       25,
			Image:       FallbackImage("electronics", "seed-1"),
			Description: "Compact true-wireless earbuds with charging case.",
		},
		{
			ID:          "seed-2",
			Title:       "Cotton T-Shirt",
			Price:       14.5,
			Category:    "clothing",
			Stock:       80,
			Image:       FallbackImage("clothing", "seed-2"),
			Description: "Plain crew-neck tee, assorted colours.",
		},
		{
			ID:          "seed-3",
			Title:       "Stainless Water Bottle",
			Price:       21,
			Category:    "home",
			Stock:       40,
			Image:       FallbackImage("home", "seed-3"),
			Description: "Insulated 750ml bottle, keeps drinks cold for 24h.",
		},
		{
			ID:          "seed-4",
			Title:       "Running Shoes",
			Price:       89.9,
			Category:    "sports",
			Stock:       18,
			Image:       FallbackImage("sports", "seed-4"),
			Description: "Lightweight road-running shoes.",
		},
		{
			ID:          "seed-5",
			Title:       "Paperback Notebook",
			Price:       6.75,
			Category:    "books",
			Stock:       120,
			Image:       FallbackImage("books", "seed-5"),
			Description: "Dotted A5 notebook, 180 pages.",
		},
		{
			ID:          "seed-6",
			Title:       "Ground Coffee 500g",
			Price:       12.25,
			Category:    "grocery",
			Stock:       60,
			Image:       FallbackImage("grocery", "seed-6"),
			Description: "Medium roast arabica, whole-bean aroma.",
		},
	}
}
