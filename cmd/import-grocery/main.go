package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dishfeed/merchant-backend/pkg/db"
	"github.com/dishfeed/merchant-backend/pkg/logger"
)

type groceryItem struct {
	ID        string
	Title     string
	Price     int
	Inventory int
}

var groceryItems = []groceryItem{
	{"milk", "Whole Milk", 399, 100},
	{"eggs", "Free Range Eggs", 449, 100},
	{"pasta", "Spaghetti Pasta", 289, 100},
	{"parmesan", "Parmesan Wedge", 599, 100},
	{"bacon", "Smoked Bacon", 699, 100},
	{"avocado", "Avocado", 199, 100},
	{"tomato", "Roma Tomatoes", 249, 100},
	{"onion", "Yellow Onion", 149, 100},
	{"lime", "Fresh Lime", 99, 100},
	{"jalapeno", "Jalapeno Pepper", 129, 100},
	{"cilantro", "Cilantro Bunch", 129, 100},
	{"tortillas", "Corn Tortillas", 299, 100},
	{"ground_beef", "Ground Beef", 899, 100},
	{"taco_seasoning", "Taco Seasoning", 199, 100},
	{"cheddar", "Cheddar Cheese", 549, 100},
	{"lettuce", "Romaine Lettuce", 249, 100},
	{"chicken_breast", "Chicken Breast", 1099, 100},
	{"rice", "Jasmine Rice", 299, 100},
	{"black_beans", "Black Beans", 179, 100},
	{"garlic", "Garlic", 99, 100},
	{"olive_oil", "Olive Oil", 799, 100},
	{"butter", "Unsalted Butter", 399, 100},
	{"bread", "Sourdough Bread", 499, 100},
	{"cucumber", "Cucumber", 149, 100},
	{"greek_yogurt", "Greek Yogurt", 549, 100},
	{"lemon", "Lemon", 99, 100},
	{"basil", "Fresh Basil", 199, 100},
	{"salmon", "Atlantic Salmon", 1299, 100},
	{"soy_sauce", "Soy Sauce", 299, 100},
	{"ginger", "Ginger", 129, 100},
	{"bell_pepper", "Bell Pepper", 179, 100},
	{"mushrooms", "Cremini Mushrooms", 349, 100},
	{"spinach", "Baby Spinach", 299, 100},
	{"shrimp", "Shrimp", 1199, 100},
	{"flour", "All Purpose Flour", 259, 100},
	{"sugar", "Cane Sugar", 239, 100},
	{"oats", "Rolled Oats", 329, 100},
	{"strawberries", "Strawberries", 399, 100},
	{"honey", "Wildflower Honey", 599, 100},
	{"chickpeas", "Chickpeas", 189, 100},
	{"quinoa", "Quinoa", 399, 100},
	{"feta", "Feta Cheese", 549, 100},
	{"salt", "Sea Salt", 149, 100},
}

func main() {
	productsDBPath := flag.String("products-db-path", "products.db", "path to the catalog store")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "import-grocery"})
	ctx := logg.WithField(context.Background(), "path", *productsDBPath)

	if dir := filepath.Dir(*productsDBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logg.Error(ctx, "failed to create catalog directory", err)
			os.Exit(1)
		}
	}

	client, err := db.Open(ctx, *productsDBPath, logg)
	if err != nil {
		logg.Error(ctx, "failed to open catalog store", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logg.Error(ctx, "error closing catalog store", err)
		}
	}()

	conn := client.DB().WithContext(ctx)
	if err := conn.Exec("DROP TABLE IF EXISTS products").Error; err != nil {
		logg.Error(ctx, "failed to reset products table", err)
		os.Exit(1)
	}
	if err := conn.Exec(`
		CREATE TABLE products (
			id TEXT PRIMARY KEY,
			title TEXT,
			price INTEGER,
			image_url TEXT,
			inventory_quantity INTEGER
		)
	`).Error; err != nil {
		logg.Error(ctx, "failed to create products table", err)
		os.Exit(1)
	}

	for _, item := range groceryItems {
		imageURL := fmt.Sprintf("https://picsum.photos/seed/%s/400/300", item.ID)
		if err := conn.Exec(
			"INSERT INTO products (id, title, price, image_url, inventory_quantity) VALUES (?, ?, ?, ?, ?)",
			item.ID, item.Title, item.Price, imageURL, item.Inventory,
		).Error; err != nil {
			logg.Error(logg.WithField(ctx, "product_id", item.ID), "failed to insert product", err)
			os.Exit(1)
		}
	}

	logg.Info(logg.WithField(ctx, "count", len(groceryItems)), "catalog seeded")
}
