package catalog

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/reskianugrahsari/aplikasi-kasir/internal/redisx"
)

// DefaultProducts is the starter catalog inserted on first run.
func DefaultProducts() []Product {
	return []Product{
		{ID: "1", Name: "Nasi Goreng Spesial", Price: 25000, Category: CategoryFood, Image: "/photo.jpg", Stock: 50},
		{ID: "2", Name: "Es Kopi Susu Gula Aren", Price: 18000, Category: CategoryDrink, Image: "/kopi.png", Stock: 100},
		{ID: "3", Name: "Mie Goreng Jawa", Price: 22000, Category: CategoryFood, Image: "/mie.png", Stock: 40},
		{ID: "4", Name: "Teh Manis Dingin", Price: 5000, Category: CategoryDrink, Image: "/teh.png", Stock: 200},
		{ID: "5", Name: "Kentang Goreng", Price: 15000, Category: CategorySnack, Image: "/kentang.png", Stock: 80},
		{ID: "6", Name: "Roti Bakar Coklat", Price: 12000, Category: CategoryDessert, Image: "/roti.png", Stock: 30},
		{ID: "7", Name: "Burger Sapi", Price: 35000, Category: CategoryFood, Image: "/burger.png", Stock: 25},
		{ID: "8", Name: "Matcha Latte", Price: 24000, Category: CategoryDrink, Image: "/matcha.png", Stock: 45},
	}
}

// Seed inserts the default catalog when the products table is empty. A Redis
// marker records completion so restarts skip the count query fast path; the
// table check remains authoritative.
func Seed(ctx context.Context, repo *Repo, rdb *redis.Client) error {
	if done, _ := redisx.Exists(ctx, rdb, redisx.KeySeedDone); done {
		return nil
	}

	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("seed: list products: %w", err)
	}
	if len(existing) > 0 {
		_ = rdb.Set(ctx, redisx.KeySeedDone, "1", 0).Err()
		return nil
	}

	for _, p := range DefaultProducts() {
		if _, err := repo.Create(ctx, p); err != nil {
			return fmt.Errorf("seed: insert %s: %w", p.ID, err)
		}
	}
	log.Printf("seeded %d default products", len(DefaultProducts()))
	_ = rdb.Set(ctx, redisx.KeySeedDone, "1", 0).Err()
	return nil
}
