package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Name        string
	Description string
	Price       string
	Stocks      int
	Image       string
}

// Apply inserts the starter menu for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Name:        "Tapsilog",
			Description: "Beef tapa with garlic rice and fried egg",
			Price:       "95.00",
			Stocks:      40,
			Image:       "https://example.com/img/tapsilog.jpg",
		},
		{
			Name:        "Longsilog",
			Description: "Sweet longganisa with garlic rice and fried egg",
			Price:       "85.00",
			Stocks:      40,
			Image:       "https://example.com/img/longsilog.jpg",
		},
		{
			Name:        "Bangsilog",
			Description: "Fried bangus with garlic rice and fried egg",
			Price:       "110.00",
			Stocks:      25,
			Image:       "https://example.com/img/bangsilog.jpg",
		},
		{
			Name:        "Cornsilog",
			Description: "Corned beef with garlic rice and fried egg",
			Price:       "80.00",
			Stocks:      35,
			Image:       "https://example.com/img/cornsilog.jpg",
		},
		{
			Name:        "Hotsilog",
			Description: "Hotdog with garlic rice and fried egg",
			Price:       "70.00",
			Stocks:      50,
			Image:       "https://example.com/img/hotsilog.jpg",
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (product_name, description, price, stocks, image)
VALUES ($1, $2, $3::numeric, $4, $5)
ON CONFLICT (product_name) DO UPDATE
SET description = EXCLUDED.description,
    price = EXCLUDED.price,
    stocks = EXCLUDED.stocks,
    image = EXCLUDED.image
`
	_, err := pool.Exec(ctx, q, p.Name, p.Description, p.Price, p.Stocks, p.Image)
	return err
}
