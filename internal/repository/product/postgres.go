package product

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"tapsihan-storefront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id::text, product_name, description, price::text, stocks, image
FROM products
ORDER BY product_name
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Printf("product repo: scan error=%v", err)
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT id::text, product_name, description, price::text, stocks, image
FROM products
WHERE id = $1
LIMIT 1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (product_name, description, price, stocks, image)
VALUES ($1, $2, $3::numeric, $4, $5)
ON CONFLICT (product_name) DO UPDATE
SET description = EXCLUDED.description,
    price = EXCLUDED.price,
    stocks = EXCLUDED.stocks,
    image = EXCLUDED.image
RETURNING id::text, product_name, description, price::text, stocks, image
`
	out, err := scanProduct(r.pool.QueryRow(ctx, q, p.ProductName, p.Description, p.Price.StringFixed(2), p.Stocks, p.Image))
	if err != nil {
		r.logger.Printf("product repo: upsert %q error=%v", p.ProductName, err)
		return nil, err
	}
	return out, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var price string
	if err := row.Scan(&p.ID, &p.ProductName, &p.Description, &price, &p.Stocks, &p.Image); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	p.Price = parsed
	return &p, nil
}
