package product

import (
	"context"

	"tapsihan-storefront/internal/domain"
)

// Repository reads and writes menu products.
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
