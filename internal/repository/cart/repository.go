package cart

import (
	"context"

	"tapsihan-storefront/internal/domain"
)

// Repository persists carts and their items. Items reference products; the
// product snapshot inside a fetched item reflects the catalog row at fetch
// time.
type Repository interface {
	// GetOrCreateByUser returns the user's single active cart, creating
	// an empty one on first read.
	GetOrCreateByUser(ctx context.Context, userID string) (*domain.Cart, error)
	// AddItem adds quantity units of a product, merging into an existing
	// pending line for the same product. The stock ceiling is enforced
	// inside the transaction.
	AddItem(ctx context.Context, cartID, productID string, quantity int) error
	// SetItemQuantity replaces one line's quantity, enforcing the stock
	// ceiling and the floor of one unit.
	SetItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error
	// UpdateStatusBatch moves the selected pending items to toship in one
	// transaction. Either every selected item transitions or none does.
	UpdateStatusBatch(ctx context.Context, cartID string, itemIDs []string, paymentRef string, mop domain.PaymentMethod) error
}
