package cart

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

func (r *postgresRepo) GetOrCreateByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	const insert = `
INSERT INTO carts (user_id, status)
VALUES ($1, 'active')
ON CONFLICT (user_id) WHERE status = 'active' DO NOTHING
`
	if _, err := r.pool.Exec(ctx, insert, userID); err != nil {
		return nil, err
	}
	return r.fetchByUser(ctx, userID)
}

func (r *postgresRepo) fetchByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	const cartQuery = `
SELECT id::text, user_id::text, status, created_at, updated_at
FROM carts
WHERE user_id = $1 AND status = 'active'
LIMIT 1
`
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, cartQuery, userID).Scan(&cart.ID, &cart.UserID, &cart.Status, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	// Items are ordered by last update; the product columns form the
	// fetch-time snapshot the client displays.
	const itemsQuery = `
SELECT ci.id::text, ci.quantity, ci.status, ci.payment_ref, ci.mop, ci.updated_at,
       p.id::text, p.product_name, p.description, p.price::text, p.stocks, p.image
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.cart_id = $1
ORDER BY ci.updated_at DESC, ci.id
`
	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cart.Items = []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		var price string
		if err := rows.Scan(
			&item.ID,
			&item.Quantity,
			&item.Status,
			&item.PaymentRef,
			&item.MOP,
			&item.UpdatedAt,
			&item.Product.ID,
			&item.Product.ProductName,
			&item.Product.Description,
			&price,
			&item.Product.Stocks,
			&item.Product.Image,
		); err != nil {
			r.logger.Printf("cart repo: scan item error=%v", err)
			return nil, err
		}
		parsed, err := decimal.NewFromString(price)
		if err != nil {
			return nil, err
		}
		item.Product.Price = parsed
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) AddItem(ctx context.Context, cartID, productID string, quantity int) error {
	if quantity < 1 {
		return domain.ErrQuantityTooLow
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var stocks int
	err = tx.QueryRow(ctx, `SELECT stocks FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&stocks)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	var itemID string
	var existingQty int
	err = tx.QueryRow(ctx, `
SELECT id::text, quantity
FROM cart_items
WHERE cart_id = $1 AND product_id = $2 AND status = 'cart'
`, cartID, productID).Scan(&itemID, &existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	newQty := quantity
	if err == nil {
		newQty = existingQty + quantity
	}
	if newQty > stocks {
		return &domain.StockExceededError{Remaining: stocks}
	}

	if itemID != "" {
		if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $1, updated_at = now()
WHERE id = $2
`, newQty, itemID); err != nil {
			return err
		}
	} else {
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, product_id, quantity, status)
VALUES ($1, $2, $3, 'cart')
`, cartID, productID, newQty); err != nil {
			return err
		}
	}

	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) SetItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error {
	if quantity < 1 {
		return domain.ErrQuantityTooLow
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var stocks int
	err = tx.QueryRow(ctx, `
SELECT p.stocks
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.id = $1 AND ci.cart_id = $2 AND ci.status = 'cart'
FOR UPDATE OF p
`, itemID, cartID).Scan(&stocks)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if quantity > stocks {
		return &domain.StockExceededError{Remaining: stocks}
	}

	if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $1, updated_at = now()
WHERE id = $2 AND cart_id = $3
`, quantity, itemID, cartID); err != nil {
		return err
	}

	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) UpdateStatusBatch(ctx context.Context, cartID string, itemIDs []string, paymentRef string, mop domain.PaymentMethod) error {
	if len(itemIDs) == 0 {
		return domain.ErrNotFound
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
UPDATE cart_items
SET status = $1, payment_ref = $2, mop = $3, updated_at = now()
WHERE cart_id = $4 AND id = ANY($5::uuid[]) AND status = $6
`, domain.ItemStatusToShip, paymentRef, string(mop), cartID, itemIDs, domain.ItemStatusCart)
	if err != nil {
		return err
	}
	// All-or-none: if any selected item is missing or already placed, the
	// whole batch rolls back.
	if cmd.RowsAffected() != int64(len(itemIDs)) {
		r.logger.Printf("cart repo: batch mismatch cart=%s want=%d got=%d", cartID, len(itemIDs), cmd.RowsAffected())
		return domain.ErrNotFound
	}

	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func touchCart(ctx context.Context, tx pgx.Tx, cartID string) error {
	_, err := tx.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, cartID)
	return err
}
