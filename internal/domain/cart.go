package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lifecycle stages of a single cart item. Each item advances independently
// of its siblings in the same cart.
const (
	ItemStatusCart      = "cart"
	ItemStatusToShip    = "toship"
	ItemStatusDelivery  = "delivery"
	ItemStatusCompleted = "completed"
)

// PaymentMethod is the mode of payment attached to a checkout batch. The
// zero value means the shopper has not picked one yet.
type PaymentMethod string

const (
	MethodUnselected     PaymentMethod = ""
	MethodCashOnDelivery PaymentMethod = "Cash on Delivery"
	MethodGCash          PaymentMethod = "GCash"
)

// PaymentRefNone marks batches paid on delivery, where no reference number
// exists.
const PaymentRefNone = "N/A"

// Cart is a user's single active cart. Items keep their own status, so the
// same document carries both pending lines and already-placed orders.
type Cart struct {
	ID        string     `json:"_id"`
	UserID    string     `json:"user"`
	Items     []CartItem `json:"items"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartItem is one line of a cart. Product is a snapshot taken at fetch
// time; Stocks on it reflects inventory as of the last read.
type CartItem struct {
	ID         string        `json:"_id"`
	Product    Product       `json:"product"`
	Quantity   int           `json:"quantity"`
	Status     string        `json:"status"`
	PaymentRef string        `json:"paymentRef"`
	MOP        PaymentMethod `json:"mop,omitempty"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// Total sums price times quantity over items still in the cart stage.
// Items already placed do not contribute.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	if c == nil {
		return total
	}
	for _, item := range c.Items {
		if item.Status != ItemStatusCart {
			continue
		}
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// FindItem returns the item with the given id, or nil.
func (c *Cart) FindItem(itemID string) *CartItem {
	if c == nil {
		return nil
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// PendingItemIDs lists the ids of items eligible for checkout.
func (c *Cart) PendingItemIDs() []string {
	if c == nil {
		return nil
	}
	var ids []string
	for _, item := range c.Items {
		if item.Status == ItemStatusCart {
			ids = append(ids, item.ID)
		}
	}
	return ids
}
