// Package cartview holds the locally cached cart document for one screen
// context and applies bounded quantity adjustments to it. The remote cart
// service stays authoritative: every mutation replaces the snapshot with
// the server's returned state, never with a locally computed guess.
package cartview

import (
	"context"
	"io"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"tapsihan-storefront/internal/domain"
)

// CartService is the slice of the remote API the view needs.
type CartService interface {
	Cart(ctx context.Context, userID string) (*domain.Cart, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error)
}

// Manager caches the cart snapshot and its derived total. Responses are
// tagged with a per-manager sequence number; a response that lost the race
// against a later one is discarded instead of overwriting newer state.
type Manager struct {
	api    CartService
	userID string
	logger *log.Logger

	mu      sync.Mutex
	cart    *domain.Cart
	total   decimal.Decimal
	nextSeq uint64
	applied uint64
}

// NewManager builds a Manager for one user's screen context.
func NewManager(api CartService, userID string, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Manager{
		api:    api,
		userID: userID,
		logger: logger,
		total:  decimal.Zero,
	}
}

// Refresh refetches the cart. On failure the previous snapshot is retained
// and the error reported; no retry is scheduled.
func (m *Manager) Refresh(ctx context.Context) (*domain.Cart, error) {
	seq := m.begin()
	cart, err := m.api.Cart(ctx, m.userID)
	if err != nil {
		return nil, err
	}
	return m.accept(seq, cart), nil
}

// Snapshot returns the held cart and its derived total.
func (m *Manager) Snapshot() (*domain.Cart, decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart, m.total
}

// Accept records a server-returned cart produced outside this manager,
// such as a checkout submission response.
func (m *Manager) Accept(cart *domain.Cart) *domain.Cart {
	return m.accept(m.begin(), cart)
}

// Adjust changes one line's quantity by delta, which must be -1 or +1.
// The stock ceiling and the floor of one unit are enforced before any
// request is made; an item absent from the snapshot is a no-op.
func (m *Manager) Adjust(ctx context.Context, itemID string, delta int) (*domain.Cart, error) {
	if delta != 1 && delta != -1 {
		return nil, domain.ErrBadAdjustment
	}

	m.mu.Lock()
	cart := m.cart
	m.mu.Unlock()

	item := cart.FindItem(itemID)
	if item == nil {
		// Should not happen under correct wiring; leave state untouched.
		m.logger.Printf("adjust: item %s not in snapshot", itemID)
		return cart, nil
	}

	newQuantity := item.Quantity + delta
	if newQuantity > item.Product.Stocks {
		return nil, &domain.StockExceededError{Remaining: item.Product.Stocks}
	}
	if newQuantity < 1 {
		return nil, domain.ErrQuantityTooLow
	}

	seq := m.begin()
	updated, err := m.api.UpdateItemQuantity(ctx, m.userID, itemID, newQuantity)
	if err != nil {
		return nil, err
	}
	return m.accept(seq, updated), nil
}

func (m *Manager) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSeq++
	return m.nextSeq
}

// accept applies a response unless a later one already won.
func (m *Manager) accept(seq uint64, cart *domain.Cart) *domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seq < m.applied {
		m.logger.Printf("discarding stale response %d (newest %d)", seq, m.applied)
		return m.cart
	}
	m.applied = seq
	m.cart = cart
	m.total = cart.Total()
	return cart
}
