package cartview

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"tapsihan-storefront/internal/domain"
)

type stubCartService struct {
	mu           sync.Mutex
	cart         *domain.Cart
	cartErr      error
	updateCart   *domain.Cart
	updateErr    error
	cartCalls    int
	updateCalls  int
	lastItemID   string
	lastQuantity int
}

func (s *stubCartService) Cart(_ context.Context, _ string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartCalls++
	return s.cart, s.cartErr
}

func (s *stubCartService) UpdateItemQuantity(_ context.Context, _, itemID string, quantity int) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	s.lastItemID = itemID
	s.lastQuantity = quantity
	return s.updateCart, s.updateErr
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testCart() *domain.Cart {
	return &domain.Cart{
		ID:     "c1",
		UserID: "u1",
		Items: []domain.CartItem{
			{
				ID:       "i1",
				Product:  domain.Product{ID: "p1", ProductName: "Tapsilog", Price: price("95.00"), Stocks: 5},
				Quantity: 2,
				Status:   domain.ItemStatusCart,
			},
			{
				ID:       "i2",
				Product:  domain.Product{ID: "p2", ProductName: "Longsilog", Price: price("85.00"), Stocks: 3},
				Quantity: 1,
				Status:   domain.ItemStatusToShip,
			},
		},
	}
}

func TestRefreshReplacesSnapshotAndTotal(t *testing.T) {
	svc := &stubCartService{cart: testCart()}
	m := NewManager(svc, "u1", nil)

	cart, err := m.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if cart.ID != "c1" {
		t.Fatalf("unexpected cart %+v", cart)
	}

	_, total := m.Snapshot()
	if !total.Equal(price("190.00")) {
		t.Fatalf("expected total 190.00 (toship item excluded), got %s", total)
	}
}

func TestRefreshFailureRetainsSnapshot(t *testing.T) {
	svc := &stubCartService{cart: testCart()}
	m := NewManager(svc, "u1", nil)
	if _, err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	svc.mu.Lock()
	svc.cartErr = errors.New("connection reset")
	svc.mu.Unlock()

	if _, err := m.Refresh(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	snap, total := m.Snapshot()
	if snap == nil || snap.ID != "c1" {
		t.Fatalf("previous snapshot lost: %+v", snap)
	}
	if !total.Equal(price("190.00")) {
		t.Fatalf("total changed after failed refresh: %s", total)
	}
}

func TestAdjustRejectsAtStockCeilingWithoutNetworkCall(t *testing.T) {
	cart := testCart()
	cart.Items[0].Quantity = 5 // stocks = 5
	svc := &stubCartService{cart: cart}
	m := NewManager(svc, "u1", nil)
	if _, err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	_, err := m.Adjust(context.Background(), "i1", +1)
	var stock *domain.StockExceededError
	if !errors.As(err, &stock) {
		t.Fatalf("expected StockExceededError, got %v", err)
	}
	if stock.Remaining != 5 {
		t.Fatalf("expected remaining 5, got %d", stock.Remaining)
	}
	if svc.updateCalls != 0 {
		t.Fatalf("expected no update request, got %d", svc.updateCalls)
	}
}

func TestAdjustRejectsBelowOne(t *testing.T) {
	cart := testCart()
	cart.Items[0].Quantity = 1
	svc := &stubCartService{cart: cart}
	m := NewManager(svc, "u1", nil)
	if _, err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if _, err := m.Adjust(context.Background(), "i1", -1); !errors.Is(err, domain.ErrQuantityTooLow) {
		t.Fatalf("expected ErrQuantityTooLow, got %v", err)
	}
	if svc.updateCalls != 0 {
		t.Fatalf("expected no update request, got %d", svc.updateCalls)
	}
}

func TestAdjustRejectsBadDelta(t *testing.T) {
	svc := &stubCartService{cart: testCart()}
	m := NewManager(svc, "u1", nil)
	if _, err := m.Adjust(context.Background(), "i1", 2); !errors.Is(err, domain.ErrBadAdjustment) {
		t.Fatalf("expected ErrBadAdjustment, got %v", err)
	}
}

func TestAdjustUnknownItemIsNoOp(t *testing.T) {
	svc := &stubCartService{cart: testCart()}
	m := NewManager(svc, "u1", nil)
	if _, err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	cart, err := m.Adjust(context.Background(), "missing", +1)
	if err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if cart.ID != "c1" || svc.updateCalls != 0 {
		t.Fatalf("expected untouched snapshot and no request, calls=%d", svc.updateCalls)
	}
}

func TestAdjustSubmitsAndAdoptsServerCart(t *testing.T) {
	serverCart := testCart()
	serverCart.Items[0].Quantity = 3
	svc := &stubCartService{cart: testCart(), updateCart: serverCart}
	m := NewManager(svc, "u1", nil)
	if _, err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	cart, err := m.Adjust(context.Background(), "i1", +1)
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if svc.lastItemID != "i1" || svc.lastQuantity != 3 {
		t.Fatalf("unexpected request (%s, %d)", svc.lastItemID, svc.lastQuantity)
	}
	if cart.Items[0].Quantity != 3 {
		t.Fatalf("snapshot not replaced with server state: %+v", cart.Items[0])
	}
	_, total := m.Snapshot()
	if !total.Equal(price("285.00")) {
		t.Fatalf("total not recomputed, got %s", total)
	}
}

// blockingCartService parks the first Cart call until released, so a later
// refresh can finish first.
type blockingCartService struct {
	first    *domain.Cart
	second   *domain.Cart
	started  chan struct{}
	release  chan struct{}
	mu       sync.Mutex
	calls    int
}

func (s *blockingCartService) Cart(_ context.Context, _ string) (*domain.Cart, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	s.mu.Unlock()
	if call == 1 {
		close(s.started)
		<-s.release
		return s.first, nil
	}
	return s.second, nil
}

func (s *blockingCartService) UpdateItemQuantity(_ context.Context, _, _ string, _ int) (*domain.Cart, error) {
	return nil, errors.New("not used")
}

func TestStaleResponseDiscarded(t *testing.T) {
	stale := testCart()
	stale.Items[0].Quantity = 1
	fresh := testCart()
	fresh.Items[0].Quantity = 4

	svc := &blockingCartService{
		first:   stale,
		second:  fresh,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	m := NewManager(svc, "u1", nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = m.Refresh(context.Background())
	}()

	<-svc.started
	if _, err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	close(svc.release)
	<-done

	snap, _ := m.Snapshot()
	if snap.Items[0].Quantity != 4 {
		t.Fatalf("stale response overwrote newer state: quantity %d", snap.Items[0].Quantity)
	}
}
