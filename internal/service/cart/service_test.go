package cart

import (
	"context"
	"errors"
	"testing"

	"tapsihan-storefront/internal/domain"
)

type stubRepo struct {
	carts        []*domain.Cart
	getCalls     int
	getErr       error
	addErr       error
	setErr       error
	batchErr     error
	lastCartID   string
	lastProduct  string
	lastItemID   string
	lastQty      int
	lastBatchIDs []string
	lastRef      string
	lastMOP      domain.PaymentMethod
}

func (s *stubRepo) GetOrCreateByUser(_ context.Context, _ string) (*domain.Cart, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	var res *domain.Cart
	if len(s.carts) > 0 {
		idx := s.getCalls
		if idx >= len(s.carts) {
			idx = len(s.carts) - 1
		}
		res = s.carts[idx]
	}
	s.getCalls++
	return res, nil
}

func (s *stubRepo) AddItem(_ context.Context, cartID, productID string, quantity int) error {
	s.lastCartID = cartID
	s.lastProduct = productID
	s.lastQty = quantity
	return s.addErr
}

func (s *stubRepo) SetItemQuantity(_ context.Context, cartID, itemID string, quantity int) error {
	s.lastCartID = cartID
	s.lastItemID = itemID
	s.lastQty = quantity
	return s.setErr
}

func (s *stubRepo) UpdateStatusBatch(_ context.Context, cartID string, itemIDs []string, paymentRef string, mop domain.PaymentMethod) error {
	s.lastCartID = cartID
	s.lastBatchIDs = itemIDs
	s.lastRef = paymentRef
	s.lastMOP = mop
	return s.batchErr
}

func TestGetRequiresUserID(t *testing.T) {
	svc := &Service{repo: &stubRepo{}}
	if _, err := svc.Get(context.Background(), "  "); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestAddRefetchesCart(t *testing.T) {
	first := &domain.Cart{ID: "c1", UserID: "u1"}
	second := &domain.Cart{ID: "c1", UserID: "u1", Items: []domain.CartItem{{ID: "i1", Quantity: 2, Status: domain.ItemStatusCart}}}
	repo := &stubRepo{carts: []*domain.Cart{first, second}}
	svc := &Service{repo: repo}

	cart, err := svc.Add(context.Background(), "u1", "p1", 2)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if repo.lastCartID != "c1" || repo.lastProduct != "p1" || repo.lastQty != 2 {
		t.Fatalf("unexpected repo call (%s, %s, %d)", repo.lastCartID, repo.lastProduct, repo.lastQty)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected refetched cart, got %+v", cart)
	}
}

func TestAddPropagatesStockRejection(t *testing.T) {
	repo := &stubRepo{
		carts:  []*domain.Cart{{ID: "c1"}},
		addErr: &domain.StockExceededError{Remaining: 3},
	}
	svc := &Service{repo: repo}

	_, err := svc.Add(context.Background(), "u1", "p1", 5)
	var stock *domain.StockExceededError
	if !errors.As(err, &stock) || stock.Remaining != 3 {
		t.Fatalf("expected StockExceededError(3), got %v", err)
	}
}

func TestUpdateQuantityFloor(t *testing.T) {
	repo := &stubRepo{
		carts:  []*domain.Cart{{ID: "c1"}},
		setErr: domain.ErrQuantityTooLow,
	}
	svc := &Service{repo: repo}

	if _, err := svc.UpdateQuantity(context.Background(), "u1", "i1", 0); !errors.Is(err, domain.ErrQuantityTooLow) {
		t.Fatalf("expected ErrQuantityTooLow, got %v", err)
	}
}

func TestCheckoutValidation(t *testing.T) {
	svc := &Service{repo: &stubRepo{}}

	if _, err := svc.Checkout(context.Background(), "u1", nil, "N/A", domain.MethodCashOnDelivery); err == nil {
		t.Fatal("expected error for empty item list")
	}
	if _, err := svc.Checkout(context.Background(), "u1", []string{"i1"}, "N/A", "PayPal"); err == nil {
		t.Fatal("expected error for unsupported mop")
	}
	if _, err := svc.Checkout(context.Background(), "u1", []string{"i1"}, " ", domain.MethodGCash); err == nil {
		t.Fatal("expected error for blank payment reference")
	}
}

func TestCheckoutHappyPath(t *testing.T) {
	pending := &domain.Cart{ID: "c1", Items: []domain.CartItem{{ID: "i1", Status: domain.ItemStatusCart}}}
	placed := &domain.Cart{ID: "c1", Items: []domain.CartItem{{ID: "i1", Status: domain.ItemStatusToShip, PaymentRef: "1011234567890"}}}
	repo := &stubRepo{carts: []*domain.Cart{pending, placed}}
	svc := &Service{repo: repo}

	cart, err := svc.Checkout(context.Background(), "u1", []string{"i1"}, "1011234567890", domain.MethodGCash)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if repo.lastRef != "1011234567890" || repo.lastMOP != domain.MethodGCash {
		t.Fatalf("unexpected batch call ref=%q mop=%q", repo.lastRef, repo.lastMOP)
	}
	if cart.Items[0].Status != domain.ItemStatusToShip {
		t.Fatalf("expected refetched placed cart, got %+v", cart)
	}
}

func TestCheckoutBatchMismatchSurfaces(t *testing.T) {
	repo := &stubRepo{
		carts:    []*domain.Cart{{ID: "c1"}},
		batchErr: domain.ErrNotFound,
	}
	svc := &Service{repo: repo}

	if _, err := svc.Checkout(context.Background(), "u1", []string{"i1", "gone"}, "N/A", domain.MethodCashOnDelivery); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
