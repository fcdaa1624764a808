package cart

import (
	"context"
	"errors"
	"strings"

	"tapsihan-storefront/internal/domain"
	cartrepo "tapsihan-storefront/internal/repository/cart"
)

// Service drives cart reads and mutations. Every mutation returns the
// refetched cart so responses always reflect authoritative state.
type Service struct {
	repo cartRepo
}

type cartRepo interface {
	GetOrCreateByUser(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID, productID string, quantity int) error
	SetItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error
	UpdateStatusBatch(ctx context.Context, cartID string, itemIDs []string, paymentRef string, mop domain.PaymentMethod) error
}

func New(repo cartrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the user's active cart, creating it on first read.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("userId required")
	}
	return s.repo.GetOrCreateByUser(ctx, userID)
}

// Add puts quantity units of a product into the user's cart.
func (s *Service) Add(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, errors.New("productId required")
	}
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddItem(ctx, cart.ID, productID, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreateByUser(ctx, userID)
}

// UpdateQuantity replaces one line's quantity.
func (s *Service) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, errors.New("itemId required")
	}
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetItemQuantity(ctx, cart.ID, itemID, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreateByUser(ctx, userID)
}

// Checkout transitions the selected items from cart to toship as one
// batch and stamps them with the payment metadata.
func (s *Service) Checkout(ctx context.Context, userID string, itemIDs []string, paymentRef string, mop domain.PaymentMethod) (*domain.Cart, error) {
	if len(itemIDs) == 0 {
		return nil, errors.New("items required")
	}
	if mop != domain.MethodCashOnDelivery && mop != domain.MethodGCash {
		return nil, errors.New("unsupported mode of payment")
	}
	if strings.TrimSpace(paymentRef) == "" {
		return nil, errors.New("paymentRef required")
	}
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatusBatch(ctx, cart.ID, itemIDs, paymentRef, mop); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreateByUser(ctx, userID)
}
