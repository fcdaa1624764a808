package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"tapsihan-storefront/internal/domain"
)

type stubStatusService struct {
	cart        *domain.Cart
	err         error
	calls       int
	lastItemIDs []string
	lastRef     string
	lastMOP     domain.PaymentMethod
}

func (s *stubStatusService) UpdateCartStatus(_ context.Context, _ string, itemIDs []string, paymentRef string, mop domain.PaymentMethod) (*domain.Cart, error) {
	s.calls++
	s.lastItemIDs = itemIDs
	s.lastRef = paymentRef
	s.lastMOP = mop
	return s.cart, s.err
}

type stubView struct {
	cart     *domain.Cart
	accepted *domain.Cart
}

func (v *stubView) Snapshot() (*domain.Cart, decimal.Decimal) {
	return v.cart, decimal.Zero
}

func (v *stubView) Accept(cart *domain.Cart) *domain.Cart {
	v.accepted = cart
	return cart
}

func pendingCart() *domain.Cart {
	return &domain.Cart{
		ID:     "c1",
		UserID: "u1",
		Items: []domain.CartItem{
			{ID: "i1", Status: domain.ItemStatusCart, Quantity: 1},
			{ID: "i2", Status: domain.ItemStatusToShip, Quantity: 2},
			{ID: "i3", Status: domain.ItemStatusCart, Quantity: 3},
		},
	}
}

func completeUser() *domain.User {
	return &domain.User{ID: "u1", Contact: "09171234567", Address: "123 Kalye St"}
}

func confirmYes(context.Context) bool { return true }

func confirmNo(context.Context) bool { return false }

func TestNoPaymentMethodShortCircuits(t *testing.T) {
	svc := &stubStatusService{}
	// Snapshot deliberately nil: the method gate must fire for any cart
	// state before anything else is looked at.
	o := NewOrchestrator(svc, &stubView{}, "u1", confirmYes, nil)

	if _, err := o.PlaceOrder(context.Background(), nil); !errors.Is(err, ErrNoPaymentMethod) {
		t.Fatalf("expected ErrNoPaymentMethod, got %v", err)
	}
	if svc.calls != 0 {
		t.Fatalf("expected no network call, got %d", svc.calls)
	}
}

func TestIncompleteProfile(t *testing.T) {
	svc := &stubStatusService{}
	o := NewOrchestrator(svc, &stubView{cart: pendingCart()}, "u1", confirmYes, nil)
	o.SelectMethod(domain.MethodCashOnDelivery)

	if _, err := o.PlaceOrder(context.Background(), &domain.User{ID: "u1"}); !errors.Is(err, ErrIncompleteProfile) {
		t.Fatalf("expected ErrIncompleteProfile, got %v", err)
	}
	if svc.calls != 0 {
		t.Fatalf("expected no network call, got %d", svc.calls)
	}
}

func TestEmptyCartAfterEarlierGatesPass(t *testing.T) {
	placed := &domain.Cart{
		Items: []domain.CartItem{
			{ID: "i1", Status: domain.ItemStatusToShip},
			{ID: "i2", Status: domain.ItemStatusCompleted},
		},
	}
	svc := &stubStatusService{}
	o := NewOrchestrator(svc, &stubView{cart: placed}, "u1", confirmYes, nil)
	o.SelectMethod(domain.MethodCashOnDelivery)

	if _, err := o.PlaceOrder(context.Background(), completeUser()); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if svc.calls != 0 {
		t.Fatalf("expected no network call, got %d", svc.calls)
	}
}

func TestCashOnDeliveryDeclined(t *testing.T) {
	svc := &stubStatusService{}
	o := NewOrchestrator(svc, &stubView{cart: pendingCart()}, "u1", confirmNo, nil)
	o.SelectMethod(domain.MethodCashOnDelivery)

	outcome, err := o.PlaceOrder(context.Background(), completeUser())
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if outcome != OutcomeNone || svc.calls != 0 {
		t.Fatalf("declined confirmation must not submit: outcome=%d calls=%d", outcome, svc.calls)
	}
}

func TestCashOnDeliveryPlaced(t *testing.T) {
	server := pendingCart()
	server.Items[0].Status = domain.ItemStatusToShip
	server.Items[2].Status = domain.ItemStatusToShip
	svc := &stubStatusService{cart: server}
	view := &stubView{cart: pendingCart()}
	o := NewOrchestrator(svc, view, "u1", confirmYes, nil)
	o.SelectMethod(domain.MethodCashOnDelivery)

	outcome, err := o.PlaceOrder(context.Background(), completeUser())
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if outcome != OutcomePlaced {
		t.Fatalf("expected OutcomePlaced, got %d", outcome)
	}
	if svc.lastRef != domain.PaymentRefNone || svc.lastMOP != domain.MethodCashOnDelivery {
		t.Fatalf("unexpected payment fields (%q, %q)", svc.lastRef, svc.lastMOP)
	}
	if len(svc.lastItemIDs) != 2 || svc.lastItemIDs[0] != "i1" || svc.lastItemIDs[1] != "i3" {
		t.Fatalf("expected pending items only, got %v", svc.lastItemIDs)
	}
	if view.accepted == nil || view.accepted.Items[0].Status != domain.ItemStatusToShip {
		t.Fatalf("server cart not recorded: %+v", view.accepted)
	}
	if o.State() != StateIdle {
		t.Fatalf("expected StateIdle after placing, got %d", o.State())
	}
}

func TestGCashFirstInvocationOpensReferenceStep(t *testing.T) {
	svc := &stubStatusService{}
	o := NewOrchestrator(svc, &stubView{cart: pendingCart()}, "u1", confirmYes, nil)
	o.SelectMethod(domain.MethodGCash)

	outcome, err := o.PlaceOrder(context.Background(), completeUser())
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if outcome != OutcomeAwaitingReference {
		t.Fatalf("expected OutcomeAwaitingReference, got %d", outcome)
	}
	if o.State() != StateAwaitingReference {
		t.Fatalf("expected StateAwaitingReference, got %d", o.State())
	}
	if svc.calls != 0 {
		t.Fatalf("first invocation must not submit, calls=%d", svc.calls)
	}
}

func TestGCashInvalidReferenceKeepsStepOpen(t *testing.T) {
	svc := &stubStatusService{}
	o := NewOrchestrator(svc, &stubView{cart: pendingCart()}, "u1", confirmYes, nil)
	o.SelectMethod(domain.MethodGCash)
	if _, err := o.PlaceOrder(context.Background(), completeUser()); err != nil {
		t.Fatalf("open step: %v", err)
	}

	o.EnterReference("101234567890X")
	if _, err := o.PlaceOrder(context.Background(), completeUser()); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
	if o.State() != StateAwaitingReference {
		t.Fatalf("reference step must stay open, state=%d", o.State())
	}
	if svc.calls != 0 {
		t.Fatalf("invalid reference must block submission, calls=%d", svc.calls)
	}
}

func TestGCashValidReferencePlaced(t *testing.T) {
	server := pendingCart()
	server.Items[0].Status = domain.ItemStatusToShip
	svc := &stubStatusService{cart: server}
	view := &stubView{cart: pendingCart()}
	o := NewOrchestrator(svc, view, "u1", confirmYes, nil)
	o.SelectMethod(domain.MethodGCash)
	if _, err := o.PlaceOrder(context.Background(), completeUser()); err != nil {
		t.Fatalf("open step: %v", err)
	}

	o.EnterReference("1011234567890")
	outcome, err := o.PlaceOrder(context.Background(), completeUser())
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if outcome != OutcomePlaced {
		t.Fatalf("expected OutcomePlaced, got %d", outcome)
	}
	if svc.lastRef != "1011234567890" || svc.lastMOP != domain.MethodGCash {
		t.Fatalf("unexpected payment fields (%q, %q)", svc.lastRef, svc.lastMOP)
	}
	if view.accepted == nil {
		t.Fatal("server cart not recorded")
	}
	if o.State() != StateIdle {
		t.Fatalf("expected StateIdle after placing, got %d", o.State())
	}
}

func TestSubmissionFailureLeavesReferenceStepOpen(t *testing.T) {
	svc := &stubStatusService{err: errors.New("connection reset")}
	view := &stubView{cart: pendingCart()}
	o := NewOrchestrator(svc, view, "u1", confirmYes, nil)
	o.SelectMethod(domain.MethodGCash)
	if _, err := o.PlaceOrder(context.Background(), completeUser()); err != nil {
		t.Fatalf("open step: %v", err)
	}

	o.EnterReference("1011234567890")
	_, err := o.PlaceOrder(context.Background(), completeUser())
	var sub *SubmissionError
	if !errors.As(err, &sub) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if view.accepted != nil {
		t.Fatal("failed submission must not touch the snapshot")
	}
	if o.State() != StateAwaitingReference {
		t.Fatalf("expected StateAwaitingReference after failure, got %d", o.State())
	}
}

func TestSwitchingMethodClosesReferenceStep(t *testing.T) {
	o := NewOrchestrator(&stubStatusService{}, &stubView{cart: pendingCart()}, "u1", confirmYes, nil)
	o.SelectMethod(domain.MethodGCash)
	if _, err := o.PlaceOrder(context.Background(), completeUser()); err != nil {
		t.Fatalf("open step: %v", err)
	}

	o.SelectMethod(domain.MethodCashOnDelivery)
	if o.State() != StateIdle {
		t.Fatalf("expected StateIdle after switching methods, got %d", o.State())
	}
}

func TestCancelReference(t *testing.T) {
	o := NewOrchestrator(&stubStatusService{}, &stubView{cart: pendingCart()}, "u1", confirmYes, nil)
	o.SelectMethod(domain.MethodGCash)
	if _, err := o.PlaceOrder(context.Background(), completeUser()); err != nil {
		t.Fatalf("open step: %v", err)
	}

	o.CancelReference()
	if o.State() != StateIdle {
		t.Fatalf("expected StateIdle after cancel, got %d", o.State())
	}

	// The next invocation reopens the input step instead of submitting.
	outcome, err := o.PlaceOrder(context.Background(), completeUser())
	if err != nil || outcome != OutcomeAwaitingReference {
		t.Fatalf("expected reopened step, outcome=%d err=%v", outcome, err)
	}
}
