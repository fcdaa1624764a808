// Package checkout drives the status transition that turns pending cart
// items into a placed order. The attempt is an explicit state machine:
// Idle, AwaitingReference while the GCash reference input step is open,
// and Submitting for the duration of the batch request.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"tapsihan-storefront/internal/domain"
	"tapsihan-storefront/internal/payment"
)

// State of the checkout attempt.
type State int

const (
	StateIdle State = iota
	StateAwaitingReference
	StateSubmitting
)

// Outcome of one PlaceOrder invocation.
type Outcome int

const (
	// OutcomeNone: nothing was submitted (e.g. the shopper declined the
	// cash-on-delivery confirmation).
	OutcomeNone Outcome = iota
	// OutcomeAwaitingReference: the reference input step was opened;
	// invoking PlaceOrder again submits once a valid reference is entered.
	OutcomeAwaitingReference
	// OutcomePlaced: the batch was placed. The caller moves to the orders
	// view; the checkout step is not revisitable.
	OutcomePlaced
)

var (
	// ErrNoPaymentMethod fires when no payment method has been selected.
	ErrNoPaymentMethod = errors.New("no payment method selected")
	// ErrIncompleteProfile fires when the profile has neither contact nor
	// address. The caller is expected to steer the shopper to profile
	// completion.
	ErrIncompleteProfile = errors.New("profile missing contact and address")
	// ErrEmptyCart fires when no item is still in the cart stage.
	ErrEmptyCart = errors.New("no items in the cart")
	// ErrInvalidReference fires on a malformed payment reference. The
	// reference input step stays open.
	ErrInvalidReference = errors.New("invalid payment reference number")
)

// SubmissionError wraps a network-level failure of the batch request. The
// cart is left unchanged and no retry is scheduled.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("checkout submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// StatusService is the slice of the remote API checkout needs.
type StatusService interface {
	UpdateCartStatus(ctx context.Context, userID string, itemIDs []string, paymentRef string, mop domain.PaymentMethod) (*domain.Cart, error)
}

// CartView supplies the current snapshot and records the submission
// response.
type CartView interface {
	Snapshot() (*domain.Cart, decimal.Decimal)
	Accept(cart *domain.Cart) *domain.Cart
}

// Confirmer is the yes/no decision point shown before a cash-on-delivery
// submission.
type Confirmer func(ctx context.Context) bool

// Orchestrator validates the checkout gates in order and submits the
// batch. One orchestrator serves one screen context.
type Orchestrator struct {
	api     StatusService
	view    CartView
	userID  string
	confirm Confirmer
	logger  *log.Logger

	mu        sync.Mutex
	state     State
	method    domain.PaymentMethod
	reference string
}

// NewOrchestrator builds an Orchestrator. confirm may be nil, in which
// case cash-on-delivery submits without a confirmation step.
func NewOrchestrator(api StatusService, view CartView, userID string, confirm Confirmer, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Orchestrator{
		api:     api,
		view:    view,
		userID:  userID,
		confirm: confirm,
		logger:  logger,
	}
}

// State returns the current machine state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Method returns the selected payment method.
func (o *Orchestrator) Method() domain.PaymentMethod {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.method
}

// SelectMethod records the payment method. Switching methods closes a
// pending reference input step.
func (o *Orchestrator) SelectMethod(method domain.PaymentMethod) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.method != method && o.state == StateAwaitingReference {
		o.state = StateIdle
		o.reference = ""
	}
	o.method = method
}

// EnterReference records the typed payment reference while the input step
// is open.
func (o *Orchestrator) EnterReference(ref string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reference = ref
}

// CancelReference closes the reference input step without submitting.
func (o *Orchestrator) CancelReference() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateAwaitingReference {
		o.state = StateIdle
		o.reference = ""
	}
}

// PlaceOrder runs the checkout gates in strict order and, when they all
// pass, transitions every pending item to toship as a single batch. Each
// gate short-circuits with its own error before any request is made.
func (o *Orchestrator) PlaceOrder(ctx context.Context, user *domain.User) (Outcome, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.method == domain.MethodUnselected {
		return OutcomeNone, ErrNoPaymentMethod
	}
	if !user.ProfileComplete() {
		return OutcomeNone, ErrIncompleteProfile
	}

	cart, _ := o.view.Snapshot()
	itemIDs := cart.PendingItemIDs()
	if len(itemIDs) == 0 {
		return OutcomeNone, ErrEmptyCart
	}

	switch o.method {
	case domain.MethodCashOnDelivery:
		if o.confirm != nil && !o.confirm(ctx) {
			return OutcomeNone, nil
		}
		return o.submit(ctx, itemIDs, domain.PaymentRefNone)

	case domain.MethodGCash:
		if o.state != StateAwaitingReference {
			o.state = StateAwaitingReference
			return OutcomeAwaitingReference, nil
		}
		if !payment.ValidReference(o.reference) {
			return OutcomeNone, ErrInvalidReference
		}
		return o.submit(ctx, itemIDs, o.reference)

	default:
		return OutcomeNone, fmt.Errorf("unsupported payment method %q", o.method)
	}
}

// submit performs the status-transition call. The caller holds the lock.
func (o *Orchestrator) submit(ctx context.Context, itemIDs []string, paymentRef string) (Outcome, error) {
	prev := o.state
	o.state = StateSubmitting

	cart, err := o.api.UpdateCartStatus(ctx, o.userID, itemIDs, paymentRef, o.method)
	if err != nil {
		// The attempt aborts; a GCash reference step stays open so the
		// shopper can try again.
		o.state = prev
		o.logger.Printf("checkout: %v", err)
		return OutcomeNone, &SubmissionError{Err: err}
	}

	o.view.Accept(cart)
	o.state = StateIdle
	o.reference = ""
	return OutcomePlaced, nil
}
