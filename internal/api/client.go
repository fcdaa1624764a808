// Package api is the HTTP/JSON client of the remote cart service. Every
// call is fire-once: a non-2xx response or transport failure is reported
// to the caller as a RemoteError and no retry is scheduled.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"tapsihan-storefront/internal/domain"
)

// RemoteError is the uniform failure for transport errors and non-2xx
// responses. Error bodies are not parsed; Status is 0 when the request
// never produced a response.
type RemoteError struct {
	Op     string
	Status int
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Client talks to the cart service.
type Client struct {
	base   string
	http   *http.Client
	logger *log.Logger
}

// NewClient builds a Client for the given endpoint. A nil httpClient gets
// a default with a 10 second timeout.
func NewClient(base string, httpClient *http.Client, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		http:   httpClient,
		logger: logger,
	}
}

// RegisterInput carries the signup payload.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileInput carries profile fields updated from the profile screen.
type ProfileInput struct {
	Username string `json:"username,omitempty"`
	Contact  string `json:"contact,omitempty"`
	Address  string `json:"address,omitempty"`
}

// Login authenticates with email and password and returns the user
// document, including the id the session store keeps.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	body := map[string]string{"email": email, "password": password}
	var user domain.User
	if err := c.do(ctx, http.MethodPost, "/user/login", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates a new user.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodPost, "/user/register", in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// User fetches a user profile document.
func (c *Client) User(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/user/"+userID, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile patches profile fields and returns the updated document.
func (c *Client) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodPatch, "/users/"+userID, in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Products lists the catalog.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Cart fetches the user's cart document.
func (c *Client) Cart(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.do(ctx, http.MethodGet, "/cart/"+userID, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart adds quantity units of a product and returns the updated cart.
func (c *Client) AddToCart(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	body := struct {
		UserID    string `json:"userId"`
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}{userID, productID, quantity}
	var cart domain.Cart
	if err := c.do(ctx, http.MethodPost, "/cart/add", body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateItemQuantity sets the quantity of one cart line and returns the
// server's authoritative cart.
func (c *Client) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error) {
	body := struct {
		UserID   string `json:"userId"`
		ItemID   string `json:"itemId"`
		Quantity int    `json:"quantity"`
	}{userID, itemID, quantity}
	var cart domain.Cart
	if err := c.do(ctx, http.MethodPatch, "/cart/item/quantity", body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

type itemRef struct {
	ItemID string `json:"itemId"`
}

// UpdateCartStatus moves the selected items from cart to toship as one
// batch, attaching the payment reference and mode of payment.
func (c *Client) UpdateCartStatus(ctx context.Context, userID string, itemIDs []string, paymentRef string, mop domain.PaymentMethod) (*domain.Cart, error) {
	refs := make([]itemRef, 0, len(itemIDs))
	for _, id := range itemIDs {
		refs = append(refs, itemRef{ItemID: id})
	}
	body := struct {
		UserID     string               `json:"userId"`
		Items      []itemRef            `json:"items"`
		PaymentRef string               `json:"paymentRef"`
		MOP        domain.PaymentMethod `json:"mop"`
	}{userID, refs, paymentRef, mop}
	var cart domain.Cart
	if err := c.do(ctx, http.MethodPatch, "/cart/status", body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &RemoteError{Op: op, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Printf("%s: %v", op, err)
		return &RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Printf("%s: status %d", op, resp.StatusCode)
		return &RemoteError{Op: op, Status: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RemoteError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
