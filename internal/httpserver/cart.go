package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tapsihan-storefront/internal/domain"
)

type addToCartRequest struct {
	UserID    string `json:"userId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type updateQuantityRequest struct {
	UserID   string `json:"userId" binding:"required"`
	ItemID   string `json:"itemId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

type checkoutItemRef struct {
	ItemID string `json:"itemId" binding:"required"`
}

type checkoutRequest struct {
	UserID     string            `json:"userId" binding:"required"`
	Items      []checkoutItemRef `json:"items" binding:"required,min=1,dive"`
	PaymentRef string            `json:"paymentRef" binding:"required"`
	MOP        string            `json:"mop" binding:"required"`
}

func getCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.Get(c.Request.Context(), c.Param("userId"))
		if err != nil {
			cartError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func addToCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in addToCartRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cart, err := svc.Add(c.Request.Context(), in.UserID, in.ProductID, in.Quantity)
		if err != nil {
			cartError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func updateQuantityHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in updateQuantityRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cart, err := svc.UpdateQuantity(c.Request.Context(), in.UserID, in.ItemID, in.Quantity)
		if err != nil {
			cartError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func checkoutHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in checkoutRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		itemIDs := make([]string, 0, len(in.Items))
		for _, ref := range in.Items {
			itemIDs = append(itemIDs, ref.ItemID)
		}
		cart, err := svc.Checkout(c.Request.Context(), in.UserID, itemIDs, in.PaymentRef, domain.PaymentMethod(in.MOP))
		if err != nil {
			cartError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// cartError maps service failures onto the status codes the mobile client
// treats as a generic non-2xx failure.
func cartError(c *gin.Context, err error) {
	var stock *domain.StockExceededError
	switch {
	case errors.As(err, &stock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "remainingStocks": stock.Remaining})
	case errors.Is(err, domain.ErrQuantityTooLow):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
