package httpserver

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"tapsihan-storefront/internal/domain"
	cartsvc "tapsihan-storefront/internal/service/cart"
	productsvc "tapsihan-storefront/internal/service/product"
	usersvc "tapsihan-storefront/internal/service/user"
)

// UserService is what the user endpoints need.
type UserService interface {
	Register(ctx context.Context, in usersvc.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, in usersvc.ProfileInput) (*domain.User, error)
}

// ProductService is what the catalog endpoints need.
type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

// CartService is what the cart endpoints need.
type CartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Add(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error)
	Checkout(ctx context.Context, userID string, itemIDs []string, paymentRef string, mop domain.PaymentMethod) (*domain.Cart, error)
}

// Deps bundles the services handlers depend on.
type Deps struct {
	UserSvc    UserService
	ProductSvc ProductService
	CartSvc    CartService
}

var _ UserService = (*usersvc.Service)(nil)
var _ ProductService = (*productsvc.Service)(nil)
var _ CartService = (*cartsvc.Service)(nil)

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/user/register", registerHandler(deps.UserSvc))
	router.POST("/user/login", loginHandler(deps.UserSvc))
	router.GET("/user/:id", getUserHandler(deps.UserSvc))
	router.PATCH("/users/:id", updateProfileHandler(deps.UserSvc))

	router.GET("/products", listProductsHandler(deps.ProductSvc))
	router.GET("/products/:id", getProductHandler(deps.ProductSvc))

	router.GET("/cart/:userId", getCartHandler(deps.CartSvc))
	router.POST("/cart/add", addToCartHandler(deps.CartSvc))
	router.PATCH("/cart/item/quantity", updateQuantityHandler(deps.CartSvc))
	router.PATCH("/cart/status", checkoutHandler(deps.CartSvc))

	return router
}
