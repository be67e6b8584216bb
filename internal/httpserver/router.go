package httpserver

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
	checkoutsvc "storefront/internal/service/checkout"
	couponsvc "storefront/internal/service/coupon"
	customersvc "storefront/internal/service/customer"
	"storefront/internal/shipping"
)

// Deps collects the service surface the router dispatches to. Handlers
// depend on these interfaces so tests can swap in stubs.
type Deps struct {
	Customers customerService
	Products  productService
	Carts     cartService
	Checkout  checkoutService
	Coupons   couponService
	Shipping  shippingEstimator
	Orders    orderReader
}

type customerService interface {
	Signup(ctx context.Context, in customersvc.SignupInput) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (string, *domain.Customer, error)
	VerifyToken(ctx context.Context, token string) (*domain.Customer, error)
	Logout(ctx context.Context, token string) error
	ListAddresses(ctx context.Context, customerID string) ([]domain.Address, error)
	SaveAddress(ctx context.Context, addr domain.Address) (*domain.Address, error)
}

type productService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in productrepo.CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in productrepo.UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type cartService interface {
	View(ctx context.Context, customerID string) (domain.Cart, domain.CartTotals, error)
	AddItem(ctx context.Context, customerID, productID string, quantity int) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, customerID, productID string, quantity int) (domain.Cart, error)
	RemoveItem(ctx context.Context, customerID, productID string) (domain.Cart, error)
}

type checkoutService interface {
	Checkout(ctx context.Context, customerID string, in checkoutsvc.Input) (*domain.Order, error)
}

type couponService interface {
	Validate(ctx context.Context, code string, total decimal.Decimal) (couponsvc.Validation, error)
}

type shippingEstimator interface {
	Estimate(ctx context.Context, postalCode string) (shipping.Estimate, error)
}

type orderReader interface {
	GetByID(ctx context.Context, customerID, orderID string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
}

// buildRouter wires routes for the API.
func buildRouter(logger zerolog.Logger, db *pgxpool.Pool, deps Deps, allowedOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())

	if len(allowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/signup", signupHandler(deps.Customers))
	router.POST("/login", loginHandler(deps.Customers))

	router.GET("/products", listProductsHandler(deps.Products))
	router.GET("/products/:id", getProductHandler(deps.Products))

	router.POST("/coupons/validate", validateCouponHandler(deps.Coupons))

	authed := router.Group("/", authRequired(deps.Customers))
	{
		authed.POST("/logout", logoutHandler(deps.Customers))

		authed.GET("/cart", viewCartHandler(deps.Carts))
		authed.POST("/cart/items", addCartItemHandler(deps.Carts))
		authed.PATCH("/cart/items/:productID", updateCartItemHandler(deps.Carts))
		authed.DELETE("/cart/items/:productID", removeCartItemHandler(deps.Carts))

		authed.POST("/checkout", checkoutHandler(deps.Checkout))

		authed.GET("/shipping/estimate", shippingEstimateHandler(deps.Shipping))

		authed.GET("/addresses", listAddressesHandler(deps.Customers))
		authed.POST("/addresses", saveAddressHandler(deps.Customers))

		authed.GET("/orders", listOrdersHandler(deps.Orders))
		authed.GET("/orders/:id", getOrderHandler(deps.Orders))
	}

	admin := router.Group("/admin", authRequired(deps.Customers), adminRequired())
	{
		admin.POST("/products", createProductHandler(deps.Products))
		admin.PUT("/products/:id", updateProductHandler(deps.Products))
		admin.DELETE("/products/:id", deleteProductHandler(deps.Products))
	}

	return router
}
