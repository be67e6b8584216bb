package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
)

type cartResponse struct {
	Items     []domain.CartLine `json:"items"`
	ItemCount int               `json:"itemCount"`
	Total     string            `json:"total"`
}

func toCartResponse(cart domain.Cart) cartResponse {
	items := cart.Lines
	if items == nil {
		items = []domain.CartLine{}
	}
	return cartResponse{
		Items:     items,
		ItemCount: cart.ItemCount(),
		Total:     cart.LineTotal().StringFixed(2),
	}
}

func viewCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, _, err := carts.View(c.Request.Context(), currentCustomer(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

func addCartItemHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// quantity is deliberately unconstrained here; the cart service
		// classifies anything non-positive as InvalidQuantity
		var req struct {
			ProductID string `json:"productId" binding:"required"`
			Quantity  int    `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		cart, err := carts.AddItem(c.Request.Context(), currentCustomer(c).ID, req.ProductID, req.Quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

func updateCartItemHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Quantity int `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		cart, err := carts.UpdateQuantity(c.Request.Context(), currentCustomer(c).ID, c.Param("productID"), req.Quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

func removeCartItemHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.RemoveItem(c.Request.Context(), currentCustomer(c).ID, c.Param("productID"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}
