package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	checkoutsvc "storefront/internal/service/checkout"
)

func checkoutHandler(checkout checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutsvc.Input
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		order, err := checkout.Checkout(c.Request.Context(), currentCustomer(c).ID, req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}
