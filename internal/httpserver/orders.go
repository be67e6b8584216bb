package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
)

func listOrdersHandler(orders orderReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := orders.ListByCustomer(c.Request.Context(), currentCustomer(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		if items == nil {
			items = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": items})
	}
}

func getOrderHandler(orders orderReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := orders.GetByID(c.Request.Context(), currentCustomer(c).ID, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
