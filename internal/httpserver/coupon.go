package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func validateCouponHandler(coupons couponService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Code  string          `json:"code" binding:"required"`
			Total decimal.Decimal `json:"total" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		v, err := coupons.Validate(c.Request.Context(), req.Code, req.Total)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}
