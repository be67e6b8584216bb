package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func shippingEstimateHandler(estimator shippingEstimator) gin.HandlerFunc {
	return func(c *gin.Context) {
		postalCode := strings.TrimSpace(c.Query("postalCode"))
		if postalCode == "" {
			badRequest(c, fmt.Errorf("postalCode query parameter is required"))
			return
		}

		est, err := estimator.Estimate(c.Request.Context(), postalCode)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, est)
	}
}
