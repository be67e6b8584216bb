package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	customersvc "storefront/internal/service/customer"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// writeError maps service errors onto the wire format. Unknown errors
// surface as a generic 500 so internals never leak.
func writeError(c *gin.Context, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, errorResponse{Error: errorPayload{Code: code, Message: msg}})
}

// badRequest reports a malformed or invalid request body.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: errorPayload{Code: "BAD_REQUEST", Message: err.Error()}})
}

func abortWithError(c *gin.Context, err error) {
	writeError(c, err)
	c.Abort()
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "UNAUTHENTICATED"
	case errors.Is(err, customersvc.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "PRODUCT_NOT_FOUND"
	case errors.Is(err, domain.ErrLineNotFound):
		return http.StatusNotFound, "LINE_NOT_FOUND"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, "ALREADY_EXISTS"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest, "INVALID_QUANTITY"
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusUnprocessableEntity, "EMPTY_CART"
	case errors.Is(err, domain.ErrNoAddressAvailable):
		return http.StatusUnprocessableEntity, "NO_ADDRESS_AVAILABLE"
	case errors.Is(err, domain.ErrPaymentMethodMissing):
		return http.StatusUnprocessableEntity, "PAYMENT_METHOD_MISSING"
	case errors.Is(err, domain.ErrUnresolvableAddress):
		return http.StatusUnprocessableEntity, "UNRESOLVABLE_ADDRESS"
	case errors.Is(err, domain.ErrPersistenceFailure):
		return http.StatusServiceUnavailable, "PERSISTENCE_FAILURE"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
