package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	customersvc "storefront/internal/service/customer"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token    string          `json:"token"`
	Customer domain.Customer `json:"customer"`
}

func signupHandler(customers customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required,min=6"`
			Name     string `json:"name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		cust, err := customers.Signup(c.Request.Context(), customersvc.SignupInput{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, cust)
	}
}

func loginHandler(customers customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		token, cust, err := customers.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, loginResponse{Token: token, Customer: *cust})
	}
}

func logoutHandler(customers customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := customers.Logout(c.Request.Context(), bearerToken(c)); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listAddressesHandler(customers customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		addrs, err := customers.ListAddresses(c.Request.Context(), currentCustomer(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		if addrs == nil {
			addrs = []domain.Address{}
		}
		c.JSON(http.StatusOK, gin.H{"addresses": addrs})
	}
}

func saveAddressHandler(customers customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Street     string `json:"street" binding:"required"`
			Number     string `json:"number"`
			Complement string `json:"complement"`
			District   string `json:"district"`
			City       string `json:"city"`
			State      string `json:"state"`
			Country    string `json:"country"`
			PostalCode string `json:"postalCode"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		saved, err := customers.SaveAddress(c.Request.Context(), domain.Address{
			CustomerID: currentCustomer(c).ID,
			Street:     req.Street,
			Number:     req.Number,
			Complement: req.Complement,
			District:   req.District,
			City:       req.City,
			State:      req.State,
			Country:    req.Country,
			PostalCode: req.PostalCode,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, saved)
	}
}
