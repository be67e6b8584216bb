package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

func listProductsHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := products.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		if items == nil {
			items = []domain.Product{}
		}
		c.JSON(http.StatusOK, gin.H{"products": items})
	}
}

func getProductHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

type productRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	ImagePath   string          `json:"imagePath"`
	Stock       int             `json:"stock"`
}

func createProductHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		p, err := products.Create(c.Request.Context(), productrepo.CreateProductInput{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			ImagePath:   req.ImagePath,
			Stock:       req.Stock,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updateProductHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name        *string          `json:"name"`
			Description *string          `json:"description"`
			Price       *decimal.Decimal `json:"price"`
			ImagePath   *string          `json:"imagePath"`
			Stock       *int             `json:"stock"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		p, err := products.Update(c.Request.Context(), c.Param("id"), productrepo.UpdateProductInput{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			ImagePath:   req.ImagePath,
			Stock:       req.Stock,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func deleteProductHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := products.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
