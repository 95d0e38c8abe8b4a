package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant_backend/internal/services"
	"restaurant_backend/pkg/utils"
)

// ProductHandler holds the product service.
type ProductHandler struct {
	productService services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(ps services.ProductService) *ProductHandler {
	return &ProductHandler{productService: ps}
}

// CreateProduct adds a product to the menu.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	product, err := h.productService.CreateProduct(req)
	if err != nil {
		respondServiceError(c, err, "Failed to create product.")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// GetProductByID fetches one product.
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetProductByID(productID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch product.")
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListProducts lists the menu. Supports ?available=true, ?category= and
// ?search= query filters.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	if query := c.Query("search"); query != "" {
		products, err := h.productService.SearchProducts(query)
		if err != nil {
			respondServiceError(c, err, "Failed to search products.")
			return
		}
		c.JSON(http.StatusOK, products)
		return
	}
	if category := c.Query("category"); category != "" {
		products, err := h.productService.GetProductsByCategory(category)
		if err != nil {
			respondServiceError(c, err, "Failed to fetch products by category.")
			return
		}
		c.JSON(http.StatusOK, products)
		return
	}

	availableOnly := c.Query("available") == "true"
	products, err := h.productService.ListProducts(availableOnly)
	if err != nil {
		respondServiceError(c, err, "Failed to list products.")
		return
	}
	c.JSON(http.StatusOK, products)
}

// UpdateProduct replaces a product's menu data.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(productID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update product.")
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product from the menu.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.productService.DeleteProduct(productID); err != nil {
		respondServiceError(c, err, "Failed to delete product.")
		return
	}
	c.Status(http.StatusNoContent)
}
