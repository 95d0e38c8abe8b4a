package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"
	"restaurant_backend/pkg/utils"
)

// CreateProductRequest is used for creating a new menu product.
type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"required"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Image       string   `json:"image"`
	Available   *bool    `json:"available"`
	Ingredients *string  `json:"ingredients"`
}

// UpdateProductRequest is used for updating an existing menu product.
type UpdateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"required"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Image       string   `json:"image"`
	Available   *bool    `json:"available"`
	Ingredients *string  `json:"ingredients"`
}

// ProductService defines methods for the menu catalog.
type ProductService interface {
	CreateProduct(req CreateProductRequest) (*models.Product, error)
	GetProductByID(productID int64) (*models.Product, error)
	ListProducts(availableOnly bool) ([]models.Product, error)
	GetProductsByCategory(category string) ([]models.Product, error)
	SearchProducts(query string) ([]models.Product, error)
	UpdateProduct(productID int64, req UpdateProductRequest) (*models.Product, error)
	DeleteProduct(productID int64) error
}

type productService struct {
	productRepo repositories.ProductRepository
	db          *sql.DB
}

// NewProductService creates a new instance of ProductService.
func NewProductService(pr repositories.ProductRepository, db *sql.DB) ProductService {
	return &productService{productRepo: pr, db: db}
}

func (s *productService) CreateProduct(req CreateProductRequest) (*models.Product, error) {
	if !models.IsValidProductCategory(req.Category) {
		return nil, fmt.Errorf("%w: unknown product category %q", ErrValidation, req.Category)
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}
	product := &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: utils.NewNullString(req.Description),
		Category:    req.Category,
		Price:       req.Price,
		Image:       utils.NewNullString(req.Image),
		Available:   available,
		Ingredients: req.Ingredients,
	}

	id, err := s.productRepo.CreateProduct(s.db, product)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: product %q already exists", ErrDuplicate, product.Name)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return s.GetProductByID(id)
}

func (s *productService) GetProductByID(productID int64) (*models.Product, error) {
	product, err := s.productRepo.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *productService) ListProducts(availableOnly bool) ([]models.Product, error) {
	if availableOnly {
		products, err := s.productRepo.ListAvailableProducts()
		if err != nil {
			return nil, fmt.Errorf("failed to list available products: %w", err)
		}
		return products, nil
	}
	products, err := s.productRepo.ListProducts()
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *productService) GetProductsByCategory(category string) ([]models.Product, error) {
	if !models.IsValidProductCategory(category) {
		return nil, fmt.Errorf("%w: unknown product category %q", ErrValidation, category)
	}
	products, err := s.productRepo.GetProductsByCategory(category)
	if err != nil {
		return nil, fmt.Errorf("failed to get products by category: %w", err)
	}
	return products, nil
}

func (s *productService) SearchProducts(query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query must not be empty", ErrValidation)
	}
	products, err := s.productRepo.SearchProducts(query)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

func (s *productService) UpdateProduct(productID int64, req UpdateProductRequest) (*models.Product, error) {
	if !models.IsValidProductCategory(req.Category) {
		return nil, fmt.Errorf("%w: unknown product category %q", ErrValidation, req.Category)
	}

	product, err := s.GetProductByID(productID)
	if err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(req.Name)
	product.Description = utils.NewNullString(req.Description)
	product.Category = req.Category
	product.Price = req.Price
	product.Image = utils.NewNullString(req.Image)
	if req.Available != nil {
		product.Available = *req.Available
	}
	product.Ingredients = req.Ingredients
	product.UpdatedAt = time.Now()

	if err := s.productRepo.UpdateProduct(s.db, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return s.GetProductByID(productID)
}

func (s *productService) DeleteProduct(productID int64) error {
	affected, err := s.productRepo.DeleteProduct(s.db, productID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
