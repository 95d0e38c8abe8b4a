package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_backend/internal/models"
)

// ProductRepository defines the interface for menu product database operations.
type ProductRepository interface {
	CreateProduct(executor SQLExecutor, product *models.Product) (int64, error)
	GetProductByID(productID int64) (*models.Product, error)
	ListProducts() ([]models.Product, error)
	ListAvailableProducts() ([]models.Product, error)
	GetProductsByCategory(category string) ([]models.Product, error)
	SearchProducts(query string) ([]models.Product, error)
	UpdateProduct(executor SQLExecutor, product *models.Product) error
	DeleteProduct(executor SQLExecutor, productID int64) (int64, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, description, price, category, available, image, ingredients, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }, p *models.Product) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Available, &p.Image, &p.Ingredients,
		&p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *productRepository) CreateProduct(executor SQLExecutor, product *models.Product) (int64, error) {
	query := `INSERT INTO products (name, description, price, category, available, image, ingredients, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		product.Name, product.Description, product.Price, product.Category, product.Available,
		product.Image, product.Ingredients, product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID)

	if err != nil {
		return 0, fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	return product.ID, nil
}

func (r *productRepository) GetProductByID(productID int64) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	err := scanProduct(r.db.QueryRow(query, productID), product)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product by ID %d: %v", ErrDatabaseError, productID, err)
	}
	return product, nil
}

func (r *productRepository) listProducts(query string, args ...interface{}) ([]models.Product, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating product rows: %v", ErrDatabaseError, err)
	}
	return products, nil
}

func (r *productRepository) ListProducts() ([]models.Product, error) {
	return r.listProducts(`SELECT ` + productColumns + ` FROM products ORDER BY category ASC, name ASC`)
}

func (r *productRepository) ListAvailableProducts() ([]models.Product, error) {
	return r.listProducts(`SELECT ` + productColumns + ` FROM products WHERE available = TRUE ORDER BY category ASC, name ASC`)
}

func (r *productRepository) GetProductsByCategory(category string) ([]models.Product, error) {
	return r.listProducts(`SELECT `+productColumns+` FROM products WHERE category = $1 ORDER BY name ASC`, category)
}

func (r *productRepository) SearchProducts(query string) ([]models.Product, error) {
	return r.listProducts(`SELECT `+productColumns+` FROM products WHERE name ILIKE $1 ORDER BY name ASC`, "%"+query+"%")
}

func (r *productRepository) UpdateProduct(executor SQLExecutor, product *models.Product) error {
	query := `UPDATE products
	          SET name = $1, description = $2, price = $3, category = $4, available = $5, image = $6,
	              ingredients = $7, updated_at = $8
	          WHERE id = $9`
	result, err := executor.Exec(query,
		product.Name, product.Description, product.Price, product.Category, product.Available,
		product.Image, product.Ingredients, product.UpdatedAt, product.ID)
	if err != nil {
		return fmt.Errorf("%w: updating product ID %d: %v", ErrDatabaseError, product.ID, err)
	}
	return checkAffected(result, product.ID, "product update")
}

func (r *productRepository) DeleteProduct(executor SQLExecutor, productID int64) (int64, error) {
	result, err := executor.Exec(`DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting product ID %d: %v", ErrDatabaseError, productID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting product ID %d: %v", ErrDatabaseError, productID, err)
	}
	if rowsAffected == 0 {
		return 0, ErrNotFound
	}
	return rowsAffected, nil
}
