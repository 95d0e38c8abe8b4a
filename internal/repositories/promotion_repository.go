package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_backend/internal/models"
)

// PromotionRepository defines the interface for promotion database operations.
type PromotionRepository interface {
	CreatePromotion(executor SQLExecutor, promotion *models.Promotion) (int64, error)
	GetPromotionByID(promotionID int64) (*models.Promotion, error)
	ListPromotions(activeOnly bool) ([]models.Promotion, error)
	UpdatePromotion(executor SQLExecutor, promotion *models.Promotion) error
	DeletePromotion(executor SQLExecutor, promotionID int64) (int64, error)
}

// ReviewRepository defines the interface for guest review database operations.
// Reviews are write-once: they can be created and listed, never edited.
type ReviewRepository interface {
	CreateReview(executor SQLExecutor, review *models.Review) (int64, error)
	ListReviews() ([]models.Review, error)
}

type promotionRepository struct {
	db *sql.DB
}

// NewPromotionRepository creates a new instance of PromotionRepository.
func NewPromotionRepository(db *sql.DB) PromotionRepository {
	return &promotionRepository{db: db}
}

const promotionColumns = `id, title, description, discount, active, valid_from, valid_until, created_at, updated_at`

func scanPromotion(row interface{ Scan(...interface{}) error }, p *models.Promotion) error {
	return row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Discount, &p.Active, &p.ValidFrom, &p.ValidUntil,
		&p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *promotionRepository) CreatePromotion(executor SQLExecutor, promotion *models.Promotion) (int64, error) {
	query := `INSERT INTO promotions (title, description, discount, active, valid_from, valid_until, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`
	if promotion.CreatedAt.IsZero() {
		promotion.CreatedAt = time.Now()
	}
	if promotion.UpdatedAt.IsZero() {
		promotion.UpdatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		promotion.Title, promotion.Description, promotion.Discount, promotion.Active,
		promotion.ValidFrom, promotion.ValidUntil, promotion.CreatedAt, promotion.UpdatedAt,
	).Scan(&promotion.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating promotion: %v", ErrDatabaseError, err)
	}
	return promotion.ID, nil
}

func (r *promotionRepository) GetPromotionByID(promotionID int64) (*models.Promotion, error) {
	promotion := &models.Promotion{}
	query := `SELECT ` + promotionColumns + ` FROM promotions WHERE id = $1`
	err := scanPromotion(r.db.QueryRow(query, promotionID), promotion)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting promotion by ID %d: %v", ErrDatabaseError, promotionID, err)
	}
	return promotion, nil
}

func (r *promotionRepository) ListPromotions(activeOnly bool) ([]models.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying promotions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	promotions := []models.Promotion{}
	for rows.Next() {
		var p models.Promotion
		if err := scanPromotion(rows, &p); err != nil {
			return nil, fmt.Errorf("%w: scanning promotion: %v", ErrDatabaseError, err)
		}
		promotions = append(promotions, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating promotion rows: %v", ErrDatabaseError, err)
	}
	return promotions, nil
}

func (r *promotionRepository) UpdatePromotion(executor SQLExecutor, promotion *models.Promotion) error {
	query := `UPDATE promotions
	          SET title = $1, description = $2, discount = $3, active = $4, valid_from = $5, valid_until = $6, updated_at = $7
	          WHERE id = $8`
	result, err := executor.Exec(query,
		promotion.Title, promotion.Description, promotion.Discount, promotion.Active,
		promotion.ValidFrom, promotion.ValidUntil, promotion.UpdatedAt, promotion.ID)
	if err != nil {
		return fmt.Errorf("%w: updating promotion ID %d: %v", ErrDatabaseError, promotion.ID, err)
	}
	return checkAffected(result, promotion.ID, "promotion update")
}

func (r *promotionRepository) DeletePromotion(executor SQLExecutor, promotionID int64) (int64, error) {
	result, err := executor.Exec(`DELETE FROM promotions WHERE id = $1`, promotionID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting promotion ID %d: %v", ErrDatabaseError, promotionID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting promotion ID %d: %v", ErrDatabaseError, promotionID, err)
	}
	if rowsAffected == 0 {
		return 0, ErrNotFound
	}
	return rowsAffected, nil
}

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new instance of ReviewRepository.
func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) CreateReview(executor SQLExecutor, review *models.Review) (int64, error) {
	query := `INSERT INTO reviews (order_number, rating, comment, created_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}

	err := executor.QueryRow(query, review.OrderNumber, review.Rating, review.Comment, review.CreatedAt).Scan(&review.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating review: %v", ErrDatabaseError, err)
	}
	return review.ID, nil
}

func (r *reviewRepository) ListReviews() ([]models.Review, error) {
	query := `SELECT id, order_number, rating, comment, created_at FROM reviews ORDER BY created_at DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying reviews: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.OrderNumber, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning review: %v", ErrDatabaseError, err)
		}
		reviews = append(reviews, rv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating review rows: %v", ErrDatabaseError, err)
	}
	return reviews, nil
}
