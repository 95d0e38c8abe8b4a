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

// PromotionRequest is used for creating or updating a promotion.
type PromotionRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Discount    float64    `json:"discount" binding:"required,gt=0"`
	Active      *bool      `json:"active"`
	ValidFrom   *time.Time `json:"valid_from"`
	ValidUntil  *time.Time `json:"valid_until"`
}

// CreateReviewRequest is used for leaving guest feedback.
type CreateReviewRequest struct {
	OrderNumber string `json:"order_number"`
	Rating      int    `json:"rating" binding:"required,min=1,max=5"`
	Comment     string `json:"comment"`
}

// PromotionService defines methods for promotions and guest reviews.
type PromotionService interface {
	CreatePromotion(req PromotionRequest) (*models.Promotion, error)
	GetPromotionByID(promotionID int64) (*models.Promotion, error)
	ListPromotions(activeOnly bool) ([]models.Promotion, error)
	UpdatePromotion(promotionID int64, req PromotionRequest) (*models.Promotion, error)
	DeletePromotion(promotionID int64) error

	CreateReview(req CreateReviewRequest) (*models.Review, error)
	ListReviews() ([]models.Review, error)
}

type promotionService struct {
	promotionRepo repositories.PromotionRepository
	reviewRepo    repositories.ReviewRepository
	orderRepo     repositories.OrderRepository
	db            *sql.DB
}

// NewPromotionService creates a new instance of PromotionService.
func NewPromotionService(
	pr repositories.PromotionRepository,
	rr repositories.ReviewRepository,
	or repositories.OrderRepository,
	db *sql.DB,
) PromotionService {
	return &promotionService{promotionRepo: pr, reviewRepo: rr, orderRepo: or, db: db}
}

func (s *promotionService) CreatePromotion(req PromotionRequest) (*models.Promotion, error) {
	if req.ValidFrom != nil && req.ValidUntil != nil && req.ValidUntil.Before(*req.ValidFrom) {
		return nil, fmt.Errorf("%w: valid_until must not precede valid_from", ErrValidation)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	promotion := &models.Promotion{
		Title:       strings.TrimSpace(req.Title),
		Description: utils.NewNullString(req.Description),
		Discount:    req.Discount,
		Active:      active,
		ValidFrom:   req.ValidFrom,
		ValidUntil:  req.ValidUntil,
	}

	id, err := s.promotionRepo.CreatePromotion(s.db, promotion)
	if err != nil {
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}
	return s.GetPromotionByID(id)
}

func (s *promotionService) GetPromotionByID(promotionID int64) (*models.Promotion, error) {
	promotion, err := s.promotionRepo.GetPromotionByID(promotionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: promotion ID %d", ErrPromotionNotFound, promotionID)
		}
		return nil, fmt.Errorf("failed to get promotion: %w", err)
	}
	return promotion, nil
}

func (s *promotionService) ListPromotions(activeOnly bool) ([]models.Promotion, error) {
	promotions, err := s.promotionRepo.ListPromotions(activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	return promotions, nil
}

func (s *promotionService) UpdatePromotion(promotionID int64, req PromotionRequest) (*models.Promotion, error) {
	promotion, err := s.GetPromotionByID(promotionID)
	if err != nil {
		return nil, err
	}

	promotion.Title = strings.TrimSpace(req.Title)
	promotion.Description = utils.NewNullString(req.Description)
	promotion.Discount = req.Discount
	if req.Active != nil {
		promotion.Active = *req.Active
	}
	promotion.ValidFrom = req.ValidFrom
	promotion.ValidUntil = req.ValidUntil
	promotion.UpdatedAt = time.Now()

	if err := s.promotionRepo.UpdatePromotion(s.db, promotion); err != nil {
		return nil, fmt.Errorf("failed to update promotion: %w", err)
	}
	return s.GetPromotionByID(promotionID)
}

func (s *promotionService) DeletePromotion(promotionID int64) error {
	affected, err := s.promotionRepo.DeletePromotion(s.db, promotionID)
	if err != nil {
		return fmt.Errorf("failed to delete promotion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: promotion ID %d", ErrPromotionNotFound, promotionID)
	}
	return nil
}

// CreateReview stores guest feedback. An order number, when supplied, must
// reference a real order; reviews are otherwise anonymous and write-once.
func (s *promotionService) CreateReview(req CreateReviewRequest) (*models.Review, error) {
	review := &models.Review{
		Rating:  req.Rating,
		Comment: utils.NewNullString(req.Comment),
	}

	if number := strings.TrimSpace(req.OrderNumber); number != "" {
		if _, err := s.orderRepo.GetOrderByNumber(number); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: order %s", ErrOrderNotFound, number)
			}
			return nil, fmt.Errorf("failed to verify order number: %w", err)
		}
		review.OrderNumber = &number
	}

	id, err := s.reviewRepo.CreateReview(s.db, review)
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	review.ID = id
	review.CreatedAt = time.Now()
	return review, nil
}

func (s *promotionService) ListReviews() ([]models.Review, error) {
	reviews, err := s.reviewRepo.ListReviews()
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}
