package services

import (
	"fmt"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"
)

// ReportService exposes aggregate figures for the manager dashboard.
type ReportService interface {
	GetSummary() (*models.ReportSummary, error)
	GetLowStock() ([]models.StockItem, error)
}

type reportService struct {
	orderRepo repositories.OrderRepository
	stockRepo repositories.StockRepository
}

// NewReportService creates a new instance of ReportService.
func NewReportService(or repositories.OrderRepository, sr repositories.StockRepository) ReportService {
	return &reportService{orderRepo: or, stockRepo: sr}
}

func (s *reportService) GetSummary() (*models.ReportSummary, error) {
	summary, err := s.orderRepo.GetReportSummary()
	if err != nil {
		return nil, fmt.Errorf("failed to build report summary: %w", err)
	}
	return summary, nil
}

func (s *reportService) GetLowStock() ([]models.StockItem, error) {
	items, err := s.stockRepo.ListLowStockItems()
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock items: %w", err)
	}
	return items, nil
}
