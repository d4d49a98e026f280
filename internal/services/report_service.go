package services

import (
	"fmt"

	"tap2serve_backend/internal/models"
	"tap2serve_backend/internal/repositories"
)

// trendWindowDays is how far back the detailed report looks.
const trendWindowDays = 30

// --- ReportService Interface ---

type ReportService interface {
	GetDashboardStats(restaurantID int64, branchID *int64) (*models.DashboardStats, error)
	GetDetailedReport(restaurantID int64) (*models.ReportResponse, error)
	GetAdminStats() (*models.AdminStats, error)
	GetAuditLogs(restaurantID *int64, page, pageSize int) ([]models.AuditLog, int, error)
}

type reportService struct {
	reportRepo repositories.ReportRepository
	auditRepo  repositories.AuditRepository
}

// NewReportService creates a new instance of ReportService.
func NewReportService(rr repositories.ReportRepository, ar repositories.AuditRepository) ReportService {
	return &reportService{reportRepo: rr, auditRepo: ar}
}

func (s *reportService) GetDashboardStats(restaurantID int64, branchID *int64) (*models.DashboardStats, error) {
	stats, err := s.reportRepo.GetDashboardStats(restaurantID, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	return stats, nil
}

func (s *reportService) GetDetailedReport(restaurantID int64) (*models.ReportResponse, error) {
	trends, err := s.reportRepo.GetDailyTrends(restaurantID, trendWindowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily trends: %w", err)
	}
	distribution, err := s.reportRepo.GetStatusDistribution(restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get status distribution: %w", err)
	}
	return &models.ReportResponse{
		Trends:             trends,
		StatusDistribution: distribution,
	}, nil
}

func (s *reportService) GetAdminStats() (*models.AdminStats, error) {
	stats, err := s.reportRepo.GetAdminStats()
	if err != nil {
		return nil, fmt.Errorf("failed to get admin stats: %w", err)
	}
	return stats, nil
}

func (s *reportService) GetAuditLogs(restaurantID *int64, page, pageSize int) ([]models.AuditLog, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	entries, total, err := s.auditRepo.GetEntries(restaurantID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get audit logs: %w", err)
	}
	return entries, total, nil
}
