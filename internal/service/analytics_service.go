package service

import (
	"context"

	"perfumeadmin/internal/models"
	"perfumeadmin/internal/repository"
)

type AnalyticsService interface {
	Summary(ctx context.Context) (*models.Analytics, error)
}

type analyticsService struct {
	statsRepo repository.StatsRepository
}

func NewAnalyticsService(statsRepo repository.StatsRepository) AnalyticsService {
	return &analyticsService{statsRepo: statsRepo}
}

func (s *analyticsService) Summary(ctx context.Context) (*models.Analytics, error) {
	analytics, err := s.statsRepo.Analytics(ctx)
	if err != nil {
		return nil, storageError("Failed to fetch analytics", err)
	}
	return analytics, nil
}
