package stats

import (
	"context"

	"tailorder-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Overview(ctx context.Context, months int) (*Overview, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Overview(ctx context.Context, months int) (*Overview, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "StatsOverview"),
	)

	monthly, err := s.repo.MonthlySummaries(ctx, months)
	if err != nil {
		log.Error("failed to load monthly summaries", zap.Error(err))
		return nil, err
	}

	statuses, err := s.repo.StatusBreakdown(ctx)
	if err != nil {
		log.Error("failed to load status breakdown", zap.Error(err))
		return nil, err
	}

	if monthly == nil {
		monthly = []*MonthlySummary{}
	}
	if statuses == nil {
		statuses = []*StatusCount{}
	}
	return &Overview{Monthly: monthly, Statuses: statuses}, nil
}
