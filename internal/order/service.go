package order

import (
	"context"
	"time"

	"tailorder-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, filter *ListFilter) ([]*Order, error)
	Get(ctx context.Context, id string) (*Order, error)
	Create(ctx context.Context, form Form) (*Order, error)
	Update(ctx context.Context, id string, form Form) (*Order, error)
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status Status) error
}

type service struct {
	repo    Repository
	builder *Builder
	now     func() time.Time
}

func NewService(repo Repository, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:    repo,
		builder: NewBuilder(now),
		now:     now,
	}
}

func (s *service) List(ctx context.Context, filter *ListFilter) ([]*Order, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Get(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, form Form) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
	)

	o, err := s.builder.Build(form)
	if err != nil {
		log.Debug("order rejected by validation", zap.Error(err))
		return nil, err
	}

	if err := s.repo.Create(ctx, o, s.now()); err != nil {
		log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	log.Info("order created",
		zap.String("order_id", o.ID),
		zap.Int("items", len(o.Items)),
		zap.Int64("total", o.TotalPrice),
	)
	return o, nil
}

func (s *service) Update(ctx context.Context, id string, form Form) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrder"),
		zap.String("order_id", id),
	)

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	o, err := s.builder.Merge(existing, form)
	if err != nil {
		log.Debug("order update rejected by validation", zap.Error(err))
		return nil, err
	}

	if err := s.repo.Replace(ctx, o); err != nil {
		log.Error("failed to replace order", zap.Error(err))
		return nil, err
	}

	log.Info("order updated",
		zap.Int("items", len(o.Items)),
		zap.Int64("total", o.TotalPrice),
	)
	return o, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteOrder"),
		zap.String("order_id", id),
	)

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error("failed to delete order", zap.Error(err))
		return err
	}

	log.Info("order deleted")
	return nil
}

func (s *service) SetStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		logger.FromCtx(ctx).Error("failed to set order status",
			zap.String("order_id", id),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return err
	}
	return nil
}
