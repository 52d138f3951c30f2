package tracking

import (
	"context"

	"go.uber.org/zap"

	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/utils"
)

type Service interface {
	// Issue assigns a tracking number to an order. Issuing twice returns the
	// number already on record.
	Issue(ctx context.Context, orderID string) (string, error)

	// Refresh asks the carrier for the shipment's current state and
	// overwrites the stored snapshot with it.
	Refresh(ctx context.Context, orderID string) (*Info, error)

	Get(ctx context.Context, orderID string) (*Shipment, error)
}

type service struct {
	repo    Repository
	carrier Carrier
}

func NewService(repo Repository, carrier Carrier) Service {
	return &service{repo: repo, carrier: carrier}
}

func (s *service) Issue(ctx context.Context, orderID string) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Issue"),
		zap.String("order_id", orderID),
	)

	shipment, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return "", err
	}

	if shipment.TrackingNumber != nil {
		log.Info("tracking number already issued",
			zap.String("tracking_number", *shipment.TrackingNumber),
		)
		return *shipment.TrackingNumber, nil
	}

	trackingNumber := utils.GenerateTrackingNumber()
	if err := s.repo.SetTrackingNumber(ctx, orderID, trackingNumber, StatusPending); err != nil {
		return "", err
	}

	log.Info("tracking number issued", zap.String("tracking_number", trackingNumber))
	return trackingNumber, nil
}

func (s *service) Refresh(ctx context.Context, orderID string) (*Info, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Refresh"),
		zap.String("order_id", orderID),
	)

	shipment, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if shipment.TrackingNumber == nil {
		return nil, ErrNotTracked
	}

	info, err := s.carrier.Track(ctx, *shipment.TrackingNumber)
	if err != nil {
		log.Warn("carrier refresh failed", zap.Error(err))
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, orderID, info.Status, info.Events); err != nil {
		return nil, err
	}

	metrics.TrackingRefreshes.Inc()
	log.Info("tracking refreshed",
		zap.String("status", info.Status),
		zap.Int("event_count", len(info.Events)),
	)
	return info, nil
}

func (s *service) Get(ctx context.Context, orderID string) (*Shipment, error) {
	return s.repo.GetByOrderID(ctx, orderID)
}
