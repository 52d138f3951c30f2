package settings

import (
	"context"
	"fmt"

	"storefront-be/internal/logger"
	"storefront-be/internal/pricing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	// PricingConfig assembles the injected pricing configuration, reading the
	// singleton rows fresh so admin changes apply on the next computation.
	PricingConfig(ctx context.Context) (pricing.Config, error)
	GetShipping(ctx context.Context) (*ShippingSettings, error)
	GetTax(ctx context.Context) (*TaxSettings, error)
	UpdateShipping(ctx context.Context, baseCost, threshold decimal.Decimal, uspsEnabled bool) error
	UpdateTax(ctx context.Context, rate decimal.Decimal) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) PricingConfig(ctx context.Context) (pricing.Config, error) {
	cfg := pricing.Config{
		BaseShippingCost:      DefaultBaseShippingCost,
		FreeShippingThreshold: DefaultFreeShippingThreshold,
		TaxRate:               DefaultTaxRate,
	}

	shipping, err := s.repo.GetShipping(ctx)
	if err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if shipping != nil {
		cfg.BaseShippingCost = shipping.BaseShippingCost
		cfg.FreeShippingThreshold = shipping.FreeShippingThreshold
	}

	tax, err := s.repo.GetTax(ctx)
	if err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if tax != nil {
		cfg.TaxRate = tax.TaxRate
	}

	return cfg, nil
}

func (s *service) GetShipping(ctx context.Context) (*ShippingSettings, error) {
	shipping, err := s.repo.GetShipping(ctx)
	if err != nil {
		return nil, err
	}
	if shipping == nil {
		return &ShippingSettings{
			BaseShippingCost:      DefaultBaseShippingCost,
			FreeShippingThreshold: DefaultFreeShippingThreshold,
		}, nil
	}
	return shipping, nil
}

func (s *service) GetTax(ctx context.Context) (*TaxSettings, error) {
	tax, err := s.repo.GetTax(ctx)
	if err != nil {
		return nil, err
	}
	if tax == nil {
		return &TaxSettings{TaxRate: DefaultTaxRate}, nil
	}
	return tax, nil
}

func (s *service) UpdateShipping(ctx context.Context, baseCost, threshold decimal.Decimal, uspsEnabled bool) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateShipping"),
	)

	if err := s.repo.UpsertShipping(ctx, baseCost, threshold, uspsEnabled); err != nil {
		log.Error("failed to update shipping settings", zap.Error(err))
		return err
	}

	log.Info("shipping settings updated",
		zap.String("base_shipping_cost", baseCost.String()),
		zap.String("free_shipping_threshold", threshold.String()),
	)
	return nil
}

func (s *service) UpdateTax(ctx context.Context, rate decimal.Decimal) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateTax"),
	)

	if err := s.repo.UpsertTax(ctx, rate); err != nil {
		log.Error("failed to update tax settings", zap.Error(err))
		return err
	}

	log.Info("tax settings updated", zap.String("tax_rate", rate.String()))
	return nil
}
