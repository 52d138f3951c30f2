package cart

import (
	"context"
	"fmt"

	"storefront-be/internal/logger"
	"storefront-be/internal/pricing"
	"storefront-be/internal/product"
	"storefront-be/internal/promo"
	"storefront-be/internal/settings"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

// conflictRetries bounds how often a mutation is retried after losing the
// version race on the cart row.
const conflictRetries = 3

type AddItemParams struct {
	ProductID string
	VariantID *string
	Qty       int
}

type Service interface {
	GetMyCart(ctx context.Context) (*Cart, error)
	AddItem(ctx context.Context, params AddItemParams) (string, error)
	RemoveItem(ctx context.Context, productID string, variantID *string) (string, error)
	ApplyPromoCode(ctx context.Context, code string) (string, error)
}

type service struct {
	repo        Repository
	productRepo product.Repository
	promoRepo   promo.Repository
	settingsSvc settings.Service
}

func NewService(
	repo Repository,
	productRepo product.Repository,
	promoRepo promo.Repository,
	settingsSvc settings.Service,
) Service {
	return &service{
		repo:        repo,
		productRepo: productRepo,
		promoRepo:   promoRepo,
		settingsSvc: settingsSvc,
	}
}

// identity resolves the cart owner: the authenticated user id when present,
// always alongside the session cart id from the cookie.
func (s *service) identity(ctx context.Context) (*string, string, error) {
	sessionID, ok := utils.GetSessionCartIDFromContext(ctx)
	if !ok {
		return nil, "", ErrNoCartIdentity
	}

	if userID, ok := utils.GetUserIDFromContext(ctx); ok {
		return &userID, sessionID, nil
	}
	return nil, sessionID, nil
}

func (s *service) GetMyCart(ctx context.Context) (*Cart, error) {
	userID, sessionID, err := s.identity(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByOwner(ctx, userID, sessionID)
}

// AddItem locates the existing line by (productID, variantID), verifies stock
// availability against the variant when one is named (else the product),
// recomputes prices under the current settings and persists items plus price
// fields together.
func (s *service) AddItem(ctx context.Context, params AddItemParams) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.String("product_id", params.ProductID),
	)

	if params.Qty <= 0 {
		params.Qty = 1
	}

	userID, sessionID, err := s.identity(ctx)
	if err != nil {
		return "", err
	}

	prod, err := s.productRepo.GetByID(ctx, params.ProductID)
	if err != nil {
		return "", err
	}
	if prod == nil {
		return "", product.ErrProductNotFound
	}

	var variant *product.Variant
	if params.VariantID != nil {
		variant, err = s.productRepo.GetVariantByID(ctx, *params.VariantID)
		if err != nil {
			return "", err
		}
		if variant == nil {
			return "", product.ErrVariantNotFound
		}
	}

	available := prod.Stock
	unitPrice := prod.Price
	image := prod.Image
	if variant != nil {
		available = variant.Stock
		unitPrice = variant.Price
		if variant.Image != nil {
			image = *variant.Image
		}
	}

	updated := false
	mutate := func(c *Cart) error {
		if i := c.findLine(params.ProductID, params.VariantID); i >= 0 {
			if available < c.Items[i].Qty+params.Qty {
				return ErrInsufficientStock
			}
			c.Items[i].Qty += params.Qty
			updated = true
			return nil
		}

		if available < params.Qty {
			return ErrInsufficientStock
		}
		c.Items = append(c.Items, LineItem{
			ProductID: params.ProductID,
			VariantID: params.VariantID,
			Name:      prod.Name,
			Slug:      prod.Slug,
			Image:     image,
			Price:     unitPrice,
			Qty:       params.Qty,
		})
		return nil
	}

	cart, err := s.repo.GetByOwner(ctx, userID, sessionID)
	if err != nil {
		return "", err
	}
	if cart == nil {
		// First add creates the cart lazily.
		newCart := &Cart{UserID: userID, SessionCartID: sessionID}
		if err := mutate(newCart); err != nil {
			return "", err
		}
		cfg, err := s.settingsSvc.PricingConfig(ctx)
		if err != nil {
			return "", err
		}
		prices := pricing.Calculate(newCart.pricingItems(), cfg, nil)
		newCart.ItemsPrice = prices.ItemsPrice
		newCart.ShippingPrice = prices.ShippingPrice
		newCart.TaxPrice = prices.TaxPrice
		newCart.TotalPrice = prices.TotalPrice

		if _, err := s.repo.Create(ctx, newCart); err != nil {
			return "", err
		}
		log.Info("cart created on first add")
		return fmt.Sprintf("%s added to cart", prod.Name), nil
	}

	if err := s.mutateCart(ctx, userID, sessionID, nil, mutate); err != nil {
		return "", err
	}

	if updated {
		return fmt.Sprintf("%s updated in cart", prod.Name), nil
	}
	return fmt.Sprintf("%s added to cart", prod.Name), nil
}

// RemoveItem decrements the matching line by one unit, deleting the line when
// the quantity drops to zero.
func (s *service) RemoveItem(ctx context.Context, productID string, variantID *string) (string, error) {
	userID, sessionID, err := s.identity(ctx)
	if err != nil {
		return "", err
	}

	prod, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return "", err
	}
	if prod == nil {
		return "", product.ErrProductNotFound
	}

	mutate := func(c *Cart) error {
		i := c.findLineAny(productID, variantID)
		if i < 0 {
			return ErrItemNotFound
		}

		if c.Items[i].Qty == 1 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		} else {
			c.Items[i].Qty--
		}
		return nil
	}

	if err := s.mutateCart(ctx, userID, sessionID, nil, mutate); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s was removed from cart", prod.Name), nil
}

// ApplyPromoCode looks up an active code by its normalized form and recomputes
// the cart prices with the discount applied.
func (s *service) ApplyPromoCode(ctx context.Context, code string) (string, error) {
	userID, sessionID, err := s.identity(ctx)
	if err != nil {
		return "", err
	}

	promoCode, err := s.promoRepo.GetActiveByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if promoCode == nil {
		return "", promo.ErrInvalidPromoCode
	}

	mutate := func(c *Cart) error {
		if len(c.Items) == 0 {
			return ErrCartEmpty
		}
		return nil
	}

	if err := s.mutateCart(ctx, userID, sessionID, promoCode, mutate); err != nil {
		return "", err
	}

	return "Promo code applied", nil
}

// mutateCart runs the load-mutate-price-persist cycle under the version guard,
// retrying a bounded number of times when a concurrent writer wins the race.
// Settings (and the optional promo) are read fresh on every attempt.
func (s *service) mutateCart(
	ctx context.Context,
	userID *string,
	sessionID string,
	promoCode *promo.Code,
	mutate func(*Cart) error,
) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "mutateCart"),
	)

	var lastErr error
	for attempt := 0; attempt < conflictRetries; attempt++ {
		cart, err := s.repo.GetByOwner(ctx, userID, sessionID)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartNotFound
		}

		if err := mutate(cart); err != nil {
			return err
		}

		cfg, err := s.settingsSvc.PricingConfig(ctx)
		if err != nil {
			return err
		}

		prices := pricing.Calculate(cart.pricingItems(), cfg, promoCode)

		items := cart.Items
		if items == nil {
			items = []LineItem{}
		}

		err = s.repo.Replace(ctx, cart.ID, cart.Version, items, prices)
		if err == nil {
			return nil
		}
		if err != ErrCartConflict {
			return err
		}

		lastErr = err
		log.Warn("cart version conflict, retrying", zap.Int("attempt", attempt+1))
	}

	return lastErr
}
