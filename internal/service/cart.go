package service

import (
	"context"
	"errors"
	"fmt"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"
)

// NoticeProductUnavailable is set on the returned view when an add was
// dropped because the product is gone or inactive.
const NoticeProductUnavailable = "product_unavailable"

// CartService returns a freshly read view after every mutation so callers
// never render stale totals.
type CartService interface {
	View(ctx context.Context, userID int64) (*dto.CartView, error)
	Add(ctx context.Context, key model.CartKey) (*dto.CartView, error)
	Increment(ctx context.Context, key model.CartKey) (*dto.CartView, error)
	Decrement(ctx context.Context, key model.CartKey) (*dto.CartView, error)
	Remove(ctx context.Context, key model.CartKey) (*dto.CartView, error)
	Clear(ctx context.Context, userID int64) (*dto.CartView, error)
}

type cartServiceImpl struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	currency    string
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	currency string,
) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		currency:    currency,
	}
}

func (s *cartServiceImpl) View(ctx context.Context, userID int64) (*dto.CartView, error) {
	lines, err := s.cartRepo.List(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}

	var total int64
	for _, line := range lines {
		total += line.Subtotal()
	}

	return &dto.CartView{
		Items:    toCartItems(lines),
		Total:    total,
		Currency: s.currency,
	}, nil
}

func (s *cartServiceImpl) Add(ctx context.Context, key model.CartKey) (*dto.CartView, error) {
	product, err := s.productRepo.FindByID(ctx, key.ProductID)
	if err != nil && !errors.Is(err, repository.ErrProductNotFound) {
		return nil, fmt.Errorf("find product %d: %w", key.ProductID, err)
	}
	if product == nil || !product.Active {
		view, err := s.View(ctx, key.UserID)
		if err != nil {
			return nil, err
		}
		view.Notice = NoticeProductUnavailable
		return view, nil
	}

	if len(product.Variants) > 0 {
		if key.Variant == "" {
			return nil, &VariantRequiredError{ProductID: product.ID, Variants: product.Variants}
		}
		if !product.HasVariant(key.Variant) {
			return nil, fmt.Errorf("product %d variant %q: %w", product.ID, key.Variant, ErrUnknownVariant)
		}
	} else {
		key.Variant = ""
	}

	if err := s.cartRepo.Add(ctx, key); err != nil {
		return nil, fmt.Errorf("add cart entry: %w", err)
	}

	return s.View(ctx, key.UserID)
}

func (s *cartServiceImpl) Increment(ctx context.Context, key model.CartKey) (*dto.CartView, error) {
	if err := s.cartRepo.Increment(ctx, key); err != nil {
		return nil, fmt.Errorf("increment cart entry: %w", err)
	}
	return s.View(ctx, key.UserID)
}

func (s *cartServiceImpl) Decrement(ctx context.Context, key model.CartKey) (*dto.CartView, error) {
	if err := s.cartRepo.Decrement(ctx, key); err != nil {
		return nil, fmt.Errorf("decrement cart entry: %w", err)
	}
	return s.View(ctx, key.UserID)
}

func (s *cartServiceImpl) Remove(ctx context.Context, key model.CartKey) (*dto.CartView, error) {
	if err := s.cartRepo.Remove(ctx, key); err != nil {
		return nil, fmt.Errorf("remove cart entry: %w", err)
	}
	return s.View(ctx, key.UserID)
}

func (s *cartServiceImpl) Clear(ctx context.Context, userID int64) (*dto.CartView, error) {
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}
	return s.View(ctx, userID)
}
