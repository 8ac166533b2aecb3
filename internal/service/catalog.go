package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"
	"strings"

	"go.uber.org/zap"
)

const PageSize = 5

type CatalogService interface {
	GetProduct(ctx context.Context, productID uint) (*model.Product, error)
	ListActive(ctx context.Context, page int) (*dto.CatalogPage, error)

	CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*model.Product, error)
	ListProducts(ctx context.Context, page int) (*dto.CatalogPage, error)
	ToggleActive(ctx context.Context, productID uint) (*model.Product, error)
	DeleteProduct(ctx context.Context, productID uint) error
	Seed(ctx context.Context, products []*model.Product) error
}

type catalogServiceImpl struct {
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

func NewCatalogService(productRepo repository.ProductRepository, logger *zap.Logger) CatalogService {
	return &catalogServiceImpl{
		productRepo: productRepo,
		logger:      logger,
	}
}

// GetProduct returns an active product. Inactive products are reported as
// not found to customers.
func (s *catalogServiceImpl) GetProduct(ctx context.Context, productID uint) (*model.Product, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, fmt.Errorf("product %d is inactive: %w", productID, ErrProductNotFound)
	}
	return product, nil
}

func (s *catalogServiceImpl) ListActive(ctx context.Context, page int) (*dto.CatalogPage, error) {
	return s.listPage(ctx, page, s.productRepo.ListActive)
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context, page int) (*dto.CatalogPage, error) {
	return s.listPage(ctx, page, s.productRepo.List)
}

type listFunc func(ctx context.Context, offset, limit int) ([]*model.Product, error)

func (s *catalogServiceImpl) listPage(ctx context.Context, page int, list listFunc) (*dto.CatalogPage, error) {
	if page < 0 {
		return nil, ErrInvalidPageNumber
	}

	// one extra row tells whether a next page exists
	products, err := list(ctx, page*PageSize, PageSize+1)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	hasNext := len(products) > PageSize
	if hasNext {
		products = products[:PageSize]
	}

	out := make([]dto.Product, len(products))
	for i, p := range products {
		out[i] = ToProductDTO(p)
	}

	return &dto.CatalogPage{
		Page:     page,
		Products: out,
		HasNext:  hasNext,
	}, nil
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*model.Product, error) {
	product := &model.Product{
		Title:       strings.TrimSpace(req.Title),
		Price:       req.Price,
		Description: strings.TrimSpace(req.Description),
		ImageRef:    strings.TrimSpace(req.ImageRef),
		Variants:    ParseVariants(req.Variants),
		Active:      true,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("store product in db: %w", err)
	}

	s.logger.Info("product created", zap.Uint("product_id", product.ID), zap.Strings("variants", product.Variants))
	return product, nil
}

func (s *catalogServiceImpl) ToggleActive(ctx context.Context, productID uint) (*model.Product, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.SetActive(ctx, productID, !product.Active); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, fmt.Errorf("toggle product %d: %w", productID, ErrProductNotFound)
		}
		return nil, fmt.Errorf("toggle product %d: %w", productID, err)
	}
	product.Active = !product.Active

	s.logger.Info("product toggled", zap.Uint("product_id", productID), zap.Bool("active", product.Active))
	return product, nil
}

func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, productID uint) error {
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return fmt.Errorf("delete product %d: %w", productID, ErrProductNotFound)
		}
		return fmt.Errorf("delete product %d: %w", productID, err)
	}

	s.logger.Info("product deleted", zap.Uint("product_id", productID))
	return nil
}

func (s *catalogServiceImpl) Seed(ctx context.Context, products []*model.Product) error {
	if err := s.productRepo.Seed(ctx, products); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	s.logger.Info("catalog seeded", zap.Int("products", len(products)))
	return nil
}

func (s *catalogServiceImpl) findProduct(ctx context.Context, productID uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, fmt.Errorf("find product %d: %w", productID, ErrProductNotFound)
		}
		return nil, fmt.Errorf("find product %d: %w", productID, err)
	}
	return product, nil
}

var variantSeparators = regexp.MustCompile(`[,;\s]+`)

// ParseVariants splits admin input like "S, M; L XL" into variant names.
// "-" or blank input means the product has no variants.
func ParseVariants(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" || text == "-" {
		return []string{}
	}

	seen := make(map[string]struct{})
	variants := []string{}
	for _, v := range variantSeparators.Split(text, -1) {
		if v == "" || v == "-" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		variants = append(variants, v)
	}
	return variants
}
