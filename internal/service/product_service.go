package service

import (
	"context"
	"fmt"

	"weblarek/internal/model"
	"weblarek/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll returns the whole catalogue.
func (s *productService) GetAll(ctx context.Context) (*model.CatalogResponse, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}

	s.logger.Debug().Int("count", len(products)).Msg("retrieved products")

	return &model.CatalogResponse{Total: len(products), Items: products}, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Seed upserts products into the catalogue.
func (s *productService) Seed(ctx context.Context, products []model.Product) error {
	if err := s.productRepo.Upsert(ctx, products); err != nil {
		s.logger.Error().Err(err).Int("count", len(products)).Msg("failed to seed catalogue")
		return fmt.Errorf("failed to seed catalogue: %w", err)
	}

	s.logger.Info().Int("count", len(products)).Msg("catalogue seeded")
	return nil
}
