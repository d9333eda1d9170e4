package service

import (
	"context"

	"weblarek/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations on the shop catalogue.
type ProductService interface {
	// GetAll returns the whole catalogue as served by the listing endpoint.
	GetAll(ctx context.Context) (*model.CatalogResponse, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Seed upserts products into the catalogue.
	Seed(ctx context.Context, products []model.Product) error
}

// OrderService defines operations for order placement.
type OrderService interface {
	// PlaceOrder validates a draft order against the catalogue and persists it.
	PlaceOrder(ctx context.Context, order model.Order) (*model.OrderResult, error)

	// GetByID retrieves a placed order with its item ids in basket order.
	GetByID(ctx context.Context, id uuid.UUID) (*model.PlacedOrder, error)
}
