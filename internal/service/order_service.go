package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"weblarek/internal/model"
	"weblarek/internal/repository"
	"weblarek/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// totalTolerance absorbs float rounding when comparing client and server totals.
const totalTolerance = 0.005

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder validates a draft order and persists it in one transaction.
func (s *orderService) PlaceOrder(ctx context.Context, order model.Order) (*model.OrderResult, error) {
	if err := s.validateOrder(order); err != nil {
		return nil, err
	}

	total, err := s.priceItems(ctx, order.Items)
	if err != nil {
		return nil, err
	}

	if math.Abs(total-order.Total) > totalTolerance {
		s.logger.Warn().
			Float64("client_total", order.Total).
			Float64("server_total", total).
			Msg("order total mismatch")
		return nil, model.ErrTotalMismatch
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	placed := &model.PlacedOrder{
		ID:        uuid.New(),
		Payment:   order.Payment,
		Email:     strings.TrimSpace(order.Email),
		Phone:     strings.TrimSpace(order.Phone),
		Address:   strings.TrimSpace(order.Address),
		Total:     total,
		CreatedAt: time.Now(),
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, placed); err != nil {
		s.logger.Error().Err(err).Str("order_id", placed.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	items := make([]model.OrderItem, len(order.Items))
	for i, id := range order.Items {
		items[i] = model.OrderItem{OrderID: placed.ID, Position: i, ProductID: id}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", placed.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", placed.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", placed.ID.String()).
		Str("payment", string(placed.Payment)).
		Int("item_count", len(items)).
		Float64("total", total).
		Msg("order created successfully")

	return &model.OrderResult{ID: placed.ID.String(), Total: total}, nil
}

// GetByID retrieves a placed order with its item ids.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.PlacedOrder, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, nil
	}

	order.Items = make([]string, len(items))
	for i, item := range items {
		order.Items[i] = item.ProductID
	}

	return order, nil
}

// validateOrder applies the checkout form rules to the whole order.
func (s *orderService) validateOrder(order model.Order) error {
	if order.Payment != model.PaymentUnset && !order.Payment.Valid() {
		s.logger.Warn().Str("payment", string(order.Payment)).Msg("unknown payment method")
		return model.ErrUnknownPayment
	}

	if errs := validation.Order(order); !validation.Valid(errs) {
		s.logger.Warn().Strs("errors", validation.Messages(errs)).Msg("incomplete order")
		return fmt.Errorf("%w: %s", model.ErrIncompleteOrder, strings.Join(validation.Messages(errs), ", "))
	}

	if len(order.Items) == 0 {
		return model.ErrEmptyOrder
	}

	return nil
}

// priceItems sums the catalogue prices of every item occurrence.
func (s *orderService) priceItems(ctx context.Context, ids []string) (float64, error) {
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to retrieve product details")
		return 0, fmt.Errorf("failed to retrieve product details: %w", err)
	}

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var total float64
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			s.logger.Warn().Str("product_id", id).Msg("product not found")
			return 0, model.ErrProductNotFound
		}
		if p.Priceless() {
			s.logger.Warn().Str("product_id", id).Msg("priceless product in order")
			return 0, model.ErrPricelessItem
		}
		total += p.Amount()
	}

	return total, nil
}
