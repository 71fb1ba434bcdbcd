package ordering

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/ordering"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// OrderService handles checkout and order lifecycle operations
type OrderService struct {
	orderRepo   ordering.OrderRepository
	idempotency shared.IdempotencyStore
	cfg         config.CheckoutConfig
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo ordering.OrderRepository,
	idempotency shared.IdempotencyStore,
	cfg config.CheckoutConfig,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		idempotency: idempotency,
		cfg:         cfg,
		logger:      logger,
	}
}

// PlaceOrder creates a new order from a cart snapshot.
// The caller supplies an idempotency key per checkout attempt; a replay within
// the key TTL is rejected without creating a second order. The key is reserved
// up front and released again when the checkout fails, so the same key can
// retry a failed attempt. Order row, item rows and the OrderPlaced outbox
// entry are written in one transaction. A duplicate order number triggers
// reallocation up to MaxNumberRetries.
func (s *OrderService) PlaceOrder(ctx context.Context, idempotencyKey string, req PlaceOrderRequest) (*OrderResponse, error) {
	if idempotencyKey == "" {
		return nil, shared.NewDomainError("MISSING_IDEMPOTENCY_KEY", "Idempotency-Key header is required for checkout")
	}

	key := "checkout:" + idempotencyKey
	isNew, err := s.idempotency.MarkProcessed(ctx, key, s.cfg.IdempotencyKeyTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to check checkout idempotency: %w", err)
	}
	if !isNew {
		return nil, shared.NewDomainError("DUPLICATE_CHECKOUT", "This checkout has already been submitted")
	}

	resp, err := s.placeOrder(ctx, req)
	if err != nil {
		// Nothing was committed; free the key so the client can retry
		if releaseErr := s.idempotency.Release(ctx, key); releaseErr != nil {
			s.logger.Warn("failed to release checkout idempotency key",
				zap.String("key", key),
				zap.Error(releaseErr),
			)
		}
		return nil, err
	}
	return resp, nil
}

func (s *OrderService) placeOrder(ctx context.Context, req PlaceOrderRequest) (*OrderResponse, error) {
	lines := make([]ordering.CartLine, len(req.Items))
	for i, item := range req.Items {
		lines[i] = ordering.CartLine{
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			ProductName:    item.ProductName,
			VariantDetails: item.VariantDetails,
			SKU:            item.SKU,
			UnitPrice:      valueobject.NewMoneyPKR(item.UnitPrice),
			Quantity:       item.Quantity,
		}
	}

	contact := ordering.ShippingContact{
		Name:       req.ShippingContact.Name,
		Phone:      req.ShippingContact.Phone,
		Address:    req.ShippingContact.Address,
		City:       req.ShippingContact.City,
		Province:   req.ShippingContact.Province,
		PostalCode: req.ShippingContact.PostalCode,
	}

	maxRetries := s.cfg.MaxNumberRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		orderNumber, err := s.orderRepo.NextOrderNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate order number: %w", err)
		}

		order, err := ordering.NewOrder(
			orderNumber,
			req.CustomerID,
			req.Email,
			contact,
			ordering.PaymentMethod(req.PaymentMethod),
			lines,
			valueobject.NewMoneyPKR(req.ShippingFee),
			valueobject.NewMoneyPKR(req.DiscountAmount),
			req.CouponCode,
			req.CustomerNotes,
		)
		if err != nil {
			return nil, err
		}

		err = s.orderRepo.SaveWithEvents(ctx, order, order.GetDomainEvents())
		if err == nil {
			order.ClearDomainEvents()
			s.logger.Info("order placed",
				zap.String("order_number", order.OrderNumber),
				zap.String("order_id", order.ID.String()),
				zap.Int("items", len(order.Items)),
			)
			resp := ToOrderResponse(order)
			return &resp, nil
		}

		if errors.Is(err, shared.ErrAlreadyExists) {
			// Order number collision, allocate a fresh one and retry
			s.logger.Warn("order number collision, retrying",
				zap.String("order_number", orderNumber),
				zap.Int("attempt", attempt),
			)
			lastErr = err
			continue
		}

		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	return nil, fmt.Errorf("order number allocation exhausted after %d attempts: %w", maxRetries, lastErr)
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetByOrderNumber retrieves an order by its human-readable number
func (s *OrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := toDomainFilter(filter)

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses, total, nil
}

// MarkProcessing transitions a pending order to processing
func (s *OrderService) MarkProcessing(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(order *ordering.Order) error {
		return order.Process()
	})
}

// Ship transitions a processing order to shipped with courier details
func (s *OrderService) Ship(ctx context.Context, orderID uuid.UUID, req ShipOrderRequest) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(order *ordering.Order) error {
		return order.Ship(req.Courier, req.TrackingNumber, req.TrackingURL)
	})
}

// MarkDelivered transitions a shipped order to delivered
func (s *OrderService) MarkDelivered(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(order *ordering.Order) error {
		return order.Deliver()
	})
}

// Cancel cancels a pending or processing order
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(order *ordering.Order) error {
		return order.Cancel(req.Reason)
	})
}

// transition loads the order, applies a state change and persists it with
// optimistic locking. The transition event lands in the outbox in the same
// transaction, so notification dispatch can never block the transition.
func (s *OrderService) transition(ctx context.Context, orderID uuid.UUID, apply func(*ordering.Order) error) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := apply(order); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLockAndEvents(ctx, order, order.GetDomainEvents()); err != nil {
		return nil, err
	}
	order.ClearDomainEvents()

	s.logger.Info("order transitioned",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", order.Status.String()),
	)

	resp := ToOrderResponse(order)
	return &resp, nil
}

func toDomainFilter(filter OrderListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	domainFilter.OrderBy = filter.OrderBy
	domainFilter.OrderDir = filter.OrderDir

	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.Email != "" {
		domainFilter.Filters["email"] = filter.Email
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if len(filter.Statuses) > 0 {
		domainFilter.Filters["statuses"] = filter.Statuses
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}
	return domainFilter
}
