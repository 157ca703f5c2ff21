package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yoshii-hideaki/mikan-order/internal/domain"
	"github.com/yoshii-hideaki/mikan-order/internal/pricing"
	"github.com/yoshii-hideaki/mikan-order/internal/storage"
)

var (
	ErrEmptyOrder           = errors.New("order must contain at least one item")
	ErrInvalidQuantity      = errors.New("item quantity must be positive")
	ErrMenuItemNotFound     = errors.New("menu item not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderNotEditable     = errors.New("order can no longer be edited")
	ErrInvalidStatus        = errors.New("unrecognized order status")
	ErrInvalidTransition    = errors.New("status transition not allowed")
	ErrDuplicateOrderNumber = storage.ErrDuplicateOrderNumber
)

// OrderService owns the order lifecycle: create, status transition, in-place
// edit, delete. It fails closed — any validation error aborts the whole
// operation before the store is touched.
type OrderService struct {
	repo          OrderRepository
	menu          MenuRepository
	pricer        pricing.Strategy
	qr            QRGenerator
	cache         BoardCache
	events        EventPublisher
	initialStatus domain.OrderStatus
}

func NewOrderService(repo OrderRepository, menu MenuRepository, pricer pricing.Strategy, qr QRGenerator, cache BoardCache, events EventPublisher, initialStatus domain.OrderStatus) *OrderService {
	if !initialStatus.Valid() {
		initialStatus = domain.StatusInProgress
	}
	return &OrderService{
		repo:          repo,
		menu:          menu,
		pricer:        pricer,
		qr:            qr,
		cache:         cache,
		events:        events,
		initialStatus: initialStatus,
	}
}

// Create prices the submitted lines and persists the order with its items.
// The total is always recomputed server-side; any client-supplied price is
// ignored. The order number is assigned from the store-backed counter when
// the caller leaves it empty.
func (s *OrderService) Create(ctx context.Context, orderNumber string, lines []domain.OrderLine) (*domain.Order, error) {
	items, receipt, err := s.priceLines(lines)
	if err != nil {
		return nil, err
	}

	if orderNumber == "" {
		n, err := s.repo.NextOrderNumber()
		if err != nil {
			return nil, fmt.Errorf("assign order number: %w", err)
		}
		orderNumber = fmt.Sprintf("#%d", n)
	}

	order := &domain.Order{
		OrderNumber: orderNumber,
		Status:      s.initialStatus,
		TotalAmount: receipt.Total,
		Items:       items,
	}
	if err := s.repo.CreateOrder(order); err != nil {
		return nil, err
	}

	if s.qr != nil {
		if qr, err := s.qr.Generate(order.ID); err == nil {
			_ = s.repo.SaveQRCode(order.ID, qr)
		}
	}

	s.afterMutation(ctx, domain.EventOrderCreated, order)
	return order, nil
}

func (s *OrderService) Get(id int) (*domain.Order, error) {
	order, err := s.repo.GetOrder(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	return order, err
}

func (s *OrderService) List(withItems bool) ([]domain.Order, error) {
	return s.repo.ListOrders(withItems)
}

// UpdateStatus advances the order along the forward-only path. Unknown
// statuses and reverse transitions are rejected before any write.
func (s *OrderService) UpdateStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !domain.ValidTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	if err := s.repo.UpdateOrderStatus(id, status); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	order, err = s.Get(id)
	if err != nil {
		return nil, err
	}
	s.afterMutation(ctx, domain.EventOrderStatusChanged, order)
	return order, nil
}

// Edit replaces the order's item set wholesale and recomputes the total,
// preserving the order's identity. Only in-progress orders are editable; a
// served order is closed history. An empty replacement set is rejected.
func (s *OrderService) Edit(ctx context.Context, id int, orderNumber string, status domain.OrderStatus, lines []domain.OrderLine) (*domain.Order, error) {
	current, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.StatusInProgress {
		return nil, fmt.Errorf("%w: status is %s", ErrOrderNotEditable, current.Status)
	}

	items, receipt, err := s.priceLines(lines)
	if err != nil {
		return nil, err
	}

	if orderNumber == "" {
		orderNumber = current.OrderNumber
	}
	if status == "" {
		status = current.Status
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if status != current.Status && !domain.ValidTransition(current.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
	}

	order := &domain.Order{
		ID:          id,
		OrderNumber: orderNumber,
		Status:      status,
		TotalAmount: receipt.Total,
		Items:       items,
	}
	if err := s.repo.ReplaceOrder(order); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	order, err = s.Get(id)
	if err != nil {
		return nil, err
	}
	s.afterMutation(ctx, domain.EventOrderUpdated, order)
	return order, nil
}

// Delete removes the order and cascades to its items.
func (s *OrderService) Delete(ctx context.Context, id int) error {
	order, err := s.Get(id)
	if err != nil {
		return err
	}

	rows, err := s.repo.DeleteOrder(id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrOrderNotFound
	}

	s.afterMutation(ctx, domain.EventOrderDeleted, order)
	return nil
}

// KitchenBoard serves the cached orders-with-items snapshot, falling back to
// the store and repopulating the cache when cold.
func (s *OrderService) KitchenBoard(ctx context.Context) ([]domain.Order, error) {
	if s.cache != nil {
		if orders, ok, err := s.cache.Board(ctx); err == nil && ok {
			return orders, nil
		}
	}

	orders, err := s.repo.ListOrders(true)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetBoard(ctx, orders); err != nil {
			log.Printf("[order-svc] failed to cache kitchen board: %v", err)
		}
	}
	return orders, nil
}

func (s *OrderService) QRCode(orderID int) ([]byte, error) {
	qr, err := s.repo.GetQRCode(orderID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(qr) == 0 && s.qr != nil {
		if regenerated, err := s.qr.Generate(orderID); err == nil {
			_ = s.repo.SaveQRCode(orderID, regenerated)
			return regenerated, nil
		}
	}
	return qr, nil
}

func (s *OrderService) Summary(date string) (*domain.DailySummary, error) {
	return s.repo.DailySummary(date)
}

// priceLines validates the submitted lines, snapshots menu prices, and runs
// the pricing strategy. Unresolvable menu references abort the operation
// instead of being dropped.
func (s *OrderService) priceLines(lines []domain.OrderLine) ([]domain.OrderItem, pricing.Receipt, error) {
	if len(lines) == 0 {
		return nil, pricing.Receipt{}, ErrEmptyOrder
	}

	items := make([]domain.OrderItem, 0, len(lines))
	priced := make([]pricing.Line, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, pricing.Receipt{}, fmt.Errorf("%w: menu item %d", ErrInvalidQuantity, line.MenuItemID)
		}
		menuItem, err := s.menu.GetMenuItem(line.MenuItemID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, pricing.Receipt{}, fmt.Errorf("%w: id %d", ErrMenuItemNotFound, line.MenuItemID)
		}
		if err != nil {
			return nil, pricing.Receipt{}, err
		}

		items = append(items, domain.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Quantity:   line.Quantity,
			UnitPrice:  menuItem.Price,
		})
		priced = append(priced, pricing.Line{
			Quantity:  line.Quantity,
			UnitPrice: menuItem.Price,
			Class:     menuItem.Category.PricingClass(),
		})
	}
	return items, s.pricer.Price(priced), nil
}

// afterMutation invalidates the kitchen snapshot and emits the lifecycle
// event. Both are best-effort: the store already holds the authoritative
// state, and the caller gets it back either way.
func (s *OrderService) afterMutation(ctx context.Context, eventType string, order *domain.Order) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Printf("[order-svc] failed to invalidate kitchen board: %v", err)
		}
	}
	if s.events != nil {
		event := domain.OrderEvent{
			Type:        eventType,
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Status:      order.Status,
			TotalAmount: order.TotalAmount,
			Timestamp:   time.Now(),
		}
		if err := s.events.PublishOrderEvent(ctx, event); err != nil {
			log.Printf("[order-svc] failed to publish %s event: %v", eventType, err)
		}
	}
}

var _ OrderServiceInterface = (*OrderService)(nil)
