package service

import (
	"context"

	"github.com/yoshii-hideaki/mikan-order/internal/domain"
	"github.com/yoshii-hideaki/mikan-order/internal/storage"
)

type MenuRepository interface {
	CreateMenuItem(item *domain.MenuItem) error
	ListMenuItems() ([]domain.MenuItem, error)
	GetMenuItem(id int) (*domain.MenuItem, error)
	DeleteMenuItem(id int) (int64, error)
	CountMenuItems() (int, error)
}

type OrderRepository interface {
	NextOrderNumber() (int64, error)
	CreateOrder(order *domain.Order) error
	ReplaceOrder(order *domain.Order) error
	UpdateOrderStatus(id int, status domain.OrderStatus) error
	GetOrder(id int) (*domain.Order, error)
	ListOrders(withItems bool) ([]domain.Order, error)
	DeleteOrder(id int) (int64, error)
	SaveQRCode(orderID int, qr []byte) error
	GetQRCode(orderID int) ([]byte, error)
	DailySummary(date string) (*domain.DailySummary, error)
}

// BoardCache is the kitchen view's snapshot cache. The lifecycle manager
// only ever invalidates it; reconciling a fresh view is the reader's job.
type BoardCache interface {
	Board(ctx context.Context) ([]domain.Order, bool, error)
	SetBoard(ctx context.Context, orders []domain.Order) error
	Invalidate(ctx context.Context) error
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type MenuServiceInterface interface {
	Create(item *domain.MenuItem) error
	List() ([]domain.MenuItem, error)
	Get(id int) (*domain.MenuItem, error)
	Delete(id int) (int64, error)
	SeedDefaults() error
}

type OrderServiceInterface interface {
	Create(ctx context.Context, orderNumber string, lines []domain.OrderLine) (*domain.Order, error)
	Get(id int) (*domain.Order, error)
	List(withItems bool) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error)
	Edit(ctx context.Context, id int, orderNumber string, status domain.OrderStatus, lines []domain.OrderLine) (*domain.Order, error)
	Delete(ctx context.Context, id int) error
	KitchenBoard(ctx context.Context) ([]domain.Order, error)
	QRCode(orderID int) ([]byte, error)
	Summary(date string) (*domain.DailySummary, error)
}

var _ OrderRepository = (*storage.PostgresRepository)(nil)
var _ MenuRepository = (*storage.PostgresRepository)(nil)
var _ BoardCache = (*storage.BoardCache)(nil)
var _ EventPublisher = (*storage.KafkaPublisher)(nil)
