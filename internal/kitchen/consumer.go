package kitchen

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/yoshii-hideaki/mikan-order/internal/domain"
)

type OrderLister interface {
	ListOrders(withItems bool) ([]domain.Order, error)
}

type BoardWriter interface {
	SetBoard(ctx context.Context, orders []domain.Order) error
}

// Consumer keeps the kitchen board snapshot warm: every order lifecycle
// event triggers a rebuild from the store, so polling terminals mostly hit
// the cache.
type Consumer struct {
	Reader *kafka.Reader
	Orders OrderLister
	Board  BoardWriter
}

func NewConsumer(reader *kafka.Reader, orders OrderLister, board BoardWriter) *Consumer {
	return &Consumer{
		Reader: reader,
		Orders: orders,
		Board:  board,
	}
}

func (c *Consumer) Start(ctx context.Context) {
	log.Println("Starting kitchen board consumer...")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Error reading message: %v", err)
			continue
		}

		var event domain.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("Error unmarshaling event: %v", err)
			continue
		}

		c.ProcessEvent(ctx, event)
	}
}

func (c *Consumer) ProcessEvent(ctx context.Context, event domain.OrderEvent) {
	switch event.Type {
	case domain.EventOrderCreated, domain.EventOrderUpdated,
		domain.EventOrderStatusChanged, domain.EventOrderDeleted:
	default:
		return
	}

	log.Printf("Processing %s for order %s", event.Type, event.OrderNumber)
	if err := c.Refresh(ctx); err != nil {
		log.Printf("Error refreshing kitchen board: %v", err)
	}
}

// Refresh rebuilds the cached snapshot from the authoritative store.
func (c *Consumer) Refresh(ctx context.Context) error {
	orders, err := c.Orders.ListOrders(true)
	if err != nil {
		return err
	}
	return c.Board.SetBoard(ctx, orders)
}
