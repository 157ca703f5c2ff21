package domain

import "time"

const (
	EventOrderCreated       = "order_created"
	EventOrderUpdated       = "order_updated"
	EventOrderStatusChanged = "order_status_changed"
	EventOrderDeleted       = "order_deleted"
)

// OrderEvent is the message published on every order mutation. The kitchen
// consumer uses it to refresh the cached board snapshot.
type OrderEvent struct {
	Type        string      `json:"type"`
	OrderID     int         `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	Status      OrderStatus `json:"status"`
	TotalAmount int64       `json:"total_amount"`
	Timestamp   time.Time   `json:"timestamp"`
}
