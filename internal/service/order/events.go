package order

import "time"

// Event type discriminators carried in published payloads.
const EventOrderCreated = "order.created"

// OrderCreatedEvent is emitted when a new order is persisted.
type OrderCreatedEvent struct {
	Type         string    `json:"type"`
	ID           int64     `json:"id"`
	Number       string    `json:"no_order"`
	CustomerName string    `json:"nama_pemesan"`
	CreatedAt    time.Time `json:"created_at"`
}
