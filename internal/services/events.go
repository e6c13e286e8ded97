package services

import (
	"time"

	"productmanager/internal/models"
)

// Routing keys of the product events.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// EventPublisher delivers an encoded event under a routing key.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// ProductEvent describes a change to the catalog.
type ProductEvent struct {
	Type       string          `json:"type"`
	ProductID  int             `json:"product_id"`
	Product    *models.Product `json:"product,omitempty"` // nil for deletions
	OccurredAt time.Time       `json:"occurred_at"`
}
