package service

import (
	"context"
)

// Mail event types routed to the mail worker.
const (
	// MailEventUserRegistered is emitted after a successful registration.
	MailEventUserRegistered = "user-registered"
	// MailEventOrderConfirmed is emitted after an order reaches the confirmed state.
	MailEventOrderConfirmed = "order-confirmed"
)

// MailEvent represents a notification to be delivered by the mail worker.
type MailEvent struct {
	RequestID string `json:"request_id,omitempty"` // For distributed tracing
	Type      string `json:"type"`                 // One of the MailEvent* constants
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	OrderID   string `json:"order_id,omitempty"`  // Set for order events
	TotalSum  int    `json:"total_sum,omitempty"` // Order total in minor units, set for order events
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishMailEvent publishes a mail event for async delivery
	PublishMailEvent(ctx context.Context, event *MailEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
