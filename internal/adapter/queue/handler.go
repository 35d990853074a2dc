package queue

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes a single delivery. Handlers must be idempotent:
// nil => ACK; error => NACK (requeue behavior is the Router's call).
type Handler interface {
	Handle(ctx context.Context, d amqp.Delivery) error
}
