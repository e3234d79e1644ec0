package events

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/moneylens/internal/lib/rabbitmq"
)

// RabbitPublisher публикует события в topic exchange RabbitMQ.
type RabbitPublisher struct {
	ch       rabbitmq.Channel
	exchange string
}

// NewRabbitPublisher создает публикатор поверх открытого канала.
func NewRabbitPublisher(ch rabbitmq.Channel, exchange string) *RabbitPublisher {
	return &RabbitPublisher{ch: ch, exchange: exchange}
}

// Publish отправляет событие с ключом маршрутизации event.Type.
func (p *RabbitPublisher) Publish(ctx context.Context, event Event) error {
	const op = "events.RabbitPublisher.Publish"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := rabbitmq.PublishMessage(p.ch, p.exchange, event.Type, event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
