// Package events публикует доменные события MoneyLens: регистрацию
// пользователя и изменения операций. Подписчики (аналитика, уведомления)
// получают их через RabbitMQ, ключ маршрутизации совпадает с типом события.
package events

import (
	"context"
	"time"

	"github.com/magabrotheeeer/moneylens/internal/models"
)

// Типы событий.
const (
	UserRegistered   = "user.registered"
	OperationCreated = "operation.created"
	OperationUpdated = "operation.updated"
	OperationDeleted = "operation.deleted"
)

// Event — сообщение о произошедшем изменении.
type Event struct {
	Type        string            `json:"type"`
	Login       string            `json:"login"`
	OperationID string            `json:"operationId,omitempty"`
	Operation   *models.Operation `json:"operation,omitempty"`
	At          time.Time         `json:"at"`
}

// Publisher отправляет события.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Noop ничего не публикует. Используется, когда брокер не настроен.
type Noop struct{}

// Publish ничего не делает.
func (Noop) Publish(context.Context, Event) error { return nil }
