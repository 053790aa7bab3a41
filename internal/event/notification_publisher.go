package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"ecoinsure/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DecisionExchange is the topic exchange for decision events: claims routed,
// policies transitioned, loans decided. Consumers bind per role, e.g.
// "decision.insurer.#".
const DecisionExchange = "decision_events"

// DecisionEvent is the notification payload fanned out to the dashboard
// roles affected by a lifecycle decision.
type DecisionEvent struct {
	EventType   string            `json:"event_type"`
	EntityID    string            `json:"entity_id"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	TargetRoles []models.UserRole `json:"target_roles"`
	Timestamp   time.Time         `json:"timestamp"`
}

// routingKey derives the per-role topic key a decision event is published
// under: decision.<role>.<event_type>.
func routingKey(role models.UserRole, eventType string) string {
	return fmt.Sprintf("decision.%s.%s", role, eventType)
}

// NotificationPublisher publishes decision events to RabbitMQ. Publishing is
// best-effort: workflows never fail because a notification could not be sent.
type NotificationPublisher struct {
	conn              *RabbitMQConnection
	messagesPublished atomic.Int64
	messagesFailed    atomic.Int64
}

func NewNotificationPublisher(conn *RabbitMQConnection) *NotificationPublisher {
	return &NotificationPublisher{conn: conn}
}

// Publish fans a decision event out to the topic exchange, one message per
// target role.
func (p *NotificationPublisher) Publish(ctx context.Context, event DecisionEvent) error {
	err := p.conn.Channel.ExchangeDeclare(
		DecisionExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("failed to marshal decision event: %w", err)
	}

	for _, role := range event.TargetRoles {
		key := routingKey(role, event.EventType)
		err = p.conn.Channel.PublishWithContext(
			ctx,
			DecisionExchange,
			key,
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				DeliveryMode: amqp.Persistent,
				ContentType:  "application/json",
				Body:         body,
				Timestamp:    time.Now(),
			},
		)
		if err != nil {
			p.messagesFailed.Add(1)
			return fmt.Errorf("failed to publish decision event to %s: %w", key, err)
		}
		p.messagesPublished.Add(1)
	}

	slog.Info("Decision event published",
		"exchange", DecisionExchange,
		"event_type", event.EventType,
		"entity_id", event.EntityID,
		"role_count", len(event.TargetRoles),
	)

	return nil
}

// GetMetrics returns publisher counters for the health endpoint.
func (p *NotificationPublisher) GetMetrics() map[string]any {
	return map[string]any{
		"messages_published": p.messagesPublished.Load(),
		"messages_failed":    p.messagesFailed.Load(),
		"exchange":           DecisionExchange,
	}
}
