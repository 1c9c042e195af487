// Package notifier publishes notification intents to RabbitMQ. Delivery is
// someone else's job; the engine only records that a message should go out.
package notifier

import (
	"context"
	"encoding/json"
	"time"

	"drivebook/internal/pkg/errs"
	"drivebook/internal/usecase/commands"

	amqp "github.com/rabbitmq/amqp091-go"
)

const intentQueue = "notification.intents"

type intentMessage struct {
	StudentID    string `json:"student_id"`
	TemplateKind string `json:"template_kind"`
	SendAt       string `json:"send_at"`
}

type RabbitMQNotifier struct {
	conn *amqp.Connection
}

func NewRabbitMQNotifier(conn *amqp.Connection) *RabbitMQNotifier {
	return &RabbitMQNotifier{conn: conn}
}

func (n *RabbitMQNotifier) EnqueueIntent(ctx context.Context, intent commands.NotificationIntent) error {
	if n.conn == nil {
		return errs.New("notifier connection not configured")
	}

	ch, err := n.conn.Channel()
	if err != nil {
		return errs.Wrap(err, "failed to open channel")
	}
	defer func() { _ = ch.Close() }()

	// Durable so intents survive broker restarts.
	if _, err := ch.QueueDeclare(intentQueue, true, false, false, false, nil); err != nil {
		return errs.Wrap(err, "failed to declare intent queue")
	}

	body, err := json.Marshal(intentMessage{
		StudentID:    intent.StudentID.String(),
		TemplateKind: intent.TemplateKind,
		SendAt:       intent.SendAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return errs.Wrap(err, "failed to marshal intent")
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", intentQueue, false, false, pub); err != nil {
		return errs.Wrap(err, "failed to publish intent")
	}
	return nil
}
